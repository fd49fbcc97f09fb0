// Package authclient — клиентская обёртка над API recipe-app.
//
// Обёртка держит текущий access-токен в памяти и прозрачно выполняет цикл
// refresh-then-retry: при отсутствии токена или отказе авторизации делается
// ровно одна попытка обновления и ровно один повтор исходного запроса.
// Конкурентные запросы, которым одновременно понадобился refresh, разделяют
// один сетевой вызов /api/auth/refresh (singleflight): параллельные вкладки
// и компоненты не плодят дублирующие обновления.
//
// Refresh-токен клиенту недоступен как значение: он живёт в HttpOnly-cookie
// и автоматически прикладывается cookie jar'ом.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultRefreshTimeout = 10 * time.Second

// Option настраивает Client при создании.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (должен иметь cookie jar,
// иначе refresh-cookie потеряется).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithOnAuthLost задаёт хук терминального отказа авторизации —
// сигнал "отправить пользователя на страницу входа". Сама обёртка
// навигацию не выполняет.
func WithOnAuthLost(f func()) Option {
	return func(c *Client) { c.onAuthLost = f }
}

// WithRefreshTimeout задаёт таймаут разделяемого refresh-вызова.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.refreshTimeout = d }
}

// RequestOption настраивает отдельный запрос через Do.
type RequestOption func(*requestOptions)

type requestOptions struct {
	silent bool
}

// Silent — режим для страниц, которые должны рендериться и без авторизации:
// отказ refresh не становится ошибкой. Запрос уходит без токена (или
// возвращается исходный 401), хук onAuthLost не вызывается.
func Silent() RequestOption {
	return func(o *requestOptions) { o.silent = true }
}

// Client — клиент API с автоматическим обновлением access-токена.
// Состояние токена принадлежит экземпляру (никаких глобальных переменных);
// экземпляр безопасен для конкурентного использования.
type Client struct {
	baseURL        string
	hc             *http.Client
	refreshTimeout time.Duration
	onAuthLost     func()

	mu          sync.Mutex
	accessToken string

	flight singleflight.Group
}

// New создаёт клиент для API по указанному базовому URL (без завершающего "/").
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:        baseURL,
		hc:             &http.Client{Jar: jar},
		refreshTimeout: defaultRefreshTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Token возвращает текущий access-токен ("" — токена нет).
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	c.accessToken = tok
	c.mu.Unlock()
}

func (c *Client) clearToken() {
	c.setToken("")
}

// Do выполняет защищённый запрос: прикладывает Bearer-токен, при отказе
// авторизации делает ровно одну попытку refresh и ровно один повтор.
// Второй отказ подряд возвращается вызывающему как есть — без дальнейших
// повторов (защита от бесконечного цикла).
//
// Запрос, прерванный своим контекстом, не ретраится, не трактуется как
// отказ авторизации и не влияет на разделяемое состояние refresh.
func (c *Client) Do(req *http.Request, opts ...RequestOption) (*http.Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	tok := c.Token()
	refreshSpent := false
	if tok == "" {
		refreshed, err := c.refreshAccessToken(req.Context())
		switch {
		case err == nil:
			tok = refreshed
		case isCtxErr(err):
			return nil, err
		case ro.silent:
			// Продолжаем без токена: страница должна отработать и для гостя.
			// Попытка refresh на этот вызов уже потрачена.
			refreshSpent = true
		default:
			c.authLost()
			return nil, ErrLoginRequired
		}
	}

	resp, err := c.send(req, tok)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	// Прерванный запрос — не отказ авторизации.
	if err := req.Context().Err(); err != nil {
		closeBody(resp)
		return nil, err
	}

	// Невосстановимое тело повторить нельзя — отдаём ответ как есть.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	// Отказ refresh перед запросом уже исчерпал единственную попытку
	// этого вызова: второй сетевой refresh не делаем.
	if refreshSpent {
		return resp, nil
	}

	newTok, rerr := c.refreshAccessToken(req.Context())
	if rerr != nil {
		if isCtxErr(rerr) {
			closeBody(resp)
			return nil, rerr
		}

		if ro.silent {
			return resp, nil
		}

		closeBody(resp)
		c.authLost()
		return nil, ErrLoginRequired
	}

	closeBody(resp)
	return c.send(req, newTok)
}

// send отправляет копию запроса с приложенным токеном.
// Тело восстанавливается через GetBody, чтобы запрос можно было повторить.
func (c *Client) send(req *http.Request, tok string) (*http.Response, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}

	if tok != "" {
		r.Header.Set("Authorization", "Bearer "+tok)
	}

	return c.hc.Do(r)
}

// refreshAccessToken — точка коалесценции: все конкурентные вызовы ждут один
// и тот же сетевой refresh. Сам вызов выполняется на отвязанном контексте,
// чтобы отмена одного из ожидающих не завалила общий полёт; ожидающий при
// этом отваливается по своему контексту, не трогая остальных.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	ch := c.flight.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return c.doRefresh(rctx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// doRefresh выполняет сетевой вызов /api/auth/refresh.
// Refresh-токен прикладывается cookie jar'ом.
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		// Сервер отверг refresh-токен: локальный токен больше не жилец.
		c.clearToken()
		return "", apiError(resp)
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	c.setToken(out.AccessToken)
	return out.AccessToken, nil
}

func (c *Client) authLost() {
	c.clearToken()
	if c.onAuthLost != nil {
		c.onAuthLost()
	}
}

func isCtxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
