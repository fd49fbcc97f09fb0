package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// User — представление пользователя в ответах API.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

type authResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// Register создаёт аккаунт и сразу аутентифицирует клиента:
// access-токен запоминается, refresh-cookie попадает в jar.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}

	return c.authCall(ctx, "/api/auth/register", body)
}

// Login выполняет вход по email+пароль.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	return c.authCall(ctx, "/api/auth/login", body)
}

// Logout отзывает refresh-токен на сервере и очищает локальное состояние.
// Локальный токен сбрасывается даже при сетевой ошибке: сессия для
// пользователя закончилась в любом случае.
func (c *Client) Logout(ctx context.Context) error {
	defer c.clearToken()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return nil
}

// Me возвращает текущего пользователя (защищённый эндпойнт, идёт через Do).
func (c *Client) Me(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out struct {
		User User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &out.User, nil
}

// authCall — общий путь register/login: POST JSON, запоминание access-токена.
func (c *Client) authCall(ctx context.Context, path string, body map[string]string) (*User, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out authResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	c.setToken(out.AccessToken)
	return &out.User, nil
}
