package handlers

import (
	"net/http"

	"github.com/nlanzo/recipe-app/internal/transport/http/httperr"
)

// refreshCookieName — имя HttpOnly-cookie с сырым refresh-токеном.
// Path ограничен /api/auth: другим эндпойнтам cookie не нужна.
const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User        userPayload `json:"user"`
	AccessToken string      `json:"accessToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register обрабатывает POST /api/auth/register.
// Успех: 200 {user, accessToken} + Set-Cookie refreshToken.
// Дубликат email и ошибки валидации: 400 {"error": ...}.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.MsgInvalidInput)
		return
	}

	pair, user, err := h.svc.RegisterUser(r.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{
		User:        userFromModel(user),
		AccessToken: pair.AccessToken,
	})
}

// Login обрабатывает POST /api/auth/login.
// Неверные учётные данные: 401 {"error":"Invalid credentials"} — сообщение
// одинаковое для неизвестного email и неверного пароля.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.MsgInvalidInput)
		return
	}

	pair, user, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{
		User:        userFromModel(user),
		AccessToken: pair.AccessToken,
	})
}

// Refresh обрабатывает POST /api/auth/refresh.
// Тело не читается: единственный вход — cookie refreshToken.
// Refresh-токен при этом не ротируется: в ответе только новый access-токен.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		httperr.Write(w, http.StatusUnauthorized, httperr.MsgInvalidRefreshToken)
		return
	}

	access, err := h.svc.RefreshToken(r.Context(), cookie.Value)
	if err != nil {
		httperr.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access.Token})
}

// Logout обрабатывает POST /api/auth/logout: отзывает refresh-токен из cookie
// и очищает её. Logout без cookie или с неизвестным токеном — тоже успех:
// операция идемпотентна.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.svc.RevokeToken(r.Context(), cookie.Value); err != nil {
			// Сбой хранилища: cookie не очищаем, клиент может повторить logout.
			httperr.WriteError(w, err)
			return
		}
	}

	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// setRefreshCookie выставляет HttpOnly-cookie с сырым refresh-токеном.
// SameSite=Strict + Secure (в prod) — cookie не уходит на сторонние сайты.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.opts.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
