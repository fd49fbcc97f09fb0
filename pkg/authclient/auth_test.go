package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// authAPI — сервер со state'ом сессии: выдаёт refresh-cookie на
// register/login, меняет access-токен на refresh и отзывает cookie на logout.
type authAPI struct {
	mu          sync.Mutex
	accessSeq   int
	accessToken string
	refreshVal  string
	revoked     map[string]bool

	srv *httptest.Server
}

func newAuthAPI(t *testing.T) *authAPI {
	t.Helper()

	a := &authAPI{revoked: make(map[string]bool)}

	writeAuth := func(w http.ResponseWriter) {
		a.mu.Lock()
		a.accessSeq++
		a.accessToken = fmt.Sprintf("access-%d", a.accessSeq)
		a.refreshVal = fmt.Sprintf("refresh-%d", a.accessSeq)
		tok, refresh := a.accessToken, a.refreshVal
		a.mu.Unlock()

		http.SetCookie(w, &http.Cookie{
			Name:     "refreshToken",
			Value:    refresh,
			Path:     "/api/auth",
			HttpOnly: true,
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":        map[string]any{"id": 1, "username": "alice", "email": "alice@example.com"},
			"accessToken": tok,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) { writeAuth(w) })
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) { writeAuth(w) })
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refreshToken")

		a.mu.Lock()
		defer a.mu.Unlock()

		if err != nil || cookie.Value == "" || cookie.Value != a.refreshVal || a.revoked[cookie.Value] {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid refresh token"}`))
			return
		}

		a.accessSeq++
		a.accessToken = fmt.Sprintf("access-%d", a.accessSeq)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": a.accessToken})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			a.mu.Lock()
			a.revoked[cookie.Value] = true
			a.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Logged out successfully"}`))
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		tok := a.accessToken
		a.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+tok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 1, "username": "alice", "email": "alice@example.com"},
		})
	})

	a.srv = httptest.NewServer(mux)
	t.Cleanup(a.srv.Close)

	return a
}

func TestAuthFlow_RegisterMeLogout(t *testing.T) {
	t.Parallel()

	api := newAuthAPI(t)

	c, err := New(api.srv.URL)
	require.NoError(t, err)

	ctx := context.Background()

	user, err := c.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", me.Email)

	require.NoError(t, c.Logout(ctx))
	require.Empty(t, c.Token())

	// После logout refresh-cookie отозвана: Me завершается терминальным отказом.
	_, err = c.Me(ctx)
	require.ErrorIs(t, err, ErrLoginRequired)
}

func TestAuthFlow_ExpiredAccessRecoveredViaCookie(t *testing.T) {
	t.Parallel()

	api := newAuthAPI(t)

	c, err := New(api.srv.URL)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	// Сервер "протух" наш access-токен; у клиента остаётся refresh-cookie.
	api.mu.Lock()
	api.accessToken = "rotated-away"
	api.mu.Unlock()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", me.Username)
}

func TestLogin_InvalidCredentials_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice@example.com", "wrongpass")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Empty(t, c.Token())
}

func TestLogout_ClearsTokenEvenOnNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер уже мёртв

	c, err := New(srv.URL)
	require.NoError(t, err)
	c.setToken("live-token")

	require.Error(t, c.Logout(context.Background()))
	require.Empty(t, c.Token())
}
