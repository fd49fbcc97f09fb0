package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nlanzo/recipe-app/internal/transport/http/httperr"
)

// validatorFunc — адаптер для TokenValidator в тестах.
type validatorFunc func(token string) (int64, error)

func (f validatorFunc) ValidateAccessToken(token string) (int64, error) { return f(token) }

func errBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body httperr.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func okHandler(t *testing.T, wantUserID int64) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFrom(r.Context())
		require.True(t, ok)
		require.Equal(t, wantUserID, id)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	v := validatorFunc(func(string) (int64, error) {
		t.Fatal("validator must not be called without a header")
		return 0, nil
	})

	h := Authenticate(v)(okHandler(t, 0))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httperr.MsgAuthRequired, errBody(t, rec))
}

func TestAuthenticate_NotBearer(t *testing.T) {
	t.Parallel()

	v := validatorFunc(func(string) (int64, error) { return 0, nil })
	h := Authenticate(v)(okHandler(t, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, httperr.MsgAuthRequired, errBody(t, rec))
}

func TestAuthenticate_EmptyBearer(t *testing.T) {
	t.Parallel()

	v := validatorFunc(func(string) (int64, error) { return 0, nil })
	h := Authenticate(v)(okHandler(t, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer   ")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	t.Parallel()

	v := validatorFunc(func(string) (int64, error) {
		return 0, errors.New("bad signature")
	})
	h := Authenticate(v)(okHandler(t, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer bogus")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Невалидный токен отличим от отсутствующего: 403, не 401.
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, httperr.MsgInvalidAccessToken, errBody(t, rec))
}

func TestAuthenticate_OK_PutsUserIDInContext(t *testing.T) {
	t.Parallel()

	v := validatorFunc(func(token string) (int64, error) {
		require.Equal(t, "good-token", token)
		return 42, nil
	})
	h := Authenticate(v)(okHandler(t, 42))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserIDFrom_AbsentContext(t *testing.T) {
	t.Parallel()

	_, ok := UserIDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.False(t, ok)
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-supplied-id")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-Id"))
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	t.Parallel()

	h := Recover()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom: secret internal detail")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, httperr.MsgInternal, errBody(t, rec))
	require.NotContains(t, rec.Body.String(), "secret internal detail")
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mk("outer"), mk("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
