package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nlanzo/recipe-app/internal/transport/http/httperr"
)

type ctxKeyUserID struct{}

// TokenValidator проверяет access-токен и возвращает id пользователя.
// Реализуется service.Service.
type TokenValidator interface {
	ValidateAccessToken(token string) (int64, error)
}

// Authenticate защищает эндпойнт: требует заголовок Authorization с Bearer-токеном.
// Отсутствие заголовка и присутствие невалидного токена различимы для клиента:
//   - нет заголовка/не Bearer -> 401 "Authentication required" (не залогинен);
//   - токен есть, но подпись/срок невалидны -> 403 "Invalid token" (сессия испорчена).
//
// При успехе id пользователя кладётся в контекст (см. UserIDFrom).
func Authenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			const prefix = "Bearer "
			if auth == "" || !strings.HasPrefix(auth, prefix) {
				httperr.Write(w, http.StatusUnauthorized, httperr.MsgAuthRequired)
				return
			}

			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				httperr.Write(w, http.StatusUnauthorized, httperr.MsgAuthRequired)
				return
			}

			userID, err := v.ValidateAccessToken(token)
			if err != nil {
				httperr.Write(w, http.StatusForbidden, httperr.MsgInvalidAccessToken)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom возвращает id пользователя, положенный Authenticate.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyUserID{}).(int64)
	return id, ok
}
