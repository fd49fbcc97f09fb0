package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nlanzo/recipe-app/internal/models"
)

// AuthService — контракт бизнес-логики, который нужен HTTP-слою.
// Реализуется service.Service.
type AuthService interface {
	RegisterUser(ctx context.Context, username, email, password string) (*models.TokenPair, *models.User, error)
	LoginUser(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.AccessToken, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, id int64) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
}

// Options — параметры HTTP-слоя, влияющие на выдачу cookie.
type Options struct {
	// CookieSecure выставляет флаг Secure на refresh-cookie (включается в prod).
	CookieSecure bool
	// RefreshTTL — срок жизни refresh-cookie (Max-Age).
	RefreshTTL time.Duration
}

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	svc  AuthService
	opts Options
}

func New(svc AuthService, opts Options) *Handlers {
	return &Handlers{svc: svc, opts: opts}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// userPayload — представление пользователя в ответах API.
type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func userFromModel(u *models.User) userPayload {
	return userPayload{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}
