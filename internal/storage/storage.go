package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nlanzo/recipe-app/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/refresh-token).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя и возвращает присвоенный БД id.
	SaveUser(ctx context.Context, user *models.User) (int64, error)
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id int64) (*models.User, error)
	// UpdateUserPassword заменяет хэш пароля пользователя.
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новый refresh-токен.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит refresh-токен по его хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// RevokeRefreshToken помечает токен отозванным. Идемпотентна:
	// повторный отзыв и отзыв несуществующего хэша — no-op, не ошибка.
	RevokeRefreshToken(ctx context.Context, hash string) error
	// PurgeExpiredOrRevoked удаляет строки с revoked=TRUE или expires_at<=now
	// и возвращает число удалённых записей.
	PurgeExpiredOrRevoked(ctx context.Context, now time.Time) (int64, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	Close()
}
