// service содержит бизнес-логику аутентификации recipe-app:
// регистрацию/вход пользователей, выпуск/проверку/отзыв токенов
// и работу с хранилищем через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Refresh-токен при обновлении НЕ ротируется: предъявление валидного
//     refresh-токена выпускает только новый access-токен, сам refresh-токен
//     действует до естественного истечения или явного отзыва. Это
//     сознательный компромисс (простота вместо защиты от replay через
//     ротацию), менять его без явного требования нельзя.
//   - Ошибки возвращаются как сентинелы и далее маппятся HTTP-слоем
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/nlanzo/recipe-app/internal/cache"
	"github.com/nlanzo/recipe-app/internal/config"
	"github.com/nlanzo/recipe-app/internal/storage"
)

var (
	// ErrInvalidCredentials — пара email/пароль неверна или пользователь не найден.
	// HTTP: 401 с одинаковым сообщением для обоих случаев (защита от перечисления аккаунтов).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или отсутствует в хранилище. HTTP: 401 для refresh, 403 для access.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP: как у ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — refresh-токен отозван (logout) и недействителен
	// независимо от срока. HTTP: 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrEmailTaken — e-mail уже занят другим пользователем. HTTP: 400.
	ErrEmailTaken = errors.New("email already taken")

	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный refresh-токен
	// (редкий случай коллизий при сохранении хэша в БД после нескольких ретраев).
	// HTTP: 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")

	// ErrInvalidEmail — e-mail имеет некорректный формат. HTTP: 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidUsername — имя пользователя пустое или длиннее лимита. HTTP: 400.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности. HTTP: 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. HTTP: 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику аутентификации.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	rcache  cache.RefreshCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) {
	s.rcache = c
}
