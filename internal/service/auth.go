package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nlanzo/recipe-app/internal/models"
	"github.com/nlanzo/recipe-app/internal/pkg/log"
	"github.com/nlanzo/recipe-app/internal/storage"
)

const maxUsernameLen = 64

// RegisterUser регистрирует нового пользователя и выпускает пару токенов.
func (s *Service) RegisterUser(ctx context.Context, username, email, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.RegisterUser"

	normUsername, err := validateUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     normUsername,
		Email:        normEmail,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.storage.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// LoginUser выполняет вход по email+пароль.
// Для неизвестного email и неверного пароля возвращается один и тот же
// ErrInvalidCredentials — по ответу нельзя перечислять аккаунты.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.LoginUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// RefreshToken выпускает новый access-токен по предъявленному refresh-токену.
// Сам refresh-токен НЕ ротируется и остаётся действительным до
// естественного истечения или отзыва.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.AccessToken, error) {
	const op = "service.auth.RefreshToken"

	token, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	accessToken, err := s.generateAccessToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.AccessToken{
		Token:     accessToken,
		ExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// RevokeToken отзывает refresh-токен (logout).
// Идемпотентна и молчалива: повторный отзыв и отзыв неизвестного токена —
// no-op, ошибка возвращается только при сбое хранилища.
func (s *Service) RevokeToken(ctx context.Context, refreshToken string) error {
	const op = "service.auth.RevokeToken"

	hash := hashRefreshToken(refreshToken)

	if err := s.storage.RevokeRefreshToken(ctx, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.rcache != nil {
		if err := s.rcache.MarkRevoked(ctx, hash); err != nil {
			log.From(ctx).Warn("refresh_cache_revoke_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return nil
}

// ValidateAccessToken проверяет access-токен и возвращает id пользователя.
func (s *Service) ValidateAccessToken(accessToken string) (int64, error) {
	const op = "service.auth.ValidateAccessToken"

	uid, err := s.validateAccessToken(accessToken)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return uid, nil
}

// CurrentUser возвращает пользователя по id из валидированного access-токена.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "service.auth.CurrentUser"

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ChangePassword меняет пароль пользователя после проверки текущего.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	const op = "service.auth.ChangePassword"

	if err := validatePassword(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, current) {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateUserPassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// hashPassword хэширует пароль с помощью bcrypt (cost 10).
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем. Отказ всегда молчаливый (false):
// ни причина, ни plaintext наружу не выходят.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validateUsername проверяет имя пользователя.
func validateUsername(raw string) (string, error) {
	const op = "service.auth.validateUsername"

	username := strings.TrimSpace(raw)
	if username == "" || len([]rune(username)) > maxUsernameLen {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	return username, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8 символов.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Выпуск не отзывает прежние сессии пользователя: несколько одновременных
// сессий допустимы. После выпуска выполняется best-effort housekeeping.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plain, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.housekeep(ctx)

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    plain,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// housekeep — best-effort удаление отозванных/просроченных refresh-токенов.
// Вызывается оппортунистически после выпуска токенов; ошибка только логируется.
func (s *Service) housekeep(ctx context.Context) {
	const op = "service.auth.housekeep"

	deleted, err := s.storage.PurgeExpiredOrRevoked(ctx, time.Now().UTC())
	if err != nil {
		log.From(ctx).Warn("refresh_purge_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}

	if deleted > 0 {
		log.From(ctx).Debug("refresh_purged",
			slog.String("op", op),
			slog.Int64("deleted", deleted),
		)
	}
}
