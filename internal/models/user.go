package models

import "time"

// User — модель пользователя в системе.
//
// ID генерируется базой данных (BIGINT IDENTITY) и неизменяем.
// Пароль хранится только в виде bcrypt-хэша; plaintext нигде не сохраняется.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
