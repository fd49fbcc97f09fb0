package models

import "time"

// AccessToken — выпущенный access-токен.
// Нигде не персистится: валидность проверяется подписью и сроком действия.
type AccessToken struct {
	// Token — подписанный JWT.
	Token string
	// ExpiresAt — время истечения действия (UTC).
	ExpiresAt time.Time
}
