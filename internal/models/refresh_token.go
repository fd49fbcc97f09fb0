package models

import "time"

// RefreshToken — серверная запись refresh-токена для управления сессиями.
//
// Сырое значение токена в БД не попадает: хранится только его
// односторонний хэш (sha256 → base64url). Запись пригодна к использованию
// тогда и только тогда, когда Revoked == false и ExpiresAt ещё не наступил;
// физическое удаление просроченных/отозванных строк — housekeeping,
// а не условие корректности.
type RefreshToken struct {
	// TokenHash — односторонний хэш сырого токена.
	TokenHash string
	// UserID — владелец токена; у пользователя может быть несколько
	// одновременных сессий (по записи на каждую).
	UserID int64
	// CreatedAt — момент выпуска (UTC).
	CreatedAt time.Time
	// ExpiresAt — абсолютный срок действия (UTC).
	ExpiresAt time.Time
	// Revoked — признак отзыва (logout).
	Revoked bool
}

// Usable сообщает, пригоден ли токен к использованию в момент now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
