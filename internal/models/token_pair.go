package models

import "time"

// TokenPair — пара токенов, выдаваемая при регистрации/входе.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — случайный секрет, который клиент хранит (HttpOnly-cookie)
//     и предъявляет для выпуска нового access-токена; на сервере хранится
//     только его хэш, само значение отдаётся ровно один раз;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — случайный секрет для обновления access-токена.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
