// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку сервиса, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей
//     (текст ошибок БД/криптографии до клиента не доходит).
//
// Формат тела ошибки фиксирован и ожидается фронтендом: {"error": "<message>"}.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nlanzo/recipe-app/internal/service"
)

// Фиксированные сообщения, на которые завязан фронтенд.
const (
	MsgInvalidCredentials  = "Invalid credentials"
	MsgAuthRequired        = "Authentication required"
	MsgInvalidAccessToken  = "Invalid token"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgEmailTaken          = "Email already in use"
	MsgInvalidInput        = "Invalid request"
	MsgWeakPassword        = "Password must be at least 8 characters"
	MsgInternal            = "Internal server error"
)

// ErrorResponse — корневой объект в ответе об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Write пишет ответ об ошибке с заданным статусом и сообщением.
func Write(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteError конвертирует доменную ошибку сервиса в HTTP-статус и
// унифицированный ответ для фронта.
//
// Маппинг:
//   - ErrInvalidCredentials -> 401 "Invalid credentials" (одно сообщение для
//     неизвестного email и неверного пароля);
//   - ErrEmailTaken и ошибки валидации -> 400;
//   - ErrInvalidToken/ErrTokenExpired/ErrTokenRevoked -> 401 "Invalid refresh token"
//     (для access-токенов статусы выставляет middleware.Authenticate);
//   - всё остальное -> 500 "Internal server error".
func WriteError(w http.ResponseWriter, err error) {
	status, msg := toHTTP(err)
	Write(w, status, msg)
}

func toHTTP(err error) (int, string) {
	switch {
	case err == nil:
		// Программная ошибка вызова: не маскируем баг "успешным" ответом.
		return http.StatusInternalServerError, MsgInternal
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, MsgEmailTaken
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, MsgInvalidInput
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, MsgWeakPassword
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, MsgInvalidRefreshToken
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
