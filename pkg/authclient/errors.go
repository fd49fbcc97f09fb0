package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrLoginRequired — терминальный отказ: refresh-токен отвергнут сервером,
// локальное состояние очищено, пользователя нужно отправить на вход.
var ErrLoginRequired = errors.New("login required")

// APIError — ошибка уровня API в формате {"error": "<message>"}.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// apiError читает тело ответа об ошибке и строит APIError.
func apiError(resp *http.Response) error {
	var out struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&out)

	if out.Error == "" {
		out.Error = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: out.Error}
}
