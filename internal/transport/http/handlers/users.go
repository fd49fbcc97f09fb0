package handlers

import (
	"net/http"

	"github.com/nlanzo/recipe-app/internal/transport/http/httperr"
	"github.com/nlanzo/recipe-app/internal/transport/http/middleware"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Me обрабатывает GET /api/users/me (защищённый эндпойнт).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.MsgAuthRequired)
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		httperr.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		User userPayload `json:"user"`
	}{User: userFromModel(user)})
}

// ChangePassword обрабатывает PUT /api/users/password (защищённый эндпойнт).
// Текущий пароль проверяется перед заменой; ошибка проверки неотличима
// от неверного логина (401 "Invalid credentials").
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.MsgAuthRequired)
		return
	}

	var in changePasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.MsgInvalidInput)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, in.CurrentPassword, in.NewPassword); err != nil {
		httperr.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
