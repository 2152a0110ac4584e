package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickbite/backend/internal/auth"
	"github.com/quickbite/backend/internal/database"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondError maps the failure taxonomy onto HTTP statuses. Unrecognized
// errors are logged and reported as opaque 500s.
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrCategoryNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrAddressNotFound),
		errors.Is(err, database.ErrOTPNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrForbidden):
		respondMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrInvalidCredentials),
		errors.Is(err, database.ErrOTPInvalidCode),
		errors.Is(err, auth.ErrInvalidToken):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, database.ErrOTPAlreadyUsed),
		errors.Is(err, database.ErrOTPExpired),
		errors.Is(err, database.ErrValidation):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrConflict):
		respondMessage(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
