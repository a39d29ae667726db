package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondErrorMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// Specific errors first, then the kinds they wrap.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "Email already registered"},
	{domain.ErrProfileExists, http.StatusConflict, "Profile already exists"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrProfileNotFound, http.StatusNotFound, "Profile not found"},
	{domain.ErrAuth, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrDuplicate, http.StatusConflict, "Already exists"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found"},
}

// respondError maps err onto a status code and a client-safe message.
// Anything unrecognized is logged and reported as a 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondErrorMessage(w, http.StatusBadRequest, verr.Message)
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			respondErrorMessage(w, e.status, e.message)
			return
		}
	}

	log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondErrorMessage(w, http.StatusInternalServerError, "Internal server error")
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when it is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return nil
}
