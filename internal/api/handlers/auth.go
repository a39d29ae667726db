package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/profile-feed/internal/api/middleware"
	"github.com/dom/profile-feed/internal/config"
	"github.com/dom/profile-feed/internal/domain"
	"github.com/dom/profile-feed/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.Info().Str("user_id", result.User.ID.String()).Msg("user signed up")
	h.setSession(w, result.Token)
	respondJSON(w, http.StatusCreated, UserResponse{
		ID:    result.User.ID.String(),
		Email: result.User.Email,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.setSession(w, result.Token)
	respondJSON(w, http.StatusOK, UserResponse{
		ID:    result.User.ID.String(),
		Email: result.User.Email,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.Me(r.Context(), identity.UserID)
	if err != nil {
		// A valid token for a deleted account is still not a session.
		if errors.Is(err, domain.ErrNotFound) {
			respondErrorMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	respondJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// DeleteAccount removes the caller's user, profile and interests after
// re-checking the password.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req DeleteAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := h.authService.DeleteAccount(r.Context(), identity.UserID, req.Password); err != nil {
		respondError(w, r, err)
		return
	}

	log.Info().Str("user_id", identity.UserID.String()).Msg("account deleted")
	h.clearSession(w)
	respondJSON(w, http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}

func (h *AuthHandler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
