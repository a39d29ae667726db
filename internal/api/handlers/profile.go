package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dom/profile-feed/internal/api/middleware"
	"github.com/dom/profile-feed/internal/domain"
	"github.com/dom/profile-feed/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileLookupRequest names the profile owner when no session is present
type ProfileLookupRequest struct {
	UserID string `json:"userId"`
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req service.CreateProfileInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := h.profileService.CreateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.Info().Str("user_id", identity.UserID.String()).Msg("profile created")
	respondJSON(w, http.StatusCreated, profile)
}

// Get returns the caller's profile with the owner's public fields. Without a
// session the owner may be named by a {"userId"} body.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	view, err := h.profileService.GetProfile(r.Context(), userID, true)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) resolveOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		return identity.UserID, true
	}

	// An empty body is a missing identity, not a malformed request.
	var req ProfileLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return uuid.Nil, false
	}
	if req.UserID == "" {
		respondErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// GetByID returns the public profile of the user named in the path.
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	view, err := h.profileService.GetProfile(r.Context(), userID, false)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req service.UpdateProfileInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if _, err := h.profileService.DeleteProfile(r.Context(), identity.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	log.Info().Str("user_id", identity.UserID.String()).Msg("profile deleted")
	w.WriteHeader(http.StatusNoContent)
}

// Feed lists other users' profiles, newest first.
func (h *ProfileHandler) Feed(w http.ResponseWriter, r *http.Request) {
	opts := domain.FeedOptions{
		Limit:  queryInt(r, "limit", service.DefaultFeedLimit),
		Offset: queryInt(r, "offset", 0),
	}
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		opts.ExcludeUserID = &identity.UserID
	}

	profiles, err := h.profileService.Feed(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profiles)
}
