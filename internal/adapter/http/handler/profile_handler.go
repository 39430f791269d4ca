package handler

import (
	"encoding/json"
	"net/http"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/usecase"
)

// ProfileHandler handles business profile HTTP requests.
type ProfileHandler struct {
	profileUC *usecase.ProfileUseCase
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileUC *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC}
}

// Get returns the owner's business profile. An owner who never saved one
// gets empty fields, not an error.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.profileUC.GetProfile(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(profile))
}

// Update saves the owner's business profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	profile, err := h.profileUC.UpdateProfile(r.Context(), session, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update profile", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(profile))
}
