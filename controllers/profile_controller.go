package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golfmatch_server/models"
	"golfmatch_server/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// UserProfileController handles golfer profile requests
type UserProfileController struct {
	Profiles     *services.UserProfileService
	Interactions *services.InteractionService
}

func NewUserProfileController(profiles *services.UserProfileService, interactions *services.InteractionService) *UserProfileController {
	return &UserProfileController{Profiles: profiles, Interactions: interactions}
}

// CreateProfile handles new profile submissions
func (c *UserProfileController) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	created, err := c.Profiles.CreateProfile(r.Context(), profile)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			http.Error(w, `{"error": "Profile failed validation"}`, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("❌ Failed to create profile")
		http.Error(w, `{"error": "Failed to create profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Profile created successfully",
		"profile": created,
	})
}

// GetProfile fetches a profile by user id
func (c *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// UpdateProfile applies a partial update to a profile
func (c *UserProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	updated, err := c.Profiles.UpdateProfile(r.Context(), userID, updates)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to update profile for %s", userID)
		http.Error(w, `{"error": "Failed to update profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": updated,
	})
}

// DeleteProfile removes a profile
func (c *UserProfileController) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := c.Profiles.DeleteProfile(r.Context(), userID); err != nil {
		http.Error(w, `{"error": "Failed to delete profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Profile deleted successfully",
	})
}

// GetCandidates returns profiles the user can still discover
func (c *UserProfileController) GetCandidates(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID     string `json:"userId"`
		SkillLevel string `json:"skillLevel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	candidates, err := c.Profiles.GetCandidates(r.Context(), request.UserID, request.SkillLevel, c.Interactions)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to fetch candidates for %s", request.UserID)
		http.Error(w, `{"error": "Failed to fetch candidates"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(candidates)
}
