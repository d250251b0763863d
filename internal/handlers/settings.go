package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type SettingsHandler struct {
	settingsService services.SettingsServiceInterface
}

func NewSettingsHandler(settingsService services.SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	settings, err := h.settingsService.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "get settings", err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var patch models.SocialSettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Searchable == nil && patch.ShowFavoritesOnPublic == nil && patch.ProfilePublic == nil {
		writeError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	settings, err := h.settingsService.Update(r.Context(), user.ID, patch)
	if err != nil {
		writeServiceError(w, "update settings", err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}
