package handlers

import (
	"net/http"

	"github.com/rotomdex/rotomdex/internal/services"
)

type PresenceHandler struct {
	presenceService services.PresenceServiceInterface
}

func NewPresenceHandler(presenceService services.PresenceServiceInterface) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// Heartbeat records the caller as active. Touch never surfaces storage
// errors, so this endpoint cannot fail once authenticated.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	_ = h.presenceService.Touch(r.Context(), user.ID)
	w.WriteHeader(http.StatusNoContent)
}
