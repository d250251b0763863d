package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationHandler(notificationService services.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type MarkReadRequest struct {
	IDs  []string `json:"ids"`
	Read *bool    `json:"read"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	page, err := h.notificationService.List(r.Context(), user.ID, unreadOnly, parsePage(r))
	if err != nil {
		writeServiceError(w, "list notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// MarkRead flips the read state of the given notifications. The whole batch
// is rejected when any id belongs to another user.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid notification ID")
			return
		}
		ids = append(ids, id)
	}

	read := true
	if req.Read != nil {
		read = *req.Read
	}

	if err := h.notificationService.MarkRead(r.Context(), user.ID, ids, read); err != nil {
		writeServiceError(w, "mark notifications read", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Notifications updated"})
}
