package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type BlockHandler struct {
	blockService services.BlockServiceInterface
}

func NewBlockHandler(blockService services.BlockServiceInterface) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

type BlockActionRequest struct {
	Action       string `json:"action"`
	TargetUserID string `json:"target_user_id"`
}

type BlockListResponse struct {
	Blocked []models.BlockedUser `json:"blocked"`
}

// Action handles both block and unblock. Both directions are idempotent, so
// replaying the same action always succeeds.
func (h *BlockHandler) Action(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req BlockActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target user ID")
		return
	}

	switch req.Action {
	case "block":
		err = h.blockService.Block(r.Context(), user.ID, targetID)
	case "unblock":
		err = h.blockService.Unblock(r.Context(), user.ID, targetID)
	default:
		writeError(w, http.StatusBadRequest, "Action must be block or unblock")
		return
	}
	if err != nil {
		writeServiceError(w, "block action", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User " + req.Action + "ed"})
}

func (h *BlockHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blocked, err := h.blockService.ListBlocked(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list blocked users", err)
		return
	}
	if blocked == nil {
		blocked = []models.BlockedUser{}
	}

	writeJSON(w, http.StatusOK, BlockListResponse{Blocked: blocked})
}
