package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteServiceInterface
}

func NewFavoriteHandler(favoriteService services.FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type FavoriteListResponse struct {
	Items      []models.Favorite `json:"items"`
	NextCursor *string           `json:"next_cursor"`
}

type FavoriteSyncRequest struct {
	Ops []models.FavoriteSyncOp `json:"ops"`
}

// List serves the caller's own favorites, or another user's public favorites
// when user_id is given. Public listings enforce the owner's visibility
// settings and block relations.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var entityType *models.FavoriteEntityType
	if raw := r.URL.Query().Get("entity_type"); raw != "" {
		t := models.FavoriteEntityType(raw)
		if !t.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown entity type")
			return
		}
		entityType = &t
	}

	page := parsePage(r)

	var (
		items      []models.Favorite
		nextCursor *string
		err        error
	)
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		ownerID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		items, nextCursor, err = h.favoriteService.ListPublic(r.Context(), user.ID, ownerID, entityType, page)
	} else {
		items, nextCursor, err = h.favoriteService.List(r.Context(), user.ID, entityType, page)
	}
	if err != nil {
		writeServiceError(w, "list favorites", err)
		return
	}
	if items == nil {
		items = []models.Favorite{}
	}

	writeJSON(w, http.StatusOK, FavoriteListResponse{Items: items, NextCursor: nextCursor})
}

func (h *FavoriteHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input models.FavoriteUpsertInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.favoriteService.Upsert(r.Context(), user.ID, input)
	if err != nil {
		writeServiceError(w, "upsert favorite", err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entityType := models.FavoriteEntityType(r.URL.Query().Get("entity_type"))
	entityID := r.URL.Query().Get("entity_id")
	if !entityType.Valid() || entityID == "" {
		writeError(w, http.StatusBadRequest, "entity_type and entity_id parameters are required")
		return
	}

	result, err := h.favoriteService.Remove(r.Context(), user.ID, entityType, entityID)
	if err != nil {
		writeServiceError(w, "remove favorite", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Sync replays a client's queued operations in order. Validation failures are
// reported per op; the batch as a whole still succeeds.
func (h *FavoriteHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req FavoriteSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.favoriteService.Sync(r.Context(), user.ID, req.Ops)
	if err != nil {
		writeServiceError(w, "sync favorites", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
