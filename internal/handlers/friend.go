package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
	feedService   services.FeedServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface, feedService services.FeedServiceInterface) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		feedService:   feedService,
	}
}

type SendRequestRequest struct {
	TargetUserID string `json:"target_user_id"`
}

type UserSearchResponse struct {
	Users []models.UserSearchResult `json:"users"`
}

// List returns the caller's network in one shot: accepted friends plus the
// first page of incoming and outgoing pending requests.
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	snapshot, err := h.feedService.NetworkSnapshot(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list friends", err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := r.URL.Query().Get("q")
	if len(strings.TrimSpace(query)) < 2 {
		writeJSON(w, http.StatusOK, UserSearchResponse{Users: []models.UserSearchResult{}})
		return
	}

	users, err := h.friendService.SearchUsers(r.Context(), user.ID, query)
	if err != nil {
		writeServiceError(w, "search users", err)
		return
	}

	writeJSON(w, http.StatusOK, UserSearchResponse{Users: users})
}

func (h *FriendHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "username parameter is required")
		return
	}

	result, err := h.friendService.Lookup(r.Context(), user.ID, username)
	if err != nil {
		writeServiceError(w, "lookup user", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *FriendHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	otherID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	status, err := h.friendService.Status(r.Context(), user.ID, otherID)
	if err != nil {
		writeServiceError(w, "friendship status", err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target user ID")
		return
	}

	friendship, err := h.friendService.Request(r.Context(), user.ID, targetID)
	if err != nil {
		writeServiceError(w, "send friend request", err)
		return
	}

	writeJSON(w, http.StatusCreated, friendship)
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	friendshipID, err := parseFriendshipID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friendship ID")
		return
	}

	friendship, err := h.friendService.Accept(r.Context(), user.ID, friendshipID)
	if err != nil {
		writeServiceError(w, "accept friend request", err)
		return
	}

	writeJSON(w, http.StatusOK, friendship)
}

func (h *FriendHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	friendshipID, err := parseFriendshipID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friendship ID")
		return
	}

	if err := h.friendService.Reject(r.Context(), user.ID, friendshipID); err != nil {
		writeServiceError(w, "reject friend request", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend request rejected"})
}

func (h *FriendHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	friendshipID, err := parseFriendshipID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friendship ID")
		return
	}

	if err := h.friendService.Cancel(r.Context(), user.ID, friendshipID); err != nil {
		writeServiceError(w, "cancel friend request", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend request canceled"})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	friendshipID, err := parseFriendshipID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friendship ID")
		return
	}

	if err := h.friendService.Remove(r.Context(), user.ID, friendshipID); err != nil {
		writeServiceError(w, "remove friend", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend removed"})
}

func parseFriendshipID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
