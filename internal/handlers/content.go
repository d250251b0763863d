package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type ContentHandler struct {
	contentService services.ContentServiceInterface
}

func NewContentHandler(contentService services.ContentServiceInterface) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

type CreatePostRequest struct {
	Body string `json:"body"`
}

type CreateCommentRequest struct {
	PostID string `json:"post_id"`
	Body   string `json:"body"`
}

type PostListResponse struct {
	Items      []models.SocialPost `json:"items"`
	NextCursor *string             `json:"next_cursor"`
}

type CommentListResponse struct {
	Items      []models.SocialComment `json:"items"`
	NextCursor *string                `json:"next_cursor"`
}

func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.contentService.CreatePost(r.Context(), user.ID, req.Body)
	if err != nil {
		writeServiceError(w, "create post", err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, nextCursor, err := h.contentService.ListPosts(r.Context(), user.ID, user.CanBypassModeration(), parsePage(r))
	if err != nil {
		writeServiceError(w, "list posts", err)
		return
	}
	if items == nil {
		items = []models.SocialPost{}
	}

	writeJSON(w, http.StatusOK, PostListResponse{Items: items, NextCursor: nextCursor})
}

func (h *ContentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.contentService.DeletePost(r.Context(), user.ID, user.CanBypassModeration(), postID); err != nil {
		writeServiceError(w, "delete post", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Post deleted"})
}

func (h *ContentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	comment, err := h.contentService.CreateComment(r.Context(), user.ID, postID, req.Body)
	if err != nil {
		writeServiceError(w, "create comment", err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *ContentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := uuid.Parse(r.URL.Query().Get("post_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	items, nextCursor, err := h.contentService.ListComments(r.Context(), user.ID, postID, user.CanBypassModeration(), parsePage(r))
	if err != nil {
		writeServiceError(w, "list comments", err)
		return
	}
	if items == nil {
		items = []models.SocialComment{}
	}

	writeJSON(w, http.StatusOK, CommentListResponse{Items: items, NextCursor: nextCursor})
}

func (h *ContentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	commentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	if err := h.contentService.DeleteComment(r.Context(), user.ID, user.CanBypassModeration(), commentID); err != nil {
		writeServiceError(w, "delete comment", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Comment deleted"})
}
