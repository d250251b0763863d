package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type ReportHandler struct {
	reportService services.ReportServiceInterface
}

func NewReportHandler(reportService services.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type CreateReportRequest struct {
	TargetUserID string `json:"target_user_id"`
	Reason       string `json:"reason"`
}

type ReviewReportRequest struct {
	Resolution string `json:"resolution"`
}

type ReportListResponse struct {
	Items      []models.SocialReport `json:"items"`
	NextCursor *string               `json:"next_cursor"`
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target user ID")
		return
	}

	report, err := h.reportService.Report(r.Context(), user.ID, targetID, req.Reason)
	if err != nil {
		writeServiceError(w, "create report", err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !user.CanReviewReports() {
		writeError(w, http.StatusForbidden, "Moderator access required")
		return
	}

	var status *models.ReportStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ReportStatus(raw)
		if s != models.ReportStatusOpen && s != models.ReportStatusReviewed {
			writeError(w, http.StatusBadRequest, "Unknown report status")
			return
		}
		status = &s
	}

	items, nextCursor, err := h.reportService.List(r.Context(), status, parsePage(r))
	if err != nil {
		writeServiceError(w, "list reports", err)
		return
	}
	if items == nil {
		items = []models.SocialReport{}
	}

	writeJSON(w, http.StatusOK, ReportListResponse{Items: items, NextCursor: nextCursor})
}

func (h *ReportHandler) Review(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !user.CanReviewReports() {
		writeError(w, http.StatusForbidden, "Moderator access required")
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var req ReviewReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.reportService.Review(r.Context(), user.ID, reportID, req.Resolution)
	if err != nil {
		writeServiceError(w, "review report", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
