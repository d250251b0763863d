package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusReviewed ReportStatus = "reviewed"
)

type SocialReport struct {
	ID           uuid.UUID    `json:"id"`
	ReporterID   uuid.UUID    `json:"reporter_id"`
	TargetUserID uuid.UUID    `json:"target_user_id"`
	Reason       string       `json:"reason"`
	Status       ReportStatus `json:"status"`
	Resolution   *string      `json:"resolution,omitempty"`
	ReviewerID   *uuid.UUID   `json:"reviewer_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
}
