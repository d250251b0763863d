package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rotomdex/rotomdex/internal/models"
)

var (
	ErrCannotReportSelf     = errors.New("cannot report yourself")
	ErrInvalidReportReason  = errors.New("report reason must be 1-500 characters")
	ErrReportNotFound       = errors.New("report not found")
	ErrReportAlreadyHandled = errors.New("report has already been reviewed")
	ErrReportTargetMissing  = errors.New("reported user does not exist")
)

const maxReportReasonLen = 500

// ReportService owns the user-report workflow: anyone can open a report,
// only reviewers close one, and a closed report stays closed.
type ReportService struct {
	db DB
}

func NewReportService(db DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) Report(ctx context.Context, reporterID, targetUserID uuid.UUID, reason string) (*models.SocialReport, error) {
	if reporterID == targetUserID {
		return nil, ErrCannotReportSelf
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > maxReportReasonLen {
		return nil, ErrInvalidReportReason
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`,
		targetUserID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking report target: %w", err)
	}
	if !exists {
		return nil, ErrReportTargetMissing
	}

	report := &models.SocialReport{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO social_reports (reporter_id, target_user_id, reason)
		 VALUES ($1, $2, $3)
		 RETURNING id, reporter_id, target_user_id, reason, status, created_at`,
		reporterID, targetUserID, reason,
	).Scan(&report.ID, &report.ReporterID, &report.TargetUserID,
		&report.Reason, &report.Status, &report.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return report, nil
}

// List returns reports newest first, optionally filtered by status. The
// handler enforces the review permission before calling.
func (s *ReportService) List(ctx context.Context, status *models.ReportStatus, page Page) ([]models.SocialReport, *string, error) {
	limit := ClampLimit(page.Limit)

	conditions := []string{"true"}
	args := []any{}
	idx := 1

	if status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", idx))
		args = append(args, *status)
		idx++
	}

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, nil, err
		}
		rowID, err := cursor.UUIDID()
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(created_at, id) < ($%d, $%d::uuid)", idx, idx+1))
		args = append(args, cursor.CreatedAt, rowID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT id, reporter_id, target_user_id, reason, status, resolution, reviewer_id, created_at, reviewed_at
		 FROM social_reports
		 WHERE %s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d`,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	reports := []models.SocialReport{}
	for rows.Next() {
		var r models.SocialReport
		if err := rows.Scan(&r.ID, &r.ReporterID, &r.TargetUserID, &r.Reason,
			&r.Status, &r.Resolution, &r.ReviewerID, &r.CreatedAt, &r.ReviewedAt); err != nil {
			return nil, nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing reports: %w", err)
	}

	var nextCursor *string
	if len(reports) == limit {
		last := reports[len(reports)-1]
		encoded := EncodeCursor(last.CreatedAt, last.ID.String())
		nextCursor = &encoded
	}
	return reports, nextCursor, nil
}

// Review closes an open report. The status guard in the UPDATE keeps two
// concurrent reviewers from both winning. The reporter gets a report_reviewed
// notification in the same transaction; the notification carries no actor so
// the reviewer's identity never reaches the reporter.
func (s *ReportService) Review(ctx context.Context, reviewerID, reportID uuid.UUID, resolution string) (*models.SocialReport, error) {
	resolution = strings.TrimSpace(resolution)
	if resolution == "" || len(resolution) > maxReportReasonLen {
		return nil, ErrInvalidReportReason
	}

	var status models.ReportStatus
	err := s.db.QueryRow(ctx,
		`SELECT status FROM social_reports WHERE id = $1`,
		reportID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	if status != models.ReportStatusOpen {
		return nil, ErrReportAlreadyHandled
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin review: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	report := &models.SocialReport{}
	err = tx.QueryRow(ctx,
		`UPDATE social_reports
		 SET status = 'reviewed', resolution = $1, reviewer_id = $2, reviewed_at = now()
		 WHERE id = $3 AND status = 'open'
		 RETURNING id, reporter_id, target_user_id, reason, status, resolution, reviewer_id, created_at, reviewed_at`,
		resolution, reviewerID, reportID,
	).Scan(&report.ID, &report.ReporterID, &report.TargetUserID, &report.Reason,
		&report.Status, &report.Resolution, &report.ReviewerID, &report.CreatedAt, &report.ReviewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportAlreadyHandled
	}
	if err != nil {
		return nil, fmt.Errorf("reviewing report: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO social_notifications (user_id, type)
		 VALUES ($1, 'report_reviewed')`,
		report.ReporterID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting review notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review: %w", err)
	}
	committed = true
	return report, nil
}
