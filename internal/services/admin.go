package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

// PresenceReader is the slice of the presence tracker the admin service
// needs.
type PresenceReader interface {
	LastActive(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
}

// AdminService aggregates dashboard numbers from the read paths the rest of
// the service already exposes. The stream handler polls it on an interval.
type AdminService struct {
	db       DBConn
	presence PresenceReader
}

func NewAdminService(db DBConn, presence PresenceReader) *AdminService {
	return &AdminService{db: db, presence: presence}
}

func (s *AdminService) Overview(ctx context.Context) (*models.AdminOverview, error) {
	overview := &models.AdminOverview{GeneratedAt: time.Now().UTC()}

	err := s.db.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM users),
		   (SELECT COUNT(*) FROM friendships WHERE status = 'accepted'),
		   (SELECT COUNT(*) FROM friendships WHERE status = 'pending'),
		   (SELECT COUNT(*) FROM social_reports WHERE status = 'open'),
		   (SELECT COUNT(*) FROM user_favorites),
		   (SELECT COUNT(*) FROM social_posts WHERE deleted_at IS NULL),
		   (SELECT COUNT(*) FROM social_events WHERE created_at > now() - interval '24 hours')`,
	).Scan(&overview.TotalUsers, &overview.AcceptedFriendships,
		&overview.PendingRequests, &overview.OpenReports,
		&overview.TotalFavorites, &overview.TotalPosts, &overview.EventsLast24h)
	if err != nil {
		return nil, fmt.Errorf("loading overview: %w", err)
	}
	return overview, nil
}

// RecentUsers returns the newest accounts decorated with presence.
func (s *AdminService) RecentUsers(ctx context.Context, limit int) ([]models.AdminUserRow, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, username, role, suspended_at, created_at
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent users: %w", err)
	}
	defer rows.Close()

	users := []models.AdminUserRow{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var u models.AdminUserRow
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.SuspendedAt, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing recent users: %w", err)
	}

	lastActive, err := s.presence.LastActive(ctx, ids)
	if err != nil {
		// Presence is decoration; the user list is still useful without it.
		return users, nil
	}
	for i := range users {
		if ts, ok := lastActive[users[i].ID]; ok {
			t := ts
			users[i].LastActiveAt = &t
		}
	}
	return users, nil
}
