package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminOverview is the dashboard snapshot pushed over the admin stream.
type AdminOverview struct {
	TotalUsers          int64     `json:"total_users"`
	AcceptedFriendships int64     `json:"accepted_friendships"`
	PendingRequests     int64     `json:"pending_requests"`
	OpenReports         int64     `json:"open_reports"`
	TotalFavorites      int64     `json:"total_favorites"`
	TotalPosts          int64     `json:"total_posts"`
	EventsLast24h       int64     `json:"events_last_24h"`
	GeneratedAt         time.Time `json:"generated_at"`
}

type AdminUserRow struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Role         UserRole   `json:"role"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}
