package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleMember    UserRole = "member"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// User mirrors the account service's user row. This service only reads it;
// registration, passwords and suspension are owned by the account service.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Role        UserRole   `json:"role"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) IsSuspended() bool {
	return u.SuspendedAt != nil
}

// CanReviewReports reports whether the user may triage social reports.
func (u *User) CanReviewReports() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// CanBypassModeration reports whether the user may view and delete
// soft-deleted social content.
func (u *User) CanBypassModeration() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserSearchResult struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}
