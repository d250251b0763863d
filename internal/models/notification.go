package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationFriendRequest   NotificationType = "friend_request"
	NotificationFriendAccepted  NotificationType = "friend_accepted"
	NotificationFriendRejected  NotificationType = "friend_rejected"
	NotificationFriendCancelled NotificationType = "friend_cancelled"
	NotificationFriendRemoved   NotificationType = "friend_removed"
	NotificationReportReviewed  NotificationType = "report_reviewed"
)

type Notification struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	Type          NotificationType `json:"type"`
	ActorID       *uuid.UUID       `json:"actor_id,omitempty"`
	ActorUsername *string          `json:"actor_username,omitempty"`
	FriendshipID  *uuid.UUID       `json:"friendship_id,omitempty"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
