package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendshipStatus string

const (
	FriendshipStatusPending   FriendshipStatus = "pending"
	FriendshipStatusAccepted  FriendshipStatus = "accepted"
	FriendshipStatusRejected  FriendshipStatus = "rejected"
	FriendshipStatusCancelled FriendshipStatus = "cancelled"
	FriendshipStatusRemoved   FriendshipStatus = "removed"
)

// IsActive reports whether the status still binds the pair. At most one
// active friendship may exist per unordered user pair.
func (s FriendshipStatus) IsActive() bool {
	return s == FriendshipStatusPending || s == FriendshipStatusAccepted
}

// IsTerminal reports whether the status closes the edge for good.
// Terminal rows are kept for audit; a new request creates a new row.
func (s FriendshipStatus) IsTerminal() bool {
	return s == FriendshipStatusRejected || s == FriendshipStatusCancelled || s == FriendshipStatusRemoved
}

// Friendship is a directed request that becomes a bidirectional edge once
// accepted. RequesterID sent the request, TargetID received it.
type Friendship struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requester_id"`
	TargetID    uuid.UUID        `json:"target_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// OtherParty returns the counterpart of userID on this edge.
func (f *Friendship) OtherParty(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.TargetID
	}
	return f.RequesterID
}

type FriendWithUser struct {
	Friendship
	FriendUsername string `json:"friend_username"`
}

type FriendshipStatusView string

const (
	FriendshipViewNone            FriendshipStatusView = "none"
	FriendshipViewPendingOutgoing FriendshipStatusView = "pending_outgoing"
	FriendshipViewPendingIncoming FriendshipStatusView = "pending_incoming"
	FriendshipViewFriends         FriendshipStatusView = "friends"
	FriendshipViewBlocked         FriendshipStatusView = "blocked"
)

// RelationStatus is the answer to "where do I stand with this user".
type RelationStatus struct {
	Status       FriendshipStatusView `json:"status"`
	FriendshipID *uuid.UUID           `json:"friendship_id,omitempty"`
}
