package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedEventType string

const (
	FeedFriendAccepted FeedEventType = "friend_accepted"
	FeedFavoriteAdded  FeedEventType = "favorite_added"
	FeedPostPublished  FeedEventType = "post_published"
)

// FeedEvent is one row of the activity feed. The bigserial ID breaks
// creation-time ties so cursoring sees a stable total order.
type FeedEvent struct {
	ID            int64         `json:"id"`
	EventType     FeedEventType `json:"event_type"`
	ActorID       uuid.UUID     `json:"actor_id"`
	ActorUsername string        `json:"actor_username,omitempty"`
	SubjectID     *uuid.UUID    `json:"subject_id,omitempty"`
	PostID        *uuid.UUID    `json:"post_id,omitempty"`
	FavoriteTitle *string       `json:"favorite_title,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type NetworkSection string

const (
	SectionFriends  NetworkSection = "friends"
	SectionIncoming NetworkSection = "incoming"
	SectionOutgoing NetworkSection = "outgoing"
)

func (s NetworkSection) Valid() bool {
	return s == SectionFriends || s == SectionIncoming || s == SectionOutgoing
}
