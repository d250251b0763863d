package models

import (
	"time"

	"github.com/google/uuid"
)

type BlockedUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	BlockedAt time.Time `json:"blocked_at"`
}

// BlockStatus reports visibility suppression between two users. Blocks are
// directional for authorship (only the blocker can unblock) but symmetric
// for visibility: a block in either direction hides content both ways.
type BlockStatus struct {
	IsBlocked bool `json:"is_blocked"`
}
