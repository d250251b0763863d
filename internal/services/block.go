package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

var ErrCannotBlockSelf = errors.New("cannot block yourself")

// BlockService owns directed block edges. Block and Unblock are idempotent:
// repeating either is a no-op success, so clients can retry freely.
type BlockService struct {
	db DB
}

func NewBlockService(db DB) *BlockService {
	return &BlockService{db: db}
}

// Block creates the edge and forces any active friendship between the pair
// to removed, in one transaction. Blocking an already-blocked user succeeds
// without touching anything.
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin block transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	result, err := tx.Exec(ctx,
		`INSERT INTO user_blocks (blocker_id, blocked_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		blockerID, blockedID,
	)
	if err != nil {
		return fmt.Errorf("insert block: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Already blocked. Nothing to sever either: the friendship was
		// removed when the original block landed.
		return tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx,
		`UPDATE friendships SET status = 'removed', updated_at = now()
		 WHERE ((requester_id = $1 AND target_id = $2)
		     OR (requester_id = $2 AND target_id = $1))
		   AND status IN ('pending', 'accepted')`,
		blockerID, blockedID,
	)
	if err != nil {
		return fmt.Errorf("sever friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit block: %w", err)
	}
	committed = true
	return nil
}

// Unblock deletes the edge. It does not resurrect any friendship the block
// severed. Unblocking a user who was never blocked is a no-op success.
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2",
		blockerID, blockedID,
	)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

// IsBlocked reports whether either direction holds a block. Unknown user ids
// read as not blocked; writes elsewhere validate existence.
func (s *BlockService) IsBlocked(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	var blocked bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM user_blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)`,
		userID, otherUserID,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("check block status: %w", err)
	}
	return blocked, nil
}

func (s *BlockService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.username, ub.created_at
		 FROM user_blocks ub
		 JOIN users u ON ub.blocked_id = u.id
		 WHERE ub.blocker_id = $1
		 ORDER BY u.username`,
		blockerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	defer rows.Close()

	var blocked []models.BlockedUser
	for rows.Next() {
		var u models.BlockedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.BlockedAt); err != nil {
			return nil, fmt.Errorf("scan blocked user: %w", err)
		}
		blocked = append(blocked, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	if blocked == nil {
		blocked = []models.BlockedUser{}
	}
	return blocked, nil
}
