package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

var ErrNotNotificationOwner = errors.New("notification does not belong to this user")

// NotificationService reads and marks the notifications that the friendship
// and report flows insert transactionally.
type NotificationService struct {
	db DB
}

func NewNotificationService(db DB) *NotificationService {
	return &NotificationService{db: db}
}

type NotificationPage struct {
	Items      []models.Notification `json:"items"`
	NextCursor *string               `json:"next_cursor"`
	Unread     int64                 `json:"unread"`
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page Page) (*NotificationPage, error) {
	limit := ClampLimit(page.Limit)

	conditions := []string{"n.user_id = $1"}
	args := []any{userID}
	idx := 2

	if unreadOnly {
		conditions = append(conditions, "n.read_at IS NULL")
	}

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, err
		}
		rowID, err := cursor.UUIDID()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(n.created_at, n.id) < ($%d, $%d::uuid)", idx, idx+1))
		args = append(args, cursor.CreatedAt, rowID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT n.id, n.user_id, n.type, n.actor_id, au.username, n.friendship_id, n.read_at, n.created_at
		 FROM social_notifications n
		 LEFT JOIN users au ON n.actor_id = au.id
		 WHERE %s
		 ORDER BY n.created_at DESC, n.id DESC
		 LIMIT $%d`,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	items := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.ActorID,
			&n.ActorUsername, &n.FriendshipID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	result := &NotificationPage{Items: items}
	if len(items) == limit {
		last := items[len(items)-1]
		encoded := EncodeCursor(last.CreatedAt, last.ID.String())
		result.NextCursor = &encoded
	}

	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM social_notifications WHERE user_id = $1 AND read_at IS NULL`,
		userID,
	).Scan(&result.Unread)
	if err != nil {
		return nil, fmt.Errorf("counting unread notifications: %w", err)
	}
	return result, nil
}

// MarkRead flips read state for a set of notification ids. If any id does
// not belong to userID the whole call fails with ErrNotNotificationOwner:
// silently skipping foreign ids would let accounts probe each other.
func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, read bool) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	deduped := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	ids = deduped

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin mark read: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var owned int64
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM social_notifications WHERE id = ANY($1) AND user_id = $2`,
		ids, userID,
	).Scan(&owned)
	if err != nil {
		return fmt.Errorf("checking notification ownership: %w", err)
	}
	if owned != int64(len(ids)) {
		return ErrNotNotificationOwner
	}

	if read {
		_, err = tx.Exec(ctx,
			`UPDATE social_notifications SET read_at = now() WHERE id = ANY($1) AND read_at IS NULL`,
			ids,
		)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE social_notifications SET read_at = NULL WHERE id = ANY($1)`,
			ids,
		)
	}
	if err != nil {
		return fmt.Errorf("marking notifications: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit mark read: %w", err)
	}
	committed = true
	return nil
}
