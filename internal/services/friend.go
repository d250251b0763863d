package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rotomdex/rotomdex/internal/models"
)

var (
	ErrFriendshipNotFound     = errors.New("friendship not found")
	ErrFriendshipExists       = errors.New("an active friendship or request already exists")
	ErrCannotFriendSelf       = errors.New("cannot send friend request to yourself")
	ErrFriendshipNotPending   = errors.New("friendship is not pending")
	ErrFriendshipNotAccepted  = errors.New("friendship is not accepted")
	ErrNotFriendshipRecipient = errors.New("only the recipient can accept/reject")
	ErrNotFriendshipRequester = errors.New("only the requester can cancel")
	ErrNotFriendshipParty     = errors.New("not a party to this friendship")
	ErrUserBlocked            = errors.New("user is blocked")
	ErrUserNotFound           = errors.New("user not found")
)

// FriendService owns the friendship state machine. Relations are never
// deleted: rejected, cancelled and removed rows stay around as closed edges
// and a fresh request creates a new row. Status transitions are guarded
// updates (WHERE status = <expected>) so two concurrent transitions cannot
// both win.
type FriendService struct {
	db DB
}

func NewFriendService(db DB) *FriendService {
	return &FriendService{db: db}
}

// Request creates a pending relation from requester to target. Fails if the
// users are identical, blocked in either direction, or already joined by an
// active (pending or accepted) relation.
func (s *FriendService) Request(ctx context.Context, requesterID, targetID uuid.UUID) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, ErrCannotFriendSelf
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin friend request: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var isBlocked bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM user_blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)`,
		requesterID, targetID,
	).Scan(&isBlocked)
	if err != nil {
		return nil, fmt.Errorf("checking block status: %w", err)
	}
	if isBlocked {
		return nil, ErrUserBlocked
	}

	var active bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE ((requester_id = $1 AND target_id = $2)
			    OR (requester_id = $2 AND target_id = $1))
			  AND status IN ('pending', 'accepted')
		)`,
		requesterID, targetID,
	).Scan(&active)
	if err != nil {
		return nil, fmt.Errorf("checking active friendship: %w", err)
	}
	if active {
		return nil, ErrFriendshipExists
	}

	friendship := &models.Friendship{}
	err = tx.QueryRow(ctx,
		`INSERT INTO friendships (requester_id, target_id, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING id, requester_id, target_id, status, created_at, updated_at`,
		requesterID, targetID,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.TargetID,
		&friendship.Status, &friendship.CreatedAt, &friendship.UpdatedAt)
	if err != nil {
		// The partial unique index on active pairs backstops the existence
		// check against a concurrent request for the same pair.
		if isUniqueViolation(err) {
			return nil, ErrFriendshipExists
		}
		return nil, fmt.Errorf("creating friendship: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO social_notifications (user_id, type, actor_id, friendship_id)
		 VALUES ($1, 'friend_request', $2, $3)`,
		targetID, requesterID, friendship.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting request notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit friend request: %w", err)
	}
	committed = true
	return friendship, nil
}

// Accept moves a pending relation to accepted. Only the target may accept.
// The counterparty notification and the feed event commit atomically with
// the transition.
func (s *FriendService) Accept(ctx context.Context, userID, friendshipID uuid.UUID) (*models.Friendship, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin accept: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	friendship, err := getFriendshipByID(ctx, tx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.TargetID != userID {
		return nil, ErrNotFriendshipRecipient
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, ErrFriendshipNotPending
	}

	if err := s.transition(ctx, tx, friendshipID, models.FriendshipStatusPending, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO social_notifications (user_id, type, actor_id, friendship_id)
		 VALUES ($1, 'friend_accepted', $2, $3)`,
		friendship.RequesterID, userID, friendshipID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting accept notification: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO social_events (event_type, actor_id, subject_id)
		 VALUES ('friend_accepted', $1, $2)`,
		userID, friendship.RequesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting accept event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit accept: %w", err)
	}
	committed = true

	friendship.Status = models.FriendshipStatusAccepted
	return friendship, nil
}

// Reject closes a pending relation. Only the target may reject. The
// requester learns about it through the counterparty notification.
func (s *FriendService) Reject(ctx context.Context, userID, friendshipID uuid.UUID) error {
	friendship, err := getFriendshipByID(ctx, s.db, friendshipID)
	if err != nil {
		return err
	}
	if friendship.TargetID != userID {
		return ErrNotFriendshipRecipient
	}
	if friendship.Status != models.FriendshipStatusPending {
		return ErrFriendshipNotPending
	}
	return s.closeAndNotify(ctx, friendshipID,
		models.FriendshipStatusPending, models.FriendshipStatusRejected,
		friendship.RequesterID, userID, models.NotificationFriendRejected)
}

// Cancel closes a pending relation. Only the requester may cancel.
func (s *FriendService) Cancel(ctx context.Context, userID, friendshipID uuid.UUID) error {
	friendship, err := getFriendshipByID(ctx, s.db, friendshipID)
	if err != nil {
		return err
	}
	if friendship.RequesterID != userID {
		return ErrNotFriendshipRequester
	}
	if friendship.Status != models.FriendshipStatusPending {
		return ErrFriendshipNotPending
	}
	return s.closeAndNotify(ctx, friendshipID,
		models.FriendshipStatusPending, models.FriendshipStatusCancelled,
		friendship.TargetID, userID, models.NotificationFriendCancelled)
}

// Remove closes an accepted relation; either party may remove. A pending
// relation cannot be removed: the requester cancels it, the target rejects
// it. Those paths have different ownership rules, so they stay separate.
func (s *FriendService) Remove(ctx context.Context, userID, friendshipID uuid.UUID) error {
	friendship, err := getFriendshipByID(ctx, s.db, friendshipID)
	if err != nil {
		return err
	}
	if friendship.RequesterID != userID && friendship.TargetID != userID {
		return ErrNotFriendshipParty
	}
	if friendship.Status != models.FriendshipStatusAccepted {
		return ErrFriendshipNotAccepted
	}
	counterparty := friendship.RequesterID
	if counterparty == userID {
		counterparty = friendship.TargetID
	}
	return s.closeAndNotify(ctx, friendshipID,
		models.FriendshipStatusAccepted, models.FriendshipStatusRemoved,
		counterparty, userID, models.NotificationFriendRemoved)
}

// closeAndNotify runs the guarded transition and the counterparty
// notification in one transaction, so a closed relation never lands without
// its notification and a lost race inserts nothing.
func (s *FriendService) closeAndNotify(ctx context.Context, friendshipID uuid.UUID, from, to models.FriendshipStatus, notifyUserID, actorID uuid.UUID, notifyType models.NotificationType) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s transition: %w", to, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := s.transition(ctx, tx, friendshipID, from, to); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO social_notifications (user_id, type, actor_id, friendship_id)
		 VALUES ($1, $2, $3, $4)`,
		notifyUserID, notifyType, actorID, friendshipID,
	)
	if err != nil {
		return fmt.Errorf("inserting %s notification: %w", notifyType, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s transition: %w", to, err)
	}
	committed = true
	return nil
}

// transition is the compare-and-set at the bottom of every state change.
// If another writer got there first the guard matches zero rows and the
// caller's transition fails rather than double-applying.
func (s *FriendService) transition(ctx context.Context, conn DBConn, friendshipID uuid.UUID, from, to models.FriendshipStatus) error {
	tag, err := conn.Exec(ctx,
		`UPDATE friendships SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3`,
		to, friendshipID, from,
	)
	if err != nil {
		return fmt.Errorf("transitioning friendship to %s: %w", to, err)
	}
	if tag.RowsAffected() == 0 {
		if from == models.FriendshipStatusAccepted {
			return ErrFriendshipNotAccepted
		}
		return ErrFriendshipNotPending
	}
	return nil
}

// Status answers where userID stands relative to otherUserID.
func (s *FriendService) Status(ctx context.Context, userID, otherUserID uuid.UUID) (*models.RelationStatus, error) {
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
		return nil, fmt.Errorf("checking block status: %w", err)
	}
	if blocked {
		return &models.RelationStatus{Status: models.FriendshipViewBlocked}, nil
	}

	friendship := &models.Friendship{}
	err = s.db.QueryRow(ctx,
		`SELECT id, requester_id, target_id, status, created_at, updated_at
		 FROM friendships
		 WHERE ((requester_id = $1 AND target_id = $2)
		     OR (requester_id = $2 AND target_id = $1))
		   AND status IN ('pending', 'accepted')`,
		userID, otherUserID,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.TargetID,
		&friendship.Status, &friendship.CreatedAt, &friendship.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.RelationStatus{Status: models.FriendshipViewNone}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading relation: %w", err)
	}

	view := models.FriendshipViewFriends
	if friendship.Status == models.FriendshipStatusPending {
		if friendship.RequesterID == userID {
			view = models.FriendshipViewPendingOutgoing
		} else {
			view = models.FriendshipViewPendingIncoming
		}
	}
	id := friendship.ID
	return &models.RelationStatus{Status: view, FriendshipID: &id}, nil
}

// Lookup resolves a username to a user id, honoring the searchable flag and
// block suppression the same way search does.
func (s *FriendService) Lookup(ctx context.Context, currentUserID uuid.UUID, username string) (*models.UserSearchResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}

	result := &models.UserSearchResult{}
	err := s.db.QueryRow(ctx,
		`SELECT u.id, u.username FROM users u
		 LEFT JOIN user_social_settings s ON s.user_id = u.id
		 WHERE LOWER(u.username) = LOWER($2)
		   AND u.id != $1
		   AND u.suspended_at IS NULL
		   AND COALESCE(s.searchable, true)
		   AND NOT EXISTS (
		     SELECT 1 FROM user_blocks
		     WHERE (blocker_id = $1 AND blocked_id = u.id)
		        OR (blocker_id = u.id AND blocked_id = $1)
		   )`,
		currentUserID, username,
	).Scan(&result.ID, &result.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return result, nil
}

// SearchUsers finds friend candidates by username fragment. Blocked users in
// either direction and users who opted out of search never appear.
func (s *FriendService) SearchUsers(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []models.UserSearchResult{}, nil
	}

	searchPattern := "%" + strings.ToLower(query) + "%"

	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.username FROM users u
		 LEFT JOIN user_social_settings s ON s.user_id = u.id
		 WHERE u.id != $1
		   AND LOWER(u.username) LIKE $2
		   AND u.suspended_at IS NULL
		   AND COALESCE(s.searchable, true)
		   AND NOT EXISTS (
		     SELECT 1 FROM user_blocks
		     WHERE (blocker_id = $1 AND blocked_id = u.id)
		        OR (blocker_id = u.id AND blocked_id = $1)
		   )
		 ORDER BY u.username
		 LIMIT 20`,
		currentUserID, searchPattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var results []models.UserSearchResult
	for rows.Next() {
		var user models.UserSearchResult
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		results = append(results, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	if results == nil {
		results = []models.UserSearchResult{}
	}
	return results, nil
}

// IsFriend reports whether an accepted relation joins the two users.
func (s *FriendService) IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	var isFriend bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE ((requester_id = $1 AND target_id = $2)
			    OR (requester_id = $2 AND target_id = $1))
			  AND status = 'accepted'
		)`,
		userID, otherUserID,
	).Scan(&isFriend)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return isFriend, nil
}

func getFriendshipByID(ctx context.Context, conn DBConn, friendshipID uuid.UUID) (*models.Friendship, error) {
	friendship := &models.Friendship{}
	err := conn.QueryRow(ctx,
		`SELECT id, requester_id, target_id, status, created_at, updated_at
		 FROM friendships WHERE id = $1`,
		friendshipID,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.TargetID,
		&friendship.Status, &friendship.CreatedAt, &friendship.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFriendshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting friendship: %w", err)
	}
	return friendship, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
