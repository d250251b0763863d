package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

var ErrInvalidSection = errors.New("invalid network section")

// FeedService projects the activity feed and the friend-network views.
// Both paginate with (created_at, id) cursors instead of offsets, so pages
// stay stable while new events land in front of them.
type FeedService struct {
	db DBConn
}

func NewFeedService(db DBConn) *FeedService {
	return &FeedService{db: db}
}

type FeedPage struct {
	Items      []models.FeedEvent `json:"items"`
	NextCursor *string            `json:"next_cursor"`
}

type SectionPage struct {
	Items      []models.FriendWithUser `json:"items"`
	NextCursor *string                 `json:"next_cursor"`
}

type NetworkSnapshot struct {
	Friends  SectionPage `json:"friends"`
	Incoming SectionPage `json:"incoming"`
	Outgoing SectionPage `json:"outgoing"`
}

// Feed returns events visible to userID: their own activity, activity
// involving them, and their accepted friends' activity. Events touching a
// blocked user are suppressed in both directions, including events created
// before the block.
func (s *FeedService) Feed(ctx context.Context, userID uuid.UUID, page Page) (*FeedPage, error) {
	limit := ClampLimit(page.Limit)

	conditions := []string{
		`(e.actor_id = $1
		  OR e.subject_id = $1
		  OR EXISTS (
		    SELECT 1 FROM friendships f
		    WHERE f.status = 'accepted'
		      AND ((f.requester_id = $1 AND f.target_id = e.actor_id)
		        OR (f.target_id = $1 AND f.requester_id = e.actor_id))
		  ))`,
		`NOT EXISTS (
		   SELECT 1 FROM user_blocks b
		   WHERE (b.blocker_id = $1 AND b.blocked_id = e.actor_id)
		      OR (b.blocker_id = e.actor_id AND b.blocked_id = $1)
		 )`,
		`(e.subject_id IS NULL OR NOT EXISTS (
		   SELECT 1 FROM user_blocks b
		   WHERE (b.blocker_id = $1 AND b.blocked_id = e.subject_id)
		      OR (b.blocker_id = e.subject_id AND b.blocked_id = $1)
		 ))`,
	}
	args := []any{userID}
	idx := 2

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, err
		}
		eventID, err := cursor.IntID()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(e.created_at, e.id) < ($%d, $%d)", idx, idx+1))
		args = append(args, cursor.CreatedAt, eventID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT e.id, e.event_type, e.actor_id, u.username, e.subject_id, e.post_id, e.favorite_title, e.created_at
		 FROM social_events e
		 JOIN users u ON e.actor_id = u.id
		 WHERE %s
		 ORDER BY e.created_at DESC, e.id DESC
		 LIMIT $%d`,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	defer rows.Close()

	events := []models.FeedEvent{}
	for rows.Next() {
		var e models.FeedEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.ActorID, &e.ActorUsername,
			&e.SubjectID, &e.PostID, &e.FavoriteTitle, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feed event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}

	result := &FeedPage{Items: events}
	if len(events) == limit {
		last := events[len(events)-1]
		encoded := EncodeCursor(last.CreatedAt, fmt.Sprintf("%d", last.ID))
		result.NextCursor = &encoded
	}
	return result, nil
}

// NetworkSection pages through one slice of the friend graph: accepted
// friends, incoming pending requests, or outgoing pending requests. All
// three derive from the same friendships table filtered by status and the
// side userID sits on.
func (s *FeedService) NetworkSection(ctx context.Context, userID uuid.UUID, section models.NetworkSection, page Page) (*SectionPage, error) {
	if !section.Valid() {
		return nil, ErrInvalidSection
	}

	limit := ClampLimit(page.Limit)

	var condition, usernameExpr string
	switch section {
	case models.SectionFriends:
		condition = "(f.requester_id = $1 OR f.target_id = $1) AND f.status = 'accepted'"
		usernameExpr = "CASE WHEN f.requester_id = $1 THEN ut.username ELSE ur.username END"
	case models.SectionIncoming:
		condition = "f.target_id = $1 AND f.status = 'pending'"
		usernameExpr = "ur.username"
	case models.SectionOutgoing:
		condition = "f.requester_id = $1 AND f.status = 'pending'"
		usernameExpr = "ut.username"
	}

	conditions := []string{condition}
	args := []any{userID}
	idx := 2

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, err
		}
		relationID, err := cursor.UUIDID()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(f.created_at, f.id) < ($%d, $%d::uuid)", idx, idx+1))
		args = append(args, cursor.CreatedAt, relationID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT f.id, f.requester_id, f.target_id, f.status, f.created_at, f.updated_at, %s
		 FROM friendships f
		 JOIN users ur ON f.requester_id = ur.id
		 JOIN users ut ON f.target_id = ut.id
		 WHERE %s
		 ORDER BY f.created_at DESC, f.id DESC
		 LIMIT $%d`,
		usernameExpr,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s section: %w", section, err)
	}
	defer rows.Close()

	items := []models.FriendWithUser{}
	for rows.Next() {
		var f models.FriendWithUser
		if err := rows.Scan(&f.ID, &f.RequesterID, &f.TargetID, &f.Status,
			&f.CreatedAt, &f.UpdatedAt, &f.FriendUsername); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", section, err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s section: %w", section, err)
	}

	result := &SectionPage{Items: items}
	if len(items) == limit {
		last := items[len(items)-1]
		encoded := EncodeCursor(last.CreatedAt, last.ID.String())
		result.NextCursor = &encoded
	}
	return result, nil
}

// NetworkSnapshot loads the first page of every section in one call.
func (s *FeedService) NetworkSnapshot(ctx context.Context, userID uuid.UUID) (*NetworkSnapshot, error) {
	snapshot := &NetworkSnapshot{}
	for _, section := range []models.NetworkSection{models.SectionFriends, models.SectionIncoming, models.SectionOutgoing} {
		sectionPage, err := s.NetworkSection(ctx, userID, section, Page{})
		if err != nil {
			return nil, err
		}
		switch section {
		case models.SectionFriends:
			snapshot.Friends = *sectionPage
		case models.SectionIncoming:
			snapshot.Incoming = *sectionPage
		case models.SectionOutgoing:
			snapshot.Outgoing = *sectionPage
		}
	}
	return snapshot, nil
}
