package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

func feedEventRow(id int64, eventType models.FeedEventType, actorID uuid.UUID, createdAt time.Time) []any {
	return []any{id, eventType, actorID, "misty", nil, nil, nil, createdAt}
}

func sectionRow(friendshipID, requesterID, targetID uuid.UUID, status models.FriendshipStatus, createdAt time.Time) []any {
	return []any{friendshipID, requesterID, targetID, status, createdAt, createdAt, "brock"}
}

func TestFeedService_Feed_ScopesToNetworkAndBlocks(t *testing.T) {
	userID := uuid.New()
	actorID := uuid.New()

	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "f.status = 'accepted'") {
				t.Errorf("feed query missing friend scope: %s", sql)
			}
			if strings.Count(sql, "user_blocks") != 2 {
				t.Errorf("feed query should suppress blocks on both actor and subject: %s", sql)
			}
			if args[0] != userID {
				t.Errorf("expected viewer id as first arg, got %v", args[0])
			}
			return &fakeRows{rows: [][]any{
				feedEventRow(7, models.FeedFavoriteAdded, actorID, time.Now()),
			}}, nil
		},
	}

	page, err := NewFeedService(db).Feed(context.Background(), userID, Page{})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 event, got %d", len(page.Items))
	}
	if page.Items[0].EventType != models.FeedFavoriteAdded {
		t.Errorf("expected favorite_added, got %s", page.Items[0].EventType)
	}
	if page.Items[0].ActorUsername != "misty" {
		t.Errorf("expected actor username joined in, got %q", page.Items[0].ActorUsername)
	}
	if page.NextCursor != nil {
		t.Error("partial page should not produce a cursor")
	}
}

func TestFeedService_Feed_FullPageEmitsBigintCursor(t *testing.T) {
	userID := uuid.New()
	lastCreated := time.Now().Add(-time.Minute)

	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{rows: [][]any{
				feedEventRow(12, models.FeedPostPublished, uuid.New(), time.Now()),
				feedEventRow(11, models.FeedFriendAccepted, uuid.New(), lastCreated),
			}}, nil
		},
	}

	page, err := NewFeedService(db).Feed(context.Background(), userID, Page{Limit: 2})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if page.NextCursor == nil {
		t.Fatal("full page should produce a cursor")
	}
	cursor, err := DecodeCursor(*page.NextCursor)
	if err != nil {
		t.Fatalf("decoding emitted cursor: %v", err)
	}
	if cursor.ID != "11" {
		t.Errorf("cursor should point at the last event id, got %q", cursor.ID)
	}
}

func TestFeedService_Feed_CursorAppliesKeysetPredicate(t *testing.T) {
	userID := uuid.New()
	after := EncodeCursor(time.Now().Add(-time.Hour), "42")

	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "(e.created_at, e.id) < ($2, $3)") {
				t.Errorf("expected keyset predicate in query: %s", sql)
			}
			if args[2] != int64(42) {
				t.Errorf("expected cursor id 42 as arg, got %v", args[2])
			}
			return &fakeRows{}, nil
		},
	}

	page, err := NewFeedService(db).Feed(context.Background(), userID, Page{Cursor: after})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(page.Items) != 0 || page.Items == nil {
		t.Errorf("expected empty non-nil items, got %v", page.Items)
	}
}

func TestFeedService_Feed_RejectsBadCursor(t *testing.T) {
	svc := NewFeedService(&fakeDB{})
	if _, err := svc.Feed(context.Background(), uuid.New(), Page{Cursor: "not-base64!"}); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestFeedService_Feed_RejectsForeignShapedCursor(t *testing.T) {
	// A cursor minted by a uuid-keyed listing decodes fine but its tiebreak
	// cannot address a bigserial event id. It must fail before the query.
	replayed := EncodeCursor(time.Now(), uuid.NewString())
	svc := NewFeedService(&fakeDB{})
	if _, err := svc.Feed(context.Background(), uuid.New(), Page{Cursor: replayed}); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestFeedService_NetworkSection_RejectsForeignShapedCursor(t *testing.T) {
	replayed := EncodeCursor(time.Now(), "42")
	svc := NewFeedService(&fakeDB{})
	if _, err := svc.NetworkSection(context.Background(), uuid.New(), models.SectionFriends, Page{Cursor: replayed}); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestFeedService_NetworkSection_InvalidSection(t *testing.T) {
	svc := NewFeedService(&fakeDB{})
	if _, err := svc.NetworkSection(context.Background(), uuid.New(), models.NetworkSection("everyone"), Page{}); !errors.Is(err, ErrInvalidSection) {
		t.Fatalf("expected ErrInvalidSection, got %v", err)
	}
}

func TestFeedService_NetworkSection_IncomingFiltersPendingToward(t *testing.T) {
	userID := uuid.New()
	requesterID := uuid.New()

	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "f.target_id = $1 AND f.status = 'pending'") {
				t.Errorf("incoming section should filter pending requests toward the user: %s", sql)
			}
			return &fakeRows{rows: [][]any{
				sectionRow(uuid.New(), requesterID, userID, models.FriendshipStatusPending, time.Now()),
			}}, nil
		},
	}

	page, err := NewFeedService(db).NetworkSection(context.Background(), userID, models.SectionIncoming, Page{})
	if err != nil {
		t.Fatalf("NetworkSection: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 request, got %d", len(page.Items))
	}
	if page.Items[0].RequesterID != requesterID {
		t.Errorf("expected requester %s, got %s", requesterID, page.Items[0].RequesterID)
	}
	if page.Items[0].FriendUsername != "brock" {
		t.Errorf("expected counterpart username, got %q", page.Items[0].FriendUsername)
	}
}

func TestFeedService_NetworkSection_FriendsFullPageEmitsUUIDCursor(t *testing.T) {
	userID := uuid.New()
	lastID := uuid.New()

	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "f.status = 'accepted'") {
				t.Errorf("friends section should filter accepted rows: %s", sql)
			}
			return &fakeRows{rows: [][]any{
				sectionRow(uuid.New(), userID, uuid.New(), models.FriendshipStatusAccepted, time.Now()),
				sectionRow(lastID, uuid.New(), userID, models.FriendshipStatusAccepted, time.Now().Add(-time.Minute)),
			}}, nil
		},
	}

	page, err := NewFeedService(db).NetworkSection(context.Background(), userID, models.SectionFriends, Page{Limit: 2})
	if err != nil {
		t.Fatalf("NetworkSection: %v", err)
	}
	if page.NextCursor == nil {
		t.Fatal("full page should produce a cursor")
	}
	cursor, err := DecodeCursor(*page.NextCursor)
	if err != nil {
		t.Fatalf("decoding emitted cursor: %v", err)
	}
	if cursor.ID != lastID.String() {
		t.Errorf("cursor should point at the last friendship id, got %q", cursor.ID)
	}
}

func TestFeedService_NetworkSnapshot_LoadsAllSections(t *testing.T) {
	userID := uuid.New()
	queries := []string{}

	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			queries = append(queries, sql)
			if strings.Contains(sql, "f.status = 'accepted'") {
				return &fakeRows{rows: [][]any{
					sectionRow(uuid.New(), userID, uuid.New(), models.FriendshipStatusAccepted, time.Now()),
				}}, nil
			}
			return &fakeRows{}, nil
		},
	}

	snapshot, err := NewFeedService(db).NetworkSnapshot(context.Background(), userID)
	if err != nil {
		t.Fatalf("NetworkSnapshot: %v", err)
	}
	if len(queries) != 3 {
		t.Fatalf("expected 3 section queries, got %d", len(queries))
	}
	if len(snapshot.Friends.Items) != 1 {
		t.Errorf("expected 1 friend, got %d", len(snapshot.Friends.Items))
	}
	if snapshot.Incoming.Items == nil || snapshot.Outgoing.Items == nil {
		t.Error("empty sections should still carry non-nil item slices")
	}
}
