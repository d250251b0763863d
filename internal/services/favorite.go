package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

var (
	ErrInvalidFavorite  = errors.New("invalid favorite")
	ErrFavoritesPrivate = errors.New("favorites are not public")
)

const (
	maxFavoriteTitleLen    = 200
	maxFavoriteEntityIDLen = 120
	maxFavoriteTags        = 16
)

// FavoriteService owns per-user favorites and the offline-queue sync
// protocol. Every write is an idempotent upsert keyed by
// (user_id, entity_type, entity_id), which is what lets clients resubmit a
// queue after connectivity loss without creating duplicates.
type FavoriteService struct {
	db DB
}

func NewFavoriteService(db DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// UpsertResult reports whether the row was created or updated in place.
// Updates do not emit a feed event, so re-favoriting never double-announces.
type UpsertResult struct {
	Record  models.Favorite `json:"record"`
	Created bool            `json:"created"`
}

type RemoveResult struct {
	Deleted bool `json:"deleted"`
}

func validateFavoriteInput(input *models.FavoriteUpsertInput) error {
	if !input.EntityType.Valid() {
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidFavorite, input.EntityType)
	}
	input.EntityID = strings.TrimSpace(input.EntityID)
	if input.EntityID == "" || len(input.EntityID) > maxFavoriteEntityIDLen {
		return fmt.Errorf("%w: entity id must be 1-%d characters", ErrInvalidFavorite, maxFavoriteEntityIDLen)
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || len(input.Title) > maxFavoriteTitleLen {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidFavorite, maxFavoriteTitleLen)
	}
	input.Href = strings.TrimSpace(input.Href)
	if !strings.HasPrefix(input.Href, "/") || strings.Contains(input.Href, "://") {
		return fmt.Errorf("%w: href must be a root-relative path", ErrInvalidFavorite)
	}
	if len(input.Tags) > maxFavoriteTags {
		return fmt.Errorf("%w: at most %d tags", ErrInvalidFavorite, maxFavoriteTags)
	}
	tags := input.Tags[:0]
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	input.Tags = tags
	return nil
}

// Upsert validates and writes one favorite. Calling it twice with the same
// key updates the row in place and reports created=false on the second call.
func (s *FavoriteService) Upsert(ctx context.Context, userID uuid.UUID, input models.FavoriteUpsertInput) (*UpsertResult, error) {
	if err := validateFavoriteInput(&input); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin favorite upsert: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	result := &UpsertResult{}
	record := &result.Record
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	err = tx.QueryRow(ctx,
		`INSERT INTO user_favorites (user_id, entity_type, entity_id, title, href, image_url, subtitle, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE
		 SET title = EXCLUDED.title,
		     href = EXCLUDED.href,
		     image_url = EXCLUDED.image_url,
		     subtitle = EXCLUDED.subtitle,
		     tags = EXCLUDED.tags,
		     updated_at = now()
		 RETURNING id, user_id, entity_type, entity_id, title, href, image_url, subtitle, tags, created_at, updated_at, (xmax = 0)`,
		userID, input.EntityType, input.EntityID, input.Title, input.Href,
		input.ImageURL, input.Subtitle, input.Tags,
	).Scan(&record.ID, &record.UserID, &record.EntityType, &record.EntityID,
		&record.Title, &record.Href, &record.ImageURL, &record.Subtitle,
		&record.Tags, &record.CreatedAt, &record.UpdatedAt, &result.Created)
	if err != nil {
		return nil, fmt.Errorf("upserting favorite: %w", err)
	}

	if result.Created {
		_, err = tx.Exec(ctx,
			`INSERT INTO social_events (event_type, actor_id, favorite_title)
			 VALUES ('favorite_added', $1, $2)`,
			userID, record.Title,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting favorite event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit favorite upsert: %w", err)
	}
	committed = true
	return result, nil
}

// Remove deletes one favorite if present. Removing a favorite that does not
// exist is a success; the result says whether a row actually went away.
func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, entityType models.FavoriteEntityType, entityID string) (*RemoveResult, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidFavorite, entityType)
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return nil, fmt.Errorf("%w: entity id is required", ErrInvalidFavorite)
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM user_favorites
		 WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3`,
		userID, entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("removing favorite: %w", err)
	}
	return &RemoveResult{Deleted: tag.RowsAffected() > 0}, nil
}

// Sync replays a client's offline queue in submitted order. Each op stands
// alone: a malformed op is recorded as failed and the rest still apply, so
// the client re-queues only the failed subset. Order matters: add X then
// remove X must leave X absent.
func (s *FavoriteService) Sync(ctx context.Context, userID uuid.UUID, ops []models.FavoriteSyncOp) (*models.FavoriteSyncResult, error) {
	result := &models.FavoriteSyncResult{
		Failures:       []models.FavoriteSyncFailure{},
		CreatedRecords: []models.Favorite{},
	}

	for i, op := range ops {
		var err error
		switch op.Op {
		case models.FavoriteSyncAdd:
			if op.Item == nil {
				err = fmt.Errorf("%w: add op requires an item", ErrInvalidFavorite)
				break
			}
			var upserted *UpsertResult
			upserted, err = s.Upsert(ctx, userID, *op.Item)
			if err == nil && upserted.Created {
				result.CreatedRecords = append(result.CreatedRecords, upserted.Record)
			}
		case models.FavoriteSyncRemove:
			_, err = s.Remove(ctx, userID, op.EntityType, op.EntityID)
		default:
			err = fmt.Errorf("%w: unknown op %q", ErrInvalidFavorite, op.Op)
		}

		if err != nil {
			// Storage being down fails the whole batch; only per-op
			// problems are isolated.
			if !errors.Is(err, ErrInvalidFavorite) {
				return nil, err
			}
			result.Failed++
			result.Failures = append(result.Failures, models.FavoriteSyncFailure{
				Index:   i,
				Message: err.Error(),
			})
			continue
		}
		result.Applied++
	}

	return result, nil
}

// List returns the user's own favorites, newest first, optionally filtered
// by entity type.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID, entityType *models.FavoriteEntityType, page Page) ([]models.Favorite, *string, error) {
	if entityType != nil && !entityType.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidFavorite, *entityType)
	}
	return s.listFavorites(ctx, userID, entityType, page)
}

// ListPublic returns ownerID's favorites for viewerID's eyes. A block in
// either direction, or the owner keeping favorites private, hides the whole
// list behind the same error so callers cannot probe which it was.
func (s *FavoriteService) ListPublic(ctx context.Context, viewerID, ownerID uuid.UUID, entityType *models.FavoriteEntityType, page Page) ([]models.Favorite, *string, error) {
	if entityType != nil && !entityType.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidFavorite, *entityType)
	}

	if viewerID != ownerID {
		var visible bool
		err := s.db.QueryRow(ctx,
			`SELECT COALESCE(s.profile_public, false) AND COALESCE(s.show_favorites_on_public, false)
			   AND NOT EXISTS (
			     SELECT 1 FROM user_blocks
			     WHERE (blocker_id = $1 AND blocked_id = $2)
			        OR (blocker_id = $2 AND blocked_id = $1)
			   )
			 FROM users u
			 LEFT JOIN user_social_settings s ON s.user_id = u.id
			 WHERE u.id = $2`,
			viewerID, ownerID,
		).Scan(&visible)
		if err != nil {
			return nil, nil, fmt.Errorf("checking favorites visibility: %w", err)
		}
		if !visible {
			return nil, nil, ErrFavoritesPrivate
		}
	}

	return s.listFavorites(ctx, ownerID, entityType, page)
}

func (s *FavoriteService) listFavorites(ctx context.Context, userID uuid.UUID, entityType *models.FavoriteEntityType, page Page) ([]models.Favorite, *string, error) {
	limit := ClampLimit(page.Limit)

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	idx := 2

	if entityType != nil {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", idx))
		args = append(args, *entityType)
		idx++
	}

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, nil, err
		}
		rowID, err := cursor.UUIDID()
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(created_at, id) < ($%d, $%d::uuid)", idx, idx+1))
		args = append(args, cursor.CreatedAt, rowID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, entity_type, entity_id, title, href, image_url, subtitle, tags, created_at, updated_at
		 FROM user_favorites
		 WHERE %s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d`,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.EntityType, &f.EntityID,
			&f.Title, &f.Href, &f.ImageURL, &f.Subtitle, &f.Tags,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing favorites: %w", err)
	}

	var nextCursor *string
	if len(favorites) == limit {
		last := favorites[len(favorites)-1]
		encoded := EncodeCursor(last.CreatedAt, last.ID.String())
		nextCursor = &encoded
	}
	return favorites, nextCursor, nil
}
