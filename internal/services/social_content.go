package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rotomdex/rotomdex/internal/models"
)

var (
	ErrContentEmpty     = errors.New("content body is empty")
	ErrContentTooLong   = errors.New("content body is too long")
	ErrContentNotFound  = errors.New("content not found")
	ErrNotContentAuthor = errors.New("only the author or a moderator can delete this")
	ErrPostNotFound     = errors.New("post not found")
)

const maxContentBodyLen = 2000

// ContentService owns social posts and comments. Deletion is soft: the row
// keeps its deleted_at timestamp so moderators retain the audit trail, and
// only moderation-bypass callers see deleted rows.
type ContentService struct {
	db DB
}

func NewContentService(db DB) *ContentService {
	return &ContentService{db: db}
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrContentEmpty
	}
	if len(body) > maxContentBodyLen {
		return "", ErrContentTooLong
	}
	return body, nil
}

// CreatePost publishes a post and its feed event atomically.
func (s *ContentService) CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*models.SocialPost, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create post: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	post := &models.SocialPost{}
	err = tx.QueryRow(ctx,
		`INSERT INTO social_posts (author_id, body)
		 VALUES ($1, $2)
		 RETURNING id, author_id, body, created_at`,
		authorID, body,
	).Scan(&post.ID, &post.AuthorID, &post.Body, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO social_events (event_type, actor_id, post_id)
		 VALUES ('post_published', $1, $2)`,
		authorID, post.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting post event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}
	committed = true
	return post, nil
}

// CreateComment attaches a comment to a visible post.
func (s *ContentService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, body string) (*models.SocialComment, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM social_posts WHERE id = $1 AND deleted_at IS NULL)`,
		postID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	comment := &models.SocialComment{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO social_comments (post_id, author_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, post_id, author_id, body, created_at`,
		postID, authorID, body,
	).Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Body, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}

// ListPosts returns posts visible to the viewer: blocked authors are
// suppressed both ways, and soft-deleted posts only show up for
// moderation-bypass callers.
func (s *ContentService) ListPosts(ctx context.Context, viewerID uuid.UUID, allowModerationBypass bool, page Page) ([]models.SocialPost, *string, error) {
	limit := ClampLimit(page.Limit)

	conditions := []string{
		`NOT EXISTS (
		   SELECT 1 FROM user_blocks b
		   WHERE (b.blocker_id = $1 AND b.blocked_id = p.author_id)
		      OR (b.blocker_id = p.author_id AND b.blocked_id = $1)
		 )`,
	}
	if !allowModerationBypass {
		conditions = append(conditions, "p.deleted_at IS NULL")
	}
	args := []any{viewerID}
	idx := 2

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, nil, err
		}
		postID, err := cursor.UUIDID()
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(p.created_at, p.id) < ($%d, $%d::uuid)", idx, idx+1))
		args = append(args, cursor.CreatedAt, postID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT p.id, p.author_id, u.username, p.body, p.created_at, p.deleted_at
		 FROM social_posts p
		 JOIN users u ON p.author_id = u.id
		 WHERE %s
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT $%d`,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	posts := []models.SocialPost{}
	for rows.Next() {
		var p models.SocialPost
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorUsername, &p.Body, &p.CreatedAt, &p.DeletedAt); err != nil {
			return nil, nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing posts: %w", err)
	}

	var nextCursor *string
	if len(posts) == limit {
		last := posts[len(posts)-1]
		encoded := EncodeCursor(last.CreatedAt, last.ID.String())
		nextCursor = &encoded
	}
	return posts, nextCursor, nil
}

// ListComments returns a post's comments under the same visibility rules as
// ListPosts, oldest first.
func (s *ContentService) ListComments(ctx context.Context, viewerID, postID uuid.UUID, allowModerationBypass bool, page Page) ([]models.SocialComment, *string, error) {
	limit := ClampLimit(page.Limit)

	conditions := []string{
		"c.post_id = $2",
		`NOT EXISTS (
		   SELECT 1 FROM user_blocks b
		   WHERE (b.blocker_id = $1 AND b.blocked_id = c.author_id)
		      OR (b.blocker_id = c.author_id AND b.blocked_id = $1)
		 )`,
	}
	if !allowModerationBypass {
		conditions = append(conditions, "c.deleted_at IS NULL")
	}
	args := []any{viewerID, postID}
	idx := 3

	if page.Cursor != "" {
		cursor, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, nil, err
		}
		commentID, err := cursor.UUIDID()
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(c.created_at, c.id) > ($%d, $%d::uuid)", idx, idx+1))
		args = append(args, cursor.CreatedAt, commentID)
		idx += 2
	}

	query := fmt.Sprintf(
		`SELECT c.id, c.post_id, c.author_id, u.username, c.body, c.created_at, c.deleted_at
		 FROM social_comments c
		 JOIN users u ON c.author_id = u.id
		 WHERE %s
		 ORDER BY c.created_at ASC, c.id ASC
		 LIMIT $%d`,
		strings.Join(conditions, " AND "),
		idx,
	)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	comments := []models.SocialComment{}
	for rows.Next() {
		var c models.SocialComment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Body, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing comments: %w", err)
	}

	var nextCursor *string
	if len(comments) == limit {
		last := comments[len(comments)-1]
		encoded := EncodeCursor(last.CreatedAt, last.ID.String())
		nextCursor = &encoded
	}
	return comments, nextCursor, nil
}

// DeletePost soft-deletes. The author or a moderation-bypass caller may
// delete; deleting an already-deleted post is a no-op for bypass callers.
func (s *ContentService) DeletePost(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, postID uuid.UUID) error {
	return s.softDelete(ctx, callerID, allowModerationBypass, "social_posts", postID)
}

func (s *ContentService) DeleteComment(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, commentID uuid.UUID) error {
	return s.softDelete(ctx, callerID, allowModerationBypass, "social_comments", commentID)
}

func (s *ContentService) softDelete(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, table string, id uuid.UUID) error {
	var authorID uuid.UUID
	var deleted bool
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT author_id, deleted_at IS NOT NULL FROM %s WHERE id = $1`, table),
		id,
	).Scan(&authorID, &deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrContentNotFound
	}
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	if authorID != callerID && !allowModerationBypass {
		return ErrNotContentAuthor
	}
	if deleted {
		if allowModerationBypass {
			return nil
		}
		// Authors cannot see deleted rows, so for them it does not exist.
		return ErrContentNotFound
	}

	_, err = s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, table),
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting content: %w", err)
	}
	return nil
}
