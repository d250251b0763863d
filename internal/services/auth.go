package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rotomdex/rotomdex/internal/models"
)

const (
	sessionKeyPrefix = "session:"
	sessionDuration  = 30 * 24 * time.Hour
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// AuthService validates opaque session tokens minted by the account
// service. Sessions live in redis keyed by the sha256 of the token; this
// service never sees passwords and never creates accounts.
type AuthService struct {
	db DBConn
	kv KV
}

func NewAuthService(db DBConn, kv KV) *AuthService {
	return &AuthService{db: db, kv: kv}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateSession resolves a session token to its user and slides the
// session expiry.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	key := sessionKeyPrefix + hashToken(token)
	userIDStr, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parsing session user id: %w", err)
	}

	_ = s.kv.Expire(ctx, key, sessionDuration)

	return s.GetUserByID(ctx, userID)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, username, role, suspended_at, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Role, &user.SuspendedAt, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}
