package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/logging"
)

const (
	presenceKeyPrefix = "presence:"
	presenceTTL       = 30 * 24 * time.Hour
)

// PresenceService records last-active timestamps in redis. Touch runs on the
// hot path of every authenticated social request, so it is a single SET and
// its failures are logged, never surfaced to the caller.
//
// All writers store server "now"; a write never carries a client timestamp,
// which is what keeps lastActiveAt from regressing on a single redis. Clock
// skew across app hosts can still reorder writes by a few seconds; for an
// "online" dot that is acceptable.
type PresenceService struct {
	kv     KV
	logger *logging.Logger
	now    func() time.Time
}

func NewPresenceService(kv KV) *PresenceService {
	return &PresenceService{
		kv:     kv,
		logger: logging.Default,
		now:    time.Now,
	}
}

// Touch upserts lastActiveAt = now. Always returns nil.
func (s *PresenceService) Touch(ctx context.Context, userID uuid.UUID) error {
	now := s.now().UTC().Format(time.RFC3339Nano)
	if err := s.kv.Set(ctx, presenceKeyPrefix+userID.String(), now, presenceTTL); err != nil {
		s.logger.Warn("presence touch failed", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}
	return nil
}

// LastActive resolves last-active timestamps for a batch of users. Users
// with no presence record map to no entry.
func (s *PresenceService) LastActive(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]time.Time, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID]time.Time{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = presenceKeyPrefix + id.String()
	}

	vals, err := s.kv.MGet(ctx, keys...)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return map[uuid.UUID]time.Time{}, nil
		}
		return nil, err
	}

	out := make(map[uuid.UUID]time.Time, len(userIDs))
	for i, v := range vals {
		if v == nil {
			continue
		}
		if ts, err := time.Parse(time.RFC3339Nano, *v); err == nil {
			out[userIDs[i]] = ts
		}
	}
	return out, nil
}
