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

// SettingsService stores the per-user social preferences. The row is
// created lazily on first write; readers fall back to private defaults.
type SettingsService struct {
	db DB
}

func NewSettingsService(db DB) *SettingsService {
	return &SettingsService{db: db}
}

var settingsColumns = map[string]struct{}{
	"searchable":               {},
	"show_favorites_on_public": {},
	"profile_public":           {},
}

func isSettingsColumnAllowed(column string) bool {
	_, ok := settingsColumns[column]
	return ok
}

func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.SocialSettings, error) {
	settings := &models.SocialSettings{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, searchable, show_favorites_on_public, profile_public, updated_at
		 FROM user_social_settings WHERE user_id = $1`,
		userID,
	).Scan(&settings.UserID, &settings.Searchable, &settings.ShowFavoritesOnPublic,
		&settings.ProfilePublic, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row yet: defaults. Searchable defaults on, everything else off.
		return &models.SocialSettings{
			UserID:     userID,
			Searchable: true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading social settings: %w", err)
	}
	return settings, nil
}

// Update applies a partial patch through a column allowlist, creating the
// row on first write.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, patch models.SocialSettingsPatch) (*models.SocialSettings, error) {
	if err := s.ensureRow(ctx, userID); err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []any{}
	idx := 1
	invalidColumn := ""

	addBool := func(column string, value *bool) {
		if value == nil || invalidColumn != "" {
			return
		}
		if !isSettingsColumnAllowed(column) {
			invalidColumn = column
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, *value)
		idx++
	}

	addBool("searchable", patch.Searchable)
	addBool("show_favorites_on_public", patch.ShowFavoritesOnPublic)
	addBool("profile_public", patch.ProfilePublic)

	if invalidColumn != "" {
		return nil, fmt.Errorf("invalid settings column: %s", invalidColumn)
	}

	if len(setClauses) == 0 {
		return s.Get(ctx, userID)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, userID)
	query := fmt.Sprintf(
		"UPDATE user_social_settings SET %s WHERE user_id = $%d",
		strings.Join(setClauses, ", "),
		idx,
	)

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating social settings: %w", err)
	}

	return s.Get(ctx, userID)
}

func (s *SettingsService) ensureRow(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO user_social_settings (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ensuring settings row: %w", err)
	}
	return nil
}
