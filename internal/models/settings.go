package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialSettings are the per-user preferences this service owns. Everything
// defaults to the most private value until the user writes a row.
type SocialSettings struct {
	UserID                uuid.UUID `json:"user_id"`
	Searchable            bool      `json:"searchable"`
	ShowFavoritesOnPublic bool      `json:"show_favorites_on_public"`
	ProfilePublic         bool      `json:"profile_public"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type SocialSettingsPatch struct {
	Searchable            *bool `json:"searchable,omitempty"`
	ShowFavoritesOnPublic *bool `json:"show_favorites_on_public,omitempty"`
	ProfilePublic         *bool `json:"profile_public,omitempty"`
}
