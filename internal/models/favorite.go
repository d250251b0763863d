package models

import (
	"time"

	"github.com/google/uuid"
)

type FavoriteEntityType string

const (
	FavoriteGame              FavoriteEntityType = "game"
	FavoritePokemon           FavoriteEntityType = "pokemon"
	FavoriteMega              FavoriteEntityType = "mega"
	FavoriteMegaStone         FavoriteEntityType = "mega_stone"
	FavoriteCharacter         FavoriteEntityType = "character"
	FavoriteItem              FavoriteEntityType = "item"
	FavoriteMove              FavoriteEntityType = "move"
	FavoriteAbility           FavoriteEntityType = "ability"
	FavoriteType              FavoriteEntityType = "type"
	FavoriteCard              FavoriteEntityType = "card"
	FavoriteMapRegion         FavoriteEntityType = "map_region"
	FavoriteLocation          FavoriteEntityType = "location"
	FavoritePokemonGoActivity FavoriteEntityType = "pokemon_go_activity"
	FavoritePokemonGoItem     FavoriteEntityType = "pokemon_go_item"
	FavoriteMechanicsTopic    FavoriteEntityType = "mechanics_topic"
)

var favoriteEntityTypes = map[FavoriteEntityType]struct{}{
	FavoriteGame:              {},
	FavoritePokemon:           {},
	FavoriteMega:              {},
	FavoriteMegaStone:         {},
	FavoriteCharacter:         {},
	FavoriteItem:              {},
	FavoriteMove:              {},
	FavoriteAbility:           {},
	FavoriteType:              {},
	FavoriteCard:              {},
	FavoriteMapRegion:         {},
	FavoriteLocation:          {},
	FavoritePokemonGoActivity: {},
	FavoritePokemonGoItem:     {},
	FavoriteMechanicsTopic:    {},
}

func (t FavoriteEntityType) Valid() bool {
	_, ok := favoriteEntityTypes[t]
	return ok
}

// Favorite is one bookmarked wiki entity. Unique per
// (user_id, entity_type, entity_id); writes are upserts, never duplicates.
type Favorite struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	EntityType FavoriteEntityType `json:"entity_type"`
	EntityID   string             `json:"entity_id"`
	Title      string             `json:"title"`
	Href       string             `json:"href"`
	ImageURL   *string            `json:"image_url,omitempty"`
	Subtitle   *string            `json:"subtitle,omitempty"`
	Tags       []string           `json:"tags"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type FavoriteUpsertInput struct {
	EntityType FavoriteEntityType `json:"entity_type"`
	EntityID   string             `json:"entity_id"`
	Title      string             `json:"title"`
	Href       string             `json:"href"`
	ImageURL   *string            `json:"image_url,omitempty"`
	Subtitle   *string            `json:"subtitle,omitempty"`
	Tags       []string           `json:"tags,omitempty"`
}

type FavoriteSyncOpKind string

const (
	FavoriteSyncAdd    FavoriteSyncOpKind = "add"
	FavoriteSyncRemove FavoriteSyncOpKind = "remove"
)

// FavoriteSyncOp is one entry of a client's offline queue. Ops are applied
// in submitted order so add-then-remove resolves to removed.
type FavoriteSyncOp struct {
	Op         FavoriteSyncOpKind   `json:"op"`
	Item       *FavoriteUpsertInput `json:"item,omitempty"`
	EntityType FavoriteEntityType   `json:"entity_type,omitempty"`
	EntityID   string               `json:"entity_id,omitempty"`
}

type FavoriteSyncFailure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type FavoriteSyncResult struct {
	Applied        int                   `json:"applied"`
	Failed         int                   `json:"failed"`
	Failures       []FavoriteSyncFailure `json:"failures"`
	CreatedRecords []Favorite            `json:"created_records"`
}
