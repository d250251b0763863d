package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
)

// AuthServiceInterface defines the contract for session validation.
type AuthServiceInterface interface {
	ValidateSession(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// FriendServiceInterface defines the contract for friendship operations.
type FriendServiceInterface interface {
	Request(ctx context.Context, requesterID, targetID uuid.UUID) (*models.Friendship, error)
	Accept(ctx context.Context, userID, friendshipID uuid.UUID) (*models.Friendship, error)
	Reject(ctx context.Context, userID, friendshipID uuid.UUID) error
	Cancel(ctx context.Context, userID, friendshipID uuid.UUID) error
	Remove(ctx context.Context, userID, friendshipID uuid.UUID) error
	Status(ctx context.Context, userID, otherUserID uuid.UUID) (*models.RelationStatus, error)
	Lookup(ctx context.Context, currentUserID uuid.UUID, username string) (*models.UserSearchResult, error)
	SearchUsers(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
	IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

// BlockServiceInterface defines the contract for block operations.
type BlockServiceInterface interface {
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlocked(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

// FavoriteServiceInterface defines the contract for favorites and sync.
type FavoriteServiceInterface interface {
	Upsert(ctx context.Context, userID uuid.UUID, input models.FavoriteUpsertInput) (*UpsertResult, error)
	Remove(ctx context.Context, userID uuid.UUID, entityType models.FavoriteEntityType, entityID string) (*RemoveResult, error)
	Sync(ctx context.Context, userID uuid.UUID, ops []models.FavoriteSyncOp) (*models.FavoriteSyncResult, error)
	List(ctx context.Context, userID uuid.UUID, entityType *models.FavoriteEntityType, page Page) ([]models.Favorite, *string, error)
	ListPublic(ctx context.Context, viewerID, ownerID uuid.UUID, entityType *models.FavoriteEntityType, page Page) ([]models.Favorite, *string, error)
}

// FeedServiceInterface defines the contract for feed and network views.
type FeedServiceInterface interface {
	Feed(ctx context.Context, userID uuid.UUID, page Page) (*FeedPage, error)
	NetworkSection(ctx context.Context, userID uuid.UUID, section models.NetworkSection, page Page) (*SectionPage, error)
	NetworkSnapshot(ctx context.Context, userID uuid.UUID) (*NetworkSnapshot, error)
}

// ContentServiceInterface defines the contract for posts and comments.
type ContentServiceInterface interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*models.SocialPost, error)
	CreateComment(ctx context.Context, authorID, postID uuid.UUID, body string) (*models.SocialComment, error)
	ListPosts(ctx context.Context, viewerID uuid.UUID, allowModerationBypass bool, page Page) ([]models.SocialPost, *string, error)
	ListComments(ctx context.Context, viewerID, postID uuid.UUID, allowModerationBypass bool, page Page) ([]models.SocialComment, *string, error)
	DeletePost(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, postID uuid.UUID) error
	DeleteComment(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, commentID uuid.UUID) error
}

// ReportServiceInterface defines the contract for the report workflow.
type ReportServiceInterface interface {
	Report(ctx context.Context, reporterID, targetUserID uuid.UUID, reason string) (*models.SocialReport, error)
	List(ctx context.Context, status *models.ReportStatus, page Page) ([]models.SocialReport, *string, error)
	Review(ctx context.Context, reviewerID, reportID uuid.UUID, resolution string) (*models.SocialReport, error)
}

// NotificationServiceInterface defines the contract for notifications.
type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page Page) (*NotificationPage, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, read bool) error
}

// SettingsServiceInterface defines the contract for social settings.
type SettingsServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.SocialSettings, error)
	Update(ctx context.Context, userID uuid.UUID, patch models.SocialSettingsPatch) (*models.SocialSettings, error)
}

// PresenceServiceInterface defines the contract for presence tracking.
type PresenceServiceInterface interface {
	Touch(ctx context.Context, userID uuid.UUID) error
	LastActive(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
}

// AdminServiceInterface defines the contract for dashboard aggregates.
type AdminServiceInterface interface {
	Overview(ctx context.Context) (*models.AdminOverview, error)
	RecentUsers(ctx context.Context, limit int) ([]models.AdminUserRow, error)
}
