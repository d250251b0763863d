package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type mockFriendService struct {
	RequestFunc     func(ctx context.Context, requesterID, targetID uuid.UUID) (*models.Friendship, error)
	AcceptFunc      func(ctx context.Context, userID, friendshipID uuid.UUID) (*models.Friendship, error)
	RejectFunc      func(ctx context.Context, userID, friendshipID uuid.UUID) error
	CancelFunc      func(ctx context.Context, userID, friendshipID uuid.UUID) error
	RemoveFunc      func(ctx context.Context, userID, friendshipID uuid.UUID) error
	StatusFunc      func(ctx context.Context, userID, otherUserID uuid.UUID) (*models.RelationStatus, error)
	LookupFunc      func(ctx context.Context, currentUserID uuid.UUID, username string) (*models.UserSearchResult, error)
	SearchUsersFunc func(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
	IsFriendFunc    func(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

func (m *mockFriendService) Request(ctx context.Context, requesterID, targetID uuid.UUID) (*models.Friendship, error) {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, requesterID, targetID)
	}
	return &models.Friendship{ID: uuid.New(), RequesterID: requesterID, TargetID: targetID, Status: models.FriendshipStatusPending}, nil
}

func (m *mockFriendService) Accept(ctx context.Context, userID, friendshipID uuid.UUID) (*models.Friendship, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, userID, friendshipID)
	}
	return &models.Friendship{ID: friendshipID, Status: models.FriendshipStatusAccepted}, nil
}

func (m *mockFriendService) Reject(ctx context.Context, userID, friendshipID uuid.UUID) error {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, userID, friendshipID)
	}
	return nil
}

func (m *mockFriendService) Cancel(ctx context.Context, userID, friendshipID uuid.UUID) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, userID, friendshipID)
	}
	return nil
}

func (m *mockFriendService) Remove(ctx context.Context, userID, friendshipID uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, friendshipID)
	}
	return nil
}

func (m *mockFriendService) Status(ctx context.Context, userID, otherUserID uuid.UUID) (*models.RelationStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID, otherUserID)
	}
	return &models.RelationStatus{Status: models.FriendshipViewNone}, nil
}

func (m *mockFriendService) Lookup(ctx context.Context, currentUserID uuid.UUID, username string) (*models.UserSearchResult, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, currentUserID, username)
	}
	return &models.UserSearchResult{ID: uuid.New(), Username: username}, nil
}

func (m *mockFriendService) SearchUsers(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, currentUserID, query)
	}
	return []models.UserSearchResult{}, nil
}

func (m *mockFriendService) IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	if m.IsFriendFunc != nil {
		return m.IsFriendFunc(ctx, userID, otherUserID)
	}
	return false, nil
}

type mockBlockService struct {
	BlockFunc       func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	UnblockFunc     func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlockedFunc   func(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
	ListBlockedFunc func(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

func (m *mockBlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if m.BlockFunc != nil {
		return m.BlockFunc(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockBlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if m.UnblockFunc != nil {
		return m.UnblockFunc(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockBlockService) IsBlocked(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	if m.IsBlockedFunc != nil {
		return m.IsBlockedFunc(ctx, userID, otherUserID)
	}
	return false, nil
}

func (m *mockBlockService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	if m.ListBlockedFunc != nil {
		return m.ListBlockedFunc(ctx, blockerID)
	}
	return []models.BlockedUser{}, nil
}

type mockFavoriteService struct {
	UpsertFunc     func(ctx context.Context, userID uuid.UUID, input models.FavoriteUpsertInput) (*services.UpsertResult, error)
	RemoveFunc     func(ctx context.Context, userID uuid.UUID, entityType models.FavoriteEntityType, entityID string) (*services.RemoveResult, error)
	SyncFunc       func(ctx context.Context, userID uuid.UUID, ops []models.FavoriteSyncOp) (*models.FavoriteSyncResult, error)
	ListFunc       func(ctx context.Context, userID uuid.UUID, entityType *models.FavoriteEntityType, page services.Page) ([]models.Favorite, *string, error)
	ListPublicFunc func(ctx context.Context, viewerID, ownerID uuid.UUID, entityType *models.FavoriteEntityType, page services.Page) ([]models.Favorite, *string, error)
}

func (m *mockFavoriteService) Upsert(ctx context.Context, userID uuid.UUID, input models.FavoriteUpsertInput) (*services.UpsertResult, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, input)
	}
	return &services.UpsertResult{Created: true}, nil
}

func (m *mockFavoriteService) Remove(ctx context.Context, userID uuid.UUID, entityType models.FavoriteEntityType, entityID string) (*services.RemoveResult, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, entityType, entityID)
	}
	return &services.RemoveResult{Deleted: true}, nil
}

func (m *mockFavoriteService) Sync(ctx context.Context, userID uuid.UUID, ops []models.FavoriteSyncOp) (*models.FavoriteSyncResult, error) {
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx, userID, ops)
	}
	return &models.FavoriteSyncResult{Failures: []models.FavoriteSyncFailure{}, CreatedRecords: []models.Favorite{}}, nil
}

func (m *mockFavoriteService) List(ctx context.Context, userID uuid.UUID, entityType *models.FavoriteEntityType, page services.Page) ([]models.Favorite, *string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, entityType, page)
	}
	return []models.Favorite{}, nil, nil
}

func (m *mockFavoriteService) ListPublic(ctx context.Context, viewerID, ownerID uuid.UUID, entityType *models.FavoriteEntityType, page services.Page) ([]models.Favorite, *string, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, viewerID, ownerID, entityType, page)
	}
	return []models.Favorite{}, nil, nil
}

type mockFeedService struct {
	FeedFunc            func(ctx context.Context, userID uuid.UUID, page services.Page) (*services.FeedPage, error)
	NetworkSectionFunc  func(ctx context.Context, userID uuid.UUID, section models.NetworkSection, page services.Page) (*services.SectionPage, error)
	NetworkSnapshotFunc func(ctx context.Context, userID uuid.UUID) (*services.NetworkSnapshot, error)
}

func (m *mockFeedService) Feed(ctx context.Context, userID uuid.UUID, page services.Page) (*services.FeedPage, error) {
	if m.FeedFunc != nil {
		return m.FeedFunc(ctx, userID, page)
	}
	return &services.FeedPage{Items: []models.FeedEvent{}}, nil
}

func (m *mockFeedService) NetworkSection(ctx context.Context, userID uuid.UUID, section models.NetworkSection, page services.Page) (*services.SectionPage, error) {
	if m.NetworkSectionFunc != nil {
		return m.NetworkSectionFunc(ctx, userID, section, page)
	}
	return &services.SectionPage{Items: []models.FriendWithUser{}}, nil
}

func (m *mockFeedService) NetworkSnapshot(ctx context.Context, userID uuid.UUID) (*services.NetworkSnapshot, error) {
	if m.NetworkSnapshotFunc != nil {
		return m.NetworkSnapshotFunc(ctx, userID)
	}
	return &services.NetworkSnapshot{}, nil
}

type mockContentService struct {
	CreatePostFunc    func(ctx context.Context, authorID uuid.UUID, body string) (*models.SocialPost, error)
	CreateCommentFunc func(ctx context.Context, authorID, postID uuid.UUID, body string) (*models.SocialComment, error)
	ListPostsFunc     func(ctx context.Context, viewerID uuid.UUID, allowModerationBypass bool, page services.Page) ([]models.SocialPost, *string, error)
	ListCommentsFunc  func(ctx context.Context, viewerID, postID uuid.UUID, allowModerationBypass bool, page services.Page) ([]models.SocialComment, *string, error)
	DeletePostFunc    func(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, postID uuid.UUID) error
	DeleteCommentFunc func(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, commentID uuid.UUID) error
}

func (m *mockContentService) CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*models.SocialPost, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, authorID, body)
	}
	return &models.SocialPost{ID: uuid.New(), AuthorID: authorID, Body: body}, nil
}

func (m *mockContentService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, body string) (*models.SocialComment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, authorID, postID, body)
	}
	return &models.SocialComment{ID: uuid.New(), PostID: postID, AuthorID: authorID, Body: body}, nil
}

func (m *mockContentService) ListPosts(ctx context.Context, viewerID uuid.UUID, allowModerationBypass bool, page services.Page) ([]models.SocialPost, *string, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, viewerID, allowModerationBypass, page)
	}
	return []models.SocialPost{}, nil, nil
}

func (m *mockContentService) ListComments(ctx context.Context, viewerID, postID uuid.UUID, allowModerationBypass bool, page services.Page) ([]models.SocialComment, *string, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, viewerID, postID, allowModerationBypass, page)
	}
	return []models.SocialComment{}, nil, nil
}

func (m *mockContentService) DeletePost(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, postID uuid.UUID) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, callerID, allowModerationBypass, postID)
	}
	return nil
}

func (m *mockContentService) DeleteComment(ctx context.Context, callerID uuid.UUID, allowModerationBypass bool, commentID uuid.UUID) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, callerID, allowModerationBypass, commentID)
	}
	return nil
}

type mockNotificationService struct {
	ListFunc     func(ctx context.Context, userID uuid.UUID, unreadOnly bool, page services.Page) (*services.NotificationPage, error)
	MarkReadFunc func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, read bool) error
}

func (m *mockNotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page services.Page) (*services.NotificationPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, unreadOnly, page)
	}
	return &services.NotificationPage{Items: []models.Notification{}}, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, read bool) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, ids, read)
	}
	return nil
}

type mockReportService struct {
	ReportFunc func(ctx context.Context, reporterID, targetUserID uuid.UUID, reason string) (*models.SocialReport, error)
	ListFunc   func(ctx context.Context, status *models.ReportStatus, page services.Page) ([]models.SocialReport, *string, error)
	ReviewFunc func(ctx context.Context, reviewerID, reportID uuid.UUID, resolution string) (*models.SocialReport, error)
}

func (m *mockReportService) Report(ctx context.Context, reporterID, targetUserID uuid.UUID, reason string) (*models.SocialReport, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, reporterID, targetUserID, reason)
	}
	return &models.SocialReport{ID: uuid.New(), ReporterID: reporterID, TargetUserID: targetUserID, Reason: reason, Status: models.ReportStatusOpen}, nil
}

func (m *mockReportService) List(ctx context.Context, status *models.ReportStatus, page services.Page) ([]models.SocialReport, *string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, page)
	}
	return []models.SocialReport{}, nil, nil
}

func (m *mockReportService) Review(ctx context.Context, reviewerID, reportID uuid.UUID, resolution string) (*models.SocialReport, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(ctx, reviewerID, reportID, resolution)
	}
	return &models.SocialReport{ID: reportID, Status: models.ReportStatusReviewed}, nil
}

type mockSettingsService struct {
	GetFunc    func(ctx context.Context, userID uuid.UUID) (*models.SocialSettings, error)
	UpdateFunc func(ctx context.Context, userID uuid.UUID, patch models.SocialSettingsPatch) (*models.SocialSettings, error)
}

func (m *mockSettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.SocialSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return &models.SocialSettings{UserID: userID, Searchable: true}, nil
}

func (m *mockSettingsService) Update(ctx context.Context, userID uuid.UUID, patch models.SocialSettingsPatch) (*models.SocialSettings, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, patch)
	}
	return &models.SocialSettings{UserID: userID}, nil
}

type mockPresenceService struct {
	TouchFunc      func(ctx context.Context, userID uuid.UUID) error
	LastActiveFunc func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
}

func (m *mockPresenceService) Touch(ctx context.Context, userID uuid.UUID) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, userID)
	}
	return nil
}

func (m *mockPresenceService) LastActive(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]time.Time, error) {
	if m.LastActiveFunc != nil {
		return m.LastActiveFunc(ctx, userIDs)
	}
	return map[uuid.UUID]time.Time{}, nil
}

type mockAdminService struct {
	OverviewFunc    func(ctx context.Context) (*models.AdminOverview, error)
	RecentUsersFunc func(ctx context.Context, limit int) ([]models.AdminUserRow, error)
}

func (m *mockAdminService) Overview(ctx context.Context) (*models.AdminOverview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}
	return &models.AdminOverview{GeneratedAt: time.Now()}, nil
}

func (m *mockAdminService) RecentUsers(ctx context.Context, limit int) ([]models.AdminUserRow, error) {
	if m.RecentUsersFunc != nil {
		return m.RecentUsersFunc(ctx, limit)
	}
	return []models.AdminUserRow{}, nil
}
