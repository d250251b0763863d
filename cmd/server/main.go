package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotomdex/rotomdex/internal/config"
	"github.com/rotomdex/rotomdex/internal/database"
	"github.com/rotomdex/rotomdex/internal/handlers"
	"github.com/rotomdex/rotomdex/internal/logging"
	"github.com/rotomdex/rotomdex/internal/middleware"
	"github.com/rotomdex/rotomdex/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
	}

	logger.Info("Starting rotomdex social server...")

	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	if err := database.Migrate(cfg.Database.DSN(), "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("Migrations completed")

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Services
	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	authService := services.NewAuthService(dbAdapter, redisAdapter)
	friendService := services.NewFriendService(dbAdapter)
	blockService := services.NewBlockService(dbAdapter)
	favoriteService := services.NewFavoriteService(dbAdapter)
	feedService := services.NewFeedService(dbAdapter)
	contentService := services.NewContentService(dbAdapter)
	reportService := services.NewReportService(dbAdapter)
	notificationService := services.NewNotificationService(dbAdapter)
	settingsService := services.NewSettingsService(dbAdapter)
	presenceService := services.NewPresenceService(redisAdapter)
	adminService := services.NewAdminService(dbAdapter, presenceService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB)
	friendHandler := handlers.NewFriendHandler(friendService, feedService)
	blockHandler := handlers.NewBlockHandler(blockService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	feedHandler := handlers.NewFeedHandler(feedService)
	contentHandler := handlers.NewContentHandler(contentService)
	reportHandler := handlers.NewReportHandler(reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	presenceHandler := handlers.NewPresenceHandler(presenceService)
	adminStreamHandler := handlers.NewAdminStreamHandler(adminService, cfg.Admin.StreamTicketSecret, cfg.Admin.StreamInterval)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	featureGate := middleware.NewFeatureGate(cfg.Features.ProfileEnabled)
	presenceTracker := middleware.NewPresenceTracker(presenceService)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)
	writeLimiter := middleware.NewWriteRateLimiter(redisDB.Client)

	requireAuth := authMiddleware.RequireAuth
	requireAdmin := authMiddleware.RequireAdmin

	// Social routes share the feature gate, auth requirement and presence
	// touch; write routes add the rate limit.
	social := func(h http.HandlerFunc) http.Handler {
		return featureGate.Apply(requireAuth(presenceTracker.Apply(h)))
	}
	socialWrite := func(h http.HandlerFunc) http.Handler {
		return featureGate.Apply(requireAuth(presenceTracker.Apply(writeLimiter.Limit(h))))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return requireAdmin(h)
	}

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Favorites
	mux.Handle("GET /api/favorites", social(favoriteHandler.List))
	mux.Handle("POST /api/favorites", socialWrite(favoriteHandler.Upsert))
	mux.Handle("DELETE /api/favorites", socialWrite(favoriteHandler.Remove))
	mux.Handle("POST /api/favorites/sync", socialWrite(favoriteHandler.Sync))

	// Friends
	mux.Handle("GET /api/friends", social(friendHandler.List))
	mux.Handle("GET /api/friends/search", social(friendHandler.Search))
	mux.Handle("GET /api/friends/status", social(friendHandler.Status))
	mux.Handle("GET /api/friends/lookup", social(friendHandler.Lookup))
	mux.Handle("POST /api/friends/requests", socialWrite(friendHandler.SendRequest))
	mux.Handle("PUT /api/friends/requests/{id}/accept", socialWrite(friendHandler.AcceptRequest))
	mux.Handle("PUT /api/friends/requests/{id}/reject", socialWrite(friendHandler.RejectRequest))
	mux.Handle("DELETE /api/friends/requests/{id}/cancel", socialWrite(friendHandler.CancelRequest))
	mux.Handle("DELETE /api/friends/{id}", socialWrite(friendHandler.Remove))

	// Blocks
	mux.Handle("POST /api/social/block", socialWrite(blockHandler.Action))
	mux.Handle("GET /api/social/blocks", social(blockHandler.List))

	// Posts and comments
	mux.Handle("GET /api/social/posts", social(contentHandler.ListPosts))
	mux.Handle("POST /api/social/posts", socialWrite(contentHandler.CreatePost))
	mux.Handle("DELETE /api/social/posts/{id}", socialWrite(contentHandler.DeletePost))
	mux.Handle("GET /api/social/comments", social(contentHandler.ListComments))
	mux.Handle("POST /api/social/comments", socialWrite(contentHandler.CreateComment))
	mux.Handle("DELETE /api/social/comments/{id}", socialWrite(contentHandler.DeleteComment))

	// Feed, hub, network
	mux.Handle("GET /api/social/feed", social(feedHandler.Feed))
	mux.Handle("GET /api/social/hub", social(feedHandler.Hub))
	mux.Handle("GET /api/social/network", social(feedHandler.Network))

	// Notifications
	mux.Handle("GET /api/social/notifications", social(notificationHandler.List))
	mux.Handle("POST /api/social/notifications", socialWrite(notificationHandler.MarkRead))

	// Reports
	mux.Handle("POST /api/social/report", socialWrite(reportHandler.Create))
	mux.Handle("GET /api/social/reports", social(reportHandler.List))
	mux.Handle("PATCH /api/social/reports/{id}", socialWrite(reportHandler.Review))

	// Settings and presence
	mux.Handle("GET /api/social/settings", social(settingsHandler.Get))
	mux.Handle("PUT /api/social/settings", socialWrite(settingsHandler.Update))
	mux.Handle("POST /api/social/presence", social(presenceHandler.Heartbeat))

	// Admin stream (ticket is cookie-authed; the stream also accepts tickets)
	mux.Handle("POST /api/admin/stream/ticket", admin(adminStreamHandler.Ticket))
	mux.Handle("GET /api/admin/stream", http.HandlerFunc(adminStreamHandler.Stream))

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// The admin SSE stream stays open indefinitely; a write timeout
		// would sever it mid-stream.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
