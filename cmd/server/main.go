// Package main runs the ticketing platform HTTP server with the live check-in
// feed and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/entrada-events/backend/config"
	"github.com/entrada-events/backend/internal/assignments"
	"github.com/entrada-events/backend/internal/auth"
	"github.com/entrada-events/backend/internal/companies"
	"github.com/entrada-events/backend/internal/events"
	"github.com/entrada-events/backend/internal/middleware"
	"github.com/entrada-events/backend/internal/rbac"
	"github.com/entrada-events/backend/internal/realtime"
	"github.com/entrada-events/backend/internal/registration"
	"github.com/entrada-events/backend/internal/tickets"
	"github.com/entrada-events/backend/internal/users"
	"github.com/entrada-events/backend/internal/worker"
	"github.com/entrada-events/backend/pkg/database"
	"github.com/entrada-events/backend/pkg/redis"
	"github.com/entrada-events/backend/pkg/response"
	"github.com/entrada-events/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.MediaBucket != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			MediaBucket:          cfg.AWS.MediaBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.JWT.SecureCookie)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Users
	usersRepo := users.NewRepository(pool)
	usersHandler := users.NewHandler(usersRepo, logger)

	// Companies
	companiesRepo := companies.NewRepository(pool)
	companiesHandler := companies.NewHandler(companiesRepo, logger)

	// Events
	eventsRepo := events.NewRepository(pool)
	eventsHandler := events.NewHandler(eventsRepo, s3Client, logger)

	// Assignments
	assignmentsRepo := assignments.NewRepository(pool)
	assignmentsHandler := assignments.NewHandler(assignmentsRepo, usersRepo, eventsRepo, logger)

	// Event scope (ownership / assignment checks for /events/:id/... routes)
	resolver := events.NewScopeResolver(eventsRepo, assignmentsRepo)
	eventAccess := events.RequireEventAccess(resolver)

	// Tickets and check-in
	ticketsRepo := tickets.NewRepository(pool)
	ticketsHandler := tickets.NewHandler(ticketsRepo, eventsRepo, hub, logger)

	// Registration links and public self-registration
	linksRepo := registration.NewRepository(pool)
	registrationHandler := registration.NewHandler(linksRepo, eventsRepo, ticketsRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Public: door scanner ticket preview and self-registration
	router.GET("/tickets/verify/:qrCode", ticketsHandler.Verify)
	router.GET("/register/:code", registrationHandler.Show)
	router.POST("/register/:code", registrationHandler.Register)

	// Protected API (valid token required)
	api := router.Group("")
	api.Use(middleware.Auth(jwtService))
	{
		api.GET("/auth/me", authHandler.Me)

		// Users
		api.GET("/users", middleware.RequirePermission(rbac.PermUserRead), usersHandler.List)
		api.POST("/users", middleware.RequirePermission(rbac.PermUserCreate), usersHandler.Create)
		api.GET("/users/:id", middleware.RequirePermission(rbac.PermUserRead), usersHandler.GetByID)
		api.PUT("/users/:id", middleware.RequirePermission(rbac.PermUserUpdate), usersHandler.Update)
		api.DELETE("/users/:id", middleware.RequirePermission(rbac.PermUserDelete), usersHandler.Delete)

		// Companies
		api.GET("/companies", middleware.RequireRole(rbac.RoleSuperAdmin), companiesHandler.List)
		api.POST("/companies", middleware.RequirePermission(rbac.PermCompanyCreate), companiesHandler.Create)
		api.GET("/companies/my-company", companiesHandler.Mine)
		api.GET("/companies/:id", companiesHandler.GetByID)
		api.PUT("/companies/:id", companiesHandler.Update)
		api.DELETE("/companies/:id", middleware.RequirePermission(rbac.PermCompanyDelete), companiesHandler.Delete)

		// Events (collection)
		api.GET("/events", middleware.RequirePermission(rbac.PermEventRead), eventsHandler.List)
		api.GET("/events/my-events", middleware.RequirePermission(rbac.PermEventRead), eventsHandler.ListMine)
		api.POST("/events", middleware.RequirePermission(rbac.PermEventCreate), eventsHandler.Create)

		// Events (single, behind ownership/assignment resolution)
		scoped := api.Group("/events/:id")
		scoped.Use(eventAccess)
		{
			scoped.GET("", middleware.RequirePermission(rbac.PermEventRead), eventsHandler.GetByID)
			scoped.PUT("", middleware.RequirePermission(rbac.PermEventUpdate), eventsHandler.Update)
			scoped.DELETE("", middleware.RequirePermission(rbac.PermEventDelete), eventsHandler.Delete)
			scoped.POST("/cover/upload-url", middleware.RequirePermission(rbac.PermEventUpdate), eventsHandler.GenerateCoverUploadURL)

			scoped.GET("/assignments", middleware.RequirePermission(rbac.PermUserRead), assignmentsHandler.List)
			scoped.POST("/assignments", middleware.RequirePermission(rbac.PermUserAssign), assignmentsHandler.Create)
			scoped.POST("/assignments/bulk", middleware.RequirePermission(rbac.PermUserAssign), assignmentsHandler.CreateBulk)
			scoped.DELETE("/assignments/:assignmentId", middleware.RequirePermission(rbac.PermUserAssign), assignmentsHandler.Delete)

			scoped.GET("/tickets", middleware.RequirePermission(rbac.PermTicketRead), ticketsHandler.List)
			scoped.GET("/tickets/stats", middleware.RequirePermission(rbac.PermTicketRead), ticketsHandler.Stats)
			scoped.POST("/tickets", middleware.RequirePermission(rbac.PermTicketCreate), ticketsHandler.Create)

			scoped.GET("/registration-links", middleware.RequirePermission(rbac.PermTicketCreate), registrationHandler.List)
			scoped.POST("/registration-links", middleware.RequirePermission(rbac.PermTicketCreate), registrationHandler.Create)
			scoped.DELETE("/registration-links/:code", middleware.RequirePermission(rbac.PermTicketCreate), registrationHandler.Deactivate)
		}

		// Check-in (by ticket id, tenant-checked in the handler)
		api.POST("/tickets/:id/checkin", middleware.RequirePermission(rbac.PermTicketCheckin), ticketsHandler.CheckIn)
	}

	// WebSocket live check-in feed (token in query or cookie)
	wsAuthenticate := func(token string) (auth.Identity, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return auth.Identity{}, err
		}
		return claims.Identity, nil
	}
	wsAuthorize := func(ctx context.Context, eventID uuid.UUID, id auth.Identity) error {
		if accessErr := resolver.ResolveID(ctx, eventID, id); accessErr != nil {
			return accessErr
		}
		return nil
	}
	router.GET("/ws", realtime.ServeWs(hub, logger, wsAuthenticate, wsAuthorize))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background maintenance (expired links, ended events)
	sweeper := worker.NewSweeper(linksRepo, eventsRepo,
		time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go sweeper.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
