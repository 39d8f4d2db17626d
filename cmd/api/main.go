package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/config"
	appHTTP "github.com/thikabizhub/bizhub-backend/internal/handler/http"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/middleware"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/cache"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/code"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/cron"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/email"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/oauth"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/sse"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/storage"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
	analyticsService "github.com/thikabizhub/bizhub-backend/internal/service/analytics"
	serviceAuth "github.com/thikabizhub/bizhub-backend/internal/service/auth"
	businessService "github.com/thikabizhub/bizhub-backend/internal/service/business"
	dealService "github.com/thikabizhub/bizhub-backend/internal/service/deal"
	inviteService "github.com/thikabizhub/bizhub-backend/internal/service/invite"
	notificationService "github.com/thikabizhub/bizhub-backend/internal/service/notification"
	proofService "github.com/thikabizhub/bizhub-backend/internal/service/proof"
	referralService "github.com/thikabizhub/bizhub-backend/internal/service/referral"
	reportService "github.com/thikabizhub/bizhub-backend/internal/service/report"
	reviewService "github.com/thikabizhub/bizhub-backend/internal/service/review"
	userService "github.com/thikabizhub/bizhub-backend/internal/service/user"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})).With(slog.String("app", "thikabizhub"), slog.String("version", version)))

	if err := database.MigrateUp(cfg.MigrationURL()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	scheduler := cron.NewScheduler()

	var store cache.Store
	switch cfg.Cache.Driver {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr(), cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		store = cache.NewRedisStore(client, "bizhub:")
	default:
		mem := cache.NewMemory()
		scheduler.AddJob("cache-sweep", cfg.Cache.SweepInterval, cron.CacheSweepJob(mem))
		store = cache.NewMemoryStore(mem)
	}

	var fileStorage storage.FileStorage
	uploadsDir := ""
	switch cfg.Storage.Type {
	case "s3":
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.S3URL)
		if err != nil {
			return fmt.Errorf("initialize s3 storage: %w", err)
		}
		if err := s3Storage.CheckBucketAccess(ctx); err != nil {
			return fmt.Errorf("s3 bucket not reachable: %w", err)
		}
		fileStorage = s3Storage
	default:
		localStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("initialize local storage: %w", err)
		}
		fileStorage = localStorage
		uploadsDir = localStorage.BasePath()
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	tokenRepo := postgresql.NewRefreshTokenRepository(db)
	businessRepo := postgresql.NewBusinessRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	dealRepo := postgresql.NewDealRepository(db)
	proofRepo := postgresql.NewProofRepository(db)
	analyticsRepo := postgresql.NewAnalyticsRepository(db)
	inviteRepo := postgresql.NewInviteRepository(db)
	referralRepo := postgresql.NewReferralRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	codes := code.NewGenerator()

	hub := sse.NewHub()
	defer hub.Close()
	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})
	defer notifSvc.Stop()

	referralSvc := referralService.NewReferralService(tx, referralRepo, userRepo, codes, notifSvc, referralService.Config{
		AppURL:       cfg.Invite.AppURL,
		RewardAmount: cfg.Referral.RewardAmount,
	})
	authSvc := serviceAuth.NewAuthService(tx, userRepo, tokenRepo, JWTService, googleService, referralSvc)
	userSvc := userService.NewUserService(userRepo)
	businessSvc := businessService.NewBusinessService(businessRepo, store, fileStorage, notifSvc)
	reviewSvc := reviewService.NewReviewService(tx, reviewRepo, businessRepo, store, notifSvc)
	reportSvc := reportService.NewReportService(reportRepo)
	dealSvc := dealService.NewDealService(dealRepo)
	proofSvc := proofService.NewProofService(proofRepo, fileStorage, notifSvc)
	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepo, store)
	inviteSvc := inviteService.NewInviteService(tx, inviteRepo, userRepo, codes, emailService, notifSvc, inviteService.Config{
		AppURL: cfg.Invite.AppURL,
		TTL:    cfg.Invite.TTL,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	scheduler.AddJob("ratelimit-cleanup", time.Minute, cron.CacheSweepJob(rateLimiter))
	scheduler.AddJob("refresh-token-purge", time.Hour, cron.TokenPurgeJob(tokenRepo, time.Now))

	secureCookie := cfg.App.Env == "production"
	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadsDir:     uploadsDir,
		JWTService:     JWTService,
		RateLimiter:    rateLimiter,
		Auth:           appHTTP.NewAuthHandler(JWTService, authSvc, cfg.App.FrontendURL, secureCookie),
		User:           appHTTP.NewUserHandler(userSvc, businessSvc),
		Business:       appHTTP.NewBusinessHandler(businessSvc),
		Review:         appHTTP.NewReviewHandler(reviewSvc, userSvc),
		Report:         appHTTP.NewReportHandler(reportSvc),
		Deal:           appHTTP.NewDealHandler(dealSvc),
		Proof:          appHTTP.NewProofHandler(proofSvc),
		Analytics:      appHTTP.NewAnalyticsHandler(analyticsSvc),
		Invite:         appHTTP.NewInviteHandler(inviteSvc),
		Referral:       appHTTP.NewReferralHandler(referralSvc),
		Notification:   appHTTP.NewNotificationHandler(notifSvc, JWTService),
	})

	scheduler.Start(ctx)
	defer scheduler.Stop()

	// SSE streams only end when their request context does, so Shutdown
	// cancels the base context instead of waiting them out.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
