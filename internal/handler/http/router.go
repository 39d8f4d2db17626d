package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/middleware"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/metrics"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
	// UploadsDir is served under /uploads when files are kept on local disk.
	UploadsDir string

	JWTService  jwt.Service
	RateLimiter *middleware.RateLimiter

	Auth         AuthHandler
	User         UserHandler
	Business     BusinessHandler
	Review       ReviewHandler
	Report       ReportHandler
	Deal         DealHandler
	Proof        ProofHandler
	Analytics    AnalyticsHandler
	Invite       InviteHandler
	Referral     ReferralHandler
	Notification NotificationHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "thikabizhub"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", metrics.Handler())

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	limited := cfg.RateLimiter.Handler

	r.Route("/api/v1", func(r chi.Router) {
		// Bearer tokens are parsed everywhere so public routes can see an
		// optional caller; AuthRequired enforces them.
		r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))

		r.Route("/auth", func(r chi.Router) {
			r.Use(limited)
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.RefreshToken)
			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/google", cfg.Auth.LoginWithGoogle)
			r.Get("/google/callback", cfg.Auth.OAuthCallbackGoogle)
		})

		// Public
		r.Get("/businesses", cfg.Business.List)
		r.Get("/businesses/nearby", cfg.Business.Nearby)
		r.Get("/businesses/{id}", cfg.Business.Get)
		r.Get("/reviews", cfg.Review.List)
		r.Get("/deals", cfg.Deal.ListActive)
		r.Get("/proofs", cfg.Proof.ListApproved)
		r.Get("/invites/{code}", cfg.Invite.GetDetails)
		r.Get("/notifications/stream", cfg.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", cfg.User.Me)
				r.Put("/me", cfg.User.UpdateMe)
				r.Get("/me/businesses", cfg.User.MyBusinesses)
				r.Get("/me/favorites", cfg.User.Favorites)
				r.Post("/me/favorites/{businessID}", cfg.User.ToggleFavorite)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", cfg.User.List)
					r.Post("/set-role", cfg.User.SetRole)
				})
			})

			r.Post("/businesses", cfg.Business.Create)
			r.Post("/businesses/{id}/images", cfg.Business.UploadImage)
			r.Post("/reviews", cfg.Review.Create)
			r.Post("/reports", cfg.Report.Create)
			r.Post("/proofs", cfg.Proof.Submit)

			r.Route("/invites", func(r chi.Router) {
				r.Get("/", cfg.Invite.List)
				r.Post("/", cfg.Invite.Create)
				r.With(limited).Post("/{code}/accept", cfg.Invite.Accept)
			})

			r.Route("/referrals", func(r chi.Router) {
				r.Get("/", cfg.Referral.GetInfo)
				r.With(limited).Post("/", cfg.Referral.Apply)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", cfg.Notification.List)
				r.Get("/unread-count", cfg.Notification.UnreadCount)
				r.Post("/read", cfg.Notification.MarkAsRead)
				r.Post("/read-all", cfg.Notification.MarkAllAsRead)
				r.Delete("/{id}", cfg.Notification.Delete)
				r.Get("/sse-token", cfg.Notification.GetSSEToken)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/businesses/pending", cfg.Business.ListPending)
				r.Post("/businesses/{id}/approve", cfg.Business.Approve)
				r.Delete("/businesses/{id}", cfg.Business.Reject)

				r.Get("/reports", cfg.Report.List)

				r.Post("/deals", cfg.Deal.Create)
				r.Delete("/deals/{id}", cfg.Deal.Delete)

				r.Get("/proofs/pending", cfg.Proof.ListPending)
				r.Post("/proofs/{id}/approve", cfg.Proof.Approve)
				r.Delete("/proofs/{id}", cfg.Proof.Reject)

				r.Get("/analytics", cfg.Analytics.Dashboard)
				r.Get("/analytics/insights", cfg.Analytics.Insights)
			})
		})
	})
	return r
}
