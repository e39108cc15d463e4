package routes

import (
	"net/http"

	"github.com/reelhub/reelhub/internal/app"
	"github.com/reelhub/reelhub/internal/handler"
	"github.com/reelhub/reelhub/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	return setupRoutes(app, handler.GitHubEndpoints, handler.GoogleEndpoints)
}

func setupRoutes(app *app.App, githubEndpoints, googleEndpoints handler.ProviderEndpoints) http.Handler {
	cfg := app.Cfg

	// OAuth providers (Google only when configured)
	providers := []*handler.OAuthProvider{
		handler.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.AppURL, githubEndpoints),
	}
	if cfg.GoogleEnabled() {
		providers = append(providers, handler.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppURL, googleEndpoints))
	}
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, providers...)

	videos := handler.NewVideoHandler(app.VideoService)
	media := handler.NewMediaHandler(app.MediaService)
	health := handler.NewHealthHandler(app)

	mux := http.NewServeMux()
	limit := app.AuthLimiter.Limit

	// ============================================================================
	// AUTH (rate limited)
	// ============================================================================

	mux.HandleFunc("POST /auth/register", limit(auth.Register))
	mux.HandleFunc("POST /auth/login", limit(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/session", middleware.RequireAuth(auth.Session))

	// OAuth
	mux.HandleFunc("GET /auth/{provider}", limit(auth.OAuthStart))
	mux.HandleFunc("GET /auth/{provider}/callback", limit(auth.OAuthCallback))

	// ============================================================================
	// VIDEOS
	// ============================================================================

	mux.HandleFunc("GET /videos", videos.List)
	mux.HandleFunc("GET /videos/{id}", videos.Show)
	mux.HandleFunc("POST /videos", middleware.RequireAuth(videos.Create))

	// ============================================================================
	// MEDIA
	// ============================================================================

	// TODO: both upload endpoints are open to anonymous callers; decide after the security review whether to wrap them in RequireAuth.
	mux.HandleFunc("GET /media/upload-auth", media.UploadAuth)
	mux.HandleFunc("GET /media/upload-url", media.UploadURL)

	// Probes
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz)

	// 404
	mux.HandleFunc("/", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.AuthMiddleware(app.AuthService), // before logging so the user id is logged
		middleware.RequestLogging,
		middleware.Recoverer,
		middleware.CSRFProtection(cfg.IsProduction()),
	)
}
