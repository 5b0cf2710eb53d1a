package http

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"speaks/internal/delivery/http/controllers"
	"speaks/internal/delivery/http/middleware"
	"speaks/internal/domain"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Discovery   *controllers.DiscoveryController
	Interaction *controllers.InteractionController
	Event       *controllers.EventController
	Admin       *controllers.AdminController
	Auth        *controllers.AuthController
	User        *controllers.UserController

	Verifier    domain.TokenVerifier
	RateLimiter *middleware.RateLimiter
	Redis       *redis.Client
	CacheTTL    time.Duration
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(d.Verifier)
	optionalAuth := middleware.OptionalAuth(d.Verifier)

	cached := func(next http.HandlerFunc) http.HandlerFunc {
		if d.Redis == nil {
			return next
		}
		return middleware.ResponseCache(d.Redis, d.CacheTTL, next)
	}
	invalidating := func(next http.HandlerFunc) http.HandlerFunc {
		if d.Redis == nil {
			return next
		}
		return middleware.InvalidateEventCache(d.Redis, next)
	}
	// Toggles are rate limited per user and flush the discovery cache.
	toggle := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(d.RateLimiter.Limit(invalidating(next)))
	}

	// Discovery
	mux.HandleFunc("GET /events", optionalAuth(cached(d.Discovery.DiscoverEvents)))
	mux.HandleFunc("GET /events/{eventID}", optionalAuth(cached(d.Discovery.GetEvent)))
	mux.HandleFunc("GET /me/bookmarks", requireAuth(d.Discovery.ListBookmarkedEvents))

	// Interactions
	mux.HandleFunc("POST /events/{eventID}/bookmark", toggle(d.Interaction.ToggleBookmark))
	mux.HandleFunc("POST /events/{eventID}/rsvp", toggle(d.Interaction.ToggleRSVP))
	mux.HandleFunc("POST /users/{userID}/follow", toggle(d.Interaction.ToggleFollow))

	// Event lifecycle
	mux.HandleFunc("POST /events", requireAuth(invalidating(d.Event.CreateEvent)))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(invalidating(d.Event.UpdateEvent)))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(invalidating(d.Event.DeleteEvent)))
	mux.HandleFunc("POST /events/{eventID}/submit", requireAuth(d.Event.SubmitForReview))
	mux.HandleFunc("POST /events/{eventID}/cancel", requireAuth(invalidating(d.Event.CancelEvent)))
	mux.HandleFunc("GET /me/events", requireAuth(d.Event.ListMyEvents))

	// Admin
	mux.HandleFunc("GET /admin/events/pending", requireAuth(d.Admin.ListPendingEvents))
	mux.HandleFunc("POST /admin/events/{eventID}/approve", requireAuth(invalidating(d.Admin.ApproveEvent)))
	mux.HandleFunc("POST /admin/events/{eventID}/reject", requireAuth(invalidating(d.Admin.RejectEvent)))
	mux.HandleFunc("GET /admin/stats", requireAuth(d.Admin.GetStats))
	mux.HandleFunc("GET /admin/logs", requireAuth(d.Admin.ListAuditLogs))

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(d.User.GetMe))
	mux.HandleFunc("PATCH /users/me", requireAuth(d.User.UpdateMe))
	mux.HandleFunc("GET /users/{userID}/social", d.User.GetSocialCounts)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
