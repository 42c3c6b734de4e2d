package routes

import (
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/config"
	"IG_DIRECTORY_BACK-END/internal/handlers"
	"IG_DIRECTORY_BACK-END/internal/metrics"
	"IG_DIRECTORY_BACK-END/internal/middleware"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// Handlers groups the HTTP handlers served by the directory backend.
// Google is optional and its routes are only mounted when set.
type Handlers struct {
	Profile *handlers.ProfileHandler
	Admin   *handlers.AdminHandler
	Auth    *handlers.AuthHandler
	Google  *handlers.GoogleAuthHandler
	Health  *handlers.HealthHandler
}

// Options carries the cross-cutting pieces wired around the handlers
type Options struct {
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Authenticator middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
	SubmitLimit   config.RateRule
	LoginLimit    config.RateRule
	CORS          config.CORSConfig
	// ClientIP resolves caller addresses for rate limits and access logs; nil uses the peer
	ClientIP *utils.ClientIPResolver
}

type router struct {
	mux  *http.ServeMux
	opts Options
}

// handle registers h under pattern, instrumented with pattern as its route label
func (rt *router) handle(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, middleware.Instrument(rt.opts.Metrics, pattern, h))
}

// admin wraps h so it requires a valid admin session
func (rt *router) admin(h http.HandlerFunc) http.HandlerFunc {
	return middleware.AuthMiddleware(h, rt.opts.Authenticator)
}

// limited wraps h in a per-IP sliding window. A zero rule or a missing limiter leaves h unlimited.
func (rt *router) limited(name string, rule config.RateRule, h http.HandlerFunc) http.HandlerFunc {
	if rt.opts.RateLimiter == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return h
	}
	return rt.opts.RateLimiter.Limit(middleware.RateLimitRule{
		Name:       name,
		Limit:      rule.Limit,
		Window:     rule.Window,
		Identifier: middleware.ClientIPIdentifier(rt.opts.ClientIP),
	}, h)
}

// SetupRoutes configures all application routes and returns the root handler
func SetupRoutes(h Handlers, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	rt := &router{mux: http.NewServeMux(), opts: opts}

	// Health check routes
	rt.handle("GET /healthz", h.Health.HealthCheck)
	rt.handle("GET /livez", h.Health.LivenessCheck)
	rt.handle("GET /readyz", h.Health.ReadinessCheck)

	// Public directory
	rt.handle("GET /api/profiles", h.Profile.ListProfiles)
	rt.handle("POST /api/profiles", rt.limited("submit", opts.SubmitLimit, h.Profile.SubmitProfile))

	// Authentication routes
	rt.handle("POST /api/auth/login", rt.limited("login", opts.LoginLimit, h.Auth.Login))
	rt.handle("POST /api/auth/logout", rt.admin(h.Auth.Logout))
	rt.handle("GET /api/auth/me", rt.admin(h.Auth.Me))
	if h.Google != nil {
		rt.handle("GET /api/auth/google/login", h.Google.GoogleLogin)
		rt.handle("GET /api/auth/google/callback", h.Google.GoogleCallback)
	}

	// Moderation
	rt.handle("GET /api/admin/profiles/pending", rt.admin(h.Admin.ListPending))
	rt.handle("GET /api/admin/profiles/approved", rt.admin(h.Admin.ListApproved))
	rt.handle("GET /api/admin/stats", rt.admin(h.Admin.Stats))
	rt.handle("POST /api/admin/profiles/{id}/approve", rt.admin(h.Admin.Approve))
	rt.handle("POST /api/admin/profiles/{id}/reject", rt.admin(h.Admin.Reject))
	rt.handle("DELETE /api/admin/profiles/{id}", rt.admin(h.Admin.Delete))

	if opts.Metrics != nil {
		rt.mux.Handle("GET /metrics", opts.Metrics.Handler())
	}
	rt.mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	rt.mux.HandleFunc("GET /{$}", rootHandler)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORS.AllowedOrigins,
		AllowedMethods:   opts.CORS.AllowedMethods,
		AllowedHeaders:   opts.CORS.AllowedHeaders,
		AllowCredentials: opts.CORS.AllowCredentials,
	})

	return middleware.Chain(rt.mux,
		middleware.RequestID,
		middleware.AccessLog(opts.Logger, opts.ClientIP),
		middleware.Recover(opts.Logger),
		c.Handler,
	)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("IG Directory backend is running."))
}
