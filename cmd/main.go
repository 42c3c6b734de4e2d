// @title IG Directory Backend API
// @version 1.0
// @description Backend for a moderated directory of Instagram creator profiles
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin session token, as "Bearer <token>"

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "IG_DIRECTORY_BACK-END/docs" // This is required for swagger
	"IG_DIRECTORY_BACK-END/internal/config"
	"IG_DIRECTORY_BACK-END/internal/database"
	"IG_DIRECTORY_BACK-END/internal/handlers"
	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/metrics"
	"IG_DIRECTORY_BACK-END/internal/middleware"
	"IG_DIRECTORY_BACK-END/internal/repository/memory"
	"IG_DIRECTORY_BACK-END/internal/repository/postgres"
	redisrepo "IG_DIRECTORY_BACK-END/internal/repository/redis"
	"IG_DIRECTORY_BACK-END/internal/routes"
	"IG_DIRECTORY_BACK-END/internal/services"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

const (
	revokedKeyPrefix   = "igdir:revoked"
	rateLimitKeyPrefix = "igdir:ratelimit"
)

func main() {
	root := &cobra.Command{
		Use:           "igdirectory",
		Short:         "IG Directory backend",
		Long:          "Serves the Instagram profile directory API and its admin moderation queue.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:       "migrate <up|down|status>",
			Short:     "Apply or inspect database migrations",
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus},
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "hash-password <password>",
			Short: "Print a bcrypt hash for an admin_users_ig_directory row",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := services.HashPassword(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
				return err
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func runMigrate(ctx context.Context, command string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := database.Migrate(ctx, cfg.GetDSN(), command); err != nil {
		return err
	}
	log.Info("migrate finished", zap.String("command", command))
	return nil
}

func runServe(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, cfg.GetDSN(), database.MigrateUp); err != nil {
			return err
		}
	}

	pool, err := database.Connect(ctx, database.PoolConfig{
		DSN:              cfg.GetDSN(),
		ApplicationName:  "ig-directory-backend",
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxLifetime:      cfg.Database.MaxLifetime,
		StatementTimeout: cfg.Database.QueryTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	checks := map[string]handlers.PingFunc{"database": pool.Ping}

	var (
		revoked   services.RevocationStore
		rateStore middleware.RateLimitStore
	)
	if cfg.IsRedisConfigured() {
		client, err := redisrepo.NewClient(ctx, redisrepo.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		revoked = redisrepo.NewRevocationRepository(client, revokedKeyPrefix)
		rateStore = redisrepo.NewRateLimitRepository(client, rateLimitKeyPrefix)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory revocation and rate limit stores")
		revoked = memory.NewRevocationStore()
		rateStore = memory.NewRateLimitStore()
	}

	reg := prometheus.NewRegistry()
	if err := metrics.RegisterRuntime(reg); err != nil {
		return err
	}
	m, err := metrics.New(metrics.Options{Registerer: reg, Gatherer: reg})
	if err != nil {
		return err
	}

	lookup, err := newLookup(cfg.Lookup)
	if err != nil {
		return err
	}

	directory := services.NewDirectoryService(
		postgres.NewProfileRepository(pool),
		lookup,
		services.NewContentFilter(cfg.ContentFilter.Words),
		log,
	).WithMetrics(m)
	if cfg.IsEmailConfigured() {
		directory = directory.WithNotifier(utils.NewEmailService(&cfg.Email, log))
	} else {
		log.Info("SMTP not configured, submitter notifications disabled")
	}

	verifier, err := services.NewPasswordVerifier(cfg.Admin.PasswordMode)
	if err != nil {
		return err
	}
	auth := services.NewAuthService(
		postgres.NewAdminRepository(pool),
		verifier,
		services.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL),
		revoked,
		log,
	)

	h := routes.Handlers{
		Profile: handlers.NewProfileHandler(directory, log),
		Admin:   handlers.NewAdminHandler(directory, log),
		Auth:    handlers.NewAuthHandler(auth, log),
		Health:  handlers.NewHealthHandler(checks),
	}
	if cfg.IsGoogleOAuthConfigured() {
		h.Google = handlers.NewGoogleAuthHandler(cfg.GoogleOAuth, auth, log)
	}

	clientIP, err := utils.NewClientIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	handler := routes.SetupRoutes(h, routes.Options{
		Logger:        log,
		Metrics:       m,
		Authenticator: auth,
		RateLimiter:   middleware.NewRateLimiter(rateStore, log),
		SubmitLimit:   cfg.RateLimit.Submit,
		LoginLimit:    cfg.RateLimit.Login,
		CORS:          cfg.CORS,
		ClientIP:      clientIP,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("lookup", cfg.Lookup.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func newLookup(cfg config.LookupConfig) (services.ProfileLookup, error) {
	switch cfg.Provider {
	case config.LookupProviderMock:
		return services.NewMockLookup(nil, cfg.MockDelay), nil
	case config.LookupProviderHTTP:
		return services.NewHTTPLookup(services.HTTPLookupConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			APIHost: cfg.APIHost,
			Timeout: cfg.Timeout,
		}, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return nil, fmt.Errorf("unknown lookup provider %q", cfg.Provider)
	}
}
