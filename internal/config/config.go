package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lookup providers
const (
	LookupProviderMock = "mock"
	LookupProviderHTTP = "http"
)

const (
	// EnvProduction is the APP_ENV value of a production deployment
	EnvProduction = "production"
	// DefaultJWTSecret is the development fallback for JWT_SECRET. Production refuses it.
	DefaultJWTSecret = "your-secret-key-change-in-production"

	minProductionSecretLen = 32
)

// Config holds all configuration for the application
type Config struct {
	// Environment name; "production" switches the logger to JSON
	Env string

	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Email         EmailConfig
	GoogleOAuth   GoogleOAuthConfig
	CORS          CORSConfig
	Redis         RedisConfig
	RateLimit     RateLimitConfig
	Lookup        LookupConfig
	ContentFilter ContentFilterConfig
	Admin         AdminConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// TrustedProxies lists CIDRs or addresses allowed to set X-Forwarded-For
	TrustedProxies []string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	// URL takes precedence over the individual parts when set
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// JWTConfig holds admin session token configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	UseTLS       bool
	UseSSL       bool
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// RedisConfig holds the optional Redis connection. An empty Addr selects the in-memory stores.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateRule is a sliding-window limit of Limit requests per Window
type RateRule struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig holds per-route limits
type RateLimitConfig struct {
	Submit RateRule
	Login  RateRule
}

// LookupConfig selects and configures the Instagram profile lookup
type LookupConfig struct {
	Provider  string
	MockDelay time.Duration
	BaseURL   string
	APIKey    string
	APIHost   string
	Timeout   time.Duration
}

// ContentFilterConfig overrides the blocked word list
type ContentFilterConfig struct {
	Words []string
}

// AdminConfig holds admin credential settings
type AdminConfig struct {
	PasswordMode string
}

// Load loads configuration from environment variables.
// A .env in the parent or current directory is applied first when present;
// a file that exists but cannot be read or parsed is an error.
func Load() (*Config, error) {
	if err := loadDotEnv("../.env", ".env"); err != nil {
		return nil, err
	}

	config := FromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// loadDotEnv applies the first of paths that exists
func loadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from the current environment without validating it
func FromEnv() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			TrustedProxies:  getStringSliceEnv("TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "postgres"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
			AutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", DefaultJWTSecret),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 24*time.Hour),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("EMAIL_FROM", ""),
			FromName:     getEnv("EMAIL_FROM_NAME", "IG Directory"),
			UseTLS:       getBoolEnv("SMTP_USE_TLS", true),
			UseSSL:       getBoolEnv("SMTP_USE_SSL", false),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Submit: getRateEnv("RATE_LIMIT_SUBMIT", RateRule{Limit: 5, Window: 10 * time.Minute}),
			Login:  getRateEnv("RATE_LIMIT_LOGIN", RateRule{Limit: 10, Window: time.Minute}),
		},
		Lookup: LookupConfig{
			Provider:  strings.ToLower(getEnv("LOOKUP_PROVIDER", LookupProviderMock)),
			MockDelay: getDurationEnv("LOOKUP_MOCK_DELAY", time.Second),
			BaseURL:   getEnv("LOOKUP_BASE_URL", "https://instagram-scraper-api2.p.rapidapi.com"),
			APIKey:    getEnv("LOOKUP_API_KEY", ""),
			APIHost:   getEnv("LOOKUP_API_HOST", "instagram-scraper-api2.p.rapidapi.com"),
			Timeout:   getDurationEnv("LOOKUP_TIMEOUT", 10*time.Second),
		},
		ContentFilter: ContentFilterConfig{
			Words: getStringSliceEnv("CONTENT_FILTER_WORDS", nil),
		},
		Admin: AdminConfig{
			PasswordMode: strings.ToLower(getEnv("ADMIN_PASSWORD_MODE", "bcrypt")),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Database.URL == "" && c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD or DATABASE_URL is required"))
	}
	switch {
	case c.JWT.Secret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case c.Env == EnvProduction && c.JWT.Secret == DefaultJWTSecret:
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	case c.Env == EnvProduction && len(c.JWT.Secret) < minProductionSecretLen:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProductionSecretLen))
	}

	for _, proxy := range c.Server.TrustedProxies {
		if err := validProxy(proxy); err != nil {
			errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", proxy, err))
		}
	}

	switch c.Lookup.Provider {
	case LookupProviderMock:
	case LookupProviderHTTP:
		if c.Lookup.APIKey == "" {
			errs = append(errs, errors.New("LOOKUP_API_KEY is required when LOOKUP_PROVIDER=http"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LOOKUP_PROVIDER %q", c.Lookup.Provider))
	}

	switch c.Admin.PasswordMode {
	case "bcrypt", "plain":
	default:
		errs = append(errs, fmt.Errorf("unknown ADMIN_PASSWORD_MODE %q", c.Admin.PasswordMode))
	}

	return errors.Join(errs...)
}

func validProxy(proxy string) error {
	if strings.Contains(proxy, "/") {
		_, err := netip.ParsePrefix(proxy)
		return err
	}
	_, err := netip.ParseAddr(proxy)
	return err
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   c.Database.Host + ":" + c.Database.Port,
		Path:   "/" + c.Database.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.Database.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.Database.ConnTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

// IsEmailConfigured checks if email service is properly configured
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != "" && c.Email.FromEmail != ""
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

// IsRedisConfigured reports whether Redis-backed stores should be used
func (c *Config) IsRedisConfigured() bool {
	return c.Redis.Addr != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

// getRateEnv parses "<limit>/<window>", e.g. "5/10m"
func getRateEnv(key string, defaultValue RateRule) RateRule {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	limitPart, windowPart, ok := strings.Cut(value, "/")
	if !ok {
		return defaultValue
	}
	limit, err := strconv.Atoi(strings.TrimSpace(limitPart))
	if err != nil || limit < 0 {
		return defaultValue
	}
	window, err := time.ParseDuration(strings.TrimSpace(windowPart))
	if err != nil || window <= 0 {
		return defaultValue
	}
	return RateRule{Limit: limit, Window: window}
}
