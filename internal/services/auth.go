package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/repository"
)

// AdminStore reads admin credential records
type AdminStore interface {
	FindActiveByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

// RevocationStore remembers logged-out session ids until they expire
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Session is the result of a successful sign-in
type Session struct {
	Admin     models.AdminIdentity
	Token     string
	ExpiresAt time.Time
}

// AuthService checks admin credentials and manages session tokens
type AuthService struct {
	admins   AdminStore
	verifier PasswordVerifier
	tokens   *TokenManager
	revoked  RevocationStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService
func NewAuthService(admins AdminStore, verifier PasswordVerifier, tokens *TokenManager, revoked RevocationStore, log *zap.Logger) *AuthService {
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		admins:   admins,
		verifier: verifier,
		tokens:   tokens,
		revoked:  revoked,
		logger:   log,
		now:      time.Now,
	}
}

// Login authenticates an active admin by username and password
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("login rejected", zap.String("username", username), zap.String("reason", "unknown_or_inactive"))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load admin user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to load admin", ErrBackendUnavailable)
	}

	if !s.verifier.Verify(admin.PasswordHash, password) {
		s.logger.Info("login rejected", zap.String("username", username), zap.String("reason", "password_mismatch"))
		return nil, ErrInvalidCredentials
	}

	return s.issue(admin)
}

// LoginWithEmail signs in the active admin owning a verified email
func (s *AuthService) LoginWithEmail(ctx context.Context, email string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("email login rejected", zap.String("email", logger.MaskEmail(email)))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load admin by email", zap.String("email", logger.MaskEmail(email)), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to load admin", ErrBackendUnavailable)
	}

	return s.issue(admin)
}

func (s *AuthService) issue(admin *models.AdminUser) (*Session, error) {
	identity := admin.Identity()
	token, claims, err := s.tokens.Generate(identity)
	if err != nil {
		s.logger.Error("sign session token", zap.String("admin_id", identity.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info("admin signed in", zap.String("admin_id", identity.ID.String()), zap.String("username", identity.Username))
	return &Session{
		Admin:     identity,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authenticate validates a session token and rejects revoked sessions
func (s *AuthService) Authenticate(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("check session revocation", zap.String("jti", claims.ID), zap.Error(err))
			return nil, fmt.Errorf("%w: failed to check session", ErrBackendUnavailable)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

// Logout revokes the session until its natural expiry
func (s *AuthService) Logout(ctx context.Context, claims *SessionClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	if s.revoked == nil {
		return nil
	}

	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("revoke session", zap.String("jti", claims.ID), zap.Error(err))
		return fmt.Errorf("%w: failed to end session", ErrBackendUnavailable)
	}
	s.logger.Info("admin signed out", zap.String("admin_id", claims.AdminID.String()))
	return nil
}
