package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"IG_DIRECTORY_BACK-END/internal/models"
)

const sessionIssuer = "ig-directory"

// SessionClaims represents the claims in an admin session token
type SessionClaims struct {
	AdminID  uuid.UUID `json:"admin_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the admin carried by the claims
func (c *SessionClaims) Identity() models.AdminIdentity {
	return models.AdminIdentity{
		ID:       c.AdminID,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}
}

// TokenManager signs and parses HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Generate issues a token for admin
func (m *TokenManager) Generate(admin models.AdminIdentity) (string, *SessionClaims, error) {
	now := m.now()
	claims := &SessionClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Email:    admin.Email,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   admin.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse validates a token and returns its claims
func (m *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}
