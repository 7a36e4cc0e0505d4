package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/gobooks/internal/domain"
)

// Claims represents the JWT claims. CompanyID, when set, pins the token to
// one company.
type Claims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role"`
	CompanyID string      `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the domain caller.
func (c *Claims) Actor() *domain.Actor {
	return &domain.Actor{
		ID:        c.UserID,
		Email:     c.Email,
		Role:      c.Role,
		CompanyID: c.CompanyID,
	}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate issues a signed token for actor. Authentication itself happens
// upstream; this is used by the CLI and tests.
func (m *JWTManager) Generate(actor *domain.Actor) (string, error) {
	if actor == nil || actor.ID == "" {
		return "", domain.ErrMissingActor
	}
	if !actor.Role.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrValidation, actor.Role)
	}

	now := m.now()
	claims := Claims{
		UserID:    actor.ID,
		Email:     actor.Email,
		Role:      actor.Role,
		CompanyID: actor.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
