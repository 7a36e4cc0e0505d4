package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	actor := &domain.Actor{
		ID:        "user-123",
		Email:     "user@example.com",
		Role:      domain.RoleAdmin,
		CompanyID: "company-1",
	}

	token, err := manager.Generate(actor)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	got := claims.Actor()
	if *got != *actor {
		t.Fatalf("expected actor %+v, got %+v", actor, got)
	}
}

func TestJWTManagerGenerateRejectsBadActor(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	if _, err := manager.Generate(&domain.Actor{Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrMissingActor) {
		t.Fatalf("expected ErrMissingActor, got %v", err)
	}
	if _, err := manager.Generate(&domain.Actor{ID: "u1", Role: "owner"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	sign := func(t *testing.T, claims auth.Claims, key string) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return token
	}

	expired := sign(t, auth.Claims{
		UserID: "expired",
		Role:   domain.RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, "secret")

	wrongKey := sign(t, auth.Claims{
		UserID: "u1",
		Role:   domain.RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "other-secret")

	unknownRole := sign(t, auth.Claims{
		UserID: "u1",
		Role:   "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, "secret")

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, domain.ErrExpiredToken},
		{"wrong key", wrongKey, domain.ErrInvalidToken},
		{"unknown role", unknownRole, domain.ErrInvalidToken},
		{"garbage", "not-a-token", domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected unauthorized classification, got %v", err)
			}
		})
	}
}
