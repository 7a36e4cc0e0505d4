package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
)

const (
	// ActorIDHeader identifies the caller when token auth is disabled.
	ActorIDHeader = "X-Actor-ID"
	// ActorRoleHeader carries the caller's role when token auth is disabled.
	ActorRoleHeader = "X-Actor-Role"
	// CompanyIDHeader selects the tenant company.
	CompanyIDHeader = "X-Company-ID"
)

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header", nil)
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format", nil)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				message := "invalid token"
				if errors.Is(err, domain.ErrExpiredToken) {
					message = "token has expired"
				}
				writeError(w, http.StatusUnauthorized, message, nil)
				return
			}

			ctx := domain.ContextWithActor(r.Context(), claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderActor trusts the X-Actor-ID and X-Actor-Role headers. It is used when
// token auth is disabled, e.g. behind an authenticating gateway. Requests
// without X-Actor-ID stay anonymous; a missing role defaults to viewer.
func HeaderActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ActorIDHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		role := domain.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(ActorRoleHeader))))
		if role == "" {
			role = domain.RoleViewer
		}
		if !role.IsValid() {
			writeError(w, http.StatusUnauthorized, "invalid actor role", map[string]any{"role": string(role)})
			return
		}

		ctx := domain.ContextWithActor(r.Context(), &domain.Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := domain.ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			// Check role permissions
			allowed := true
			switch minRole {
			case domain.RoleAdmin:
				allowed = actor.Role == domain.RoleAdmin
			case domain.RoleAccountant:
				allowed = actor.Role.CanWrite()
			case domain.RoleViewer:
				// All authenticated users can view
			}

			if !allowed {
				writeError(w, http.StatusForbidden, "insufficient permissions", map[string]any{
					"role":          string(actor.Role),
					"required_role": string(minRole),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Company resolves the tenant from X-Company-ID, falling back to the company
// bound to the actor's token. A token bound to one company cannot address another.
func Company(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companyID := strings.TrimSpace(r.Header.Get(CompanyIDHeader))

		if actor, ok := domain.ActorFromContext(r.Context()); ok && actor.CompanyID != "" {
			if companyID == "" {
				companyID = actor.CompanyID
			}
			if companyID != actor.CompanyID {
				writeError(w, http.StatusForbidden, "company not accessible", map[string]any{"company_id": companyID})
				return
			}
		}

		if companyID == "" {
			writeError(w, http.StatusBadRequest, "missing company", map[string]any{"header": CompanyIDHeader})
			return
		}

		ctx := domain.ContextWithCompany(r.Context(), companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeError(w http.ResponseWriter, status int, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Details: details,
	})
}
