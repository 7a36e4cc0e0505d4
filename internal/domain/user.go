package domain

import (
	"context"
	"errors"
	"fmt"
)

// Actor is the authenticated caller on whose behalf a mutation runs.
type Actor struct {
	ID        string
	Email     string
	Role      Role
	CompanyID string
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin may additionally unlock periods and run year-end closing.
	RoleAdmin Role = "admin"

	// RoleAccountant creates, posts and reverses journal entries.
	RoleAccountant Role = "accountant"

	// RoleViewer can only read reports.
	RoleViewer Role = "viewer"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin:      true,
	RoleAccountant: true,
	RoleViewer:     true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanWrite checks if the role can create and post entries
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// CanUnlockPeriods checks if the role can lift a period lock
func (r Role) CanUnlockPeriods() bool {
	return r == RoleAdmin
}

// CanClose checks if the role can run closing operations
func (r Role) CanClose() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidToken     = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrExpiredToken     = fmt.Errorf("%w: token has expired", ErrUnauthorized)
	ErrInsufficientRole = fmt.Errorf("%w: insufficient role for this operation", ErrForbidden)
)

type actorContextKey struct{}

// ContextWithActor stores the actor in ctx.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor stored by ContextWithActor.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(*Actor)
	return actor, ok && actor != nil
}

type companyContextKey struct{}

// ContextWithCompany stores the tenant company id in ctx.
func ContextWithCompany(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyContextKey{}, companyID)
}

// CompanyFromContext returns the company id stored by ContextWithCompany.
func CompanyFromContext(ctx context.Context) string {
	companyID, _ := ctx.Value(companyContextKey{}).(string)
	return companyID
}
