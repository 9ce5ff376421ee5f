// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"blendery/internal/core/apperror"
)

// RoleAdmin grants destructive operations and user management.
const RoleAdmin = "admin"

// UserContext contains authenticated user information.
type UserContext struct {
	UserID  string
	Email   string
	Name    string
	Roles   []string
	IsAdmin bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// ActorID returns the authenticated user that performs the current operation.
// Domain services call it before any mutation; there is no fallback actor.
func ActorID(ctx context.Context) (string, error) {
	if uid := GetUserID(ctx); uid != "" {
		return uid, nil
	}
	return "", apperror.NewUnauthorized("authenticated user required")
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
