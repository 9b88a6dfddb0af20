package middleware

import (
	"context"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/usecase"
)

// ContextKey is a private key type so request-context values cannot collide
// with other packages.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
)

// ActorFromContext extracts the authenticated identity stored by JWTAuth.
func ActorFromContext(ctx context.Context) (usecase.Actor, bool) {
	id, ok := ctx.Value(UserIDCtxKey).(string)
	if !ok || id == "" {
		return usecase.Actor{}, false
	}
	role, ok := ctx.Value(UserRoleCtxKey).(string)
	if !ok {
		return usecase.Actor{}, false
	}
	return usecase.Actor{ID: id, Role: entity.Role(role)}, true
}
