// Package identity carries the acting person through request contexts.
package identity

import (
	"context"

	"github.com/petravell/choreboard/internal/model"
)

type contextKey struct{}

// Identity names who is making the request.
type Identity struct {
	PersonID int64
	Name     string
	Role     model.Role
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// PersonID returns the acting person's id, or 0 when the request is
// anonymous.
func PersonID(ctx context.Context) int64 {
	id, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return id.PersonID
}

func IsParent(ctx context.Context) bool {
	id, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return id.Role == model.RoleParent
}
