package shared

import (
	"context"

	"github.com/google/uuid"
)

// Identity carries the tenant and user resolved by the session layer.
// Core services still take the company ID as an explicit argument; the
// context form exists only for the HTTP collaborator.
type Identity struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
}

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
