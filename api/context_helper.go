package api

import (
	"context"
	"time"

	"github.com/campusfind/lost-and-found-api/models"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stashes the resolved caller identity on the request context
func WithIdentity(parent context.Context, ident models.Identity) context.Context {
	return context.WithValue(parent, identityKey, ident)
}

// IdentityFromContext returns the caller identity resolved by the auth
// middleware. The second return is false for unauthenticated requests.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(models.Identity)
	return ident, ok
}
