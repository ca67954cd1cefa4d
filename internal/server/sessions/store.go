// Package sessions keeps the server-held table of opaque session tokens.
package sessions

import (
	"context"
	"time"
)

// Store maps session tokens to user ids. Load reports common.ErrorNotFound
// for unknown or expired tokens.
type Store interface {
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Load(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}
