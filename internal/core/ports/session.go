package ports

import (
	"context"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// TokenProvider yields the bearer token of the current session. The boolean
// is false when no session is active; absence is not an error.
type TokenProvider interface {
	Token(ctx context.Context) (string, bool)
}

// Notifier delivers user-visible notifications. Fire-and-forget.
type Notifier interface {
	Notify(n domain.Notification)
}

// Validator checks payloads before they are sent.
type Validator interface {
	Validate(i any) error
}

// KeySerializer runs fn exclusively with respect to other calls sharing key.
type KeySerializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
