package ports

import (
	"context"
)

// IdempotencyStore remembers request keys so a replayed request is not executed twice.
type IdempotencyStore interface {
	// Reserve claims key. It returns false when key was already claimed and has not expired.
	Reserve(ctx context.Context, key string) (bool, error)

	// Release frees a key whose request failed, so the client may retry it.
	Release(ctx context.Context, key string) error
}
