package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ResultStore defines the interface for caching serialized query results.
// Keys are opaque query fingerprints; kinds namespace them.
type ResultStore interface {
	// Save persists the payload for a given key and kind, replacing any previous value.
	Save(ctx context.Context, key string, kind domain.ResultKind, payload []byte) error

	// Load retrieves the payload for a given key and kind.
	// Returns domain.ErrResultNotFound if nothing is stored.
	Load(ctx context.Context, key string, kind domain.ResultKind) ([]byte, error)

	// Delete removes the payload for a given key and kind. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string, kind domain.ResultKind) error

	// List returns the keys stored for a kind.
	List(ctx context.Context, kind domain.ResultKind) ([]string, error)
}
