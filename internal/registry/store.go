package registry

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every failure to read from or write to the backing
// store.
var ErrUnavailable = errors.New("registry unavailable")

// Store is a hierarchical key/value store addressed by slash separated paths.
type Store interface {
	// Get returns the value at key, or "" when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	// Persist creates or updates key, creating missing ancestors.
	Persist(ctx context.Context, key, value string) error
	// GetChildrenKeys returns the names of key's direct children in
	// lexicographic order. A missing key has no children.
	GetChildrenKeys(ctx context.Context, key string) ([]string, error)
}
