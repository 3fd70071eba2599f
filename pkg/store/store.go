// Package store provides the durable key/value blob store the search
// engine persists its state through. Implementations must replace the
// whole value on Set; partial writes are never observed.
package store

import "context"

// Store is a key to JSON blob store. Get reports whether the key was
// present so callers can distinguish "absent" from "empty".
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
