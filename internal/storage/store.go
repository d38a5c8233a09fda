// Package storage provides the persistent store adapter: whole-collection
// JSON snapshots written under well-known keys. Backends share one contract
// so the file store, redis, and the in-memory test store are interchangeable.
package storage

import (
	"context"
	"errors"
)

// Well-known snapshot keys.
const (
	KeySession    = "session"
	KeyIdentities = "identities"
	KeyRides      = "rides"
)

// ErrCorruptSnapshot marks a persisted payload that failed to decode. Callers
// recover by discarding the snapshot and falling back to seed/empty state;
// it is never fatal.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Store is a key/value adapter for serialized collection snapshots.
// Read reports absence via the second return value rather than an error.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
