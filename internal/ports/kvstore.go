package ports

import "context"

// KVStore is the persistence boundary: opaque payloads stored whole at
// string keys. Writes are full-value overwrites; there are no transactions
// and no partial writes.
// Implementations MUST return types.ErrNotFound from Get for a missing
// key, and MUST treat Delete of a missing key as a no-op.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Put(ctx context.Context, key string, value []byte) error

	Delete(ctx context.Context, key string) error
}
