// Package store is the durable local persistence layer: a key-value table
// holding one JSON-serialized document per top-level state slice. Everything
// above it reads and writes through this contract.
package store

import "context"

// KV is the asynchronous key-value contract backing all application state.
// Get returns (nil, nil) for a missing key: absence is a normal branch,
// not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
}
