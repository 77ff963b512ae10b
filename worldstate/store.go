// Package worldstate persists the key/value world state behind the in-process ledger.
// Keys are compared bytewise, the way a Fabric peer's state database orders them.
package worldstate

import "context"

// KV is one key/value pair returned by a range read.
type KV struct {
	Key   string
	Value []byte
}

// Write is one entry of a transaction write set. Delete removes the key instead of setting it.
type Write struct {
	Key    string
	Value  []byte
	Delete bool
}

// Store is a world state that applies write sets atomically.
type Store interface {
	// Get returns nil, nil for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Range returns every pair with startKey <= key < endKey in key order. An empty endKey is unbounded.
	Range(ctx context.Context, startKey, endKey string) ([]KV, error)
	// Commit applies all writes or none of them.
	Commit(ctx context.Context, writes []Write) error
	Close() error
}
