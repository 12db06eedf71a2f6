// Package storage persists the console's collections as whole JSON documents keyed by name.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned when a key has never been written
	ErrNotFound = errors.New("key not found")
	// ErrVersionConflict is returned by a conditional write whose expected version is stale
	ErrVersionConflict = errors.New("version conflict")
)

// Record is a stored document and the version it was read at
type Record struct {
	Data    json.RawMessage
	Version int64
}

// Backend is a get/put-by-key document store.
// Versions start at 1 on first write and grow by one on every write.
type Backend interface {
	Get(ctx context.Context, key string) (Record, error)
	// Put overwrites key and returns the new version
	Put(ctx context.Context, key string, data json.RawMessage) (int64, error)
	// PutIf overwrites key only when its current version equals version.
	// Version 0 means the key must not exist yet.
	PutIf(ctx context.Context, key string, data json.RawMessage, version int64) (int64, error)
	Close() error
}
