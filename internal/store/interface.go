package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

// Store is a small key-value store used to mirror session state.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close()
}
