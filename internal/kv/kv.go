// Package kv defines the durable key-value contract the ledger persists
// through. Values are opaque bytes; a Set always replaces the whole value.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=kv.go -destination=kv_mock.go -package=kv
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
