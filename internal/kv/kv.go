// Package kv provides the string-keyed storage the trip log persists into.
// Each backend has its own file; all of them satisfy Store. Backends report
// failures as plain wrapped errors. Deciding that a failure is "best effort"
// is the repo layer's job, not this package's.
package kv

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by Set when a backend refuses a value because
// it would exceed the configured storage quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is the minimal key-value contract. Values are opaque text.
//
// Get reports ok=false with a nil error when the key has never been set.
// Set replaces any prior value.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
