// Package repository is the store layer. Each repository wraps a gorm handle
// with a bounded per-call timeout and translates store failures into the
// typed error taxonomy: missing rows become NOT_FOUND, everything else
// becomes STORE_UNAVAILABLE tagged with the step that failed.
//
// Relationship edges (follows, post likes) are single-row inserts and
// deletes under unique composite indexes, so concurrent disjoint updates
// merge instead of overwriting each other.
package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/openflock/backend/internal/errors"
	"gorm.io/gorm"
)

// DefaultTimeout bounds a single store call when the caller passes zero
const DefaultTimeout = 5 * time.Second

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// translate maps a gorm error to the core taxonomy
func translate(step, resource string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound(resource)
	}
	return errors.StoreUnavailable(step, err)
}
