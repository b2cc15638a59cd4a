package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/lib/pq"
)

// wrapErr tags persistence failures so callers can distinguish transient
// store trouble (retryable, all writes are idempotent) from everything else.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exceptions; 57P0x: shutdown/crash states.
		class := pqErr.Code.Class()
		return class == "08" || class == "57"
	}

	return false
}
