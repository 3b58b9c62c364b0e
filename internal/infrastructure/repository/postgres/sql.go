package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/gameday/internal/domain/game"
)

const uniqueViolation pq.ErrorCode = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// classifyError wraps err with op and marks it with game.ErrDuplicate or
// game.ErrStoreUnavailable when the failure belongs to one of those kinds.
func classifyError(err error, op string) error {
	if err == nil {
		return nil
	}

	wrapped := crerr.Wrap(err, op)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %w", game.ErrDuplicate, wrapped)
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", game.ErrStoreUnavailable, wrapped)
	default:
		return wrapped
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isUnavailable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
		return false
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
