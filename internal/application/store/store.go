// Package store keeps accepted applications in insertion order.
//
// The store is append-only: there is no update or delete. Every backend
// assigns an ID on Append when the record has none, returns clones so callers
// cannot mutate stored state, and reports unknown IDs as sentinel.ErrNotFound.
package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"hirepath/internal/application/models"
	"hirepath/pkg/platform/sentinel"
)

// Store is the contract shared by the memory, PostgreSQL and Redis backends.
type Store interface {
	// Append stores app and returns its ID. Appends are atomic with respect to
	// each other; the insertion sequence is never corrupted.
	Append(ctx context.Context, app *models.Application) (string, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	// List returns every record in insertion order.
	List(ctx context.Context) ([]*models.Application, error)
}

func assignID(app *models.Application) error {
	if app.ID != "" {
		return nil
	}
	id, err := models.NewApplicationID()
	if err != nil {
		return err
	}
	app.ID = id
	return nil
}

// backendError wraps a driver error for op. Connection and timeout failures
// also match sentinel.ErrUnavailable.
func backendError(op string, err error) error {
	var (
		netErr  net.Error
		connErr *pgconn.ConnectError
	)
	if errors.As(err, &netErr) || errors.As(err, &connErr) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
