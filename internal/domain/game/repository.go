package game

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStoreUnavailable marks failures to reach the record store.
	ErrStoreUnavailable = errors.New("game store unavailable")
	// ErrDuplicate marks a uniqueness violation enforced by the store itself.
	ErrDuplicate = errors.New("game already exists")
	// ErrIDTaken marks an insert whose caller-assigned id is already in use.
	ErrIDTaken = errors.New("game id already taken")
)

// Repository is the record store for games. Absent records are reported
// through the bool result, never through an error.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Insert(ctx context.Context, item Game) (Game, error)
	Replace(ctx context.Context, gameID string, payload Payload, updatedAt time.Time) (Game, bool, error)
	Delete(ctx context.Context, gameID string) (Game, bool, error)
}

// Pinger is implemented by stores that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
