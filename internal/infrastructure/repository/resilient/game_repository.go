package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"github.com/riskibarqy/gameday/internal/platform/resilience"
)

// GameRepository bounds every store call with a timeout and stops calling a
// failing store while its circuit is open.
type GameRepository struct {
	next    game.Repository
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

// NewGameRepository wraps next. A zero timeout disables the deadline and a
// disabled breaker config leaves the circuit out.
func NewGameRepository(next game.Repository, timeout time.Duration, breakerCfg resilience.CircuitBreakerConfig, logger *logging.Logger) *GameRepository {
	if logger == nil {
		logger = logging.Default()
	}

	r := &GameRepository{
		next:    next,
		timeout: timeout,
		logger:  logger,
	}
	if breakerCfg.Enabled {
		r.breaker = resilience.NewCircuitBreaker(breakerCfg)
	}
	return r
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	var out []game.Game
	err := r.call(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	var (
		out    game.Game
		exists bool
	)
	err := r.call(ctx, "get", func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.GetByID(ctx, gameID)
		return err
	})
	return out, exists, err
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) (game.Game, error) {
	var out game.Game
	err := r.call(ctx, "insert", func(ctx context.Context) error {
		var err error
		out, err = r.next.Insert(ctx, item)
		return err
	})
	return out, err
}

func (r *GameRepository) Replace(ctx context.Context, gameID string, payload game.Payload, updatedAt time.Time) (game.Game, bool, error) {
	var (
		out    game.Game
		exists bool
	)
	err := r.call(ctx, "replace", func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.Replace(ctx, gameID, payload, updatedAt)
		return err
	})
	return out, exists, err
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) (game.Game, bool, error) {
	var (
		out    game.Game
		exists bool
	)
	err := r.call(ctx, "delete", func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.Delete(ctx, gameID)
		return err
	})
	return out, exists, err
}

// State reports the circuit state, or closed when no breaker is configured.
func (r *GameRepository) State() resilience.CircuitState {
	if r.breaker == nil {
		return resilience.CircuitStateClosed
	}
	return r.breaker.State()
}

func (r *GameRepository) call(ctx context.Context, op string, fn func(context.Context) error) error {
	run := func() error {
		callCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		err := fn(callCtx)
		if err != nil && !errors.Is(err, game.ErrStoreUnavailable) && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", game.ErrStoreUnavailable, crerr.Wrapf(err, "game store %s timed out after %s", op, r.timeout))
		}
		return err
	}

	if r.breaker == nil {
		return run()
	}

	// A caller that gave up says nothing about the store.
	isFailure := func(err error) bool {
		return ctx.Err() == nil && isStoreFailure(err)
	}

	before := r.breaker.State()
	err := r.breaker.Execute(run, isFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", game.ErrStoreUnavailable, crerr.Wrapf(err, "game store %s", op))
	}
	if after := r.breaker.State(); after != before {
		r.logger.WarnContext(ctx, "game store circuit changed", "op", op, "from", string(before), "to", string(after))
	}
	return err
}

func isStoreFailure(err error) bool {
	return errors.Is(err, game.ErrStoreUnavailable)
}
