package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/gameday/internal/config"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/resilient"
	basecache "github.com/riskibarqy/gameday/internal/platform/cache"
	"github.com/riskibarqy/gameday/internal/platform/id"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"github.com/riskibarqy/gameday/internal/platform/resilience"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

type resetter interface {
	Reset(ctx context.Context) error
}

// Store is the configured game record store together with the identity
// scheme that matches it.
type Store struct {
	Repo   game.Repository
	IDs    id.Assigner
	Pinger game.Pinger

	reset resetter
	close func() error
}

// OpenStore builds the backend selected by STORE_BACKEND. The postgres
// backend waits up to DB_CONNECT_TIMEOUT for the database to answer.
func OpenStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewGameRepository(db)
		return &Store{
			Repo:   decorateRepository(repo, cfg, logger),
			IDs:    id.NewStoreAssigner(),
			Pinger: repo,
			reset:  repo,
			close:  db.Close,
		}, nil
	case config.StoreMemory, "":
		repo := memory.NewGameRepository(nil)
		return &Store{
			Repo:   repo,
			IDs:    id.NewSequentialAssigner(),
			Pinger: repo,
			reset:  repo,
			close:  func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// Reset removes every stored game.
func (s *Store) Reset(ctx context.Context) error {
	return s.reset.Reset(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// decorateRepository puts the circuit breaker closest to the database and the
// read cache in front of it, so cached reads never count against the circuit.
func decorateRepository(repo game.Repository, cfg config.Config, logger *logging.Logger) game.Repository {
	out := game.Repository(resilient.NewGameRepository(repo, cfg.StoreTimeout, resilience.CircuitBreakerConfig{
		Enabled:          cfg.StoreCircuitEnabled,
		FailureThreshold: cfg.StoreCircuitFailureCount,
		OpenTimeout:      cfg.StoreCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.StoreCircuitHalfOpenMaxReq,
	}, logger))
	if cfg.CacheEnabled {
		out = cache.NewGameRepository(out, basecache.NewStore(cfg.CacheTTL, cfg.StoreTimeout))
	}
	return out
}

func openDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		defer cancel()
		return struct{}{}, db.PingContext(pingCtx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(cfg.DBConnectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.WarnContext(ctx, "postgres not ready", "attempt", attempt, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres within %s: %w", cfg.DBConnectTimeout, err)
	}

	logger.InfoContext(ctx, "postgres connected", "database", dbNameFromURL(dsn), "attempts", attempt)
	return db, nil
}

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses whitespace so multi-line queries read as a
// single span attribute, truncating long statements.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
