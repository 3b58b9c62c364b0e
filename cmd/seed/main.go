package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/gameday/internal/app"
	"github.com/riskibarqy/gameday/internal/config"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"github.com/riskibarqy/gameday/internal/usecase"
)

type options struct {
	apiBase string
	reset   bool
	workers int
	timeout time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.apiBase, "api", "", "base URL of a running API, e.g. http://localhost:8080; empty writes to the configured store")
	flag.BoolVar(&opts.reset, "reset", false, "remove every stored game before seeding (store mode only)")
	flag.IntVar(&opts.workers, "workers", 1, "concurrent create requests")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout in api mode")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.NewJSON(cfg.LogLevel).Named("seed")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var c creator
	if opts.apiBase != "" {
		if opts.reset {
			logger.Warn("reset ignored in api mode")
		}
		c = newRemoteCreator(opts.apiBase, opts.timeout)
	} else {
		local, closeStore, err := openLocalCreator(ctx, cfg, opts.reset, logger)
		if err != nil {
			logger.Error("open store", "error", err)
			_ = logger.Sync()
			os.Exit(1)
		}
		defer closeStore()
		c = local
	}

	result, err := seed(ctx, c, memory.SeedPayloads(), opts.workers)
	logger.Info("seed finished", "created", result.Created, "skipped", result.Skipped, "failed", result.Failed)
	if err != nil {
		logger.Error("seed failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// errSkipped reports a payload that is already listed.
var errSkipped = errors.New("game already listed")

type creator interface {
	Create(ctx context.Context, payload game.Payload) error
}

type localCreator struct {
	svc *usecase.GameService
}

func (c localCreator) Create(ctx context.Context, payload game.Payload) error {
	_, err := c.svc.Create(ctx, payload.Fields())
	if errors.Is(err, usecase.ErrConflict) {
		return errSkipped
	}
	return err
}

func openLocalCreator(ctx context.Context, cfg config.Config, reset bool, logger *logging.Logger) (creator, func(), error) {
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store failed", "error", err)
		}
	}

	if reset {
		if err := store.Reset(ctx); err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("reset store: %w", err)
		}
		logger.Info("store reset", "backend", cfg.StoreBackend)
	}

	return localCreator{svc: app.NewGameService(cfg, store, logger)}, closeStore, nil
}

type seedResult struct {
	Created int
	Skipped int
	Failed  int
}

func seed(ctx context.Context, c creator, payloads []game.Payload, workers int) (seedResult, error) {
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return seedResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		created, skipped atomic.Int32
		mu               sync.Mutex
		errs             []error
		wg               sync.WaitGroup
	)
	for _, payload := range payloads {
		payload := payload
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			err := c.Create(ctx, payload)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, errSkipped):
				skipped.Add(1)
			default:
				mu.Lock()
				errs = append(errs, fmt.Errorf("seed %q on %s: %w", payload.Title, payload.Date, err))
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			return seedResult{}, fmt.Errorf("submit seed task: %w", err)
		}
	}
	wg.Wait()

	result := seedResult{
		Created: int(created.Load()),
		Skipped: int(skipped.Load()),
		Failed:  len(errs),
	}
	return result, errors.Join(errs...)
}
