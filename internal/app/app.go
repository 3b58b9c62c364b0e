package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/gameday/internal/config"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gameday/internal/interfaces/httpapi"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"github.com/riskibarqy/gameday/internal/usecase"
)

// App is the assembled API: store, service and HTTP server.
type App struct {
	Server  *http.Server
	Service *usecase.GameService
	Store   *Store
}

// NewGameService builds the catalog service for store using the configured
// image field policy.
func NewGameService(cfg config.Config, store *Store, logger *logging.Logger) *usecase.GameService {
	return usecase.NewGameService(store.Repo, game.NewValidator(cfg.GameImageFields), store.IDs, logger)
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	gameSvc := NewGameService(cfg, store, logger)
	if cfg.SeedOnStart {
		result, err := Seed(ctx, gameSvc, memory.SeedPayloads())
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed games: %w", err)
		}
		logger.InfoContext(ctx, "games seeded", "created", result.Created, "skipped", result.Skipped)
	}

	handler := httpapi.NewHandler(gameSvc, logger, httpapi.HandlerOptions{
		Pinger:      store.Pinger,
		ServiceName: cfg.ServiceName,
		Version:     cfg.ServiceVersion,
	})
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = store.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, Service: gameSvc, Store: store}, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}
