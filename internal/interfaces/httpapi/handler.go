package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"github.com/riskibarqy/gameday/internal/usecase"
)

const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

var bodyDecoder = sonic.Config{UseNumber: true}.Froze()

type Handler struct {
	gameService *usecase.GameService
	pinger      game.Pinger
	serviceName string
	version     string
	logger      *logging.Logger
}

type HandlerOptions struct {
	// Pinger backs the database status on /health. Nil reports "unknown".
	Pinger      game.Pinger
	ServiceName string
	Version     string
}

func NewHandler(gameService *usecase.GameService, logger *logging.Logger, opts HandlerOptions) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameService: gameService,
		pinger:      opts.Pinger,
		serviceName: opts.ServiceName,
		version:     opts.Version,
		logger:      logger,
	}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	items, err := h.gameService.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list games failed", err)
		return
	}

	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(item))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	item, err := h.gameService.Get(ctx, gameID)
	if err != nil {
		h.fail(ctx, w, "get game failed", err, "game_id", gameID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	raw, err := decodeGameBody(w, r)
	if err != nil {
		h.fail(ctx, w, "create game failed", err)
		return
	}

	created, err := h.gameService.Create(ctx, raw)
	if err != nil {
		h.fail(ctx, w, "create game failed", err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, gameEnvelope{OK: true, Game: gameToDTO(created)})
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	raw, err := decodeGameBody(w, r)
	if err != nil {
		h.fail(ctx, w, "update game failed", err, "game_id", gameID)
		return
	}

	updated, err := h.gameService.Update(ctx, gameID, raw)
	if err != nil {
		h.fail(ctx, w, "update game failed", err, "game_id", gameID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, gameEnvelope{OK: true, Game: gameToDTO(updated)})
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	removed, err := h.gameService.Delete(ctx, gameID)
	if err != nil {
		h.fail(ctx, w, "delete game failed", err, "game_id", gameID)
		return
	}

	writeJSON(ctx, w, http.StatusOK, gameEnvelope{OK: true, Game: gameToDTO(removed)})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Index")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, indexDTO{
		Message: "Game Day API",
		Service: h.serviceName,
		Version: h.version,
		Endpoints: map[string]string{
			"GET /api/games":         "Get all games",
			"GET /api/games/{id}":    "Get a single game",
			"POST /api/games":        "Create a new game",
			"PUT /api/games/{id}":    "Update a game",
			"DELETE /api/games/{id}": "Delete a game",
		},
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Health always answers 200 and reports the database state alongside.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	status := "unknown"
	if h.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		status = "connected"
		if err := h.pinger.Ping(pingCtx); err != nil {
			h.logger.WarnContext(ctx, "database ping failed", "error", err)
			status = "disconnected"
		}
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok", "database": status})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	mapped := mapError(ctx, err)
	args = append(args, "status", mapped.HTTPStatus, "error", err)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}

// decodeGameBody reads the request body as a JSON object. Numbers are kept as
// json.Number so price coercion sees the literal.
func decodeGameBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, errBodyTooLarge)
		}
		return nil, fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}

	var raw map[string]any
	if err := bodyDecoder.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	return raw, nil
}
