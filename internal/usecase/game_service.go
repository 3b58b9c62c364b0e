package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/platform/id"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// createAttempts bounds how often Create re-reads the store after another
// create claimed the id it was assigned.
const createAttempts = 32

// GameService runs the catalog CRUD flow on top of a game.Repository. It holds
// no locks; each mutating step is a single repository call.
type GameService struct {
	repo      game.Repository
	validator *game.Validator
	ids       id.Assigner
	logger    *logging.Logger
	now       func() time.Time
}

func NewGameService(repo game.Repository, validator *game.Validator, ids id.Assigner, logger *logging.Logger) *GameService {
	if validator == nil {
		validator = game.NewValidator(game.ImageFieldsImg)
	}
	if ids == nil {
		ids = id.NewStoreAssigner()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		repo:      repo,
		validator: validator,
		ids:       ids,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *GameService) List(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		err = storeError("list games", err)
		recordSpanError(span, err)
		return nil, err
	}
	if items == nil {
		items = []game.Game{}
	}

	return items, nil
}

func (s *GameService) Get(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrNotFound)
	}
	span.SetAttributes(attribute.String("game.id", gameID))

	item, exists, err := s.repo.GetByID(ctx, gameID)
	if err != nil {
		err = storeError("get game", err)
		recordSpanError(span, err)
		return game.Game{}, err
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	return item, nil
}

// Create validates raw, rejects a (title, date) pair that is already listed
// and stores the new game. The check and the insert are not atomic; stores
// with a uniqueness index report the race as ErrConflict. An id claimed by a
// concurrent create is retried against a fresh listing.
func (s *GameService) Create(ctx context.Context, raw map[string]any) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer span.End()

	payload, violations := s.validator.Validate(raw)
	if len(violations) > 0 {
		return game.Game{}, &ValidationError{Violations: violations}
	}

	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		var created game.Game
		created, err = s.create(ctx, payload)
		if err == nil {
			span.SetAttributes(attribute.String("game.id", created.ID))
			s.logger.InfoContext(ctx, "game created", "game_id", created.ID, "title", created.Title, "date", created.Date)
			return created, nil
		}
		if !errors.Is(err, game.ErrIDTaken) {
			break
		}
		s.logger.DebugContext(ctx, "game id taken, retrying create", "attempt", attempt)
	}

	recordSpanError(span, err)
	return game.Game{}, err
}

func (s *GameService) create(ctx context.Context, payload game.Payload) (game.Game, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return game.Game{}, storeError("list games", err)
	}
	if dup, ok := game.FindDuplicate(payload, existing); ok {
		return game.Game{}, fmt.Errorf("%w: game %q on %s already exists as id=%s", ErrConflict, payload.Title, payload.Date, dup.ID)
	}

	ids := make([]string, 0, len(existing))
	for _, item := range existing {
		ids = append(ids, item.ID)
	}
	gameID, err := s.ids.AssignID(ids)
	if err != nil {
		return game.Game{}, fmt.Errorf("assign game id: %w", err)
	}

	created, err := s.repo.Insert(ctx, game.NewGame(gameID, payload, s.now().UTC()))
	if err != nil {
		return game.Game{}, storeError("insert game", err)
	}
	return created, nil
}

// Update replaces every field of an existing game. The duplicate check is not
// applied here.
func (s *GameService) Update(ctx context.Context, gameID string, raw map[string]any) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Update")
	defer span.End()

	payload, violations := s.validator.Validate(raw)
	if len(violations) > 0 {
		return game.Game{}, &ValidationError{Violations: violations}
	}

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrNotFound)
	}
	span.SetAttributes(attribute.String("game.id", gameID))

	updated, exists, err := s.repo.Replace(ctx, gameID, payload, s.now().UTC())
	if err != nil {
		err = storeError("replace game", err)
		recordSpanError(span, err)
		return game.Game{}, err
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	s.logger.InfoContext(ctx, "game updated", "game_id", updated.ID)
	return updated, nil
}

func (s *GameService) Delete(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrNotFound)
	}
	span.SetAttributes(attribute.String("game.id", gameID))

	removed, exists, err := s.repo.Delete(ctx, gameID)
	if err != nil {
		err = storeError("delete game", err)
		recordSpanError(span, err)
		return game.Game{}, err
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	s.logger.InfoContext(ctx, "game deleted", "game_id", removed.ID)
	return removed, nil
}

func storeError(op string, err error) error {
	switch {
	case errors.Is(err, game.ErrStoreUnavailable):
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
	case errors.Is(err, game.ErrDuplicate):
		return fmt.Errorf("%w: %s: %w", ErrConflict, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
