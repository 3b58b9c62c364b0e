package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/gameday/internal/domain/game"
	basecache "github.com/riskibarqy/gameday/internal/platform/cache"
)

const (
	gameKeyPrefix = "game:"
	gameListKey   = gameKeyPrefix + "list"
)

// GameRepository serves reads from the cache and drops every cached game
// after a write attempt, successful or not.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	v, err := r.cache.GetOrLoad(ctx, gameListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := gameKeyPrefix + "id:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) (game.Game, error) {
	defer r.invalidate(ctx)
	return r.next.Insert(ctx, item)
}

func (r *GameRepository) Replace(ctx context.Context, gameID string, payload game.Payload, updatedAt time.Time) (game.Game, bool, error) {
	defer r.invalidate(ctx)
	return r.next.Replace(ctx, gameID, payload, updatedAt)
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) (game.Game, bool, error) {
	defer r.invalidate(ctx)
	return r.next.Delete(ctx, gameID)
}

func (r *GameRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, gameKeyPrefix)
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}
