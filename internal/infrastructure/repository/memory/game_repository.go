package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/gameday/internal/domain/game"
)

type GameRepository struct {
	mu     sync.RWMutex
	items  map[string]game.Game
	orders []string
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	orders := make([]string, 0, len(games))

	for _, g := range games {
		if _, exists := items[g.ID]; exists {
			continue
		}
		items[g.ID] = g
		orders = append(orders, g.ID)
	}

	return &GameRepository{
		items:  items,
		orders: orders,
	}
}

// List returns games in insertion order.
func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}

	return g, true, nil
}

func (r *GameRepository) Insert(_ context.Context, item game.Game) (game.Game, error) {
	if strings.TrimSpace(item.ID) == "" {
		return game.Game{}, fmt.Errorf("insert game: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return game.Game{}, fmt.Errorf("%w: id=%s", game.ErrIDTaken, item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)

	return item, nil
}

func (r *GameRepository) Replace(_ context.Context, gameID string, payload game.Payload, updatedAt time.Time) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}

	next := payload.Apply(current)
	next.UpdatedAt = updatedAt
	r.items[gameID] = next

	return next, true, nil
}

func (r *GameRepository) Delete(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}
	delete(r.items, gameID)
	for i, id := range r.orders {
		if id == gameID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return removed, true, nil
}

// Reset drops every stored game.
func (r *GameRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]game.Game)
	r.orders = nil
	return nil
}

func (r *GameRepository) Ping(_ context.Context) error {
	return nil
}
