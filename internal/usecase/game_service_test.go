package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gameday/internal/platform/id"
	"github.com/riskibarqy/gameday/internal/platform/logging"
)

func hawksVsNets() map[string]any {
	return map[string]any{
		"title":   "Hawks vs Nets",
		"league":  "NBA",
		"date":    "2025-01-10",
		"time":    "19:30",
		"venue":   "State Farm Arena",
		"city":    "Atlanta, GA",
		"price":   float64(75),
		"img":     "/images/a.jpg",
		"summary": "Conference matchup night.",
	}
}

func newMemoryGameService() *GameService {
	svc := NewGameService(
		memory.NewGameRepository(nil),
		game.NewValidator(game.ImageFieldsImg),
		id.NewSequentialAssigner(),
		logging.NewNop(),
	)
	clock := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestGameService_CreateGetUpdateDeleteLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryGameService()

	created, err := svc.Create(ctx, hawksVsNets())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "1" {
		t.Fatalf("expected first sequential id, got %q", created.ID)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != created {
		t.Fatalf("get returned a different record:\nwant: %+v\ngot:  %+v", created, got)
	}

	raw := hawksVsNets()
	raw["price"] = 90
	raw["venue"] = "Barclays Center"
	updated, err := svc.Update(ctx, created.ID, raw)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected id preserved: got=%s want=%s", updated.ID, created.ID)
	}
	if updated.Price != 90 || updated.Venue != "Barclays Center" {
		t.Fatalf("expected fields replaced, got %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) || !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %+v", updated)
	}

	got, err = svc.Get(ctx, created.ID)
	if err != nil || got != updated {
		t.Fatalf("expected updated record on get, got=%+v err=%v", got, err)
	}

	removed, err := svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != created.ID {
		t.Fatalf("unexpected removed id: %s", removed.ID)
	}

	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGameService_CreateRejectsDuplicateTitleAndDate(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryGameService()

	first := hawksVsNets()
	first["title"] = "Lakers vs Celtics"
	first["date"] = "2025-12-14"
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := hawksVsNets()
	second["title"] = "  lakers VS celtics "
	second["date"] = "2025-12-14"
	second["time"] = "21:00"
	second["venue"] = "TD Garden"
	if _, err := svc.Create(ctx, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	second["date"] = "2025-12-15"
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("expected different date to be accepted: %v", err)
	}
}

func TestGameService_UpdateSkipsDuplicateCheck(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryGameService()

	a, err := svc.Create(ctx, hawksVsNets())
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	other := hawksVsNets()
	other["title"] = "Bulls vs Knicks"
	b, err := svc.Create(ctx, other)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	if _, err := svc.Update(ctx, b.ID, hawksVsNets()); err != nil {
		t.Fatalf("expected update onto an existing title/date to pass, got %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids")
	}
}

func TestGameService_ValidationErrorCarriesEveryViolation(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryGameService()

	raw := hawksVsNets()
	raw["price"] = -5
	delete(raw, "summary")

	_, err := svc.Create(ctx, raw)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !verr.Violations.Has("price") || !verr.Violations.Has("summary") || len(verr.Violations) != 2 {
		t.Fatalf("unexpected violations: %v", verr.Violations.Messages())
	}

	items, _ := svc.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected no write on validation failure, got %d games", len(items))
	}
}

func TestGameService_UnknownIDsAreNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryGameService()

	if _, err := svc.Get(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get blank: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "999", hawksVsNets()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Delete(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestGameService_UpdateValidatesBeforeLookup(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryGameService()

	raw := hawksVsNets()
	raw["league"] = "NHL"
	if _, err := svc.Update(ctx, "999", raw); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGameService_ListReturnsEmptySlice(t *testing.T) {
	items, err := newMemoryGameService().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

// slowListRepository widens the window between reading the listing and
// inserting, so concurrent creates are handed the same sequential id.
type slowListRepository struct {
	game.Repository
	delay time.Duration
}

func (r slowListRepository) List(ctx context.Context) ([]game.Game, error) {
	items, err := r.Repository.List(ctx)
	time.Sleep(r.delay)
	return items, err
}

func TestGameService_ConcurrentDistinctCreatesAreAllStored(t *testing.T) {
	store := memory.NewGameRepository(nil)
	svc := NewGameService(
		slowListRepository{Repository: store, delay: time.Millisecond},
		game.NewValidator(game.ImageFieldsImg),
		id.NewSequentialAssigner(),
		logging.NewNop(),
	)
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	const creators = 20
	start := make(chan struct{})
	errCh := make(chan error, creators)
	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw := hawksVsNets()
			raw["title"] = fmt.Sprintf("Exhibition %d", i)
			<-start
			if _, err := svc.Create(context.Background(), raw); err != nil {
				errCh <- err
			}
		}(i)
	}
	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatalf("distinct create failed: %v", err)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != creators {
		t.Fatalf("expected %d stored games, got %d", creators, len(items))
	}
	seen := make(map[string]bool, creators)
	for _, item := range items {
		if seen[item.ID] {
			t.Fatalf("id %s stored twice", item.ID)
		}
		seen[item.ID] = true
	}
}
