package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/gameday/internal/domain/game"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantDuplicate   bool
		wantUnavailable bool
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}, wantDuplicate: true},
		{name: "connection failure", err: &pq.Error{Code: "08006", Message: "connection failure"}, wantUnavailable: true},
		{name: "too many connections", err: &pq.Error{Code: "53300", Message: "too many connections"}, wantUnavailable: true},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01", Message: "terminating connection"}, wantUnavailable: true},
		{name: "undefined table", err: &pq.Error{Code: "42P01", Message: "relation games does not exist"}},
		{name: "bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), wantUnavailable: true},
		{name: "conn done", err: sql.ErrConnDone, wantUnavailable: true},
		{name: "deadline", err: context.DeadlineExceeded, wantUnavailable: true},
		{name: "client cancelled", err: fmt.Errorf("query: %w", context.Canceled)},
		{name: "dial error", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, wantUnavailable: true},
		{name: "unrelated", err: fakeErr("pq: syntax error")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err, "select games")
			if !errors.Is(got, tc.err) {
				t.Fatalf("expected original error in chain, got %v", got)
			}
			if errors.Is(got, game.ErrDuplicate) != tc.wantDuplicate {
				t.Fatalf("duplicate mark mismatch: got=%v want=%v", errors.Is(got, game.ErrDuplicate), tc.wantDuplicate)
			}
			if errors.Is(got, game.ErrStoreUnavailable) != tc.wantUnavailable {
				t.Fatalf("unavailable mark mismatch: got=%v want=%v", errors.Is(got, game.ErrStoreUnavailable), tc.wantUnavailable)
			}
		})
	}

	if classifyError(nil, "noop") != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error not to be not found")
	}
}

func TestGameRepository_MalformedIDIsAbsentWithoutQuery(t *testing.T) {
	repo := NewGameRepository(nil)
	ctx := context.Background()

	for _, id := range []string{"", "42", "not-a-uuid", "0b8f9e52-2f2e-4d55-8f0f"} {
		if _, ok, err := repo.GetByID(ctx, id); ok || err != nil {
			t.Fatalf("get %q: expected absent, ok=%v err=%v", id, ok, err)
		}
		if _, ok, err := repo.Replace(ctx, id, game.Payload{}, time.Now()); ok || err != nil {
			t.Fatalf("replace %q: expected absent, ok=%v err=%v", id, ok, err)
		}
		if _, ok, err := repo.Delete(ctx, id); ok || err != nil {
			t.Fatalf("delete %q: expected absent, ok=%v err=%v", id, ok, err)
		}
	}
}

func TestGameRepository_InsertRejectsCallerAssignedID(t *testing.T) {
	_, err := NewGameRepository(nil).Insert(context.Background(), game.Game{ID: "1"})
	if err == nil {
		t.Fatalf("expected error for caller-assigned id")
	}
}

func TestGameTableModel_ToDomain(t *testing.T) {
	created := time.Date(2025, 11, 1, 9, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	row := gameTableModel{
		ID:        9,
		PublicID:  "0b8f9e52-2f2e-4d55-8f0f-7d3c2a6e4b10",
		Title:     "Saints vs Falcons",
		League:    "NFL",
		GameDate:  "2025-12-21",
		GameTime:  "13:00",
		Price:     120,
		Img:       sql.NullString{String: "/images/saints-vs-falcons.jpg", Valid: true},
		CreatedAt: created,
		UpdatedAt: created,
	}

	got := row.toDomain()
	if got.ID != row.PublicID {
		t.Fatalf("expected public id as game id, got %s", got.ID)
	}
	if got.Date != "2025-12-21" || got.Time != "13:00" || got.ImageURL != "" {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if got.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps, got %v", got.CreatedAt.Location())
	}
}

func TestGameColumns(t *testing.T) {
	if len(gameColumns) != 14 || gameColumns[0] != "id" || gameColumns[1] != "public_id" {
		t.Fatalf("unexpected game columns: %v", gameColumns)
	}
	if got := newGameInsertModel(game.Game{Img: "/a.png"}); !got.Img.Valid || got.ImageURL.Valid {
		t.Fatalf("unexpected null handling: %+v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
