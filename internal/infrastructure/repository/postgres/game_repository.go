package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gameday/internal/domain/game"
	qb "github.com/riskibarqy/gameday/internal/platform/querybuilder"
)

var gameColumns = qb.Columns(gameTableModel{})

// GameRepository stores games in the games table. Identifiers are UUIDs
// generated by the database.
type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// List returns games newest first.
func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query, args, err := qb.Select(gameColumns...).From(gamesTable).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classifyError(err, "select games")
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	if !isPublicID(gameID) {
		return game.Game{}, false, nil
	}

	query, args, err := qb.Select(gameColumns...).From(gamesTable).
		Where(qb.Eq("public_id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	return r.getOne(ctx, "get game by id", query, args)
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) (game.Game, error) {
	if strings.TrimSpace(item.ID) != "" {
		return game.Game{}, crerr.Newf("insert game: id %q must be assigned by the database", item.ID)
	}

	query, args, err := qb.InsertModel(gamesTable, newGameInsertModel(item), returningGameColumns())
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return game.Game{}, classifyError(err, "insert game")
	}

	return row.toDomain(), nil
}

func (r *GameRepository) Replace(ctx context.Context, gameID string, payload game.Payload, updatedAt time.Time) (game.Game, bool, error) {
	if !isPublicID(gameID) {
		return game.Game{}, false, nil
	}

	query, args, err := qb.Update(gamesTable).
		Set("title", payload.Title).
		Set("league", payload.League).
		Set("game_date", payload.Date).
		Set("game_time", payload.Time).
		Set("venue", payload.Venue).
		Set("city", payload.City).
		Set("price", payload.Price).
		Set("img", nullString(payload.Img)).
		Set("image_url", nullString(payload.ImageURL)).
		Set("summary", payload.Summary).
		Set("updated_at", updatedAt).
		Where(qb.Eq("public_id", gameID)).
		Suffix(returningGameColumns()).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build replace game query: %w", err)
	}

	return r.getOne(ctx, "replace game", query, args)
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) (game.Game, bool, error) {
	if !isPublicID(gameID) {
		return game.Game{}, false, nil
	}

	query, args, err := qb.DeleteFrom(gamesTable).
		Where(qb.Eq("public_id", gameID)).
		Suffix(returningGameColumns()).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build delete game query: %w", err)
	}

	return r.getOne(ctx, "delete game", query, args)
}

// Reset removes every game. Used by the seed tool.
func (r *GameRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "TRUNCATE TABLE "+gamesTable); err != nil {
		return classifyError(err, "truncate games")
	}
	return nil
}

func (r *GameRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return classifyError(err, "ping database")
	}
	return nil
}

func (r *GameRepository) getOne(ctx context.Context, op, query string, args []any) (game.Game, bool, error) {
	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, classifyError(err, op)
	}

	return row.toDomain(), true, nil
}

// isPublicID reports whether v can address a row. Malformed identifiers
// resolve to "absent" without a round trip.
func isPublicID(v string) bool {
	_, err := uuid.Parse(strings.TrimSpace(v))
	return err == nil
}

func returningGameColumns() string {
	return "RETURNING " + strings.Join(gameColumns, ", ")
}
