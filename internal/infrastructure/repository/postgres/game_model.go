package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/gameday/internal/domain/game"
)

const gamesTable = "games"

type gameTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	Title     string         `db:"title"`
	League    string         `db:"league"`
	GameDate  string         `db:"game_date"`
	GameTime  string         `db:"game_time"`
	Venue     string         `db:"venue"`
	City      string         `db:"city"`
	Price     int64          `db:"price"`
	Img       sql.NullString `db:"img"`
	ImageURL  sql.NullString `db:"image_url"`
	Summary   string         `db:"summary"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	Title     string         `db:"title"`
	League    string         `db:"league"`
	GameDate  string         `db:"game_date"`
	GameTime  string         `db:"game_time"`
	Venue     string         `db:"venue"`
	City      string         `db:"city"`
	Price     int64          `db:"price"`
	Img       sql.NullString `db:"img"`
	ImageURL  sql.NullString `db:"image_url"`
	Summary   string         `db:"summary"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func newGameInsertModel(g game.Game) gameInsertModel {
	return gameInsertModel{
		Title:     g.Title,
		League:    g.League,
		GameDate:  g.Date,
		GameTime:  g.Time,
		Venue:     g.Venue,
		City:      g.City,
		Price:     g.Price,
		Img:       nullString(g.Img),
		ImageURL:  nullString(g.ImageURL),
		Summary:   g.Summary,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:        m.PublicID,
		Title:     m.Title,
		League:    m.League,
		Date:      m.GameDate,
		Time:      m.GameTime,
		Venue:     m.Venue,
		City:      m.City,
		Price:     m.Price,
		Img:       m.Img.String,
		ImageURL:  m.ImageURL.String,
		Summary:   m.Summary,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
