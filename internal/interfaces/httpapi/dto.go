package httpapi

import (
	"time"

	"github.com/riskibarqy/gameday/internal/domain/game"
)

// gameDTO mirrors id into _id for clients keyed on document ids.
type gameDTO struct {
	ID        string    `json:"id"`
	DocID     string    `json:"_id"`
	Title     string    `json:"title"`
	League    string    `json:"league"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Venue     string    `json:"venue"`
	City      string    `json:"city"`
	Price     int64     `json:"price"`
	Img       string    `json:"img,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type gameEnvelope struct {
	OK   bool    `json:"ok"`
	Game gameDTO `json:"game"`
}

type indexDTO struct {
	Message   string            `json:"message"`
	Service   string            `json:"service,omitempty"`
	Version   string            `json:"version,omitempty"`
	Endpoints map[string]string `json:"endpoints"`
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:        g.ID,
		DocID:     g.ID,
		Title:     g.Title,
		League:    g.League,
		Date:      g.Date,
		Time:      g.Time,
		Venue:     g.Venue,
		City:      g.City,
		Price:     g.Price,
		Img:       g.Img,
		ImageURL:  g.ImageURL,
		Summary:   g.Summary,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
