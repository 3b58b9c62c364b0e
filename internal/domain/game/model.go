package game

import (
	"fmt"
	"strings"
	"time"
)

// Game is a single scheduled sporting event listing.
type Game struct {
	ID        string
	Title     string
	League    string
	Date      string
	Time      string
	Venue     string
	City      string
	Price     int64
	Img       string
	ImageURL  string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payload is a validated, normalized game input. It never carries an identifier.
type Payload struct {
	Title    string
	League   string
	Date     string
	Time     string
	Venue    string
	City     string
	Price    int64
	Img      string
	ImageURL string
	Summary  string
}

// NewGame builds a record from a payload. The identifier may be empty when the
// store assigns it on insert.
func NewGame(id string, p Payload, now time.Time) Game {
	g := p.Apply(Game{ID: id, CreatedAt: now})
	g.UpdatedAt = now
	return g
}

// Apply replaces every field of g except ID and CreatedAt.
func (p Payload) Apply(g Game) Game {
	g.Title = p.Title
	g.League = p.League
	g.Date = p.Date
	g.Time = p.Time
	g.Venue = p.Venue
	g.City = p.City
	g.Price = p.Price
	g.Img = p.Img
	g.ImageURL = p.ImageURL
	g.Summary = p.Summary
	return g
}

// Fields renders the payload as raw request input. Empty image references are
// left out.
func (p Payload) Fields() map[string]any {
	out := map[string]any{
		"title":   p.Title,
		"league":  p.League,
		"date":    p.Date,
		"time":    p.Time,
		"venue":   p.Venue,
		"city":    p.City,
		"price":   p.Price,
		"summary": p.Summary,
	}
	if p.Img != "" {
		out["img"] = p.Img
	}
	if p.ImageURL != "" {
		out["imageUrl"] = p.ImageURL
	}
	return out
}

// ImageFields selects which image reference fields a payload must carry.
type ImageFields string

const (
	ImageFieldsImg      ImageFields = "img"
	ImageFieldsImageURL ImageFields = "imageUrl"
	ImageFieldsBoth     ImageFields = "both"
)

func ParseImageFields(v string) (ImageFields, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "img":
		return ImageFieldsImg, nil
	case "imageurl", "image_url":
		return ImageFieldsImageURL, nil
	case "both":
		return ImageFieldsBoth, nil
	default:
		return "", fmt.Errorf("invalid image fields %q: valid values are img, imageUrl, both", v)
	}
}

func (f ImageFields) wantsImg() bool {
	return f == ImageFieldsImg || f == ImageFieldsBoth || f == ""
}

func (f ImageFields) wantsImageURL() bool {
	return f == ImageFieldsImageURL || f == ImageFieldsBoth
}
