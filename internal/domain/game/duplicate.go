package game

import "strings"

// FindDuplicate reports the first existing game sharing the payload's title
// (case-insensitive) and date (exact). No other fields are compared.
func FindDuplicate(p Payload, existing []Game) (Game, bool) {
	key := TitleKey(p.Title)
	for _, item := range existing {
		if item.Date != p.Date {
			continue
		}
		if TitleKey(item.Title) == key {
			return item, true
		}
	}

	return Game{}, false
}

// TitleKey is the form titles are compared in. It lowercases rune by rune
// like the lower(title) unique index, so runes that only match under case
// folding (ſ and s) stay distinct on both sides.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
