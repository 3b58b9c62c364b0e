package memory

import "github.com/riskibarqy/gameday/internal/domain/game"

// SeedPayloads are the sample listings loaded on start and by the seed tool.
func SeedPayloads() []game.Payload {
	return []game.Payload{
		{
			Title:    "USC vs Clemson",
			League:   "NCAA Football",
			Date:     "2025-11-29",
			Time:     "19:00",
			Venue:    "Williams–Brice Stadium",
			City:     "Columbia, SC",
			Price:    85,
			Img:      "/images/usc-vs-clemson.jpg",
			ImageURL: "/images/usc-vs-clemson.jpg",
			Summary:  "Palmetto Bowl rivalry showdown.",
		},
		{
			Title:    "Lakers vs Celtics",
			League:   "NBA",
			Date:     "2025-12-14",
			Time:     "20:00",
			Venue:    "Crypto.com Arena",
			City:     "Los Angeles, CA",
			Price:    210,
			Img:      "/images/lakers-vs-celtics.png",
			ImageURL: "/images/lakers-vs-celtics.png",
			Summary:  "Classic NBA rivalry.",
		},
		{
			Title:    "Saints vs Falcons",
			League:   "NFL",
			Date:     "2025-12-21",
			Time:     "13:00",
			Venue:    "Mercedes-Benz Stadium",
			City:     "Atlanta, GA",
			Price:    120,
			Img:      "/images/saints-vs-falcons.jpg",
			ImageURL: "/images/saints-vs-falcons.jpg",
			Summary:  "NFC South battle.",
		},
	}
}
