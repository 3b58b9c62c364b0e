package app

import (
	"context"
	"errors"

	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/usecase"
)

// SeedResult counts what Seed did with each payload.
type SeedResult struct {
	Created int
	Skipped int
}

// Seed creates each payload through the service. Payloads that collide with a
// listed game are skipped.
func Seed(ctx context.Context, svc *usecase.GameService, payloads []game.Payload) (SeedResult, error) {
	var result SeedResult
	for _, payload := range payloads {
		_, err := svc.Create(ctx, payload.Fields())
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, usecase.ErrConflict):
			result.Skipped++
		default:
			return result, err
		}
	}
	return result, nil
}
