package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Assigner produces the identifier for a new record. An empty result means the
// record store generates the identifier itself on insert.
type Assigner interface {
	AssignID(existing []string) (string, error)
}

// StoreAssigner defers identity to the record store.
type StoreAssigner struct{}

func NewStoreAssigner() *StoreAssigner {
	return &StoreAssigner{}
}

func (a *StoreAssigner) AssignID(_ []string) (string, error) {
	return "", nil
}

// SequentialAssigner hands out max(existing)+1, starting at 1. Every existing
// identifier must be numeric, so it cannot share a store with generated IDs.
type SequentialAssigner struct{}

func NewSequentialAssigner() *SequentialAssigner {
	return &SequentialAssigner{}
}

func (a *SequentialAssigner) AssignID(existing []string) (string, error) {
	var highest uint64
	for _, raw := range existing {
		value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return "", fmt.Errorf("non-numeric id %q in sequential store: %w", raw, err)
		}
		if value > highest {
			highest = value
		}
	}
	if highest == ^uint64(0) {
		return "", fmt.Errorf("sequential id space exhausted")
	}

	return strconv.FormatUint(highest+1, 10), nil
}
