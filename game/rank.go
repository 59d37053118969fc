package game

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrInvalidRank = errors.New("invalid rank")

// RankByAgent maps each agent to its final standing, 1 being the best. Tied agents share
// a rank and the next rank skips past them (1, 1, 3). It is empty while the game runs.
type RankByAgent[A comparable] map[A]int

// NewRankByAgent ranks groups of agents from best to worst. Agents in one group tie.
func NewRankByAgent[A comparable](groups [][]A) (RankByAgent[A], error) {
	ranks := RankByAgent[A]{}
	next := 1
	for i, group := range groups {
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: group %d is empty", ErrInvalidRank, i)
		}
		for _, a := range group {
			if _, ok := ranks[a]; ok {
				return nil, fmt.Errorf("%w: %v is ranked twice", ErrInvalidRank, a)
			}
			ranks[a] = next
		}
		next += len(group)
	}
	return ranks, nil
}

// Validate checks that every rank is one more than the number of agents ranked above it.
func (r RankByAgent[A]) Validate() error {
	counts := map[int]int{}
	for a, rank := range r {
		if rank < 1 {
			return fmt.Errorf("%w: %v has rank %d", ErrInvalidRank, a, rank)
		}
		counts[rank]++
	}

	above := 0
	for _, rank := range slices.Sorted(maps.Keys(counts)) {
		if rank != above+1 {
			return fmt.Errorf("%w: rank %d with %d agents above", ErrInvalidRank, rank, above)
		}
		above += counts[rank]
	}
	return nil
}
