package game

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/chewxy/math32"
	"github.com/sw965/omw/mathx/randx"
	"github.com/sw965/omw/slicesx"
)

type Policy[M comparable] map[M]float32

// OneHotPolicy puts all probability mass on a single move.
func OneHotPolicy[M comparable](move M) Policy[M] {
	return Policy[M]{move: 1.0}
}

func UniformPolicy[M comparable](legalMoves []M) (Policy[M], error) {
	n := len(legalMoves)
	if n == 0 {
		return nil, fmt.Errorf("legalMoves must not be empty")
	}

	p := 1.0 / float32(n)
	policy := Policy[M]{}
	for _, m := range legalMoves {
		policy[m] = p
	}
	return policy, nil
}

// ValidateForLegalMoves checks that the policy covers exactly the legal moves with
// non-negative finite weights. A one-hot policy is accepted when it names a legal move.
func (p Policy[M]) ValidateForLegalMoves(legalMoves []M, checkUnique bool) error {
	if checkUnique {
		if !slicesx.IsUnique(legalMoves) {
			return fmt.Errorf("legalMoves contains duplicates")
		}
	}

	if len(legalMoves) == 0 {
		return fmt.Errorf("legalMoves must not be empty")
	}

	if len(p) > len(legalMoves) {
		return fmt.Errorf("policy size (%d) exceeds legal moves count (%d)", len(p), len(legalMoves))
	}

	var sum float32
	for m, v := range p {
		if !slices.Contains(legalMoves, m) {
			return fmt.Errorf("policy contains an illegal move: %v", m)
		}

		if v < 0 || math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("invalid probability value %f for move: %v", v, m)
		}
		sum += v
	}

	if sum == 0 {
		return fmt.Errorf("sum of policy probabilities is zero")
	}
	return nil
}

type SelectFunc[M comparable] func(Policy[M], *rand.Rand) (M, error)

// MaxSelectFunc picks a move of maximal weight, breaking ties at random.
func MaxSelectFunc[M comparable](policy Policy[M], rng *rand.Rand) (M, error) {
	keys := slices.Collect(maps.Keys(policy))
	if len(keys) == 0 {
		var zero M
		return zero, fmt.Errorf("policy must not be empty")
	}

	max := policy[keys[0]]
	moves := []M{keys[0]}

	for _, k := range keys[1:] {
		v := policy[k]
		switch {
		case v > max:
			max = v
			moves = []M{k}
		case v == max:
			moves = append(moves, k)
		}
	}

	move, err := randx.Choice(moves, rng)
	if err != nil {
		var zero M
		return zero, err
	}
	return move, nil
}

func WeightedRandomSelectFunc[M comparable](policy Policy[M], rng *rand.Rand) (M, error) {
	n := len(policy)
	moves := make([]M, 0, n)
	ws := make([]float32, 0, n)
	for m, p := range policy {
		moves = append(moves, m)
		ws = append(ws, p)
	}

	idx, err := randx.IntByWeights(ws, rng)
	if err != nil {
		var zero M
		return zero, err
	}
	return moves[idx], nil
}
