package sequential

import (
	"fmt"
	"math/rand/v2"

	"github.com/sw965/isolation/game"
)

type ActorName string

// PolicyFunc proposes a policy over the legal moves. The rng belongs to the calling
// worker and must not be retained.
type PolicyFunc[S any, M comparable] func(S, []M, *rand.Rand) (game.Policy[M], error)

func UniformPolicyFunc[S any, M comparable](state S, legalMoves []M, rng *rand.Rand) (game.Policy[M], error) {
	return game.UniformPolicy(legalMoves)
}

type Actor[S any, M comparable] struct {
	Name       ActorName
	PolicyFunc PolicyFunc[S, M]
	SelectFunc game.SelectFunc[M]
}

func NewRandomActor[S any, M comparable](name ActorName) Actor[S, M] {
	return Actor[S, M]{
		Name:       name,
		PolicyFunc: UniformPolicyFunc[S, M],
		SelectFunc: game.WeightedRandomSelectFunc[M],
	}
}

func (a Actor[S, M]) Validate() error {
	if a.PolicyFunc == nil {
		return fmt.Errorf("%w: PolicyFunc", ErrNilActorFunc)
	}
	if a.SelectFunc == nil {
		return fmt.Errorf("%w: SelectFunc", ErrNilActorFunc)
	}
	return nil
}
