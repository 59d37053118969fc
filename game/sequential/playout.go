package sequential

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sw965/isolation/game"
	"github.com/sw965/omw/parallel"
	"github.com/sw965/omw/slicesx"
)

type Step[S any, M, A comparable] struct {
	State  S
	Agent  A
	Move   M
	Policy game.Policy[M]
}

type Record[S any, M, A comparable] struct {
	Steps              []Step[S, M, A]
	FinalState         S
	ResultScoreByAgent ResultScoreByAgent[A]
	// Forfeited is set when the game ended because Forfeiter's actor returned ErrForfeit.
	// FinalState is then the position it failed to move from.
	Forfeited bool
	Forfeiter A
}

func (e Engine[S, M, A]) next(state S, actorByAgent func(A) Actor[S, M], rng *rand.Rand) (Step[S, M, A], S, error) {
	var zero S
	agent := e.Logic.CurrentAgentFunc(state)
	actor := actorByAgent(agent)
	legalMoves := e.Logic.LegalMovesFunc(state)
	// policy.ValidateForLegalMovesでもlegalMovesの空チェックをするが、PolicyFuncを安全に呼ぶ為に、ここでもチェックする
	if len(legalMoves) == 0 {
		return Step[S, M, A]{}, zero, ErrNoLegalMoves
	}

	policy, err := actor.PolicyFunc(state, legalMoves, rng)
	if err != nil {
		return Step[S, M, A]{}, zero, err
	}

	// 一手毎にlegalMovesのユニーク性をチェックするのは、計算コストの観点から見送る
	if err := policy.ValidateForLegalMoves(legalMoves, false); err != nil {
		return Step[S, M, A]{}, zero, err
	}

	move, err := actor.SelectFunc(policy, rng)
	if err != nil {
		return Step[S, M, A]{}, zero, err
	}

	step := Step[S, M, A]{
		State:  state,
		Agent:  agent,
		Move:   move,
		Policy: policy,
	}

	nextState, err := e.Logic.MoveFunc(state, move)
	if err != nil {
		return Step[S, M, A]{}, zero, err
	}
	return step, nextState, nil
}

// RecordPlayouts plays every initial state to the end with actor and records each step.
// Games are spread over len(rngs) workers, each owning one rng.
func (e Engine[S, M, A]) RecordPlayouts(inits []S, actor Actor[S, M], oneGameCap int, rngs []*rand.Rand) ([]Record[S, M, A], error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	return e.recordPlayouts(inits, func(A) Actor[S, M] { return actor }, oneGameCap, rngs)
}

func (e Engine[S, M, A]) recordPlayouts(inits []S, actorByAgent func(A) Actor[S, M], oneGameCap int, rngs []*rand.Rand) ([]Record[S, M, A], error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	n := len(inits)
	p := len(rngs)
	if p == 0 {
		return nil, fmt.Errorf("rngs must not be empty")
	}
	records := make([]Record[S, M, A], n)

	err := parallel.For(n, p, func(workerId, idx int) error {
		rng := rngs[workerId]
		state := inits[idx]
		steps := make([]Step[S, M, A], 0, oneGameCap)

		for {
			isEnd, err := e.IsEnd(state)
			if err != nil {
				return err
			}
			if isEnd {
				break
			}

			step, next, err := e.next(state, actorByAgent, rng)
			if errors.Is(err, ErrForfeit) {
				forfeiter := e.Logic.CurrentAgentFunc(state)
				scores, err := e.forfeitScores(forfeiter)
				if err != nil {
					return err
				}
				records[idx] = Record[S, M, A]{
					Steps:              steps,
					FinalState:         state,
					ResultScoreByAgent: scores,
					Forfeited:          true,
					Forfeiter:          forfeiter,
				}
				return nil
			}
			if err != nil {
				return err
			}
			steps = append(steps, step)
			state = next
		}

		scores, err := e.EvaluateResultScoreByAgent(state)
		if err != nil {
			return err
		}

		records[idx] = Record[S, M, A]{
			Steps:              steps,
			FinalState:         state,
			ResultScoreByAgent: scores,
		}
		return nil
	})
	return records, err
}

// CrossPlayouter plays every seating of the actors, one seating per call to Next.
type CrossPlayouter[S any, M, A comparable] struct {
	engine     Engine[S, M, A]
	inits      []S
	actorPerms [][]Actor[S, M]
	oneGameCap int

	currentIdx       int
	ScoreByActorName map[ActorName]float32
	rngs             []*rand.Rand
}

func (e Engine[S, M, A]) NewCrossPlayouter(inits []S, actors []Actor[S, M], oneGameCap int, rngs []*rand.Rand) (*CrossPlayouter[S, M, A], error) {
	agentsN := len(e.Agents)
	if len(actors) < agentsN {
		return nil, fmt.Errorf("insufficient actors: expected at least %d, got %d", agentsN, len(actors))
	}

	perms := slices.Collect(slicesx.Permutations(actors, agentsN))
	return &CrossPlayouter[S, M, A]{
		engine:           e,
		inits:            inits,
		actorPerms:       perms,
		oneGameCap:       oneGameCap,
		ScoreByActorName: make(map[ActorName]float32),
		rngs:             rngs,
	}, nil
}

// Len returns the number of seatings.
func (cp *CrossPlayouter[S, M, A]) Len() int {
	return len(cp.actorPerms)
}

// Next plays the next seating. It returns false once every seating has been played.
func (cp *CrossPlayouter[S, M, A]) Next() ([]Record[S, M, A], map[A]ActorName, bool, error) {
	if cp.currentIdx >= len(cp.actorPerms) {
		return nil, nil, false, nil
	}

	actorPerm := cp.actorPerms[cp.currentIdx]
	cp.currentIdx++

	actorNameByAgent := map[A]ActorName{}
	actorByAgent := map[A]Actor[S, M]{}
	for i, agent := range cp.engine.Agents {
		actor := actorPerm[i]
		if err := actor.Validate(); err != nil {
			return nil, nil, false, err
		}
		actorNameByAgent[agent] = actor.Name
		actorByAgent[agent] = actor
	}

	records, err := cp.engine.recordPlayouts(cp.inits, func(agent A) Actor[S, M] {
		return actorByAgent[agent]
	}, cp.oneGameCap, cp.rngs)
	if err != nil {
		return nil, nil, false, err
	}

	for _, record := range records {
		for agent, score := range record.ResultScoreByAgent {
			cp.ScoreByActorName[actorNameByAgent[agent]] += score
		}
	}
	return records, actorNameByAgent, true, nil
}
