// Package agent publishes moves for a game in progress. Early plies are played at
// random; afterwards the move comes from a fixed-depth alpha-beta search.
//
// Package agent は手番で指す手を公開します。序盤はランダムに、それ以降は
// 固定深さのアルファベータ探索で手を選びます。
package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sw965/isolation/alphabeta"
	"github.com/sw965/isolation/game"
	"github.com/sw965/isolation/game/sequential"
	"github.com/sw965/isolation/geometry"
	"github.com/sw965/isolation/heuristic"
	"github.com/sw965/omw/mathx/randx"
)

var ErrTimeout = errors.New("no move published before the time limit")

const (
	DefaultDepth        = 3
	DefaultOpeningPlies = 2
)

type Agent[S game.State[S, M], M comparable] struct {
	Name      string
	Player    game.PlayerID
	Depth     int
	Heuristic heuristic.Kind
	Weights   heuristic.Weights
	Geometry  geometry.Geometry
	// OpeningPlies is the last ply count at which a random move is played.
	OpeningPlies int
}

// New returns an agent searching to depth 3 with the custom heuristic on the standard
// board, playing at random while the ply count is at most 2.
func New[S game.State[S, M], M comparable](name string, player game.PlayerID) Agent[S, M] {
	return Agent[S, M]{
		Name:         name,
		Player:       player,
		Depth:        DefaultDepth,
		Heuristic:    heuristic.Custom,
		Weights:      heuristic.DefaultWeights,
		Geometry:     geometry.Default,
		OpeningPlies: DefaultOpeningPlies,
	}
}

func (a Agent[S, M]) Validate() error {
	if a.Depth < 0 {
		return fmt.Errorf("%w: got %d", alphabeta.ErrNegativeDepth, a.Depth)
	}
	return a.Geometry.Validate()
}

// Engine builds the search engine for the agent's parameters.
func (a Agent[S, M]) Engine() alphabeta.Engine[S, M] {
	return alphabeta.Engine[S, M]{
		Player:   a.Player,
		Depth:    a.Depth,
		EvalFunc: heuristic.New[S](a.Heuristic, a.Player, a.Geometry, a.Weights),
	}
}

// ChooseAction puts at least one legal move on q before returning, unless the state has
// no legal move. q may be nil when only the side effects of the search are wanted. During the search every improvement of the best root move is put on
// q, so a caller that stops waiting can take the last move put.
//
// ChooseActionは、合法手が存在する限り、戻る前に少なくとも1回 q に手を入れます。
func (a Agent[S, M]) ChooseAction(state S, rng *rand.Rand, q alphabeta.Queue[M]) error {
	actions := state.Actions()
	if len(actions) == 0 {
		return alphabeta.ErrNoLegalMoves
	}

	if state.PlyCount() <= a.OpeningPlies {
		move, err := randx.Choice(actions, rng)
		if err != nil {
			return err
		}
		if q != nil {
			q.Put(move)
		}
		log.Debug().
			Str("agent", a.Name).
			Int("ply", state.PlyCount()).
			Interface("move", move).
			Msg("opening-move")
		return nil
	}

	move, score, err := a.Engine().SelectBestMove(state, q)
	if err != nil {
		return err
	}
	log.Debug().
		Str("agent", a.Name).
		Int("ply", state.PlyCount()).
		Str("heuristic", a.Heuristic.String()).
		Int("depth", a.Depth).
		Interface("move", move).
		Float32("score", score).
		Msg("alphabeta-move")
	return nil
}

// ChooseWithin runs ChooseAction in its own goroutine and returns the last move it
// published when it finishes or ctx is done, whichever comes first. The search is not
// interrupted; an abandoned search runs to completion in the background.
func (a Agent[S, M]) ChooseWithin(ctx context.Context, state S, rng *rand.Rand) (M, error) {
	var zero M
	q := &Latest[M]{}
	done := make(chan error, 1)
	// 打ち切られた探索が呼び出し元のrngに触れないように、専用のrngを渡す
	child := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))

	go func() {
		done <- a.ChooseAction(state, child, q)
	}()

	select {
	case err := <-done:
		if err != nil {
			return zero, err
		}
	case <-ctx.Done():
		log.Debug().
			Str("agent", a.Name).
			Int("ply", state.PlyCount()).
			Int("published", q.Count()).
			Msg("time-limit")
	}

	move, ok := q.Get()
	if !ok {
		return zero, fmt.Errorf("%w: agent %s at ply %d", ErrTimeout, a.Name, state.PlyCount())
	}
	return move, nil
}

// Actor adapts the agent to the playout engine. The seat is taken from the ply count of
// the state, and each move is limited to limit; a non-positive limit waits for the
// search to finish. A move that publishes nothing within limit forfeits the game.
func (a Agent[S, M]) Actor(limit time.Duration) sequential.Actor[S, M] {
	return sequential.Actor[S, M]{
		Name: sequential.ActorName(a.Name),
		PolicyFunc: func(state S, legalMoves []M, rng *rand.Rand) (game.Policy[M], error) {
			seated := a
			seated.Player = game.PlayerID(state.PlyCount() % 2)

			ctx := context.Background()
			if limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			move, err := seated.ChooseWithin(ctx, state, rng)
			if errors.Is(err, ErrTimeout) {
				log.Warn().Err(err).Msg("forfeit")
				return nil, fmt.Errorf("%w: %w", sequential.ErrForfeit, err)
			}
			if err != nil {
				return nil, err
			}
			return game.OneHotPolicy(move), nil
		},
		SelectFunc: game.MaxSelectFunc[M],
	}
}
