// Package alphabeta is a depth-limited minimax search with alpha-beta pruning for
// two-player zero-sum games. Values are always taken from the searching player's side:
// terminal states score their utility and horizon states score the evaluation function.
//
// Package alphabeta は二人零和ゲーム向けの深さ制限付きアルファベータ探索です。
package alphabeta

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/sw965/isolation/game"
	"github.com/sw965/isolation/heuristic"
)

var (
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrNilEvalFunc   = errors.New("EvalFunc must not be nil")
	ErrNegativeDepth = errors.New("depth must be >= 0")
)

// Queue receives improving candidate moves while the root is being searched.
type Queue[M any] interface {
	Put(M)
}

// Engine holds the parameters fixed for one top-level search. The search window is
// passed explicitly through MaxValue and MinValue.
//
// Engineは1回の探索の間は固定される探索パラメータを保持します。
type Engine[S game.State[S, M], M comparable] struct {
	// Player is the searching player. Utilities and evaluations are taken from its side.
	Player   game.PlayerID
	Depth    int
	EvalFunc heuristic.Func[S]
}

func (e Engine[S, M]) Validate() error {
	if e.EvalFunc == nil {
		return ErrNilEvalFunc
	}
	if e.Depth < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeDepth, e.Depth)
	}
	return nil
}

// MaxValue returns the value of state for the maximiser. It fails high as soon as the
// value reaches beta.
func (e Engine[S, M]) MaxValue(state S, alpha, beta float32, depth int) float32 {
	if state.TerminalTest() {
		return state.Utility(e.Player)
	}
	if depth <= 0 {
		return e.EvalFunc(state)
	}

	v := math32.Inf(-1)
	for _, a := range state.Actions() {
		v = math32.Max(v, e.MinValue(state.Result(a), alpha, beta, depth-1))
		if v >= beta {
			return v
		}
		alpha = math32.Max(alpha, v)
	}
	return v
}

// MinValue returns the value of state for the minimiser. It fails low as soon as the
// value drops to alpha.
func (e Engine[S, M]) MinValue(state S, alpha, beta float32, depth int) float32 {
	if state.TerminalTest() {
		return state.Utility(e.Player)
	}
	if depth <= 0 {
		return e.EvalFunc(state)
	}

	v := math32.Inf(1)
	for _, a := range state.Actions() {
		v = math32.Min(v, e.MaxValue(state.Result(a), alpha, beta, depth-1))
		if v <= alpha {
			return v
		}
		beta = math32.Min(beta, v)
	}
	return v
}

// SelectBestMove searches every root move and returns the best one with its value.
// Among equal values the move enumerated last wins. Alpha keeps growing across root
// siblings; beta stays open. Each sibling is searched with alpha lowered by one ulp, so a
// sibling whose value ties the best so far is computed exactly instead of being cut off
// with a bound. Every time the best move changes it is put on q, so q always holds the
// best move found so far. q may be nil.
//
// SelectBestMoveは全ての合法手を探索し、最善手とその評価値を返します。
// 同じ評価値の手が複数ある場合は、後に列挙された手を選びます。
func (e Engine[S, M]) SelectBestMove(state S, q Queue[M]) (M, float32, error) {
	var bestMove M
	if err := e.Validate(); err != nil {
		return bestMove, 0, err
	}

	actions := state.Actions()
	if len(actions) == 0 {
		return bestMove, 0, ErrNoLegalMoves
	}

	alpha := math32.Inf(-1)
	beta := math32.Inf(1)
	bestScore := math32.Inf(-1)
	for _, a := range actions {
		// 同点の兄弟を枝刈りすると上界しか返らず、後勝ちの規則で悪い手を選んでしまう
		lower := math32.Nextafter(alpha, math32.Inf(-1))
		v := e.MinValue(state.Result(a), lower, beta, e.Depth-1)
		alpha = math32.Max(alpha, v)
		if v >= bestScore {
			bestScore = v
			bestMove = a
			if q != nil {
				q.Put(a)
			}
		}
	}
	return bestMove, bestScore, nil
}
