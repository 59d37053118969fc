// Package heuristic provides the static evaluation functions applied at the search
// horizon. Every function scores a state from the searching player's side; higher is
// better for that player.
//
// Package heuristic は探索の末端で使う静的評価関数を提供します。
package heuristic

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/sw965/isolation/game"
	"github.com/sw965/isolation/geometry"
)

var ErrUnknownKind = errors.New("unknown heuristic")

// Kind is the closed set of evaluation functions.
type Kind int

const (
	Custom Kind = iota
	Baseline
	Greedy
)

func (k Kind) String() string {
	switch k {
	case Custom:
		return "custom"
	case Baseline:
		return "baseline"
	case Greedy:
		return "greedy"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FromName maps a heuristic name to its Kind. Unrecognised names fall back to Custom.
//
// FromNameは名前を Kind に変換します。未知の名前は Custom になります。
func FromName(name string) Kind {
	k, err := Parse(name)
	if err != nil {
		return Custom
	}
	return k
}

// Parse is the strict form of FromName.
func Parse(name string) (Kind, error) {
	switch name {
	case "custom":
		return Custom, nil
	case "baseline":
		return Baseline, nil
	case "greedy":
		return Greedy, nil
	}
	return Custom, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Weights are the coefficients of the custom evaluation.
type Weights struct {
	Liberty float32
	Center  float32
}

var DefaultWeights = Weights{Liberty: 1.5, Center: 0.5}

// BlockedOpponentScore is what Custom returns when the opponent has no liberties but the
// state was reached through the depth horizon rather than the terminal test.
const BlockedOpponentScore float32 = math32.MaxFloat32

type Func[S any] func(S) float32

// BaselineFunc scores own liberties minus opponent liberties.
func BaselineFunc[S game.Board](player game.PlayerID) Func[S] {
	return func(state S) float32 {
		own := len(state.Liberties(state.Loc(player)))
		opp := len(state.Liberties(state.Loc(player.Opponent())))
		return float32(own - opp)
	}
}

// GreedyFunc scores own liberties only.
func GreedyFunc[S game.Board](player game.PlayerID) Func[S] {
	return func(state S) float32 {
		return float32(len(state.Liberties(state.Loc(player))))
	}
}

// CustomFunc weighs the ratio of own to opponent liberties against the distance of the
// player from the centre cell.
//
// CustomFuncは自分と相手の移動可能数の比と、中央マスからの距離を重み付けして評価します。
func CustomFunc[S game.Board](player game.PlayerID, geom geometry.Geometry, w Weights) Func[S] {
	return func(state S) float32 {
		ownLoc := state.Loc(player)
		own := len(state.Liberties(ownLoc))
		opp := len(state.Liberties(state.Loc(player.Opponent())))
		if opp == 0 {
			return BlockedOpponentScore
		}
		ratio := float32(own) / float32(opp)
		return w.Liberty*ratio - w.Center*geom.DistanceToCenter(ownLoc)
	}
}

// New returns the evaluation function for kind. Out of range kinds evaluate as Custom.
func New[S game.Board](kind Kind, player game.PlayerID, geom geometry.Geometry, w Weights) Func[S] {
	switch kind {
	case Baseline:
		return BaselineFunc[S](player)
	case Greedy:
		return GreedyFunc[S](player)
	default:
		return CustomFunc[S](player, geom, w)
	}
}
