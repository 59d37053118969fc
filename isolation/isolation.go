// Package isolation implements knight's Isolation. Two players alternately place a
// piece and then move it like a chess knight; every visited cell is closed for good.
// A player who cannot move loses.
//
// Package isolation はナイト移動のアイソレーションを実装します。
package isolation

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strings"

	"github.com/sw965/isolation/game"
	"github.com/sw965/isolation/game/sequential"
	"github.com/sw965/isolation/geometry"
)

var ErrIllegalMove = errors.New("illegal move")

// NotPlaced is the location of a piece before its first placement.
const NotPlaced = -1

const (
	Win  float32 = 1.0
	Loss float32 = -1.0
)

// State is an immutable Isolation position. Board bits are set for open cells; the two
// sentinel columns of every row are never set, so knight jumps across an edge land on
// a closed cell.
//
// Stateは不変の局面です。盤面のビットは空きマスで1になります。
type State struct {
	geom  geometry.Geometry
	board []uint64
	plies int
	locs  [2]int
}

// NewInitState returns an empty 11x9 board.
//
// NewInitStateは、11x9の空の盤面を返します。
func NewInitState() State {
	s, err := NewInitStateWithGeometry(geometry.Default)
	if err != nil {
		panic(fmt.Sprintf("BUG: %v", err))
	}
	return s
}

func NewInitStateWithGeometry(geom geometry.Geometry) (State, error) {
	if err := geom.Validate(); err != nil {
		return State{}, err
	}

	size := geom.Size()
	board := make([]uint64, (size+63)/64)
	for ind := 0; ind < size; ind++ {
		if geom.OnBoard(ind) {
			board[ind/64] |= 1 << (ind % 64)
		}
	}
	return State{
		geom:  geom,
		board: board,
		locs:  [2]int{NotPlaced, NotPlaced},
	}, nil
}

func (s State) Geometry() geometry.Geometry {
	return s.geom
}

// Player returns the seat to move.
func (s State) Player() game.PlayerID {
	return game.PlayerID(s.plies % 2)
}

func (s State) PlyCount() int {
	return s.plies
}

func (s State) Loc(p game.PlayerID) int {
	return s.locs[p]
}

// IsOpen reports whether ind is an interior cell nobody has visited.
func (s State) IsOpen(ind int) bool {
	if ind < 0 || ind >= s.geom.Size() {
		return false
	}
	return s.board[ind/64]&(1<<(ind%64)) != 0
}

func (s State) OpenCells() []int {
	cells := make([]int, 0, s.geom.Size())
	for wi, word := range s.board {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			cells = append(cells, wi*64+b)
			word &= word - 1
		}
	}
	return cells
}

// offsets lists the knight jumps in the order NNE, ENE, ESE, SSE, SSW, WSW, WNW, NNW.
func (s State) offsets() [8]int {
	w := s.geom.Stride()
	return [8]int{
		2*w + 1, w + 2, -w + 2, -2*w + 1,
		-2*w - 1, -w - 2, w - 2, 2*w - 1,
	}
}

// Liberties returns the open cells a knight on loc can jump to. For NotPlaced it
// returns every open cell.
//
// Libertiesは loc から移動可能な空きマスを返します。
func (s State) Liberties(loc int) []int {
	if loc == NotPlaced {
		return s.OpenCells()
	}

	libs := make([]int, 0, 8)
	for _, d := range s.offsets() {
		if s.IsOpen(loc + d) {
			libs = append(libs, loc+d)
		}
	}
	return libs
}

func (s State) hasLiberties(p game.PlayerID) bool {
	loc := s.locs[p]
	if loc == NotPlaced {
		return len(s.OpenCells()) != 0
	}
	for _, d := range s.offsets() {
		if s.IsOpen(loc + d) {
			return true
		}
	}
	return false
}

// Actions returns the destination cells available to the player to move.
func (s State) Actions() []int {
	return s.Liberties(s.locs[s.Player()])
}

// Result moves the player to move onto action without checking legality.
func (s State) Result(action int) State {
	next := s
	next.board = slices.Clone(s.board)
	next.board[action/64] &^= 1 << (action % 64)
	next.locs[s.Player()] = action
	next.plies = s.plies + 1
	return next
}

// Move is the checked form of Result.
func Move(s State, action int) (State, error) {
	if s.TerminalTest() {
		return State{}, fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	if !slices.Contains(s.Actions(), action) {
		return State{}, fmt.Errorf("%w: %d for player %d", ErrIllegalMove, action, s.Player())
	}
	return s.Result(action), nil
}

// TerminalTest reports whether either player is out of liberties.
func (s State) TerminalTest() bool {
	return !(s.hasLiberties(0) && s.hasLiberties(1))
}

// Utility returns Win or Loss for p on a terminal state and 0 otherwise. The player to
// move wins exactly when it still has liberties.
func (s State) Utility(p game.PlayerID) float32 {
	if !s.TerminalTest() {
		return 0
	}
	isActive := p == s.Player()
	activeHasLiberties := s.hasLiberties(s.Player())
	if activeHasLiberties == isActive {
		return Win
	}
	return Loss
}

// Block returns a copy with the given cells closed. It is meant for building positions.
func (s State) Block(cells ...int) State {
	next := s
	next.board = slices.Clone(s.board)
	for _, c := range cells {
		if c >= 0 && c < s.geom.Size() {
			next.board[c/64] &^= 1 << (c % 64)
		}
	}
	return next
}

func (s State) Equal(other State) bool {
	return s.geom == other.geom &&
		s.plies == other.plies &&
		s.locs == other.locs &&
		slices.Equal(s.board, other.board)
}

// String draws the board with row 0 at the bottom.
func (s State) String() string {
	var sb strings.Builder
	for y := s.geom.Height - 1; y >= 0; y-- {
		for x := 0; x < s.geom.Width; x++ {
			ind := s.geom.XYToIndex(x, y)
			switch {
			case ind == s.locs[0]:
				sb.WriteByte('1')
			case ind == s.locs[1]:
				sb.WriteByte('2')
			case s.IsOpen(ind):
				sb.WriteByte('.')
			default:
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// NewLogic wires the game rules into the sequential playout engine.
//
// NewLogicは、ゲームのルールを逐次プレイアウトエンジンに接続します。
func NewLogic() sequential.Logic[State, int, game.PlayerID] {
	return sequential.Logic[State, int, game.PlayerID]{
		LegalMovesFunc: func(s State) []int {
			return s.Actions()
		},
		MoveFunc: Move,
		CurrentAgentFunc: func(s State) game.PlayerID {
			return s.Player()
		},
	}
}

// RankByAgentFunc ranks the winner first on a terminal state and returns an empty map
// while the game is running.
func RankByAgentFunc(s State) (game.RankByAgent[game.PlayerID], error) {
	if !s.TerminalTest() {
		return game.RankByAgent[game.PlayerID]{}, nil
	}
	winner := game.PlayerID(0)
	if s.Utility(winner) != Win {
		winner = winner.Opponent()
	}
	return game.NewRankByAgent([][]game.PlayerID{{winner}, {winner.Opponent()}})
}

func NewEngine() sequential.Engine[State, int, game.PlayerID] {
	engine := sequential.Engine[State, int, game.PlayerID]{
		Logic:           NewLogic(),
		RankByAgentFunc: RankByAgentFunc,
		Agents:          []game.PlayerID{0, 1},
	}
	engine.SetStandardResultScoreByAgentFunc()
	return engine
}
