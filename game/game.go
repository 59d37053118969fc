// Package game declares the capability set a two-player alternating board game exposes
// to the search, together with the move policies shared by playout actors.
//
// Package game は探索が利用するゲーム状態の能力セットと、行動方策を定義します。
package game

// PlayerID identifies a seat. Isolation has players 0 and 1.
type PlayerID int

// Opponent returns the other seat of a two-player game.
func (p PlayerID) Opponent() PlayerID {
	return 1 - p
}

// Board is the part of a state that the static evaluation functions inspect.
//
// Boardは静的評価関数が参照する状態の一部です。
type Board interface {
	// Loc returns the board index the player currently occupies.
	Loc(PlayerID) int
	// Liberties returns the cells reachable in one legal step from loc.
	Liberties(loc int) []int
}

// State is an immutable game position. Result never mutates the receiver.
//
// Stateは不変のゲーム局面です。Resultはレシーバを変更しません。
type State[S any, M comparable] interface {
	Board
	// Actions returns the legal moves of the player to move, in a stable order.
	Actions() []M
	Result(M) S
	// TerminalTest reports whether the game is over.
	TerminalTest() bool
	// Utility returns +1 for a win and -1 for a loss of the given player on a terminal
	// state, and 0 otherwise.
	Utility(PlayerID) float32
	PlyCount() int
}
