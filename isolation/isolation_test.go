package isolation_test

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/sw965/isolation/game"
	"github.com/sw965/isolation/geometry"
	"github.com/sw965/isolation/isolation"
)

// place puts player 0 on loc0 and player 1 on loc1.
func place(t *testing.T, s isolation.State, loc0, loc1 int) isolation.State {
	t.Helper()
	s, err := isolation.Move(s, loc0)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	s, err = isolation.Move(s, loc1)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	return s
}

func TestNewInitState(t *testing.T) {
	s := isolation.NewInitState()

	if got := len(s.OpenCells()); got != 99 {
		t.Errorf("open cells want: 99, got: %d", got)
	}
	if s.PlyCount() != 0 {
		t.Errorf("ply want: 0, got: %d", s.PlyCount())
	}
	for _, p := range []game.PlayerID{0, 1} {
		if s.Loc(p) != isolation.NotPlaced {
			t.Errorf("player %d loc want: NotPlaced, got: %d", p, s.Loc(p))
		}
	}
	if s.TerminalTest() {
		t.Errorf("初期局面が終局と判定された")
	}
	if got := s.Utility(0); got != 0 {
		t.Errorf("utility want: 0, got: %f", got)
	}
	for _, sentinel := range []int{11, 12, 24, 25} {
		if s.IsOpen(sentinel) {
			t.Errorf("番兵 %d が空きマスになっている", sentinel)
		}
	}
}

func TestLiberties(t *testing.T) {
	s := isolation.NewInitState()
	w := geometry.Default.Stride()

	tests := []struct {
		name string
		loc  int
		want []int
	}{
		{
			name: "正常_中央",
			loc:  57,
			want: []int{57 + 2*w + 1, 57 + w + 2, 57 - w + 2, 57 - 2*w + 1, 57 - 2*w - 1, 57 - w - 2, 57 + w - 2, 57 + 2*w - 1},
		},
		{
			name: "正常_角",
			loc:  0,
			want: []int{2*w + 1, w + 2},
		},
		{
			name: "正常_右上の角",
			loc:  geometry.Default.XYToIndex(10, 8),
			want: []int{geometry.Default.XYToIndex(9, 6), geometry.Default.XYToIndex(8, 7)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Liberties(tc.loc)
			if !slices.Equal(got, tc.want) {
				t.Errorf("want: %v, got: %v", tc.want, got)
			}
		})
	}
}

func TestResultIsImmutable(t *testing.T) {
	s := isolation.NewInitState()
	next := s.Result(57)

	if !s.IsOpen(57) {
		t.Errorf("Result がレシーバを変更した")
	}
	if next.IsOpen(57) {
		t.Errorf("占有マスが空きのまま")
	}
	if s.Equal(next) || !s.Equal(isolation.NewInitState()) {
		t.Errorf("Result がレシーバを変更した")
	}
	if next.Loc(0) != 57 || next.Player() != 1 || next.PlyCount() != 1 {
		t.Errorf("unexpected state after placement: loc=%d player=%d ply=%d", next.Loc(0), next.Player(), next.PlyCount())
	}
}

func TestMove(t *testing.T) {
	s := place(t, isolation.NewInitState(), 0, 57)

	tests := []struct {
		name      string
		action    int
		wantErrIs error
	}{
		{name: "正常_桂馬", action: 2*13 + 1},
		{name: "異常_直進", action: 1, wantErrIs: isolation.ErrIllegalMove},
		{name: "異常_番兵", action: 11, wantErrIs: isolation.ErrIllegalMove},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := isolation.Move(s, tc.action)
			if tc.wantErrIs != nil {
				if !errors.Is(err, tc.wantErrIs) {
					t.Errorf("want: %v, got: %v", tc.wantErrIs, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期せぬエラーが発生した: %v", err)
			}
			if got.Loc(0) != tc.action {
				t.Errorf("loc want: %d, got: %d", tc.action, got.Loc(0))
			}
			if got.IsOpen(0) {
				t.Errorf("移動元のマスが空きに戻っている")
			}
			if !got.Equal(s.Result(tc.action)) {
				t.Errorf("Move と Result の結果が一致しない")
			}
		})
	}
}

func TestTerminalAndUtility(t *testing.T) {
	w := geometry.Default.Stride()
	s := place(t, isolation.NewInitState(), 0, 57)

	// player 0 (to move) is boxed in at the corner
	boxed := s.Block(2*w+1, w+2)
	if !boxed.TerminalTest() {
		t.Fatalf("終局と判定されなかった")
	}
	if got := boxed.Utility(0); got != isolation.Loss {
		t.Errorf("player 0 utility want: %f, got: %f", isolation.Loss, got)
	}
	if got := boxed.Utility(1); got != isolation.Win {
		t.Errorf("player 1 utility want: %f, got: %f", isolation.Win, got)
	}

	ranks, err := isolation.RankByAgentFunc(boxed)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	want := game.RankByAgent[game.PlayerID]{1: 1, 0: 2}
	if !maps.Equal(ranks, want) {
		t.Errorf("want: %v, got: %v", want, ranks)
	}

	// the player not to move is boxed in: the mover wins
	oppBoxed := s.Block(s.Liberties(57)...)
	if got := oppBoxed.Utility(0); got != isolation.Win {
		t.Errorf("player 0 utility want: %f, got: %f", isolation.Win, got)
	}
}

func TestPlayoutEndsWithRankedResult(t *testing.T) {
	engine := isolation.NewEngine()
	if err := engine.Validate(); err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	s := isolation.NewInitState()
	for !s.TerminalTest() {
		// always take the first legal move
		next, err := engine.Logic.MoveFunc(s, s.Actions()[0])
		if err != nil {
			t.Fatalf("予期せぬエラーが発生した: %v", err)
		}
		s = next
	}

	scores, err := engine.EvaluateResultScoreByAgent(s)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	if scores[0]+scores[1] != 1 {
		t.Errorf("scores must sum to 1, got: %v", scores)
	}
}

func TestString(t *testing.T) {
	g := geometry.New(3, 3)
	s, err := isolation.NewInitStateWithGeometry(g)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	s = s.Result(g.XYToIndex(0, 0)).Result(g.XYToIndex(2, 2))
	want := "..2\n...\n1..\n"
	if got := s.String(); got != want {
		t.Errorf("want:\n%s\ngot:\n%s", want, got)
	}
}
