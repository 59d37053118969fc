package geometry_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sw965/isolation/geometry"
)

func TestIndexToXY(t *testing.T) {
	tests := []struct {
		name  string
		ind   int
		wantX int
		wantY int
	}{
		{name: "正常_原点", ind: 0, wantX: 0, wantY: 0},
		{name: "正常_中央", ind: 57, wantX: 5, wantY: 4},
		{name: "正常_行末", ind: 10, wantX: 10, wantY: 0},
		{name: "正常_番兵列", ind: 12, wantX: 12, wantY: 0},
		{name: "正常_最終マス", ind: 114, wantX: 10, wantY: 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := geometry.Default.IndexToXY(tc.ind)
			if x != tc.wantX || y != tc.wantY {
				t.Errorf("want: (%d, %d), got: (%d, %d)", tc.wantX, tc.wantY, x, y)
			}
			if tc.wantX < geometry.Default.Width {
				if got := geometry.Default.XYToIndex(x, y); got != tc.ind {
					t.Errorf("XYToIndex want: %d, got: %d", tc.ind, got)
				}
			}
		})
	}
}

func TestDistanceToCenter(t *testing.T) {
	tests := []struct {
		name string
		loc  int
		want float64
	}{
		{name: "正常_中央", loc: 57, want: 0},
		{name: "正常_隣", loc: 58, want: 1},
		{name: "正常_桂馬", loc: 57 + 2*13 + 1, want: math.Sqrt(5)},
		{name: "正常_角", loc: 0, want: math.Sqrt(41)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := geometry.Default.DistanceToCenter(tc.loc)
			if math.Abs(float64(got)-tc.want) > 1e-5 {
				t.Errorf("want: %f, got: %f", tc.want, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	got := geometry.New(11, 9)
	if got != geometry.Default {
		t.Errorf("want: %+v, got: %+v", geometry.Default, got)
	}

	small := geometry.New(3, 3)
	if small.Center != 6 {
		t.Errorf("3x3 center want: 6, got: %d", small.Center)
	}
	if small.Size() != 13 {
		t.Errorf("3x3 size want: 13, got: %d", small.Size())
	}
}

func TestOnBoard(t *testing.T) {
	tests := []struct {
		name string
		ind  int
		want bool
	}{
		{name: "正常_盤内", ind: 57, want: true},
		{name: "準正常_番兵列", ind: 11, want: false},
		{name: "準正常_負", ind: -1, want: false},
		{name: "準正常_範囲外", ind: 115, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := geometry.Default.OnBoard(tc.ind); got != tc.want {
				t.Errorf("want: %t, got: %t", tc.want, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       geometry.Geometry
		wantErr bool
	}{
		{name: "正常_既定", g: geometry.Default},
		{name: "異常_幅0", g: geometry.Geometry{Width: 0, Height: 9, Center: 0}, wantErr: true},
		{name: "異常_中央が番兵", g: geometry.Geometry{Width: 11, Height: 9, Center: 11}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.Validate()
			if tc.wantErr {
				if !errors.Is(err, geometry.ErrInvalidGeometry) {
					t.Errorf("want ErrInvalidGeometry, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("予期せぬエラーが発生した: %v", err)
			}
		})
	}
}
