// Package geometry converts linear board indices of a sentinel-padded grid into
// (column, row) coordinates and measures distances on it.
//
// Package geometry は番兵列付きの盤面インデックスを (列, 行) 座標に変換し、距離を計算します。
package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry describes a board of Width x Height interior cells. Every row is followed
// by two sentinel columns, so the stride between rows is Width+2.
//
// Geometryは Width x Height の盤面を表します。各行の後ろには番兵列が2列あります。
type Geometry struct {
	Width  int
	Height int
	// Center is the board index of the centre cell. It is specific to the board size.
	Center int
}

// Default is the 11x9 Isolation board, whose centre (5, 4) is index 57.
var Default = Geometry{Width: 11, Height: 9, Center: 57}

// New derives the centre cell from the board size.
func New(width, height int) Geometry {
	g := Geometry{Width: width, Height: height}
	g.Center = g.XYToIndex(width/2, height/2)
	return g
}

func (g Geometry) Stride() int {
	return g.Width + 2
}

// Size is the number of bit positions a board needs. The trailing sentinel pair of the
// last row is not stored.
func (g Geometry) Size() int {
	return g.Stride()*g.Height - 2
}

func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidGeometry, g.Width, g.Height)
	}
	if !g.OnBoard(g.Center) {
		return fmt.Errorf("%w: center index %d is not on the board", ErrInvalidGeometry, g.Center)
	}
	return nil
}

// IndexToXY converts a board index into (column, row).
//
// IndexToXYは盤面インデックスを (列, 行) に変換します。
func (g Geometry) IndexToXY(ind int) (int, int) {
	stride := g.Stride()
	return ind % stride, ind / stride
}

func (g Geometry) XYToIndex(x, y int) int {
	return y*g.Stride() + x
}

// OnBoard reports whether ind addresses an interior cell rather than a sentinel.
func (g Geometry) OnBoard(ind int) bool {
	if ind < 0 || ind >= g.Size() {
		return false
	}
	x, _ := g.IndexToXY(ind)
	return x < g.Width
}

// DistanceToCenter returns the Euclidean distance between loc and the centre cell.
//
// DistanceToCenterは loc と中央マスとのユークリッド距離を返します。
func (g Geometry) DistanceToCenter(loc int) float32 {
	x1, y1 := g.IndexToXY(loc)
	x2, y2 := g.IndexToXY(g.Center)
	return float32(floats.Distance(
		[]float64{float64(x1), float64(y1)},
		[]float64{float64(x2), float64(y2)},
		2,
	))
}
