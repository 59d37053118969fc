package match

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/sw965/isolation/geometry"
)

// MoveRow is one ply of one game. Player is the seat that moved; X and Y are the board
// coordinates of the destination.
type MoveRow struct {
	GameID string `parquet:"game_id,dict"`
	Ply    int32  `parquet:"ply"`
	Player int32  `parquet:"player"`
	Actor  string `parquet:"actor,dict"`
	Move   int32  `parquet:"move"`
	X      int32  `parquet:"x"`
	Y      int32  `parquet:"y"`
	// Won reports whether the player who made this move won the game.
	Won bool `parquet:"won"`
}

func MoveRows(geom geometry.Geometry, results []Result) []MoveRow {
	rows := []MoveRow{}
	for _, r := range results {
		winner := r.WinnerSeat()
		for ply, move := range r.Moves {
			seat := ply % 2
			x, y := geom.IndexToXY(move)
			rows = append(rows, MoveRow{
				GameID: r.ID,
				Ply:    int32(ply),
				Player: int32(seat),
				Actor:  string(r.Seats[seat]),
				Move:   int32(move),
				X:      int32(x),
				Y:      int32(y),
				Won:    int(winner) == seat,
			})
		}
	}
	return rows
}

// WriteMovesParquet writes every move of results to outPath through a temporary file.
func WriteMovesParquet(outPath string, geom geometry.Geometry, results []Result) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, MoveRows(geom, results),
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "isolation_move_v1"),
		parquet.KeyValueMetadata("board", fmt.Sprintf("%dx%d", geom.Width, geom.Height)),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

func ReadMovesParquet(path string) ([]MoveRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[MoveRow](f)
	defer reader.Close()

	rows := make([]MoveRow, reader.NumRows())
	n := 0
	for n < len(rows) {
		m, err := reader.Read(rows[n:])
		n += m
		if errors.Is(err, io.EOF) || (err == nil && m == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}
	return rows[:n], nil
}
