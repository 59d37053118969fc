package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sw965/isolation/agent"
	"github.com/sw965/isolation/geometry"
	"github.com/sw965/isolation/heuristic"
	"github.com/sw965/isolation/match"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		check   func(*testing.T, *Config)
		wantErr error
	}{
		{
			name: "正常_既定値",
			check: func(t *testing.T, c *Config) {
				if c.Match.Games != match.DefaultConfig.Games || c.Depth != agent.DefaultDepth || c.Heuristic != heuristic.Custom {
					t.Errorf("unexpected defaults: %+v", c)
				}
				if c.Match.Geometry != geometry.Default || c.Opponent != "random" || c.LogLevel != zerolog.InfoLevel {
					t.Errorf("unexpected defaults: %+v", c)
				}
			},
		},
		{
			name: "正常_環境変数",
			env:  map[string]string{"ISOLATION_GAMES": "7", "ISOLATION_HEURISTIC": "greedy", "ISOLATION_TIME": "2s"},
			check: func(t *testing.T, c *Config) {
				if c.Match.Games != 7 || c.Heuristic != heuristic.Greedy || c.Match.TimeLimit != 2*time.Second {
					t.Errorf("unexpected config: %+v", c)
				}
			},
		},
		{
			name: "正常_フラグが環境変数より優先",
			env:  map[string]string{"ISOLATION_GAMES": "7"},
			args: []string{"-games", "2", "-width", "7", "-height", "7", "-opponent", "baseline", "-log-level", "debug"},
			check: func(t *testing.T, c *Config) {
				if c.Match.Games != 2 || c.Opponent != "baseline" || c.LogLevel != zerolog.DebugLevel {
					t.Errorf("unexpected config: %+v", c)
				}
				if want := geometry.New(7, 7); c.Match.Geometry != want {
					t.Errorf("geometry want: %+v, got: %+v", want, c.Match.Geometry)
				}
			},
		},
		{
			name: "準正常_数値でない環境変数は既定値",
			env:  map[string]string{"ISOLATION_WORKERS": "many"},
			check: func(t *testing.T, c *Config) {
				if c.Match.Workers != match.DefaultConfig.Workers {
					t.Errorf("workers want: %d, got: %d", match.DefaultConfig.Workers, c.Match.Workers)
				}
			},
		},
		{name: "異常_未知のheuristic", args: []string{"-heuristic", "minimax"}, wantErr: heuristic.ErrUnknownKind},
		{name: "異常_未知のopponent", args: []string{"-opponent", "human"}, wantErr: ErrInvalidFlag},
		{name: "異常_負の深さ", args: []string{"-depth", "-1"}, wantErr: ErrInvalidFlag},
		{name: "異常_対局数0", args: []string{"-games", "0"}, wantErr: match.ErrInvalidConfig},
		{name: "異常_ログレベル", args: []string{"-log-level", "loud"}, wantErr: ErrInvalidFlag},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig(tc.args)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("want: %v, got: %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期せぬエラーが発生した: %v", err)
			}
			tc.check(t, cfg)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig([]string{
		"-games", "2",
		"-workers", "2",
		"-time", "0",
		"-width", "5",
		"-height", "5",
		"-depth", "1",
		"-opponent", "greedy",
		"-db", filepath.Join(dir, "games.db"),
		"-parquet", filepath.Join(dir, "moves.parquet"),
	})
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	for _, name := range []string{"games.db", "moves.parquet"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
