package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sw965/isolation/agent"
	"github.com/sw965/isolation/geometry"
	"github.com/sw965/isolation/heuristic"
	"github.com/sw965/isolation/match"
)

const randomOpponent = "random"

var ErrInvalidFlag = errors.New("invalid flag")

type Config struct {
	Match     match.Config
	Depth     int
	Heuristic heuristic.Kind
	// Opponent is "random" or a heuristic name searched at the same depth.
	Opponent    string
	DBPath      string
	ParquetPath string
	LogLevel    zerolog.Level
}

// LoadConfig reads defaults from the environment and lets args override them.
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("isolation-match", flag.ContinueOnError)

	games := fs.Int("games", getEnvInt("ISOLATION_GAMES", match.DefaultConfig.Games), "Games per seating")
	workers := fs.Int("workers", getEnvInt("ISOLATION_WORKERS", match.DefaultConfig.Workers), "Parallel games")
	timeLimit := fs.Duration("time", getEnvDuration("ISOLATION_TIME", match.DefaultConfig.TimeLimit), "Time limit per move (0 for none)")
	seed := fs.Uint64("seed", uint64(getEnvInt("ISOLATION_SEED", int(match.DefaultConfig.Seed))), "Random seed")
	width := fs.Int("width", getEnvInt("ISOLATION_WIDTH", geometry.Default.Width), "Board width")
	height := fs.Int("height", getEnvInt("ISOLATION_HEIGHT", geometry.Default.Height), "Board height")
	depth := fs.Int("depth", getEnvInt("ISOLATION_DEPTH", agent.DefaultDepth), "Search depth")
	heuristicName := fs.String("heuristic", getEnv("ISOLATION_HEURISTIC", heuristic.Custom.String()), "custom, baseline or greedy")
	opponent := fs.String("opponent", getEnv("ISOLATION_OPPONENT", randomOpponent), "random, custom, baseline or greedy")
	dbPath := fs.String("db", getEnv("ISOLATION_DB", ""), "SQLite file to store results in")
	parquetPath := fs.String("parquet", getEnv("ISOLATION_PARQUET", ""), "Parquet file to write moves to")
	logLevel := fs.String("log-level", getEnv("ISOLATION_LOG_LEVEL", "info"), "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	kind, err := heuristic.Parse(*heuristicName)
	if err != nil {
		return nil, err
	}
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: -log-level: %v", ErrInvalidFlag, err)
	}

	geom := geometry.Default
	if *width != geom.Width || *height != geom.Height {
		geom = geometry.New(*width, *height)
	}

	cfg := &Config{
		Match: match.Config{
			Games:     *games,
			Workers:   *workers,
			TimeLimit: *timeLimit,
			Seed:      *seed,
			Geometry:  geom,
		},
		Depth:       *depth,
		Heuristic:   kind,
		Opponent:    *opponent,
		DBPath:      *dbPath,
		ParquetPath: *parquetPath,
		LogLevel:    level,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Match.Validate(); err != nil {
		return err
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: -depth must be >= 0, got %d", ErrInvalidFlag, c.Depth)
	}
	if c.Opponent != randomOpponent {
		if _, err := heuristic.Parse(c.Opponent); err != nil {
			return fmt.Errorf("%w: -opponent: %v", ErrInvalidFlag, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}
