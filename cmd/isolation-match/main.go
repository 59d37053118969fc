// Command isolation-match plays a tournament between an alpha-beta agent and an
// opponent and reports the win rates.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sw965/isolation/game/sequential"
	"github.com/sw965/isolation/heuristic"
	"github.com/sw965/isolation/isolation"
	"github.com/sw965/isolation/match"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal().Err(err).Msg("isolation-match")
	}
}

func actors(cfg *Config) []match.Actor {
	player := cfg.Match.SearchActor("alphabeta-"+cfg.Heuristic.String(), cfg.Heuristic, cfg.Depth)
	if cfg.Opponent == randomOpponent {
		return []match.Actor{player, sequential.NewRandomActor[isolation.State, int](randomOpponent)}
	}
	kind := heuristic.FromName(cfg.Opponent)
	name := "opponent-" + kind.String()
	return []match.Actor{player, cfg.Match.SearchActor(name, kind, cfg.Depth)}
}

func run(ctx context.Context, cfg *Config) error {
	log.Info().
		Int("games", cfg.Match.Games).
		Int("workers", cfg.Match.Workers).
		Dur("time", cfg.Match.TimeLimit).
		Int("depth", cfg.Depth).
		Str("heuristic", cfg.Heuristic.String()).
		Str("opponent", cfg.Opponent).
		Msg("starting tournament")

	results, summaries, err := match.Run(cfg.Match, actors(cfg))
	if err != nil {
		return err
	}

	for _, s := range summaries {
		log.Info().
			Str("actor", string(s.Name)).
			Int("games", s.Games).
			Int("wins", s.Wins).
			Float64("win_rate", s.WinRate).
			Float64("std_err", s.StdErr).
			Msg("summary")
	}

	if cfg.DBPath != "" {
		store, err := match.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, results); err != nil {
			return err
		}
		log.Info().Str("path", cfg.DBPath).Int("games", len(results)).Msg("saved results")
	}

	if cfg.ParquetPath != "" {
		if err := match.WriteMovesParquet(cfg.ParquetPath, cfg.Match.Geometry, results); err != nil {
			return err
		}
		log.Info().Str("path", cfg.ParquetPath).Msg("wrote moves")
	}
	return nil
}
