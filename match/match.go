// Package match plays round-robin tournaments between isolation actors and stores the
// results.
//
// Package match はアクター同士の総当たり戦を行い、結果を保存します。
package match

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sw965/isolation/agent"
	"github.com/sw965/isolation/game"
	"github.com/sw965/isolation/game/sequential"
	"github.com/sw965/isolation/geometry"
	"github.com/sw965/isolation/heuristic"
	"github.com/sw965/isolation/isolation"
	"github.com/sw965/omw/slicesx"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInvalidConfig  = errors.New("invalid match config")
	ErrDuplicateActor = errors.New("actor names must be unique")
)

type Actor = sequential.Actor[isolation.State, int]

type Config struct {
	// Games is the number of games played for every seating.
	Games   int
	Workers int
	// TimeLimit bounds a single move of the search actors. Zero means no limit.
	TimeLimit time.Duration
	Seed      uint64
	Geometry  geometry.Geometry
}

var DefaultConfig = Config{
	Games:     10,
	Workers:   4,
	TimeLimit: 150 * time.Millisecond,
	Seed:      1,
	Geometry:  geometry.Default,
}

func (c Config) Validate() error {
	if c.Games <= 0 {
		return fmt.Errorf("%w: Games must be > 0, got %d", ErrInvalidConfig, c.Games)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: Workers must be > 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("%w: TimeLimit must be >= 0, got %s", ErrInvalidConfig, c.TimeLimit)
	}
	return c.Geometry.Validate()
}

// SearchActor returns an alpha-beta actor playing on the configured board within the
// configured time limit.
func (c Config) SearchActor(name string, kind heuristic.Kind, depth int) Actor {
	a := agent.New[isolation.State, int](name, 0)
	a.Heuristic = kind
	a.Depth = depth
	a.Geometry = c.Geometry
	return a.Actor(c.TimeLimit)
}

// NewRngs derives one generator per worker from seed.
func NewRngs(seed uint64, n int) []*rand.Rand {
	src := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rngs := make([]*rand.Rand, n)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewPCG(src.Uint64(), src.Uint64()))
	}
	return rngs
}

type Result struct {
	ID      string
	Seating int
	// Seats holds the actor name of the first and second player.
	Seats  [2]sequential.ActorName
	Winner sequential.ActorName
	// Forfeit is set when the loser failed to move within the time limit.
	Forfeit  bool
	Plies    int
	Moves    []int
	PlayedAt time.Time
}

// WinnerSeat returns the seat of the winner.
func (r Result) WinnerSeat() game.PlayerID {
	if r.Seats[0] == r.Winner {
		return 0
	}
	return 1
}

type Summary struct {
	Name    sequential.ActorName
	Games   int
	Wins    int
	WinRate float64
	StdErr  float64
	// Points is the result score summed over the tournament, 1 per win.
	Points float32
}

// Run plays every ordered pair of actors Games times from the initial position. Games
// are spread over Workers goroutines, so the pairing of games with random streams, and
// therefore the exact games played, is only reproducible with a single worker.
//
// Runは全ての席順の組み合わせで Games 回ずつ対局します。
func Run(cfg Config, actors []Actor) ([]Result, []Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	names := make([]sequential.ActorName, len(actors))
	for i, a := range actors {
		names[i] = a.Name
	}
	if !slicesx.IsUnique(names) {
		return nil, nil, fmt.Errorf("%w: %v", ErrDuplicateActor, names)
	}

	initial, err := isolation.NewInitStateWithGeometry(cfg.Geometry)
	if err != nil {
		return nil, nil, err
	}
	inits := make([]isolation.State, cfg.Games)
	for i := range inits {
		inits[i] = initial
	}

	engine := isolation.NewEngine()
	oneGameCap := cfg.Geometry.Width * cfg.Geometry.Height
	cp, err := engine.NewCrossPlayouter(inits, actors, oneGameCap, NewRngs(cfg.Seed, cfg.Workers))
	if err != nil {
		return nil, nil, err
	}

	results := make([]Result, 0, cp.Len()*cfg.Games)
	for seating := 0; ; seating++ {
		start := time.Now()
		records, nameByAgent, ok, err := cp.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}

		for _, record := range records {
			r := newResult(seating, record, nameByAgent)
			log.Debug().
				Str("game", r.ID).
				Str("first", string(r.Seats[0])).
				Str("second", string(r.Seats[1])).
				Str("winner", string(r.Winner)).
				Bool("forfeit", r.Forfeit).
				Int("plies", r.Plies).
				Msg("game-finished")
			results = append(results, r)
		}

		log.Info().
			Int("seating", seating).
			Str("first", string(nameByAgent[0])).
			Str("second", string(nameByAgent[1])).
			Int("games", len(records)).
			Dur("elapsed", time.Since(start)).
			Msg("seating-finished")
	}

	summaries := Summarize(names, results)
	for i := range summaries {
		summaries[i].Points = cp.ScoreByActorName[summaries[i].Name]
	}
	return results, summaries, nil
}

func newResult(seating int, record sequential.Record[isolation.State, int, game.PlayerID], nameByAgent map[game.PlayerID]sequential.ActorName) Result {
	moves := make([]int, len(record.Steps))
	for i, step := range record.Steps {
		moves[i] = step.Move
	}

	var winner sequential.ActorName
	for seat, score := range record.ResultScoreByAgent {
		if score == 1 {
			winner = nameByAgent[seat]
		}
	}

	return Result{
		ID:       uuid.NewString(),
		Seating:  seating,
		Seats:    [2]sequential.ActorName{nameByAgent[0], nameByAgent[1]},
		Winner:   winner,
		Forfeit:  record.Forfeited,
		Plies:    record.FinalState.PlyCount(),
		Moves:    moves,
		PlayedAt: time.Now(),
	}
}

// Summarize computes the win rate of every named actor with its standard error, in the
// order of names.
func Summarize(names []sequential.ActorName, results []Result) []Summary {
	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		outcomes := []float64{}
		wins := 0
		for _, r := range results {
			if !slices.Contains(r.Seats[:], name) {
				continue
			}
			if r.Winner == name {
				outcomes = append(outcomes, 1)
				wins++
			} else {
				outcomes = append(outcomes, 0)
			}
		}

		s := Summary{Name: name, Games: len(outcomes), Wins: wins}
		if s.Games > 0 {
			mean, std := stat.MeanStdDev(outcomes, nil)
			s.WinRate = mean
			// 1局だけだと標本標準偏差が NaN になる
			if !math.IsNaN(std) {
				s.StdErr = stat.StdErr(std, float64(s.Games))
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}
