package sequential

import (
	"github.com/sw965/isolation/game"
)

type RankByAgentFunc[S any, A comparable] func(S) (game.RankByAgent[A], error)
type ResultScoreByAgent[A comparable] map[A]float32
type ResultScoreByAgentFunc[A comparable] func(game.RankByAgent[A]) (ResultScoreByAgent[A], error)

// SetStandardResultScoreByAgentFunc scores rank 1 as 1.0 and the last rank as 0.0,
// linearly in between. Tied agents share the mean of the places they occupy.
//
// 単独のエージェントは常に 1.0 です。
func (e *Engine[S, M, A]) SetStandardResultScoreByAgentFunc() {
	e.ResultScoreByAgentFunc = func(ranks game.RankByAgent[A]) (ResultScoreByAgent[A], error) {
		if err := ranks.Validate(); err != nil {
			return nil, err
		}

		scores := ResultScoreByAgent[A]{}
		last := float32(len(ranks) - 1)
		if last == 0 {
			for agent := range ranks {
				scores[agent] = 1.0
			}
			return scores, nil
		}

		tied := map[int]int{}
		for _, rank := range ranks {
			tied[rank]++
		}
		for agent, rank := range ranks {
			// 同順の組は 0始まりで rank-1 .. rank+k-2 の位置を占める
			meanPlace := float32(rank-1) + float32(tied[rank]-1)/2
			scores[agent] = 1.0 - meanPlace/last
		}
		return scores, nil
	}
}

func (e Engine[S, M, A]) EvaluateResultScoreByAgent(state S) (ResultScoreByAgent[A], error) {
	rankByAgent, err := e.RankByAgentFunc(state)
	if err != nil {
		return nil, err
	}
	return e.ResultScoreByAgentFunc(rankByAgent)
}

// forfeitScores ranks loser last and every other agent tied first.
func (e Engine[S, M, A]) forfeitScores(loser A) (ResultScoreByAgent[A], error) {
	others := make([]A, 0, len(e.Agents))
	for _, agent := range e.Agents {
		if agent != loser {
			others = append(others, agent)
		}
	}

	groups := [][]A{{loser}}
	if len(others) != 0 {
		groups = [][]A{others, {loser}}
	}
	ranks, err := game.NewRankByAgent(groups)
	if err != nil {
		return nil, err
	}
	return e.ResultScoreByAgentFunc(ranks)
}
