package quiz

import "sort"

// Standing is one row of the score table. JoinOrder starts at 0.
type Standing struct {
	PlayerID  int64
	Score     int
	JoinOrder int
}

// Results is the final projection of a game.
type Results struct {
	Standings []Standing
	Winners   []Standing
	TopScore  int
	Played    int
}

func rankStandings(players []int64, scores map[int64]int) []Standing {
	standings := make([]Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{PlayerID: p, Score: scores[p], JoinOrder: i}
	}
	// players is already in join order; a stable sort keeps it among ties.
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

func newResults(players []int64, scores map[int64]int, played int) Results {
	res := Results{
		Standings: rankStandings(players, scores),
		Played:    played,
	}
	if len(res.Standings) == 0 {
		return res
	}

	res.TopScore = res.Standings[0].Score
	for _, s := range res.Standings {
		if s.Score != res.TopScore {
			break
		}
		res.Winners = append(res.Winners, s)
	}
	return res
}
