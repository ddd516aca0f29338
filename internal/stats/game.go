package stats

import (
	"sort"

	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
)

// ComputeGame builds the report of one game from its assignments and turns.
// A player counts for the team they were assigned to in the game.
func ComputeGame(g game.Game, players []game.GamePlayer, scores []game.Score) *GameStats {
	st := &GameStats{Game: g}

	teamOf := map[int64]scoring.Team{}
	roundTeam := map[int]map[int64]scoring.Team{}
	for _, gp := range players {
		teamOf[gp.PlayerID] = gp.Team
		if roundTeam[gp.RoundNumber] == nil {
			roundTeam[gp.RoundNumber] = map[int64]scoring.Team{}
		}
		roundTeam[gp.RoundNumber][gp.PlayerID] = gp.Team
	}

	byPlayer := map[int64]*PlayerTotal{}
	byRound := map[int]int{}
	byCycle := map[int]int{}
	maxRound := 0
	for _, sc := range scores {
		pt, ok := byPlayer[sc.PlayerID]
		if !ok {
			pt = &PlayerTotal{PlayerID: sc.PlayerID, Name: sc.PlayerName}
			byPlayer[sc.PlayerID] = pt
		}
		pt.Total += sc.Total
		pt.Cycles++
		byRound[sc.RoundNumber] += sc.Total
		byCycle[sc.CycleNumber] += sc.Total
		if sc.RoundNumber > maxRound {
			maxRound = sc.RoundNumber
		}
	}

	var own, opp []PlayerTotal
	for _, pt := range byPlayer {
		if pt.Cycles > 0 {
			pt.Average = float64(pt.Total) / float64(pt.Cycles)
		}
		st.Players = append(st.Players, *pt)
		switch teamOf[pt.PlayerID] {
		case scoring.TeamOwn:
			own = append(own, *pt)
			st.OwnTotal += pt.Total
		case scoring.TeamOpp:
			opp = append(opp, *pt)
			st.OppTotal += pt.Total
		}
	}
	st.Result = ResultOf(st.OwnTotal, st.OppTotal)

	sort.Slice(st.Players, func(i, j int) bool {
		if st.Players[i].Total != st.Players[j].Total {
			return st.Players[i].Total > st.Players[j].Total
		}
		return st.Players[i].Name < st.Players[j].Name
	})
	if len(st.Players) > 0 {
		top := st.Players[0].Total
		for _, p := range st.Players {
			if p.Total == top {
				st.HighestScorers = append(st.HighestScorers, p.PlayerID)
			}
		}
	}

	st.Pairs = pairPlayers(own, opp)
	st.RoundTotals = sortedTotals(byRound, func(k, v int) RoundTotal { return RoundTotal{Round: k, Total: v} })
	st.CycleTotals = sortedTotals(byCycle, func(k, v int) CycleTotal { return CycleTotal{Cycle: k, Total: v} })

	for r := 1; r <= maxRound; r++ {
		diff := RoundDiff{Round: r}
		for _, sc := range scores {
			if sc.RoundNumber != r {
				continue
			}
			switch roundTeam[r][sc.PlayerID] {
			case scoring.TeamOwn:
				diff.OwnTotal += sc.Total
			case scoring.TeamOpp:
				diff.OppTotal += sc.Total
			}
		}
		diff.Differential = diff.OwnTotal - diff.OppTotal
		st.RoundDiffs = append(st.RoundDiffs, diff)
	}
	return st
}

// pairPlayers matches each own player with "Opp. <name>". Opponents left
// without a partner are appended at the end.
func pairPlayers(own, opp []PlayerTotal) []PlayerPair {
	byName := func(ps []PlayerTotal) {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	}
	byName(own)
	byName(opp)

	used := make([]bool, len(opp))
	var pairs []PlayerPair
	for i := range own {
		pair := PlayerPair{Own: &own[i]}
		for j := range opp {
			if !used[j] && opp[j].Name == game.MirrorName(own[i].Name) {
				used[j] = true
				pair.Opp = &opp[j]
				break
			}
		}
		pairs = append(pairs, pair)
	}
	for j := range opp {
		if !used[j] {
			pairs = append(pairs, PlayerPair{Opp: &opp[j]})
		}
	}
	return pairs
}

func sortedTotals[T any](m map[int]int, build func(k, v int) T) []T {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, build(k, m[k]))
	}
	return out
}
