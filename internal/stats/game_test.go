package stats

import (
	"testing"

	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(playerID int64, name string, round, cycle, r1, r2, r3 int) game.Score {
	return game.Score{
		PlayerID: playerID, PlayerName: name, RoundNumber: round, CycleNumber: cycle,
		Roll1: r1, Roll2: r2, Roll3: r3, Total: r1 + r2 + r3,
	}
}

func TestComputeGame(t *testing.T) {
	players := []game.GamePlayer{
		{PlayerID: 1, PlayerName: "Keith", RoundNumber: 1, Team: scoring.TeamOwn},
		{PlayerID: 2, PlayerName: "Sue", RoundNumber: 1, Team: scoring.TeamOwn},
		{PlayerID: 3, PlayerName: "Opp. Keith", RoundNumber: 1, Team: scoring.TeamOpp},
		{PlayerID: 4, PlayerName: "Opp. Sue", RoundNumber: 1, Team: scoring.TeamOpp},
		{PlayerID: 1, PlayerName: "Keith", RoundNumber: 2, Team: scoring.TeamOwn},
		{PlayerID: 3, PlayerName: "Opp. Keith", RoundNumber: 2, Team: scoring.TeamOpp},
	}
	scores := []game.Score{
		turn(1, "Keith", 1, 1, 9, 4, 5),
		turn(3, "Opp. Keith", 1, 1, 3, 3, 3),
		turn(2, "Sue", 1, 1, 2, 2, 2),
		turn(4, "Opp. Sue", 1, 1, 4, 5, 9),
		turn(1, "Keith", 2, 1, 1, 1, 1),
		turn(3, "Opp. Keith", 2, 1, 0, 0, 0),
	}

	st := ComputeGame(game.Game{ID: 7}, players, scores)

	assert.Equal(t, 27, st.OwnTotal)
	assert.Equal(t, 27, st.OppTotal)
	assert.Equal(t, ResultDraw, st.Result)
	assert.Equal(t, "gray", st.Result.Color())

	assert.Equal(t, []RoundTotal{{Round: 1, Total: 51}, {Round: 2, Total: 3}}, st.RoundTotals)
	assert.Equal(t, []CycleTotal{{Cycle: 1, Total: 54}}, st.CycleTotals)

	require.Len(t, st.Players, 4)
	assert.Equal(t, "Keith", st.Players[0].Name)
	assert.Equal(t, 21, st.Players[0].Total)
	assert.Equal(t, 2, st.Players[0].Cycles)
	assert.InDelta(t, 10.5, st.Players[0].Average, 0.001)
	assert.Equal(t, []int64{1}, st.HighestScorers)
	assert.True(t, st.IsHighest(1))
	assert.Len(t, st.TopScorers(), 1)

	require.Len(t, st.Pairs, 2)
	assert.Equal(t, "Keith", st.Pairs[0].Own.Name)
	assert.Equal(t, "Opp. Keith", st.Pairs[0].Opp.Name)
	assert.Equal(t, "Sue", st.Pairs[1].Own.Name)
	assert.Equal(t, "Opp. Sue", st.Pairs[1].Opp.Name)

	assert.Equal(t, []RoundDiff{
		{Round: 1, OwnTotal: 24, OppTotal: 27, Differential: -3},
		{Round: 2, OwnTotal: 3, OppTotal: 0, Differential: 3},
	}, st.RoundDiffs)
}

func TestComputeGame_UnmatchedOpponentAndTies(t *testing.T) {
	players := []game.GamePlayer{
		{PlayerID: 1, RoundNumber: 1, Team: scoring.TeamOwn},
		{PlayerID: 5, RoundNumber: 1, Team: scoring.TeamOpp},
	}
	scores := []game.Score{
		turn(1, "Keith", 1, 1, 3, 3, 0),
		turn(5, "Opp. Stranger", 1, 1, 3, 3, 0),
	}

	st := ComputeGame(game.Game{}, players, scores)
	assert.ElementsMatch(t, []int64{1, 5}, st.HighestScorers)
	require.Len(t, st.Pairs, 2)
	assert.Nil(t, st.Pairs[0].Opp)
	assert.Nil(t, st.Pairs[1].Own)
	assert.Equal(t, "Opp. Stranger", st.Pairs[1].Opp.Name)
}

func TestComputeGame_Empty(t *testing.T) {
	st := ComputeGame(game.Game{}, nil, nil)
	assert.Equal(t, ResultDraw, st.Result)
	assert.Empty(t, st.Players)
	assert.Empty(t, st.HighestScorers)
	assert.Empty(t, st.RoundDiffs)
}

func TestResult(t *testing.T) {
	assert.Equal(t, ResultWin, ResultOf(10, 9))
	assert.Equal(t, ResultLoss, ResultOf(9, 10))
	assert.Equal(t, "green", ResultWin.Color())
	assert.Equal(t, ResultLoss, ParseResult("Loss"))
	assert.Equal(t, Result(""), ParseResult("loss"))
}
