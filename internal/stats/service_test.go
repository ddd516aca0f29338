package stats_test

import (
	"testing"
	"time"

	"github.com/mauv0809/keiths-skittles/internal/database"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	games    game.Store
	stats    stats.Service
	keith    *game.Player
	opponent *game.Lookup
	home     *game.Lookup
	away     *game.Lookup
	league   *game.Lookup
	cup      *game.Lookup
}

func setup(t *testing.T, perPage int) *fixture {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	f := &fixture{games: game.New(db)}
	f.stats = stats.New(db, f.games, perPage)

	f.keith, err = f.games.AddPlayer("Keith")
	require.NoError(t, err)
	f.opponent, err = f.games.AddLookup(game.KindOpponent, "The Crown")
	require.NoError(t, err)
	f.home, err = f.games.AddLookup(game.KindLocation, "Village Hall")
	require.NoError(t, err)
	f.away, err = f.games.AddLookup(game.KindLocation, "The Crown Alley")
	require.NoError(t, err)
	f.league, err = f.games.AddLookup(game.KindGameType, "League")
	require.NoError(t, err)
	f.cup, err = f.games.AddLookup(game.KindGameType, "Cup")
	require.NoError(t, err)
	return f
}

// playGame records one round where Keith scores own and his mirror scores opp.
func (f *fixture) playGame(t *testing.T, day int, location, gameType *game.Lookup, own, opp [3]int) *game.Game {
	t.Helper()

	g, err := f.games.CreateGame(game.GameInput{
		Date:           time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		OpponentID:     f.opponent.ID,
		LocationID:     location.ID,
		GameTypeID:     gameType.ID,
		CyclesPerRound: 1,
		TeamFirst:      scoring.TeamOwn,
	})
	require.NoError(t, err)
	require.NoError(t, f.games.AssignRound(g.ID, 1, []int64{f.keith.ID}, scoring.TeamOwn))

	mirror, err := f.games.GetOrCreatePlayer(game.MirrorName("Keith"))
	require.NoError(t, err)

	require.NoError(t, f.games.AddScore(&game.Score{GameID: g.ID, PlayerID: f.keith.ID, RoundNumber: 1, CycleNumber: 1,
		Roll1: own[0], Roll2: own[1], Roll3: own[2]}))
	require.NoError(t, f.games.AddScore(&game.Score{GameID: g.ID, PlayerID: mirror.ID, RoundNumber: 1, CycleNumber: 1,
		Roll1: opp[0], Roll2: opp[1], Roll3: opp[2]}))
	return g
}

func TestGameStatistics(t *testing.T) {
	f := setup(t, 5)
	g := f.playGame(t, 1, f.home, f.league, [3]int{9, 4, 5}, [3]int{3, 3, 3})

	st, err := f.stats.GameStatistics(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, st.OwnTotal)
	assert.Equal(t, 9, st.OppTotal)
	assert.Equal(t, stats.ResultWin, st.Result)
	assert.Equal(t, "The Crown", st.Game.OpponentName)

	_, err = f.stats.GameStatistics(999)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestPastGames_FilterBeforePaging(t *testing.T) {
	f := setup(t, 2)
	win1 := f.playGame(t, 1, f.home, f.league, [3]int{5, 4, 0}, [3]int{1, 0, 0})
	f.playGame(t, 2, f.home, f.league, [3]int{1, 0, 0}, [3]int{5, 4, 0})
	win2 := f.playGame(t, 3, f.away, f.league, [3]int{5, 4, 0}, [3]int{1, 0, 0})
	f.playGame(t, 4, f.away, f.cup, [3]int{1, 0, 0}, [3]int{5, 4, 0})
	win3 := f.playGame(t, 5, f.away, f.cup, [3]int{5, 4, 0}, [3]int{1, 0, 0})

	page, err := f.stats.PastGames(stats.PastGamesQuery{Result: stats.ResultWin, Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Games, 2)
	assert.Equal(t, win3.ID, page.Games[0].Game.ID)
	assert.Equal(t, win2.ID, page.Games[1].Game.ID)
	assert.Equal(t, 2, page.Page.TotalPages)

	page, err = f.stats.PastGames(stats.PastGamesQuery{Result: stats.ResultWin, Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Games, 1)
	assert.Equal(t, win1.ID, page.Games[0].Game.ID)

	page, err = f.stats.PastGames(stats.PastGamesQuery{LocationID: f.home.ID, Page: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Number, "out of range pages fall back to the first")
	assert.Len(t, page.Games, 2)
}

func TestPlayerStatistics(t *testing.T) {
	f := setup(t, 5)
	f.playGame(t, 1, f.home, f.league, [3]int{9, 4, 5}, [3]int{3, 3, 3})
	f.playGame(t, 2, f.home, f.league, [3]int{0, 0, 0}, [3]int{3, 3, 3})

	st, err := f.stats.PlayerStatistics(f.keith.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, st.TotalScore)
	assert.Equal(t, 2, st.TotalCycles)
	assert.Equal(t, 6, st.TotalRolls)
	assert.InDelta(t, 9.0, st.AvgPerCycle, 0.001)
	assert.InDelta(t, 3.0, st.AvgPerRoll, 0.001)
	assert.Equal(t, 1, st.ZeroCycleCount)
	assert.Equal(t, 3, st.TotalZeroRolls)
	assert.InDelta(t, 50.0, st.ZeroRollPercentage, 0.001)
	assert.Equal(t, 18, st.HighestCycleScore)
	assert.Equal(t, 9, st.HighestRollScore)
	assert.Equal(t, 1, st.Strikes)
	assert.Equal(t, 2, st.GamesParticipated)
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.Losses)
	assert.Zero(t, st.Draws)

	require.Len(t, st.Improvement, 2)
	assert.True(t, st.Improvement[0].Date.Before(st.Improvement[1].Date), "improvement runs oldest first")
	assert.InDelta(t, 18.0, st.Improvement[0].Average, 0.001)
}

func TestPlayerStatistics_NoScores(t *testing.T) {
	f := setup(t, 5)

	st, err := f.stats.PlayerStatistics(f.keith.ID)
	require.NoError(t, err)
	assert.Zero(t, st.TotalCycles)
	assert.Zero(t, st.AvgPerRoll)
	assert.Empty(t, st.Improvement)

	_, err = f.stats.PlayerStatistics(999)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestPlayerHistory(t *testing.T) {
	f := setup(t, 2)
	for day := 1; day <= 3; day++ {
		f.playGame(t, day, f.home, f.league, [3]int{day, 0, 0}, [3]int{0, 0, 0})
	}

	page, err := f.stats.PlayerHistory(f.keith.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Games, 2)
	assert.Equal(t, 3, page.Games[0].Date.Day(), "history runs newest first")
	assert.True(t, page.Page.HasNext)
	assert.False(t, page.Page.HasPrevious)
	assert.Equal(t, "The Crown", page.Games[0].OpponentName)
	assert.Equal(t, "Village Hall", page.Games[0].LocationName)

	page, err = f.stats.PlayerHistory(f.keith.ID, 2)
	require.NoError(t, err)
	require.Len(t, page.Games, 1)
	assert.Equal(t, 2, page.Page.Number)
}

func TestTopPlayers_OwnTeamOnly(t *testing.T) {
	f := setup(t, 5)
	f.playGame(t, 1, f.home, f.league, [3]int{3, 3, 0}, [3]int{9, 9, 9})

	top, err := f.stats.TopPlayers(5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Keith", top[0].Name)
	assert.Equal(t, 6, top[0].Total)
}

func TestOpponentStatistics(t *testing.T) {
	f := setup(t, 5)
	f.playGame(t, 1, f.home, f.league, [3]int{5, 4, 0}, [3]int{1, 0, 0})
	f.playGame(t, 2, f.away, f.league, [3]int{1, 0, 0}, [3]int{5, 4, 0})
	f.playGame(t, 3, f.away, f.cup, [3]int{2, 0, 0}, [3]int{2, 0, 0})

	st, err := f.stats.OpponentStatistics(f.opponent.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalGames)
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.Losses)
	assert.Equal(t, 1, st.Draws)
	assert.InDelta(t, 33.33, st.WinPercentage, 0.01)
	assert.InDelta(t, 4.0, st.AvgScoreFor, 0.001)
	assert.InDelta(t, 4.0, st.AvgAgainst, 0.001)
	assert.Equal(t, 9, st.HighestFor)
	assert.Equal(t, 1, st.LowestFor)
	require.Len(t, st.Games, 3)
	assert.Equal(t, 8, st.Games[0].Diff, "games run oldest first")

	require.Len(t, st.Locations, 2)
	assert.Equal(t, "The Crown Alley", st.Locations[0].Name)
	assert.Equal(t, 2, st.Locations[0].Count)
	assert.InDelta(t, -4.0, st.Locations[0].AvgDiff, 0.001)

	require.Len(t, st.TopPlayers, 1)
	assert.Equal(t, 12, st.TopPlayers[0].Total)

	cup, err := f.stats.OpponentStatistics(f.opponent.ID, f.cup.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cup.TotalGames)
	require.NotNil(t, cup.GameType)
	assert.Equal(t, "Cup", cup.GameType.Name)

	unknownType, err := f.stats.OpponentStatistics(f.opponent.ID, 999)
	require.NoError(t, err)
	assert.Equal(t, 3, unknownType.TotalGames)
	assert.Nil(t, unknownType.GameType)
}

func TestOpponentStatistics_NoGames(t *testing.T) {
	f := setup(t, 5)

	_, err := f.stats.OpponentStatistics(f.opponent.ID, 0)
	assert.ErrorIs(t, err, stats.ErrNoGames)

	_, err = f.stats.OpponentStatistics(999, 0)
	assert.ErrorIs(t, err, game.ErrNotFound)
}
