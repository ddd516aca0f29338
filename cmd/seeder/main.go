package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/keiths-skittles/internal/database"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/notifier"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
)

const (
	roundsPerGame = 3
	teamSize      = 6
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "skittles.db",
		"MIGRATIONS_DIR": "./migrations",
		"SEED_GAMES":     "20",
		"SEED":           "0",
	}
	for _, key := range []string{"DB_NAME", "MIGRATIONS_DIR", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "SEED_GAMES", "SEED"} {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

func mustInt(cfg map[string]string, key string) int {
	n, err := strconv.Atoi(cfg[key])
	if err != nil {
		log.Fatalf("Error: %s must be a number, got %q", key, cfg[key])
	}
	return n
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	numGames := mustInt(cfg, "SEED_GAMES")
	seed := mustInt(cfg, "SEED")
	if seed == 0 {
		seed = int(time.Now().UnixNano())
	}
	faker := gofakeit.New(uint64(seed))

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	hub := live.NewHub()
	go hub.Run()
	defer hub.Stop()

	games := game.New(db)
	trk := tracker.New(games, stats.New(db, games, 0), notifier.Noop{}, metrics.NewService(), pubsub.NewLocal(), hub)

	players := make([]int64, 0, teamSize*2)
	seen := make(map[int64]bool)
	for len(players) < cap(players) {
		p, err := games.GetOrCreatePlayer(faker.FirstName())
		if err != nil {
			log.Fatalf("Failed to create player: %s", err)
		}
		if !seen[p.ID] {
			seen[p.ID] = true
			players = append(players, p.ID)
		}
	}
	opponents := seedLookups(faker, games, game.KindOpponent, 5, func() string { return "The " + faker.Animal() + " Inn" })
	locations := seedLookups(faker, games, game.KindLocation, 4, faker.City)
	gameTypes := seedLookups(faker, games, game.KindGameType, 2, func() string {
		return faker.RandomString([]string{"League", "Cup", "Friendly"})
	})
	log.Info("Ensured players and lookups exist", "players", len(players))

	startTime := time.Now()
	for i := 0; i < numGames; i++ {
		in := game.GameInput{
			Date:           faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()),
			OpponentID:     opponents[faker.Number(0, len(opponents)-1)],
			LocationID:     locations[faker.Number(0, len(locations)-1)],
			GameTypeID:     gameTypes[faker.Number(0, len(gameTypes)-1)],
			CyclesPerRound: faker.Number(1, 2),
			TeamFirst:      scoring.Team(faker.RandomString([]string{string(scoring.TeamOwn), string(scoring.TeamOpp)})),
		}
		g, err := trk.StartGame(in)
		if err != nil {
			log.Fatalf("Failed to create game: %s", err)
		}
		if err := playGame(faker, trk, g.ID, players); err != nil {
			log.Fatalf("Failed to play game %d: %s", g.ID, err)
		}
		log.Info("Seeded game", "completed", i+1, "total", numGames, "game", g.String())
	}

	log.Info("Successfully seeded all games.", "duration", time.Since(startTime))
}

func seedLookups(faker *gofakeit.Faker, games game.Store, kind game.LookupKind, n int, name func() string) []int64 {
	existing, err := games.ListLookups(kind)
	if err != nil {
		log.Fatalf("Failed to list %s: %s", kind, err)
	}
	ids := make([]int64, 0, n)
	for _, l := range existing {
		ids = append(ids, l.ID)
	}
	for attempts := 0; len(ids) < n && attempts < n*5; attempts++ {
		l, err := games.AddLookup(kind, name())
		if err != nil {
			continue
		}
		ids = append(ids, l.ID)
	}
	if len(ids) == 0 {
		log.Fatalf("No %s available", kind)
	}
	return ids
}

func playGame(faker *gofakeit.Faker, trk *tracker.Tracker, gameID int64, players []int64) error {
	for round := 1; round <= roundsPerGame; round++ {
		lineup := append([]int64(nil), players...)
		faker.ShuffleAnySlice(lineup)
		if _, err := trk.SelectPlayers(gameID, lineup[:faker.Number(2, teamSize)], scoring.TeamOwn); err != nil {
			return err
		}
		for {
			r1, r2, r3 := legalTurn(faker)
			out, err := trk.RecordTurn(gameID, r1, r2, r3)
			if err != nil {
				return err
			}
			if out.State.RoundComplete {
				break
			}
		}
		if round < roundsPerGame {
			if _, err := trk.NextRound(gameID); err != nil {
				return err
			}
		}
	}
	return trk.EndGame(gameID, true)
}

// legalTurn throws three rolls that respect the rack reset rules.
func legalTurn(faker *gofakeit.Faker) (string, string, string) {
	r1 := faker.Number(0, scoring.RackSize)
	r2 := faker.Number(0, scoring.PinsBeforeSecond(r1))
	r3 := faker.Number(0, scoring.PinsBeforeThird(r1, r2))
	if res := scoring.ValidateTurn(&r1, &r2, &r3); !res.OK {
		panic(fmt.Sprintf("generated an illegal turn %d/%d/%d: %v", r1, r2, r3, res.Errors))
	}
	return strconv.Itoa(r1), strconv.Itoa(r2), strconv.Itoa(r3)
}
