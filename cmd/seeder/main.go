package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/clock"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/database"
	"github.com/mauv0809/pong-ladder/internal/match"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier/slack"
	"github.com/mauv0809/pong-ladder/internal/processor"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
)

var demoPlayers = []string{"Kari", "Ola", "Per", "Pål", "Ingrid", "Bjørn", "Solveig", "Magnus"}

func main() {
	numMatches := flag.Int("matches", 200, "number of matches to record")
	days := flag.Int("days", 90, "spread the matches over this many days back from now")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Database.PrimaryURL, cfg.Database.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer dbTeardown()
	dialect := database.DetectDialect(cfg.Database.PrimaryURL)
	store := club.New(db, dialect)

	// Matches are played back in time order so the rating history reads naturally.
	start := time.Now().UTC().AddDate(0, 0, -*days)
	step := time.Duration(*days) * 24 * time.Hour / time.Duration(max(*numMatches, 1))
	clk := clock.NewMock(start)

	// Seeded matches must not reach Slack or the live event topics.
	metricsSvc := metrics.NewService(prometheus.NewRegistry())
	proc := processor.New(store, slack.NewNotifier("", "", metricsSvc), metricsSvc, pubsub.New(""),
		processor.WithClock(clk),
		processor.WithCounters(metrics.New(db, dialect)),
		processor.WithRating(cfg.Rating),
	)

	ctx := context.Background()
	ids, err := existingPlayers(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load players: %s", err)
	}

	startTime := time.Now()
	rejected := 0
	for i := 0; i < *numMatches; i++ {
		a, b := pickPair()
		s1, s2 := randomScore()
		input := match.CreationInput{
			Player1:      side(ids, a),
			Player2:      side(ids, b),
			Player1Score: s1,
			Player2Score: s2,
		}

		result, err := proc.RecordMatch(ctx, input, false)
		if err != nil {
			rejected++
			log.Warn("Seeded match was rejected", "player1", a, "player2", b, "error", err)
			continue
		}
		ids[result.Winner.Name] = result.Winner.ID
		ids[result.Loser.Name] = result.Loser.ID
		clk.Advance(step)

		if (i+1)%50 == 0 {
			log.Info("Recorded matches", "completed", i+1, "total", *numMatches)
		}
	}

	log.Info("Seeding finished", "matches", *numMatches-rejected, "rejected", rejected, "duration", time.Since(startTime))
}

func existingPlayers(ctx context.Context, store club.ClubStore) (map[string]string, error) {
	players, err := store.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(players))
	for _, p := range players {
		ids[p.Name] = p.ID
	}
	return ids, nil
}

// side refers to a known player by id and registers the rest by name.
func side(ids map[string]string, name string) match.Side {
	if id, ok := ids[name]; ok {
		return match.Side{Type: match.SideExisting, ID: id}
	}
	return match.Side{Type: match.SideNew, Name: name}
}

func pickPair() (string, string) {
	perm := rand.Perm(len(demoPlayers))
	return demoPlayers[perm[0]], demoPlayers[perm[1]]
}

// randomScore returns a valid final score in random order, with about one game in five going to deuce.
func randomScore() (int, int) {
	winner, loser := 11, rand.Intn(10)
	if rand.Intn(5) == 0 {
		loser = 10 + rand.Intn(4)
		winner = loser + 2
	}
	if rand.Intn(2) == 0 {
		return winner, loser
	}
	return loser, winner
}
