package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/database"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier"
	"github.com/mauv0809/pong-ladder/internal/processor"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
	"github.com/mauv0809/pong-ladder/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
	cache    *cache.Mock
	counters *metrics.StoreMock
}

// setupTestServer initializes a new server with an in-memory database and mock clients.
func setupTestServer(t *testing.T, slackSigningSecret string) (*testServer, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clubStore := club.New(db, database.SQLite)
	cfg := config.Config{
		Slack:  config.SlackConfig{SigningSecret: slackSigningSecret},
		Rating: config.RatingConfig{StartingElo: 1200, KFactor: 32, MinMatchesForRanking: 5},
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ts := &testServer{
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock(),
		cache:    cache.NewMock(),
		counters: metrics.NewStoreMock(),
	}
	proc := processor.New(clubStore, ts.notifier, metricsSvc, ts.pubsub,
		processor.WithCache(ts.cache), processor.WithCounters(ts.counters), processor.WithRating(cfg.Rating))
	ts.Server = NewServer(clubStore, metricsSvc, metricsHandler, ts.counters, cfg, ts.notifier, proc, ts.cache, ts.pubsub)

	return ts, dbTeardown
}

func addPlayer(t *testing.T, s *testServer, name string, elo, played, wins int) club.Player {
	t.Helper()
	p, err := s.Store.AddPlayer(context.Background(), club.PlayerDraft{
		Name: name, EloRating: elo, MatchesPlayed: played, Wins: wins, Losses: played - wins,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return p
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the signature and timestamp headers used for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req, err := http.NewRequest("POST", targetURL, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)
	rr := serve(server, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestListPlayersHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	addPlayer(t, server, "Ola", 1180, 2, 0)
	addPlayer(t, server, "Kari", 1250, 3, 3)

	req, _ := http.NewRequest("GET", "/players", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var players []club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 2)
	assert.Equal(t, "Kari", players[0].Name, "players are ordered by rating")
	assert.Equal(t, "Ola", players[1].Name)
}

func TestRecordMatchHandler(t *testing.T) {
	t.Run("records a match between an existing and a new player", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()
		kari := addPlayer(t, server, "Kari", 1200, 0, 0)

		body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"new","name":"Per"},"player1_score":11,"player2_score":6}`, kari.ID)
		req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
		rr := serve(server, req)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var result club.MatchResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, kari.ID, result.Winner.ID)
		assert.Equal(t, 1216, result.Winner.EloRating)
		assert.Equal(t, "Per", result.Loser.Name)
		assert.Equal(t, 1184, result.Loser.EloRating)

		stored, err := server.Store.GetAllMatches(context.Background())
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, map[string]int{kari.ID: 16, result.Loser.ID: -16}, stored[0].EloChanges)
		assert.Equal(t, stored[0].ID, result.Match.ID)
		assert.Equal(t, 1, server.cache.InvalidateCalls)
	})

	t.Run("invalid score is rejected with its reason", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()
		kari := addPlayer(t, server, "Kari", 1200, 0, 0)
		ola := addPlayer(t, server, "Ola", 1200, 0, 0)

		body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"existing","id":%q},"player1_score":11,"player2_score":10}`, kari.ID, ola.ID)
		req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
		rr := serve(server, req)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "InsufficientMargin", resp["reason"])
		assert.NotEmpty(t, resp["error"])

		stored, err := server.Store.GetAllMatches(context.Background())
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("rejection is logged once", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()
		kari := addPlayer(t, server, "Kari", 1200, 0, 0)
		ola := addPlayer(t, server, "Ola", 1200, 0, 0)

		var logs bytes.Buffer
		log.SetOutput(&logs)
		defer log.SetOutput(os.Stderr)

		body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"existing","id":%q},"player1_score":12,"player2_score":11}`, kari.ID, ola.ID)
		req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
		rr := serve(server, req)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, 1, strings.Count(logs.String(), "Match rejected"), logs.String())
	})

	t.Run("duplicate new player name is rejected", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()
		kari := addPlayer(t, server, "Kari", 1200, 0, 0)

		body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"new","name":" kari "},"player1_score":11,"player2_score":4}`, kari.ID)
		req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
		rr := serve(server, req)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `"reason":"DuplicateName"`)
	})

	t.Run("unknown side type registers nobody", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()
		kari := addPlayer(t, server, "Kari", 1200, 0, 0)

		body := fmt.Sprintf(`{"player1":{"type":"exsting","name":"Zed"},"player2":{"type":"existing","id":%q},"player1_score":11,"player2_score":4}`, kari.ID)
		req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
		rr := serve(server, req)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `"reason":"InvalidSide"`)

		players, err := server.Store.GetAllPlayers(context.Background())
		require.NoError(t, err)
		assert.Len(t, players, 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()

		req, _ := http.NewRequest("POST", "/matches", strings.NewReader("{"))
		rr := serve(server, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("dry run stores nothing", func(t *testing.T) {
		server, teardown := setupTestServer(t, "")
		defer teardown()

		body := `{"player1":{"type":"new","name":"Per"},"player2":{"type":"new","name":"Pål"},"player1_score":3,"player2_score":11}`
		req, _ := http.NewRequest("POST", "/matches?dry_run=true", strings.NewReader(body))
		rr := serve(server, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		players, err := server.Store.GetAllPlayers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, players)
		assert.Empty(t, server.pubsub.SendMessageCalls)
	})
}

func TestListMatchesHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	kari := addPlayer(t, server, "Kari", 1200, 0, 0)
	ola := addPlayer(t, server, "Ola", 1200, 0, 0)
	per := addPlayer(t, server, "Per", 1200, 0, 0)

	for _, opp := range []club.Player{ola, per} {
		body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"existing","id":%q},"player1_score":11,"player2_score":9}`, kari.ID, opp.ID)
		req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
		require.Equal(t, http.StatusCreated, serve(server, req).Code)
	}

	req, _ := http.NewRequest("GET", "/matches", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	req, _ = http.NewRequest("GET", "/matches?player="+per.ID, nil)
	rr = serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var perMatches []club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &perMatches))
	require.Len(t, perMatches, 1)
	assert.Equal(t, per.ID, perMatches[0].LoserID)
}

func TestPlayerProfileHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	kari := addPlayer(t, server, "Kari", 1200, 0, 0)
	ola := addPlayer(t, server, "Ola", 1200, 0, 0)

	body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"existing","id":%q},"player1_score":11,"player2_score":5}`, kari.ID, ola.ID)
	req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
	require.Equal(t, http.StatusCreated, serve(server, req).Code)

	req, _ = http.NewRequest("GET", "/players/"+kari.ID, nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile stats.PlayerProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, 1216, profile.Player.EloRating)
	assert.Equal(t, []string{"W"}, profile.RecentForm)
	assert.Equal(t, 4, profile.MatchesUntilRanked)
	require.Len(t, profile.Opponents, 1)
	assert.Equal(t, "Ola", profile.Opponents[0].OpponentName)
	require.Len(t, profile.EloHistory, 1)
	assert.Equal(t, 1216, profile.EloHistory[0].Elo)

	req, _ = http.NewRequest("GET", "/players/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, serve(server, req).Code)
}

func TestLeaderboardHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	addPlayer(t, server, "Kari", 1450, 10, 8)
	addPlayer(t, server, "Ola", 1500, 2, 2)

	req, _ := http.NewRequest("GET", "/leaderboard", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []stats.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Kari", entries[0].Player.Name, "eligible players come first")
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 0, entries[1].Rank)
	assert.Equal(t, 1, server.cache.SetCalls)

	// Second request is served from the cache.
	addPlayer(t, server, "Per", 1600, 20, 20)
	rr = serve(server, req)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, server.cache.SetCalls)

	counters, _ := server.counters.GetAll()
	assert.Equal(t, 2, counters[metrics.KeyLeaderboardQueries])
}

func TestStatsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	server.counters.Increment(metrics.KeyMatchesRecorded)

	req, _ := http.NewRequest("GET", "/stats", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var values map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &values))
	assert.Equal(t, 1, values[metrics.KeyMatchesRecorded])
}

func TestMetricsEndpoint(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	server.Metrics.IncMatchesRecorded()

	req, _ := http.NewRequest("GET", "/metrics", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong_matches_recorded_total 1")
}

func TestNotifyResultHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	result := club.MatchResult{
		Match:  club.Match{ID: "m1", WinnerID: "kari", LoserID: "ola", Player1Score: 11, Player2Score: 7, EloChanges: map[string]int{"kari": 16, "ola": -16}},
		Winner: club.Player{ID: "kari", Name: "Kari", EloRating: 1216},
		Loser:  club.Player{ID: "ola", Name: "Ola", EloRating: 1184},
	}
	payload, err := msgpack.Marshal(result)
	require.NoError(t, err)
	envelope := fmt.Sprintf(`{"subscription":"sub","message":{"data":%q}}`, base64.StdEncoding.EncodeToString(payload))

	req, _ := http.NewRequest("POST", "/notify-result?dry_run=true", bytes.NewBufferString(envelope))
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, server.notifier.SendMatchResultCalls, 1)
	call := server.notifier.SendMatchResultCalls[0]
	assert.True(t, call.DryRun)
	assert.Equal(t, "m1", call.Result.Match.ID)
	assert.Equal(t, "Kari", call.Result.Winner.Name)

	req, _ = http.NewRequest("POST", "/notify-result", bytes.NewBufferString(`{"message":{"data":"%%%"}}`))
	assert.Equal(t, http.StatusBadRequest, serve(server, req).Code)
}

func TestLeaderboardCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	addPlayer(t, server, "Kari", 1450, 10, 8)

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{"command": {"/leaderboard"}}, testSlackSigningSecret)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"text":"formatted_leaderboard"}`, rr.Body.String())
	require.Len(t, server.notifier.LastLeaderboardResponse, 1)
	assert.Equal(t, "Kari", server.notifier.LastLeaderboardResponse[0].Player.Name)
}

func TestSlackVerification(t *testing.T) {
	server, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "wrong-secret")
	assert.Equal(t, http.StatusUnauthorized, serve(server, req).Code)

	req, _ = http.NewRequest("POST", "/slack/command/leaderboard", strings.NewReader(""))
	assert.Equal(t, http.StatusUnauthorized, serve(server, req).Code)
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	t.Run("known player", func(t *testing.T) {
		server, teardown := setupTestServer(t, testSlackSigningSecret)
		defer teardown()
		addPlayer(t, server, "Bjørn", 1300, 6, 4)

		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{"text": {"bjørn"}}, testSlackSigningSecret)
		rr := serve(server, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"text":"formatted_player_stats"}`, rr.Body.String())
		require.NotNil(t, server.notifier.LastPlayerStatsResponse)
		assert.Equal(t, "Bjørn", server.notifier.LastPlayerStatsResponse.Player.Name)
		assert.True(t, server.notifier.LastPlayerStatsResponse.IsEligible)
	})

	t.Run("unknown player", func(t *testing.T) {
		server, teardown := setupTestServer(t, testSlackSigningSecret)
		defer teardown()
		addPlayer(t, server, "Bjørn", 1300, 6, 4)

		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{"text": {"Zed"}}, testSlackSigningSecret)
		rr := serve(server, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"text":"formatted_player_not_found"}`, rr.Body.String())
		assert.Equal(t, []string{"Zed"}, server.notifier.PlayerNotFoundCalls)
	})

	t.Run("missing name", func(t *testing.T) {
		server, teardown := setupTestServer(t, testSlackSigningSecret)
		defer teardown()

		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{"text": {"  "}}, testSlackSigningSecret)
		assert.Equal(t, http.StatusBadRequest, serve(server, req).Code)
	})
}

func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestGetMatchHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	kari := addPlayer(t, server, "Kari", 1200, 0, 0)
	ola := addPlayer(t, server, "Ola", 1200, 0, 0)

	body := fmt.Sprintf(`{"player1":{"type":"existing","id":%q},"player2":{"type":"existing","id":%q},"player1_score":13,"player2_score":11}`, kari.ID, ola.ID)
	req, _ := http.NewRequest("POST", "/matches", strings.NewReader(body))
	rr := serve(server, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var result club.MatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))

	req, _ = http.NewRequest("GET", "/matches/"+result.Match.ID, nil)
	rr = serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var got club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 13, got.Player1Score)
	assert.Equal(t, kari.ID, got.WinnerID)

	req, _ = http.NewRequest("GET", "/matches/nope", nil)
	assert.Equal(t, http.StatusNotFound, serve(server, req).Code)
}

func TestTiersHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()

	req, _ := http.NewRequest("GET", "/tiers", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Grandmaster"`)
	assert.Contains(t, rr.Body.String(), `"min_rating":1200`)
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	addPlayer(t, server, "Kari", 1200, 0, 0)

	req, _ := http.NewRequest("POST", "/clear?dry_run=true", nil)
	require.Equal(t, http.StatusOK, serve(server, req).Code)
	players, err := server.Store.GetAllPlayers(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 1, "dry run keeps everything")

	req, _ = http.NewRequest("POST", "/clear", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Store cleared!", rr.Body.String())
	players, err = server.Store.GetAllPlayers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, players)
	assert.Equal(t, 1, server.cache.InvalidateCalls)
}

func TestPostLeaderboardHandler(t *testing.T) {
	server, teardown := setupTestServer(t, "")
	defer teardown()
	addPlayer(t, server, "Kari", 1450, 10, 8)

	req, _ := http.NewRequest("POST", "/post-leaderboard", nil)
	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, server.notifier.SendLeaderboardCalls, 1)
	assert.Equal(t, "Kari", server.notifier.SendLeaderboardCalls[0][0].Player.Name)
}
