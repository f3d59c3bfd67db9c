package stats

import (
	"time"

	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/rating"
)

// LeaderboardEntry is a player's line on the leaderboard.
// Rank is zero for players that have not played enough matches to be ranked.
type LeaderboardEntry struct {
	Rank       int         `json:"rank" msgpack:"rank"`
	Player     club.Player `json:"player" msgpack:"player"`
	WinRate    float64     `json:"win_rate" msgpack:"win_rate"`
	IsEligible bool        `json:"is_eligible" msgpack:"is_eligible"`
	Tier       rating.Tier `json:"tier" msgpack:"tier"`
}

// OpponentStats is a player's head-to-head record against one opponent.
type OpponentStats struct {
	OpponentID   string  `json:"opponent_id"`
	OpponentName string  `json:"opponent_name"`
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	AverageScore float64 `json:"average_score"`
	EloChange    int     `json:"elo_change"`
}

// EloPoint is the player's rating after a given match.
type EloPoint struct {
	MatchNumber int       `json:"match_number"`
	MatchID     string    `json:"match_id"`
	PlayedAt    time.Time `json:"played_at"`
	Elo         int       `json:"elo"`
	Opponent    string    `json:"opponent"`
	Won         bool      `json:"won"`
}

// PlayerProfile is everything shown on a player's profile page.
type PlayerProfile struct {
	Player             club.Player     `json:"player"`
	Tier               rating.Tier     `json:"tier"`
	WinRate            float64         `json:"win_rate"`
	IsEligible         bool            `json:"is_eligible"`
	MatchesUntilRanked int             `json:"matches_until_ranked"`
	Matches            []club.Match    `json:"matches"`
	RecentForm         []string        `json:"recent_form"`
	Opponents          []OpponentStats `json:"opponents"`
	EloHistory         []EloPoint      `json:"elo_history"`
}
