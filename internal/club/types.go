package club

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/pong-ladder/internal/database"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
)

// store handles all database operations for the club.
type store struct {
	db      *sql.DB
	dialect database.Dialect
	mu      sync.RWMutex
}

// Player represents a registered player and their running stat line.
type Player struct {
	ID            string     `json:"id" msgpack:"id"`
	Name          string     `json:"name" msgpack:"name"`
	Avatar        string     `json:"avatar,omitempty" msgpack:"avatar"`
	EloRating     int        `json:"elo_rating" msgpack:"elo_rating"`
	MatchesPlayed int        `json:"matches_played" msgpack:"matches_played"`
	Wins          int        `json:"wins" msgpack:"wins"`
	Losses        int        `json:"losses" msgpack:"losses"`
	CreatedAt     time.Time  `json:"created_at" msgpack:"created_at"`
	LastPlayedAt  *time.Time `json:"last_played_at,omitempty" msgpack:"last_played_at"`
}

// PlayerDraft is a player that has not been assigned an id yet.
type PlayerDraft struct {
	Name          string     `json:"name"`
	Avatar        string     `json:"avatar,omitempty"`
	EloRating     int        `json:"elo_rating"`
	MatchesPlayed int        `json:"matches_played"`
	Wins          int        `json:"wins"`
	Losses        int        `json:"losses"`
	CreatedAt     time.Time  `json:"created_at"`
	LastPlayedAt  *time.Time `json:"last_played_at,omitempty"`
}

// WithID turns the draft into a Player.
func (d PlayerDraft) WithID(id string) Player {
	return Player{
		ID:            id,
		Name:          d.Name,
		Avatar:        d.Avatar,
		EloRating:     d.EloRating,
		MatchesPlayed: d.MatchesPlayed,
		Wins:          d.Wins,
		Losses:        d.Losses,
		CreatedAt:     d.CreatedAt,
		LastPlayedAt:  d.LastPlayedAt,
	}
}

// PlayerUpdate is the stat line written back to a player after a match.
type PlayerUpdate struct {
	EloRating     int       `json:"elo_rating" msgpack:"elo_rating"`
	MatchesPlayed int       `json:"matches_played" msgpack:"matches_played"`
	Wins          int       `json:"wins" msgpack:"wins"`
	Losses        int       `json:"losses" msgpack:"losses"`
	LastPlayedAt  time.Time `json:"last_played_at" msgpack:"last_played_at"`
}

// Apply returns a copy of p with the update applied.
func (u PlayerUpdate) Apply(p Player) Player {
	p.EloRating = u.EloRating
	p.MatchesPlayed = u.MatchesPlayed
	p.Wins = u.Wins
	p.Losses = u.Losses
	last := u.LastPlayedAt
	p.LastPlayedAt = &last
	return p
}

// Match is a single recorded game between two players.
type Match struct {
	ID           string         `json:"id" msgpack:"id"`
	Player1ID    string         `json:"player1_id" msgpack:"player1_id"`
	Player2ID    string         `json:"player2_id" msgpack:"player2_id"`
	WinnerID     string         `json:"winner_id" msgpack:"winner_id"`
	LoserID      string         `json:"loser_id" msgpack:"loser_id"`
	Player1Score int            `json:"player1_score" msgpack:"player1_score"`
	Player2Score int            `json:"player2_score" msgpack:"player2_score"`
	PlayedAt     time.Time      `json:"played_at" msgpack:"played_at"`
	EloChanges   map[string]int `json:"elo_changes" msgpack:"elo_changes"`
}

// ScoreFor returns the score the given player had in the match.
func (m Match) ScoreFor(playerID string) (own, opponent int) {
	if m.Player1ID == playerID {
		return m.Player1Score, m.Player2Score
	}
	return m.Player2Score, m.Player1Score
}

// OpponentOf returns the id of the other player in the match.
func (m Match) OpponentOf(playerID string) string {
	if m.Player1ID == playerID {
		return m.Player2ID
	}
	return m.Player1ID
}

// MatchResult is a resolved match together with its winner and loser.
type MatchResult struct {
	Match  Match  `json:"match" msgpack:"match"`
	Winner Player `json:"winner" msgpack:"winner"`
	Loser  Player `json:"loser" msgpack:"loser"`
}
