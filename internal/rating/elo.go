package rating

import (
	"math"
	"time"

	"github.com/mauv0809/pong-ladder/internal/club"
)

const (
	// StartingElo is the rating every new player begins with.
	StartingElo = 1200
	// DefaultKFactor is the maximum rating change for a single match.
	DefaultKFactor = 32
	// MinimumMatchesForRanking is the number of matches a player needs before appearing in the ranking.
	MinimumMatchesForRanking = 5
)

// EloResult holds the signed rating changes and resulting ratings for both sides of a match.
type EloResult struct {
	WinnerChange    int `json:"winner_change"`
	LoserChange     int `json:"loser_change"`
	WinnerNewRating int `json:"winner_new_rating"`
	LoserNewRating  int `json:"loser_new_rating"`
}

// ExpectedScore is the probability that a player rated a beats a player rated b.
func ExpectedScore(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/400))
}

// CalculateEloChanges computes the rating movement after the winner beats the loser.
// Each side is rounded on its own, so the two changes need not sum to zero.
func CalculateEloChanges(winnerRating, loserRating, kFactor int) EloResult {
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}
	k := float64(kFactor)

	expectedWinner := ExpectedScore(winnerRating, loserRating)
	expectedLoser := ExpectedScore(loserRating, winnerRating)

	winnerChange := roundHalfUp(k * (1 - expectedWinner))
	loserChange := roundHalfUp(k * (0 - expectedLoser))

	return EloResult{
		WinnerChange:    winnerChange,
		LoserChange:     loserChange,
		WinnerNewRating: winnerRating + winnerChange,
		LoserNewRating:  loserRating + loserChange,
	}
}

// CalculatePlayerUpdates builds the stat line a player gets after a match.
func CalculatePlayerUpdates(player club.Player, isWinner bool, newRating int, now time.Time) club.PlayerUpdate {
	update := club.PlayerUpdate{
		EloRating:     newRating,
		MatchesPlayed: player.MatchesPlayed + 1,
		Wins:          player.Wins,
		Losses:        player.Losses,
		LastPlayedAt:  now,
	}
	if isWinner {
		update.Wins++
	} else {
		update.Losses++
	}
	return update
}

// roundHalfUp rounds x to the nearest integer with ties going towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
