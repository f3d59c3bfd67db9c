package rating

import (
	"testing"
	"time"

	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/stretchr/testify/assert"
)

func TestCalculateEloChanges(t *testing.T) {
	tests := []struct {
		name   string
		winner int
		loser  int
		k      int
		want   EloResult
	}{
		{
			name:   "equal ratings",
			winner: 1200, loser: 1200, k: 32,
			want: EloResult{WinnerChange: 16, LoserChange: -16, WinnerNewRating: 1216, LoserNewRating: 1184},
		},
		{
			name:   "favourite wins",
			winner: 1400, loser: 1000, k: 32,
			want: EloResult{WinnerChange: 3, LoserChange: -3, WinnerNewRating: 1403, LoserNewRating: 997},
		},
		{
			name:   "upset",
			winner: 1000, loser: 1400, k: 32,
			want: EloResult{WinnerChange: 29, LoserChange: -29, WinnerNewRating: 1029, LoserNewRating: 1371},
		},
		{
			name:   "non-positive k falls back to default",
			winner: 1200, loser: 1200, k: 0,
			want: EloResult{WinnerChange: 16, LoserChange: -16, WinnerNewRating: 1216, LoserNewRating: 1184},
		},
		{
			name:   "custom k",
			winner: 1200, loser: 1200, k: 16,
			want: EloResult{WinnerChange: 8, LoserChange: -8, WinnerNewRating: 1208, LoserNewRating: 1192},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateEloChanges(tt.winner, tt.loser, tt.k))
		})
	}
}

func TestCalculateEloChanges_SidesRoundedIndependently(t *testing.T) {
	for w := 800; w <= 2000; w += 37 {
		for l := 800; l <= 2000; l += 41 {
			res := CalculateEloChanges(w, l, DefaultKFactor)
			assert.GreaterOrEqual(t, res.WinnerChange, 0)
			assert.LessOrEqual(t, res.LoserChange, 0)
			assert.LessOrEqual(t, res.WinnerChange, DefaultKFactor)
			assert.GreaterOrEqual(t, res.LoserChange, -DefaultKFactor)
			assert.Equal(t, roundHalfUp(32*(1-ExpectedScore(w, l))), res.WinnerChange)
			assert.Equal(t, roundHalfUp(-32*ExpectedScore(l, w)), res.LoserChange)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, -2, roundHalfUp(-2.5))
	assert.Equal(t, -3, roundHalfUp(-2.51))
	assert.Equal(t, 0, roundHalfUp(0.49))
}

func TestCalculatePlayerUpdates(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	player := club.Player{ID: "p1", Name: "Ola", EloRating: 1200, MatchesPlayed: 4, Wins: 3, Losses: 1}

	t.Run("winner", func(t *testing.T) {
		update := CalculatePlayerUpdates(player, true, 1216, now)
		assert.Equal(t, club.PlayerUpdate{EloRating: 1216, MatchesPlayed: 5, Wins: 4, Losses: 1, LastPlayedAt: now}, update)
	})

	t.Run("loser", func(t *testing.T) {
		update := CalculatePlayerUpdates(player, false, 1184, now)
		assert.Equal(t, club.PlayerUpdate{EloRating: 1184, MatchesPlayed: 5, Wins: 3, Losses: 2, LastPlayedAt: now}, update)
	})
}
