package stats

import (
	"fmt"
	"sort"

	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/rating"
)

// CreateLeaderboardEntries orders players for the leaderboard: ranked players first, each
// group by rating. Only players with at least minMatches matches get a rank.
func CreateLeaderboardEntries(players []club.Player, minMatches int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, LeaderboardEntry{
			Player:     p,
			WinRate:    WinRate(p.Wins, p.MatchesPlayed),
			IsEligible: p.MatchesPlayed >= minMatches,
			Tier:       rating.GetRatingTier(p.EloRating),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsEligible != b.IsEligible {
			return a.IsEligible
		}
		return a.Player.EloRating > b.Player.EloRating
	})

	rank := 0
	for i := range entries {
		if entries[i].IsEligible {
			rank++
			entries[i].Rank = rank
		}
	}
	return entries
}

// RankLabel returns a medal for the top three and "n." for everyone else.
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// WinRate returns wins as a percentage of played, or 0 if nothing was played.
func WinRate(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return float64(wins) / float64(played) * 100
}
