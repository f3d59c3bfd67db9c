package stats

import (
	"math"
	"sort"

	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/rating"
)

const (
	recentFormLength = 5
	// eloDriftTolerance is how far the replayed history may end from the stored rating before it is corrected.
	eloDriftTolerance = 10
	unknownOpponent   = "Unknown"
)

// BuildProfile computes a player's profile from their stored stat line and match history.
// matches may contain other players' matches; they are ignored.
func BuildProfile(player club.Player, matches []club.Match, players []club.Player, startingElo, minMatches int) PlayerProfile {
	byID := make(map[string]club.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	// Oldest first.
	own := make([]club.Match, 0)
	for _, m := range matches {
		if m.Player1ID == player.ID || m.Player2ID == player.ID {
			own = append(own, m)
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].PlayedAt.Before(own[j].PlayedAt) })

	newestFirst := make([]club.Match, len(own))
	for i, m := range own {
		newestFirst[len(own)-1-i] = m
	}

	return PlayerProfile{
		Player:             player,
		Tier:               rating.GetRatingTier(player.EloRating),
		WinRate:            WinRate(player.Wins, player.MatchesPlayed),
		IsEligible:         player.MatchesPlayed >= minMatches,
		MatchesUntilRanked: max(0, minMatches-player.MatchesPlayed),
		Matches:            newestFirst,
		RecentForm:         recentForm(player.ID, newestFirst),
		Opponents:          opponentStats(player.ID, own, byID),
		EloHistory:         eloHistory(player, own, byID, startingElo),
	}
}

func recentForm(playerID string, newestFirst []club.Match) []string {
	form := make([]string, 0, recentFormLength)
	for _, m := range newestFirst {
		if len(form) == recentFormLength {
			break
		}
		if m.WinnerID == playerID {
			form = append(form, "W")
		} else {
			form = append(form, "L")
		}
	}
	return form
}

func opponentStats(playerID string, oldestFirst []club.Match, byID map[string]club.Player) []OpponentStats {
	index := map[string]int{}
	out := []OpponentStats{}
	totals := []int{}

	for _, m := range oldestFirst {
		opponentID := m.OpponentOf(playerID)
		opponent, ok := byID[opponentID]
		if !ok {
			continue
		}
		i, seen := index[opponentID]
		if !seen {
			i = len(out)
			index[opponentID] = i
			out = append(out, OpponentStats{OpponentID: opponentID, OpponentName: opponent.Name})
			totals = append(totals, 0)
		}

		s := &out[i]
		s.TotalMatches++
		if m.WinnerID == playerID {
			s.Wins++
		} else {
			s.Losses++
		}
		s.EloChange += m.EloChanges[playerID]
		own, _ := m.ScoreFor(playerID)
		totals[i] += own
	}

	for i := range out {
		out[i].WinRate = WinRate(out[i].Wins, out[i].TotalMatches)
		out[i].AverageScore = float64(totals[i]) / float64(out[i].TotalMatches)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalMatches > out[j].TotalMatches })
	return out
}

// eloHistory replays the recorded rating changes from startingElo. If the replay ends more
// than eloDriftTolerance away from the stored rating, the gap is spread linearly over the points.
func eloHistory(player club.Player, oldestFirst []club.Match, byID map[string]club.Player, startingElo int) []EloPoint {
	history := make([]EloPoint, 0, len(oldestFirst))
	running := startingElo

	for i, m := range oldestFirst {
		running += m.EloChanges[player.ID]
		name := unknownOpponent
		if opp, ok := byID[m.OpponentOf(player.ID)]; ok {
			name = opp.Name
		}
		history = append(history, EloPoint{
			MatchNumber: i + 1,
			MatchID:     m.ID,
			PlayedAt:    m.PlayedAt,
			Elo:         running,
			Opponent:    name,
			Won:         m.WinnerID == player.ID,
		})
	}

	drift := player.EloRating - running
	if len(history) > 0 && abs(drift) > eloDriftTolerance {
		step := float64(drift) / float64(len(history))
		for i := range history {
			history[i].Elo = int(math.Floor(float64(history[i].Elo) + step*float64(i+1) + 0.5))
		}
	}
	return history
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
