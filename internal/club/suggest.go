package club

import (
	"sort"
	"strings"
	"unicode"
)

// PlayerSuggestion is a player whose name resembles a search query.
type PlayerSuggestion struct {
	Player     Player  `json:"player"`
	Confidence float64 `json:"confidence"`
}

const (
	suggestionThreshold = 0.4
	maxSuggestions      = 5
)

// SuggestPlayers ranks players by how closely their name resembles query.
// At most five suggestions are returned, most likely first.
func SuggestPlayers(players []Player, query string) []PlayerSuggestion {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var suggestions []PlayerSuggestion
	for _, p := range players {
		score := nameSimilarity(q, normalizeName(p.Name))
		if score >= suggestionThreshold {
			suggestions = append(suggestions, PlayerSuggestion{Player: p, Confidence: score})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		return suggestions[i].Player.EloRating > suggestions[j].Player.EloRating
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// nameSimilarity takes the best of whole-string, prefix and per-token similarity.
func nameSimilarity(query, name string) float64 {
	if name == "" {
		return 0
	}
	if query == name {
		return 1
	}
	best := stringSimilarity(query, name)
	if strings.Contains(name, query) {
		best = max(best, 0.9)
	}
	for _, token := range strings.Fields(name) {
		best = max(best, stringSimilarity(query, token)*0.95)
	}
	return best
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
