package rating

// Tier is a named rating band.
type Tier struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	MinRating int    `json:"min_rating"`
}

var tiers = []Tier{
	{Name: "Grandmaster", Color: "platinum", MinRating: 1800},
	{Name: "Master", Color: "gold", MinRating: 1600},
	{Name: "Expert", Color: "silver", MinRating: 1400},
	{Name: "Novice", Color: "bronze", MinRating: 1200},
}

// GetRatingTier returns the highest tier whose floor the rating reaches.
// Ratings under every floor fall into the lowest tier.
func GetRatingTier(rating int) Tier {
	for _, t := range tiers[:len(tiers)-1] {
		if rating >= t.MinRating {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// Tiers returns all tiers from highest to lowest.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}
