package domain

import (
	"strconv"
	"strings"
)

// Tier is a CodeForces rating band.
type Tier struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ratingTiers are ordered by ascending upper bound (exclusive).
var ratingTiers = []struct {
	below int
	tier  Tier
}{
	{1200, Tier{Name: "Newbie", Color: "#808080"}},
	{1400, Tier{Name: "Pupil", Color: "#00a550"}},
	{1600, Tier{Name: "Specialist", Color: "#03a89e"}},
	{1900, Tier{Name: "Expert", Color: "#0000ff"}},
	{2100, Tier{Name: "Candidate Master", Color: "#aa00aa"}},
	{2400, Tier{Name: "Master", Color: "#ff8c00"}},
}

var grandmaster = Tier{Name: "Grandmaster", Color: "#ff0000"}

// RatingTier returns the rating band for a numeric CodeForces difficulty.
// Other platforms and non-numeric labels report ok=false.
func RatingTier(difficulty, platform string) (Tier, bool) {
	if !strings.Contains(strings.ToLower(platform), "codeforces") {
		return Tier{}, false
	}
	rating, err := strconv.Atoi(strings.TrimSpace(difficulty))
	if err != nil {
		return Tier{}, false
	}
	for _, rt := range ratingTiers {
		if rating < rt.below {
			return rt.tier, true
		}
	}
	return grandmaster, true
}
