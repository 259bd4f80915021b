package geocode

import (
	"math"
	"strings"
)

// Scoring weights. Bonuses are additive: an exact region match also satisfies
// the containment rule and earns both, likewise for the name rules.
const (
	countryBonus       = 200
	regionExactBonus   = 200
	regionPartialBonus = 120
	nameExactBonus     = 120
	namePartialBonus   = 60
	maxPopulationBonus = 20
)

// Rank picks the best candidate for the query's region hint and first segment.
// It returns false only when candidates is empty.
func Rank(candidates []Candidate, hint, firstSegment string) (ResolvedLocation, bool) {
	if len(candidates) == 0 {
		return ResolvedLocation{}, false
	}

	hint = strings.ToLower(hint)
	pool := candidates
	if hint != "" {
		var matched []Candidate
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.Admin1), hint) {
				matched = append(matched, c)
			}
		}
		if len(matched) > 0 {
			pool = matched
		}
	}

	f := strings.ToLower(firstSegment)
	best := pool[0]
	bestScore := Score(best, hint, f)
	for _, c := range pool[1:] {
		// Strictly greater keeps the earliest provider position on ties.
		if s := Score(c, hint, f); s > bestScore {
			best, bestScore = c, s
		}
	}

	return ResolvedLocation{
		Latitude:  best.Latitude,
		Longitude: best.Longitude,
		Label:     Label(best),
	}, true
}

// Score computes a candidate's ranking score. hint and firstSegment must be
// lower-cased.
func Score(c Candidate, hint, firstSegment string) float64 {
	var score float64
	admin1 := strings.ToLower(c.Admin1)
	name := strings.ToLower(c.Name)

	if c.CountryCode == RegionCountryCode || c.Country == RegionCountryName {
		score += countryBonus
	}
	if hint != "" && admin1 == hint {
		score += regionExactBonus
	}
	if hint != "" && strings.Contains(admin1, hint) {
		score += regionPartialBonus
	}
	if name == firstSegment {
		score += nameExactBonus
	}
	if strings.Contains(name, firstSegment) {
		score += namePartialBonus
	}
	if c.Population != nil {
		score += math.Min(maxPopulationBonus, math.Log10(*c.Population+1))
	}
	return score
}

// Label renders "name[, admin1][, country]".
func Label(c Candidate) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Admin1 != "" {
		b.WriteString(", ")
		b.WriteString(c.Admin1)
	}
	if c.Country != "" {
		b.WriteString(", ")
		b.WriteString(c.Country)
	}
	return b.String()
}
