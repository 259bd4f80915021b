package geocode

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/place-weather/internal/common"
)

// regions lists the Indian states and union territories recognised inside a
// query. Order matters: the first one contained in the query wins.
var regions = []string{
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh", "goa", "gujarat", "haryana",
	"himachal pradesh", "jharkhand", "karnataka", "kerala", "madhya pradesh", "maharashtra", "manipur",
	"meghalaya", "mizoram", "nagaland", "odisha", "punjab", "rajasthan", "sikkim", "tamil nadu", "telangana",
	"tripura", "uttar pradesh", "uttarakhand", "west bengal",
	"andaman and nicobar islands", "chandigarh", "dadra and nagar haveli and daman and diu", "delhi",
	"jammu and kashmir", "ladakh", "lakshadweep", "puducherry",
}

// Regions returns the known region names, lower-cased, in detection order.
func Regions() []string {
	out := make([]string, len(regions))
	copy(out, regions)
	return out
}

// RegionTitles returns the known region names with every word capitalised.
func RegionTitles() []string {
	caser := cases.Title(language.English)
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = caser.String(r)
	}
	return out
}

// QueryParts holds what the resolver derives from the raw query before any
// provider call.
type QueryParts struct {
	Raw             string
	First           string // text before the first comma, untrimmed
	Hint            string // lower-cased region hint, empty when none
	Normalized      string
	NormalizedFirst string
}

// SplitQuery derives the first segment, region hint and normalized variants of q.
func SplitQuery(q string) QueryParts {
	segments := strings.Split(q, ",")
	first := segments[0]
	return QueryParts{
		Raw:             q,
		First:           first,
		Hint:            DetectRegionHint(q),
		Normalized:      NormalizeText(q),
		NormalizedFirst: NormalizeText(first),
	}
}

// DetectRegionHint returns the explicit second comma-separated segment when
// present, otherwise the first known region contained in q, lower-cased.
func DetectRegionHint(q string) string {
	segments := strings.Split(q, ",")
	if len(segments) > 1 {
		if explicit := strings.TrimSpace(segments[1]); explicit != "" {
			return strings.ToLower(explicit)
		}
	}
	if region, ok := common.FirstContained(strings.ToLower(q), regions...); ok {
		return region
	}
	return ""
}
