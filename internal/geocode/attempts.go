package geocode

const countrySuffix = ", " + RegionCountryName

// attempt pairs a query variant with an optional country restriction.
type attempt struct {
	name    string
	query   func(QueryParts) string
	country string
}

func rawQuery(p QueryParts) string             { return p.Raw }
func rawWithCountry(p QueryParts) string       { return p.Raw + countrySuffix }
func firstQuery(p QueryParts) string           { return p.First }
func firstWithCountry(p QueryParts) string     { return p.First + countrySuffix }
func normalizedQuery(p QueryParts) string      { return p.Normalized }
func normalizedFirstQuery(p QueryParts) string { return p.NormalizedFirst }

// attempts is evaluated in order; resolution stops at the first non-empty result.
var attempts = []attempt{
	{name: "raw", query: rawQuery},
	{name: "raw_restricted", query: rawQuery, country: RegionCountryCode},
	{name: "raw_suffixed", query: rawWithCountry},
	{name: "first", query: firstQuery},
	{name: "first_restricted", query: firstQuery, country: RegionCountryCode},
	{name: "first_suffixed", query: firstWithCountry},
	{name: "normalized", query: normalizedQuery},
	{name: "normalized_restricted", query: normalizedQuery, country: RegionCountryCode},
	{name: "normalized_first", query: normalizedFirstQuery},
	{name: "normalized_first_restricted", query: normalizedFirstQuery, country: RegionCountryCode},
}
