package geocode

import (
	"context"
	"errors"

	"github.com/i474232898/place-weather/internal/common"
)

type fetchCall struct {
	Query   string
	Country string
}

type fetchResult struct {
	candidates []Candidate
	err        error
}

// scriptedFetcher answers the n-th call with results[n]; calls past the script
// get ErrNoResults.
type scriptedFetcher struct {
	results []fetchResult
	calls   []fetchCall
}

func (f *scriptedFetcher) Name() string { return "scripted" }

func (f *scriptedFetcher) Fetch(ctx context.Context, query, country string) ([]Candidate, error) {
	f.calls = append(f.calls, fetchCall{Query: query, Country: country})
	n := len(f.calls) - 1
	if n >= len(f.results) {
		return nil, ErrNoResults
	}
	r := f.results[n]
	return r.candidates, r.err
}

func empty() fetchResult { return fetchResult{err: ErrNoResults} }

func failing() fetchResult {
	return fetchResult{err: common.NewProviderError("scripted", 502, errors.New("bad gateway"))}
}

func found(c ...Candidate) fetchResult { return fetchResult{candidates: c} }

func pop(v float64) *float64 { return &v }
