package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultDestinationsPath is where the dataset is looked up relative to the
// working directory.
const DefaultDestinationsPath = "public/data/destinations.json"

// Destination is a curated travel destination. Entries loaded from a dataset
// file keep their original JSON and are served back unchanged, extra fields
// included.
type Destination struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Description string `json:"description"`
	Image       string `json:"image"`

	raw json.RawMessage
}

type plainDestination Destination

// UnmarshalJSON reads the known fields leniently: a field that is missing or
// not a string stays empty instead of failing the whole dataset. Entries that
// are not objects are kept verbatim and never match a state.
func (d *Destination) UnmarshalJSON(b []byte) error {
	*d = Destination{raw: append(json.RawMessage(nil), b...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}
	d.ID = stringField(fields, "id")
	d.Name = stringField(fields, "name")
	d.State = stringField(fields, "state")
	d.Description = stringField(fields, "description")
	d.Image = stringField(fields, "image")
	return nil
}

// MarshalJSON returns the dataset's own JSON when there is one.
func (d Destination) MarshalJSON() ([]byte, error) {
	if d.raw != nil {
		return d.raw, nil
	}
	return json.Marshal(plainDestination(d))
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var v string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

// fallbackDestinations is served when the dataset file is missing or unreadable.
var fallbackDestinations = []Destination{
	{ID: "spiti-valley", Name: "Spiti Valley", State: "Himachal Pradesh", Description: "Cold desert mountain valley"},
	{ID: "tirthan-valley", Name: "Tirthan Valley", State: "Himachal Pradesh", Description: "Serene riverside valley"},
	{ID: "majuli", Name: "Majuli Island", State: "Assam", Description: "Largest river island"},
	{ID: "khonoma", Name: "Khonoma", State: "Nagaland", Description: "India's first green village"},
	{ID: "valley-of-flowers", Name: "Valley of Flowers", State: "Uttarakhand", Description: "UNESCO alpine meadows"},
	{ID: "dholavira", Name: "Dholavira", State: "Gujarat", Description: "Indus Valley site"},
}

// DestinationStore is a read-only, concurrency-safe set of destinations.
// It is built once and never mutated.
type DestinationStore struct {
	items    []Destination
	fallback bool
}

// NewDestinationStore wraps items directly.
func NewDestinationStore(items []Destination) *DestinationStore {
	cp := make([]Destination, len(items))
	copy(cp, items)
	return &DestinationStore{items: cp}
}

// LoadDestinations reads a JSON array of destinations from path. When the file
// is absent or is not a JSON array the fallback set is returned together with
// the reason, so callers can log it; the store is usable either way.
func LoadDestinations(path string) (*DestinationStore, error) {
	if path == "" {
		path = DefaultDestinationsPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return newFallbackStore(), fmt.Errorf("read destinations %s: %w", path, err)
	}

	var items []Destination
	if err := json.Unmarshal(raw, &items); err != nil {
		return newFallbackStore(), fmt.Errorf("decode destinations %s: %w", path, err)
	}
	if items == nil {
		return newFallbackStore(), fmt.Errorf("decode destinations %s: %w", path, errNotAnArray)
	}

	return &DestinationStore{items: items}, nil
}

var errNotAnArray = errors.New("expected a JSON array")

func newFallbackStore() *DestinationStore {
	s := NewDestinationStore(fallbackDestinations)
	s.fallback = true
	return s
}

// Fallback reports whether the built-in set is being served.
func (s *DestinationStore) Fallback() bool {
	return s.fallback
}

// Len returns the number of destinations.
func (s *DestinationStore) Len() int {
	return len(s.items)
}

// ByState returns destinations whose state equals the trimmed input, ignoring
// case. The result is never nil.
func (s *DestinationStore) ByState(state string) []Destination {
	state = strings.TrimSpace(state)

	result := make([]Destination, 0)
	for _, d := range s.items {
		if strings.EqualFold(d.State, state) {
			result = append(result, d)
		}
	}
	return result
}
