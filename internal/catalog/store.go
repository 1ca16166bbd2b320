package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeLocation maps free-text location input to a catalog key:
// lower-cased, with whitespace runs collapsed to hyphens.
func NormalizeLocation(location string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(location)), "-")
}

// Store is the process-wide, read-only base catalog. It is loaded once and
// never mutated, so it is safe to share between concurrent requests.
type Store struct {
	doc *Document
}

// NewStore wraps a parsed document. The store takes ownership of doc.
func NewStore(doc *Document) *Store {
	return &Store{doc: doc}
}

// Rules returns the catalog-wide rules.
func (s *Store) Rules() CommonRules {
	return s.doc.CommonRules
}

// Locations returns the sorted location keys.
func (s *Store) Locations() []string {
	keys := make([]string, 0, len(s.doc.Cities))
	for k := range s.doc.Cities {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Base returns an independent copy of the base catalog for key.
func (s *Store) Base(key string) (FoodCatalog, error) {
	c, ok := s.doc.Cities[key]
	if !ok {
		return FoodCatalog{}, fmt.Errorf("%w: %s", ErrUnknownLocation, key)
	}
	return c.Clone(), nil
}

// Build resolves location and returns the filtered working catalog for one
// request.
func (s *Store) Build(location string, f Filters) (*FoodCatalog, error) {
	base, err := s.Base(NormalizeLocation(location))
	if err != nil {
		return nil, err
	}
	f.ExcludeCitrus = f.ExcludeCitrus || s.doc.CommonRules.ExcludeFruitsAsLemons
	working := Filter(base, f)
	return &working, nil
}
