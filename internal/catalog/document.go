package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed catalog.schema.json
var documentSchema []byte

//go:embed catalog_cl.json
var defaultDocument []byte

// CommonRules are catalog-wide flags applied to every location.
type CommonRules struct {
	ExcludeFruitsAsLemons bool `json:"exclude_fruits_as_lemons"`
}

// Document is the catalog source: one FoodCatalog per location key.
type Document struct {
	Cities      map[string]FoodCatalog `json:"cities"`
	CommonRules CommonRules            `json:"common_rules"`
}

// LoadFile reads and validates a catalog document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Parse(data)
}

// LoadDefault parses the catalog bundled with the binary.
func LoadDefault() (*Document, error) {
	return Parse(defaultDocument)
}

// Parse validates data against the catalog schema and decodes it.
func Parse(data []byte) (*Document, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return &doc, nil
}
