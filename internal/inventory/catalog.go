package inventory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kdcar/kdcar-backend/internal/carms"
	"github.com/kdcar/kdcar-backend/pkg/logger"
)

//go:embed data/cars.json
var bundledCatalog []byte

// Catalog is the local fallback inventory. It is built once and never
// modified, so concurrent reads need no locking.
type Catalog struct {
	cars       []Car
	bySlug     map[string]int
	duplicates []string
}

// LoadCatalog reads the catalog at path, or the bundled catalog when path is
// empty, and normalizes it.
func LoadCatalog(ctx context.Context, path string, now time.Time, logg *logger.Logger) (*Catalog, error) {
	data := bundledCatalog
	if p := strings.TrimSpace(path); p != "" {
		fileData, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read fallback catalog: %w", err)
		}
		data = fileData
	}

	raws, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	return NewCatalog(ctx, raws, now, logg), nil
}

// ParseCatalog decodes a JSON array of raw vehicle records.
func ParseCatalog(data []byte) ([]carms.RawCar, error) {
	var raws []carms.RawCar
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode fallback catalog: %w", err)
	}
	return raws, nil
}

// NewCatalog normalizes raws without an inventory base URL, so image paths
// stay local. Records with a slug seen earlier are dropped.
func NewCatalog(ctx context.Context, raws []carms.RawCar, now time.Time, logg *logger.Logger) *Catalog {
	if logg == nil {
		logg = logger.Nop()
	}
	resolver := NewImageResolver("")
	catalog := &Catalog{
		cars:   make([]Car, 0, len(raws)),
		bySlug: make(map[string]int, len(raws)),
	}
	for _, raw := range raws {
		car := Normalize(raw, resolver, now)
		if _, exists := catalog.bySlug[car.Slug]; exists {
			catalog.duplicates = append(catalog.duplicates, car.Slug)
			logg.Warn(logg.WithField(ctx, "slug", car.Slug), "inventory.catalog_duplicate_slug")
			continue
		}
		catalog.bySlug[car.Slug] = len(catalog.cars)
		catalog.cars = append(catalog.cars, car)
	}
	return catalog
}

// Cars returns a deep copy of every record in catalog order.
func (c *Catalog) Cars() []Car {
	if c == nil {
		return []Car{}
	}
	out := make([]Car, len(c.cars))
	for i, car := range c.cars {
		out[i] = car.Clone()
	}
	return out
}

// Find looks up a record by slug.
func (c *Catalog) Find(slug string) (*Car, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.bySlug[slug]
	if !ok {
		return nil, false
	}
	car := c.cars[idx].Clone()
	return &car, true
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cars)
}

// Duplicates lists slugs that were dropped because an earlier record used them.
func (c *Catalog) Duplicates() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.duplicates...)
}
