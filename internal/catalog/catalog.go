// Package catalog describes the marketplace shops and the products they sell.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/diamond-courier/internal/geo"
)

// ErrNotFound is returned for unknown or inactive ids. ErrInvalidCatalog wraps
// every catalog validation failure.
var (
	ErrNotFound       = errors.New("catalog entry not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Product is something a shop sells, priced in diamonds.
type Product struct {
	ID          string `json:"id"`
	ShopID      string `json:"shopId"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
}

// Shop is a player-run store at a fixed location.
type Shop struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Owner       string         `json:"owner,omitempty"`
	Description string         `json:"description,omitempty"`
	Coords      geo.Coordinate `json:"coords"`
	Products    []Product      `json:"products"`
}

// Catalog is the full list of shops in display order.
type Catalog struct {
	Shops []Shop
}

type fileCatalog struct {
	Shops []fileShop `yaml:"shops"`
}

type fileShop struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Owner       string        `yaml:"owner"`
	Description string        `yaml:"description"`
	Coords      string        `yaml:"coords"`
	Products    []fileProduct `yaml:"products"`
}

type fileProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       int    `yaml:"price"`
	Description string `yaml:"description"`
}

// LoadFile reads and validates a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Shop and product ids must be unique across
// the whole catalog, prices non-negative and coordinates well formed.
func Parse(data []byte) (*Catalog, error) {
	var raw fileCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}

	cat := &Catalog{Shops: make([]Shop, 0, len(raw.Shops))}
	shopIDs := make(map[string]bool)
	productIDs := make(map[string]bool)

	for _, fs := range raw.Shops {
		id := strings.TrimSpace(fs.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: shop %q has no id", ErrInvalidCatalog, fs.Name)
		}
		if shopIDs[id] {
			return nil, fmt.Errorf("%w: duplicate shop id %q", ErrInvalidCatalog, id)
		}
		shopIDs[id] = true

		coords, ok := geo.Parse(fs.Coords)
		if !ok {
			return nil, fmt.Errorf("%w: shop %q has malformed coords %q", ErrInvalidCatalog, id, fs.Coords)
		}

		shop := Shop{
			ID:          id,
			Name:        strings.TrimSpace(fs.Name),
			Owner:       strings.TrimSpace(fs.Owner),
			Description: strings.TrimSpace(fs.Description),
			Coords:      coords,
			Products:    make([]Product, 0, len(fs.Products)),
		}
		if shop.Name == "" {
			return nil, fmt.Errorf("%w: shop %q has no name", ErrInvalidCatalog, id)
		}

		for _, fp := range fs.Products {
			pid := strings.TrimSpace(fp.ID)
			if pid == "" {
				return nil, fmt.Errorf("%w: product %q in shop %q has no id", ErrInvalidCatalog, fp.Name, id)
			}
			if productIDs[pid] {
				return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, pid)
			}
			productIDs[pid] = true

			if fp.Price < 0 {
				return nil, fmt.Errorf("%w: product %q has negative price", ErrInvalidCatalog, pid)
			}

			shop.Products = append(shop.Products, Product{
				ID:          pid,
				ShopID:      id,
				Name:        strings.TrimSpace(fp.Name),
				Price:       fp.Price,
				Description: strings.TrimSpace(fp.Description),
			})
		}

		cat.Shops = append(cat.Shops, shop)
	}

	return cat, nil
}
