package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/zapvendas/internal/entity"
)

//go:embed default_products.yaml
var defaultProducts []byte

type catalogFile struct {
	Products []entity.Product `yaml:"products"`
}

// Load reads the product list from path (YAML or JSON). An empty path loads
// the bundled catalog.
func Load(path string) (*entity.Catalog, error) {
	raw := defaultProducts
	source := "embedded"
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		raw = data
		source = path
	}

	products, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}

	log.Info().Str("source", source).Int("products", len(products)).Msg("📦 Catalog loaded")
	return entity.NewCatalog(products), nil
}

// Parse accepts either a bare list of products or a document with a
// top-level "products" key. JSON input is valid YAML, so both formats share
// this path.
func Parse(raw []byte) ([]entity.Product, error) {
	var products []entity.Product
	if err := yaml.Unmarshal(raw, &products); err != nil {
		var doc catalogFile
		if docErr := yaml.Unmarshal(raw, &doc); docErr != nil {
			return nil, docErr
		}
		products = doc.Products
	}

	if len(products) == 0 {
		return nil, errors.New("catalog has no products")
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("product #%d: id is required", i+1)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %s: name is required", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %s: price must not be negative", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product %s: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}
