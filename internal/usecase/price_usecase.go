package usecase

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"bhangari/internal/domain/entity"
	"bhangari/pkg/errors"
)

//go:embed data/price_catalog.yaml
var defaultCatalog []byte

type priceCatalog struct {
	Categories []entity.PriceCategory  `yaml:"categories"`
	Materials  []entity.MaterialOption `yaml:"materials"`
	Items      []entity.PriceItem      `yaml:"items"`
}

type PriceUseCase struct {
	catalog priceCatalog
}

func NewPriceUseCase() (*PriceUseCase, error) {
	return NewPriceUseCaseFromYAML(defaultCatalog)
}

func NewPriceUseCaseFromYAML(data []byte) (*PriceUseCase, error) {
	var catalog priceCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse price catalog: %w", err)
	}

	known := make(map[string]bool, len(catalog.Categories))
	for _, c := range catalog.Categories {
		known[c.ID] = true
	}
	for _, item := range catalog.Items {
		if !known[item.Category] {
			return nil, fmt.Errorf("price item %q has unknown category %q", item.Name, item.Category)
		}
	}

	return &PriceUseCase{catalog: catalog}, nil
}

func (uc *PriceUseCase) ListCategories() []entity.PriceCategory {
	return append([]entity.PriceCategory(nil), uc.catalog.Categories...)
}

// ListItems returns the price list of one category, or all of it when
// category is empty or "all".
func (uc *PriceUseCase) ListItems(category string) ([]entity.PriceItem, error) {
	category = strings.TrimSpace(category)
	if category == "" || category == "all" {
		return append([]entity.PriceItem(nil), uc.catalog.Items...), nil
	}

	found := false
	for _, c := range uc.catalog.Categories {
		if c.ID == category {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFound("Price category", nil)
	}

	items := []entity.PriceItem{}
	for _, item := range uc.catalog.Items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items, nil
}

func (uc *PriceUseCase) Materials() []entity.MaterialOption {
	return append([]entity.MaterialOption(nil), uc.catalog.Materials...)
}

func (uc *PriceUseCase) FindMaterial(name string) (entity.MaterialOption, bool) {
	name = strings.TrimSpace(name)
	for _, m := range uc.catalog.Materials {
		if m.Name == name {
			return m, true
		}
	}
	return entity.MaterialOption{}, false
}
