// Package seed loads the ingredient catalog and demo products.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"scan2know/models"

	"github.com/apex/log"
	"github.com/lib/pq"
	"github.com/pelletier/go-toml/v2"
	"gorm.io/gorm"
)

//go:embed catalog.toml
var catalogTOML []byte

type IngredientSeed struct {
	Name           string   `toml:"name"`
	Synonyms       []string `toml:"synonyms"`
	Category       string   `toml:"category"`
	Function       string   `toml:"function"`
	HealthEffect   string   `toml:"health_effect"`
	Severity       string   `toml:"severity"`
	Alternative    string   `toml:"alternative"`
	OrgansAffected []string `toml:"organs_affected"`
}

type CountsSeed struct {
	Low    int `toml:"low"`
	Medium int `toml:"medium"`
	High   int `toml:"high"`
}

type ProductSeed struct {
	Name           string     `toml:"name"`
	Category       string     `toml:"category"`
	Ingredients    []string   `toml:"ingredients"`
	Summary        string     `toml:"summary"`
	SeverityCounts CountsSeed `toml:"severity_counts"`
	OrgansAffected []string   `toml:"organs_affected"`
	ImageURL       string     `toml:"image_url"`
}

type Catalog struct {
	Ingredients []IngredientSeed `toml:"ingredient"`
	Products    []ProductSeed    `toml:"product"`
}

type Result struct {
	Ingredients int
	Products    int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(catalogTOML)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks names are present and unique, severities are known, and
// every product ingredient exists in the catalog.
func (c *Catalog) Validate() error {
	names := make(map[string]bool, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			return fmt.Errorf("ingredient %d: missing name", i)
		}
		if names[name] {
			return fmt.Errorf("ingredient %q: duplicate name", name)
		}
		names[name] = true
		switch models.Severity(ing.Severity) {
		case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		default:
			return fmt.Errorf("ingredient %q: unknown severity %q", name, ing.Severity)
		}
	}
	for _, p := range c.Products {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("product with missing name")
		}
		for _, n := range p.Ingredients {
			if !names[n] {
				return fmt.Errorf("product %q: unknown ingredient %q", p.Name, n)
			}
		}
	}
	return nil
}

func (c *Catalog) ingredientModels() []models.Ingredient {
	out := make([]models.Ingredient, 0, len(c.Ingredients))
	for _, s := range c.Ingredients {
		out = append(out, models.Ingredient{
			Name:           strings.TrimSpace(s.Name),
			Synonyms:       pq.StringArray(nonNil(s.Synonyms)),
			Category:       s.Category,
			Function:       s.Function,
			HealthEffect:   s.HealthEffect,
			Severity:       models.ParseSeverity(s.Severity),
			Alternative:    s.Alternative,
			OrgansAffected: pq.StringArray(nonNil(s.OrgansAffected)),
		})
	}
	return out
}

// Run replaces all ingredients and products with the catalog's, in one
// transaction. Scan history keeps its own snapshots and is left alone.
func Run(ctx context.Context, db *gorm.DB, c *Catalog) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredients: %w", err)
		}

		ings := c.ingredientModels()
		if len(ings) > 0 {
			if err := tx.Create(&ings).Error; err != nil {
				return fmt.Errorf("failed to insert ingredients: %w", err)
			}
		}
		ids := make(map[string]int64, len(ings))
		for _, ing := range ings {
			ids[ing.Name] = int64(ing.ID)
		}

		products := make([]models.Product, 0, len(c.Products))
		for _, p := range c.Products {
			ingredientIDs := make(pq.Int64Array, 0, len(p.Ingredients))
			for _, n := range p.Ingredients {
				ingredientIDs = append(ingredientIDs, ids[n])
			}
			products = append(products, models.Product{
				Name:          p.Name,
				Category:      p.Category,
				IngredientIDs: ingredientIDs,
				Summary:       p.Summary,
				SeverityCounts: models.SeverityCounts{
					Low:    p.SeverityCounts.Low,
					Medium: p.SeverityCounts.Medium,
					High:   p.SeverityCounts.High,
				},
				OrgansAffected: pq.StringArray(nonNil(p.OrgansAffected)),
				ImageURL:       p.ImageURL,
			})
		}
		if len(products) > 0 {
			if err := tx.Create(&products).Error; err != nil {
				return fmt.Errorf("failed to insert products: %w", err)
			}
		}

		res = Result{Ingredients: len(ings), Products: len(products)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	log.WithFields(log.Fields{
		"ingredients": res.Ingredients,
		"products":    res.Products,
	}).Info("database seeded")
	return res, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
