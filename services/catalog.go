package services

import (
	"context"
	"errors"
	"strings"

	"scan2know/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Catalog is the read side of the ingredient store.
type Catalog interface {
	// All returns every ingredient in insertion order.
	All(ctx context.Context) ([]models.Ingredient, error)
	// Search returns ingredients whose name or any synonym contains q,
	// ignoring case, in insertion order.
	Search(ctx context.Context, q string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (*models.Ingredient, error)
}

type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) All(ctx context.Context) ([]models.Ingredient, error) {
	var out []models.Ingredient
	err := c.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (c *GormCatalog) Search(ctx context.Context, q string) ([]models.Ingredient, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(q)) + "%"
	var out []models.Ingredient
	err := c.db.WithContext(ctx).
		Where("ingredient_name ILIKE ? OR EXISTS (SELECT 1 FROM unnest(synonyms) AS s WHERE s ILIKE ?)", pattern, pattern).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (c *GormCatalog) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := c.db.WithContext(ctx).First(&ing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// ByIDs resolves ids and returns the ingredients in the order of ids;
// unknown ids are skipped.
func (c *GormCatalog) ByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return []models.Ingredient{}, nil
	}
	var rows []models.Ingredient
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Ingredient, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ing, ok := byID[uint(id)]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

// escapeLike makes user text literal inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
