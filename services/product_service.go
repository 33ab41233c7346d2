package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"scan2know/models"

	"gorm.io/gorm"
)

const (
	demoProductLimit      = 20
	recommendationLimit   = 5
	minCompare            = 2
	maxCompare            = 4
	defaultProductSummary = "No summary available for this product."
	defaultAlternative    = "Natural alternatives"
)

var (
	ErrTooFewToCompare  = errors.New("Please provide at least 2 products to compare")
	ErrTooManyToCompare = errors.New("Maximum 4 products can be compared at once")
	ErrNotEnoughFound   = errors.New("Could not find enough products to compare")
)

// additiveCategories are the ingredient categories counted as additives.
var additiveCategories = map[string]bool{
	"Preservative":         true,
	"Emulsifier":           true,
	"Food Coloring":        true,
	"Artificial Sweetener": true,
}

type ProductService struct {
	db      *gorm.DB
	catalog *GormCatalog
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db, catalog: NewGormCatalog(db)}
}

type ProductIngredient struct {
	Name           string          `json:"name"`
	HealthEffect   string          `json:"health_effect"`
	Severity       models.Severity `json:"severity"`
	OrgansAffected []string        `json:"organs_affected"`
	Alternative    string          `json:"alternative"`
	Category       string          `json:"category"`
	Function       string          `json:"function"`
}

type ProductDetail struct {
	ProductName    string                `json:"productName"`
	Summary        string                `json:"summary"`
	Ingredients    []ProductIngredient   `json:"ingredients"`
	SeverityCounts models.SeverityCounts `json:"severityCounts"`
	OrgansAffected []string              `json:"organsAffected"`
	Category       string                `json:"category"`
}

type ComparedIngredient struct {
	Name     string          `json:"name"`
	Severity models.Severity `json:"severity"`
	Category string          `json:"category"`
}

type ProductComparison struct {
	Name           string                `json:"name"`
	Category       string                `json:"category"`
	Summary        string                `json:"summary"`
	SeverityCounts models.SeverityCounts `json:"severityCounts"`
	HealthScore    int                   `json:"healthScore"`
	SafetyRating   int                   `json:"safetyRating"`
	AdditiveCount  int                   `json:"additiveCount"`
	OrgansAffected []string              `json:"organsAffected"`
	Ingredients    []ComparedIngredient  `json:"ingredients"`
	Recommendation string                `json:"recommendation"`
}

type Comparison struct {
	Products       []ProductComparison `json:"products"`
	Healthiest     string              `json:"healthiest"`
	ComparisonDate time.Time           `json:"comparison_date"`
}

type Recommendation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// findByName returns the first product whose name contains name, ignoring
// case.
func (s *ProductService) findByName(ctx context.Context, name string) (*models.Product, []models.Ingredient, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+escapeLike(strings.TrimSpace(name))+"%").
		Order("id ASC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	ings, err := s.catalog.ByIDs(ctx, p.IngredientIDs)
	if err != nil {
		return nil, nil, err
	}
	return &p, ings, nil
}

func (s *ProductService) Search(ctx context.Context, name string) (*ProductDetail, error) {
	p, ings, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return productDetail(p, ings), nil
}

func productDetail(p *models.Product, ings []models.Ingredient) *ProductDetail {
	out := &ProductDetail{
		ProductName:    p.Name,
		Summary:        p.Summary,
		Ingredients:    make([]ProductIngredient, 0, len(ings)),
		SeverityCounts: p.SeverityCounts,
		OrgansAffected: nonNil(p.OrgansAffected),
		Category:       p.Category,
	}
	if strings.TrimSpace(out.Summary) == "" {
		out.Summary = defaultProductSummary
	}
	snaps := make([]models.IngredientSnapshot, 0, len(ings))
	for _, ing := range ings {
		snap := ing.Snapshot()
		snaps = append(snaps, snap)
		alt := snap.Alternative
		if alt == "" {
			alt = defaultAlternative
		}
		out.Ingredients = append(out.Ingredients, ProductIngredient{
			Name:           snap.Name,
			HealthEffect:   snap.HealthEffect,
			Severity:       snap.Severity,
			OrgansAffected: snap.OrgansAffected,
			Alternative:    alt,
			Category:       ing.Category,
			Function:       ing.Function,
		})
	}
	if out.SeverityCounts.IsZero() {
		out.SeverityCounts = Tally(snaps)
	}
	return out
}

func (s *ProductService) Demo(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.db.WithContext(ctx).Order("id ASC").Limit(demoProductLimit).Find(&out).Error
	return out, err
}

// Compare looks up each name and ranks the products found. Names that match
// nothing are skipped.
func (s *ProductService) Compare(ctx context.Context, names []string) (*Comparison, error) {
	if len(names) < minCompare {
		return nil, ErrTooFewToCompare
	}
	if len(names) > maxCompare {
		return nil, ErrTooManyToCompare
	}

	var products []ProductComparison
	for _, name := range names {
		p, ings, err := s.findByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, CompareProduct(p, ings))
	}
	if len(products) < minCompare {
		return nil, ErrNotEnoughFound
	}
	return &Comparison{
		Products:       products,
		Healthiest:     Healthiest(products),
		ComparisonDate: time.Now(),
	}, nil
}

// CompareProduct scores one product. Lower HealthScore is better,
// SafetyRating runs 0 to 100 with higher better.
func CompareProduct(p *models.Product, ings []models.Ingredient) ProductComparison {
	c := p.SeverityCounts
	out := ProductComparison{
		Name:           p.Name,
		Category:       p.Category,
		Summary:        p.Summary,
		SeverityCounts: c,
		HealthScore:    HealthScore(c),
		SafetyRating:   SafetyRating(c),
		OrgansAffected: nonNil(p.OrgansAffected),
		Ingredients:    make([]ComparedIngredient, 0, len(ings)),
	}
	for _, ing := range ings {
		if additiveCategories[ing.Category] {
			out.AdditiveCount++
		}
		out.Ingredients = append(out.Ingredients, ComparedIngredient{
			Name:     ing.Name,
			Severity: ing.Severity,
			Category: ing.Category,
		})
	}
	out.Recommendation = RecommendationFor(out.HealthScore)
	return out
}

func HealthScore(c models.SeverityCounts) int {
	return c.Low*1 + c.Medium*3 + c.High*5
}

func SafetyRating(c models.SeverityCounts) int {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return int(math.Round((float64(c.Low) + 0.5*float64(c.Medium)) / float64(total) * 100))
}

func RecommendationFor(healthScore int) string {
	switch {
	case healthScore < 10:
		return "Excellent"
	case healthScore < 20:
		return "Good"
	case healthScore < 30:
		return "Moderate"
	default:
		return "Avoid"
	}
}

// Healthiest returns the name with the lowest health score; the earliest
// entry wins ties.
func Healthiest(products []ProductComparison) string {
	if len(products) == 0 {
		return ""
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.HealthScore < best.HealthScore {
			best = p
		}
	}
	return best.Name
}

// Recommendations lists products with no high and at most two medium
// severity ingredients.
func (s *ProductService) Recommendations(ctx context.Context) ([]Recommendation, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("severity_high = ? AND severity_medium <= ?", 0, 2).
		Order("id ASC").
		Limit(recommendationLimit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	out := make([]Recommendation, 0, len(products))
	for _, p := range products {
		out = append(out, Recommendation{
			Name:   p.Name,
			Reason: "Based on your search history, this " + p.Category + " product is a healthier choice",
		})
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
