package models

import (
	"time"

	"github.com/lib/pq"
)

// Demo/catalog product, created by seeding. IngredientIDs keeps the label
// order; the ingredients themselves are resolved at read time.
type Product struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"index;not null" json:"name"`
	Category       string         `json:"category"`
	IngredientIDs  pq.Int64Array  `gorm:"type:bigint[]" json:"-"`
	Summary        string         `gorm:"type:text" json:"summary"`
	SeverityCounts SeverityCounts `gorm:"embedded;embeddedPrefix:severity_" json:"severityCounts"`
	OrgansAffected pq.StringArray `gorm:"type:text[]" json:"organsAffected"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}
