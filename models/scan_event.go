package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ScanEvent is one persisted scan. Rows are inserted once and never updated.
type ScanEvent struct {
	ID                 uint                                    `gorm:"primaryKey" json:"id"`
	UserID             uint                                    `gorm:"index;not null" json:"userId"`
	ProductName        string                                  `gorm:"not null" json:"productName"`
	ScannedIngredients pq.StringArray                          `gorm:"type:text[]" json:"scannedIngredients"`
	Ingredients        datatypes.JSONSlice[IngredientSnapshot] `gorm:"type:jsonb" json:"ingredients"`
	Summary            string                                  `gorm:"type:text" json:"summary"`
	SeverityCounts     SeverityCounts                          `gorm:"embedded;embeddedPrefix:severity_" json:"severityCounts"`
	OverallRating      Severity                                `gorm:"size:8;not null" json:"overallRating"`
	OrgansAffected     pq.StringArray                          `gorm:"type:text[]" json:"organsAffected"`
	ImageURL           string                                  `json:"imageUrl,omitempty"`
	Timestamp          time.Time                               `gorm:"index;autoCreateTime" json:"timestamp"`
}

func (ScanEvent) TableName() string {
	return "scan_history"
}
