package models

import "github.com/lib/pq"

// A catalog entry; seeded externally and read-only for the scan pipeline.
type Ingredient struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"column:ingredient_name;uniqueIndex;not null" json:"ingredient_name"`
	Synonyms       pq.StringArray `gorm:"type:text[]" json:"synonyms"`
	Category       string         `json:"category"`
	Function       string         `json:"function"`
	HealthEffect   string         `gorm:"type:text" json:"health_effect"`
	Severity       Severity       `gorm:"size:8;not null;default:low" json:"severity"`
	Alternative    string         `json:"alternative"`
	OrgansAffected pq.StringArray `gorm:"type:text[]" json:"organs_affected"`
}

// Snapshot copies the fields a scan keeps, so later catalog edits do not
// rewrite history.
func (i Ingredient) Snapshot() IngredientSnapshot {
	organs := make([]string, len(i.OrgansAffected))
	copy(organs, i.OrgansAffected)
	sev := i.Severity
	if sev == "" {
		sev = SeverityLow
	}
	return IngredientSnapshot{
		Name:           i.Name,
		HealthEffect:   i.HealthEffect,
		Severity:       sev,
		OrgansAffected: organs,
		Alternative:    i.Alternative,
	}
}

// IngredientSnapshot is the value copy stored on a ScanEvent.
type IngredientSnapshot struct {
	Name           string   `json:"name"`
	HealthEffect   string   `json:"health_effect"`
	Severity       Severity `json:"severity"`
	OrgansAffected []string `json:"organs_affected"`
	Alternative    string   `json:"alternative"`
}
