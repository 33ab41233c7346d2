package models

import "strings"

// Severity is the per-ingredient risk classification. The zero value is
// not valid; ParseSeverity maps unknown input to SeverityLow.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	default:
		return SeverityLow
	}
}

// SeverityCounts is the low/medium/high tally of a set of ingredients.
type SeverityCounts struct {
	Low    int `json:"low" gorm:"column:low;default:0"`
	Medium int `json:"medium" gorm:"column:medium;default:0"`
	High   int `json:"high" gorm:"column:high;default:0"`
}

func (c SeverityCounts) Total() int { return c.Low + c.Medium + c.High }

func (c SeverityCounts) IsZero() bool { return c.Total() == 0 }
