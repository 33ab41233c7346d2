package services

import "scan2know/models"

// Rating thresholds: more than highThreshold high-severity ingredients rate
// the whole scan high, otherwise more than mediumThreshold medium ones rate
// it medium.
const (
	highThreshold   = 2
	mediumThreshold = 3
)

// Tally counts ingredients per severity. Unknown severities count as low so
// the total always equals len(ingredients).
func Tally(ingredients []models.IngredientSnapshot) models.SeverityCounts {
	var c models.SeverityCounts
	for _, ing := range ingredients {
		switch ing.Severity {
		case models.SeverityHigh:
			c.High++
		case models.SeverityMedium:
			c.Medium++
		default:
			c.Low++
		}
	}
	return c
}

func OverallRating(c models.SeverityCounts) models.Severity {
	switch {
	case c.High > highThreshold:
		return models.SeverityHigh
	case c.Medium > mediumThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// OrgansAffected is the de-duplicated union of every ingredient's organs, in
// first-seen order.
func OrgansAffected(ingredients []models.IngredientSnapshot) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, ing := range ingredients {
		for _, organ := range ing.OrgansAffected {
			if seen[organ] {
				continue
			}
			seen[organ] = true
			out = append(out, organ)
		}
	}
	return out
}
