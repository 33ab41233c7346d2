package services

import (
	"testing"

	"scan2know/models"

	"github.com/stretchr/testify/assert"
)

func withSeverities(sevs ...models.Severity) []models.IngredientSnapshot {
	out := make([]models.IngredientSnapshot, len(sevs))
	for i, s := range sevs {
		out[i] = models.IngredientSnapshot{Name: string(s), Severity: s}
	}
	return out
}

func TestTally(t *testing.T) {
	ings := withSeverities(models.SeverityHigh, models.SeverityLow, models.SeverityMedium, models.SeverityHigh, "")
	c := Tally(ings)

	assert.Equal(t, models.SeverityCounts{Low: 2, Medium: 1, High: 2}, c)
	assert.Equal(t, len(ings), c.Low+c.Medium+c.High)
	assert.Equal(t, models.SeverityCounts{}, Tally(nil))
}

func TestOverallRating(t *testing.T) {
	testCases := []struct {
		name     string
		counts   models.SeverityCounts
		expected models.Severity
	}{
		{"nothing", models.SeverityCounts{}, models.SeverityLow},
		{"two high", models.SeverityCounts{High: 2}, models.SeverityLow},
		{"three high", models.SeverityCounts{High: 3}, models.SeverityHigh},
		{"three medium", models.SeverityCounts{Medium: 3}, models.SeverityLow},
		{"four medium", models.SeverityCounts{Medium: 4}, models.SeverityMedium},
		{"high beats medium", models.SeverityCounts{Medium: 9, High: 3}, models.SeverityHigh},
		{"one high", models.SeverityCounts{High: 1}, models.SeverityLow},
		{"many low", models.SeverityCounts{Low: 20}, models.SeverityLow},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, OverallRating(tc.counts))
		})
	}
}

func TestOrgansAffected(t *testing.T) {
	ings := []models.IngredientSnapshot{
		{OrgansAffected: []string{"liver", "brain"}},
		{},
		{OrgansAffected: []string{"brain", "heart"}},
	}
	assert.Equal(t, []string{"liver", "brain", "heart"}, OrgansAffected(ings))
	assert.Equal(t, []string{}, OrgansAffected(nil))
}
