package services

import (
	"context"
	"fmt"
	"strings"

	"scan2know/models"
)

// minFragmentLen is the shortest trimmed fragment worth looking up.
const minFragmentLen = 3

// TieBreak decides which catalog entry wins when a fragment hits several.
type TieBreak string

const (
	// TieBreakFirst picks the earliest inserted ingredient.
	TieBreakFirst TieBreak = "first"
	// TieBreakClosest picks the ingredient whose matching name or synonym is
	// shortest, i.e. the most specific hit; equal lengths fall back to
	// insertion order.
	TieBreakClosest TieBreak = "closest"
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", TieBreakFirst:
		return TieBreakFirst, nil
	case TieBreakClosest:
		return TieBreakClosest, nil
	default:
		return "", fmt.Errorf("unknown tie-break policy %q", s)
	}
}

// Matcher resolves OCR fragments against the ingredient catalog.
type Matcher struct {
	catalog  Catalog
	tieBreak TieBreak
}

func NewMatcher(catalog Catalog, tieBreak TieBreak) *Matcher {
	if tieBreak == "" {
		tieBreak = TieBreakFirst
	}
	return &Matcher{catalog: catalog, tieBreak: tieBreak}
}

// Match returns one snapshot per fragment that resolved, in fragment order.
// Unmatched and too-short fragments are dropped. The result is never nil.
func (m *Matcher) Match(ctx context.Context, fragments []string) ([]models.IngredientSnapshot, error) {
	catalog, err := m.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient catalog: %w", err)
	}
	return MatchFragments(catalog, fragments, m.tieBreak), nil
}

type indexedIngredient struct {
	ing   models.Ingredient
	terms []string // lower-cased name followed by synonyms
}

// MatchFragments is the pure matching step over an in-memory catalog given in
// insertion order.
func MatchFragments(catalog []models.Ingredient, fragments []string, tieBreak TieBreak) []models.IngredientSnapshot {
	index := make([]indexedIngredient, len(catalog))
	for i, ing := range catalog {
		terms := make([]string, 0, 1+len(ing.Synonyms))
		terms = append(terms, strings.ToLower(ing.Name))
		for _, s := range ing.Synonyms {
			terms = append(terms, strings.ToLower(s))
		}
		index[i] = indexedIngredient{ing: ing, terms: terms}
	}

	matched := make([]models.IngredientSnapshot, 0)
	for _, fragment := range fragments {
		clean := strings.ToLower(strings.TrimSpace(fragment))
		if len([]rune(clean)) < minFragmentLen {
			continue
		}
		if ing, ok := bestMatch(index, clean, tieBreak); ok {
			matched = append(matched, ing.Snapshot())
		}
	}
	return matched
}

func bestMatch(index []indexedIngredient, fragment string, tieBreak TieBreak) (models.Ingredient, bool) {
	bestPos, bestLen := -1, 0
	for pos, entry := range index {
		hitLen := -1
		for _, term := range entry.terms {
			if strings.Contains(term, fragment) && (hitLen < 0 || len(term) < hitLen) {
				hitLen = len(term)
			}
		}
		if hitLen < 0 {
			continue
		}
		if tieBreak != TieBreakClosest {
			return entry.ing, true
		}
		if bestPos < 0 || hitLen < bestLen {
			bestPos, bestLen = pos, hitLen
		}
	}
	if bestPos < 0 {
		return models.Ingredient{}, false
	}
	return index[bestPos].ing, true
}
