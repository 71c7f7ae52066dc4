// Package similarity flags near-duplicate prompt text using normalized
// Levenshtein similarity. Matching is a full scan over the category, which is
// O(n*L^2) per call; fine for the hundreds-to-low-thousands of prompts this
// corpus holds, and the first thing to revisit if it ever grows past that.
package similarity

import (
	"sort"
	"strings"

	"emperror.dev/errors"
	"github.com/agnivade/levenshtein"
	"gorm.io/gorm"

	"truth-or-dare/internal/db"
	"truth-or-dare/internal/errs"
)

// DefaultThreshold is the minimum score treated as a likely duplicate.
const DefaultThreshold = 0.7

// DefaultLimit caps how many matches a scan returns.
const DefaultLimit = 5

// Match pairs a stored prompt with its similarity to the candidate text.
type Match struct {
	Prompt db.Prompt
	Score  float64
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score returns 1 - editDistance/max(len) over normalized input. Identical
// strings score exactly 1.0 and an empty side scores 0.0; the result is
// always within [0, 1] and symmetric in its arguments.
func Score(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}

type Service struct {
	db *gorm.DB
}

func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

// FindSimilar ranks stored prompts of the same category by similarity to the
// candidate text, keeping scores at or above threshold and truncating to
// limit. Read-only: one query, no writes.
func (s *Service) FindSimilar(candidate string, category db.Category, threshold float64, limit int) ([]Match, error) {
	if !category.Valid() {
		return nil, errs.Validationf("unknown category %q, expected truth or dare", string(category))
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var prompts []db.Prompt
	err := s.db.Where("category = ?", category).Order("position asc").Find(&prompts).Error
	if err != nil {
		return nil, errors.WrapIf(err, "failed to load prompts for similarity scan")
	}

	matches := make([]Match, 0, limit)
	for _, prompt := range prompts {
		score := Score(candidate, prompt.Text)
		if score >= threshold {
			matches = append(matches, Match{Prompt: prompt, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
