package db

import (
	"strings"
	"time"

	"truth-or-dare/internal/errs"
)

// Category scopes rotation, similarity and cursors. Only two values exist.
type Category string

const (
	CategoryTruth Category = "truth"
	CategoryDare  Category = "dare"
)

// Categories lists every known category in a stable order.
var Categories = []Category{CategoryTruth, CategoryDare}

func (c Category) Valid() bool {
	return c == CategoryTruth || c == CategoryDare
}

// ParseCategory normalizes raw user input into a known category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", errs.Validationf("unknown category %q, expected truth or dare", s)
	}
	return c, nil
}

// MaxPromptLength bounds prompt and submission text after sanitization.
const MaxPromptLength = 4000

// CreatorImport is the attribution sentinel for bulk-imported prompts.
const CreatorImport = "import"

// Prompt is a moderation-approved truth/dare item. Position is unique per
// category and defines rotation order; deletions leave gaps, insertions
// always append at max(position)+1.
type Prompt struct {
	ID        string    `gorm:"primaryKey;size:8"`
	Category  Category  `gorm:"size:16;not null;uniqueIndex:idx_prompts_category_position"`
	Position  int       `gorm:"not null;uniqueIndex:idx_prompts_category_position"`
	Text      string    `gorm:"size:4000;not null"`
	CreatedBy string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
