package db

import (
	"emperror.dev/errors"
	"gorm.io/gorm"
)

// legacyPositionIndex is the index name the old schema used to keep position
// unique across every prompt regardless of category.
const legacyPositionIndex = "idx_prompts_position"

// MigrateLegacyPositions rewrites the legacy numbering, where position was
// globally unique, into per-category numbering starting at 1. Relative order
// within each category is preserved (old position, tie-broken by creation
// time), and each category's rotation cursor is remapped to the highest
// surviving old position at or below the value it held. The whole rewrite
// runs in one transaction; on failure the legacy schema is left untouched.
// Once the legacy index is gone this is a no-op.
func MigrateLegacyPositions(conn *gorm.DB) error {
	var count int64
	err := conn.Raw(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`,
		legacyPositionIndex,
	).Scan(&count).Error
	if err != nil {
		return errors.WrapIf(err, "failed to inspect schema for legacy position index")
	}
	if count == 0 {
		return nil
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DROP INDEX ` + legacyPositionIndex).Error; err != nil {
			return errors.WrapIf(err, "failed to drop legacy position index")
		}

		var prompts []Prompt
		if err := tx.Order("position asc, created_at asc").Find(&prompts).Error; err != nil {
			return errors.WrapIf(err, "failed to load prompts for renumbering")
		}

		// Old positions are globally unique, so within a category they are
		// strictly increasing and every old value is >= its new rank.
		// Renumbering in ascending order therefore never collides with a
		// not-yet-renumbered row.
		next := make(map[Category]int)
		renumbered := make(map[Category]map[int]int)
		for _, p := range prompts {
			next[p.Category]++
			if renumbered[p.Category] == nil {
				renumbered[p.Category] = make(map[int]int)
			}
			renumbered[p.Category][p.Position] = next[p.Category]
		}
		for _, p := range prompts {
			newPos := renumbered[p.Category][p.Position]
			if newPos == p.Position {
				continue
			}
			err := tx.Model(&Prompt{}).Where("id = ?", p.ID).
				UpdateColumn("position", newPos).Error
			if err != nil {
				return errors.WrapIf(err, "failed to renumber prompt")
			}
		}

		var cursors []RotationCursor
		if err := tx.Find(&cursors).Error; err != nil {
			return errors.WrapIf(err, "failed to load rotation cursors")
		}
		for _, cursor := range cursors {
			bestOld := 0
			for old := range renumbered[cursor.Category] {
				if old <= cursor.LastPosition && old > bestOld {
					bestOld = old
				}
			}
			newLast := 0
			if bestOld > 0 {
				newLast = renumbered[cursor.Category][bestOld]
			}
			if newLast == cursor.LastPosition {
				continue
			}
			err := tx.Model(&RotationCursor{}).Where("category = ?", cursor.Category).
				UpdateColumn("last_position", newLast).Error
			if err != nil {
				return errors.WrapIf(err, "failed to remap rotation cursor")
			}
		}

		err := tx.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_prompts_category_position ON prompts(category, position)`,
		).Error
		return errors.WrapIf(err, "failed to create per-category position index")
	})
}
