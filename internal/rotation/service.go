// Package rotation serves prompts in a fair per-category round-robin and
// owns prompt CRUD. Every store-touching operation runs as one transaction
// so concurrent callers never act on stale positions or cursors.
package rotation

import (
	stderrors "errors"
	"time"

	"emperror.dev/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"truth-or-dare/internal/db"
	"truth-or-dare/internal/errs"
	"truth-or-dare/internal/id"
	"truth-or-dare/internal/text"
)

type Service struct {
	db *gorm.DB
}

func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

// AddPrompt sanitizes and stores a new prompt at the end of its category's
// rotation order. The max-position lookup and the insert run in the same
// transaction so two concurrent adds cannot compute the same position.
func (s *Service) AddPrompt(category db.Category, rawText, creator string) (*db.Prompt, error) {
	if !category.Valid() {
		return nil, errs.Validationf("unknown category %q, expected truth or dare", string(category))
	}
	cleaned := text.Sanitize(rawText, db.MaxPromptLength)
	if cleaned == "" {
		return nil, errs.Validationf("prompt text is empty")
	}

	var prompt db.Prompt
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		err := tx.Raw(
			`SELECT COALESCE(MAX(position), 0) FROM prompts WHERE category = ?`,
			category,
		).Scan(&maxPosition).Error
		if err != nil {
			return errors.WrapIf(err, "failed to read max position")
		}

		for attempt := 0; attempt < id.MaxAttempts; attempt++ {
			promptID, err := id.New()
			if err != nil {
				return errors.WrapIf(err, "failed to generate prompt id")
			}
			prompt = db.Prompt{
				ID:        promptID,
				Category:  category,
				Position:  maxPosition + 1,
				Text:      cleaned,
				CreatedBy: creator,
			}
			err = tx.Create(&prompt).Error
			if err == nil {
				return nil
			}
			// The only unique constraint reachable here is the primary key:
			// the position is fresh within this serialized transaction.
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return errors.WrapIf(err, "failed to insert prompt")
		}
		return errs.ErrIDExhausted
	})
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

// EditPrompt replaces a prompt's text. It reports whether a row existed.
func (s *Service) EditPrompt(promptID, rawText string) (bool, error) {
	cleaned := text.Sanitize(rawText, db.MaxPromptLength)
	if cleaned == "" {
		return false, errs.Validationf("prompt text is empty")
	}
	result := s.db.Model(&db.Prompt{}).Where("id = ?", promptID).Updates(map[string]any{
		"text":       cleaned,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return false, errors.WrapIf(result.Error, "failed to update prompt")
	}
	return result.RowsAffected > 0, nil
}

// DeletePrompt hard-deletes a prompt and its ratings. Remaining positions are
// not renumbered and the rotation cursor is left alone; the next-prompt
// lookup tolerates the gap.
func (s *Service) DeletePrompt(promptID string) (bool, error) {
	changed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", promptID).Delete(&db.Rating{}).Error; err != nil {
			return errors.WrapIf(err, "failed to delete prompt ratings")
		}
		result := tx.Where("id = ?", promptID).Delete(&db.Prompt{})
		if result.Error != nil {
			return errors.WrapIf(result.Error, "failed to delete prompt")
		}
		changed = result.RowsAffected > 0
		return nil
	})
	return changed, err
}

// GetPrompt returns the prompt or nil when no row exists.
func (s *Service) GetPrompt(promptID string) (*db.Prompt, error) {
	var prompt db.Prompt
	err := s.db.First(&prompt, "id = ?", promptID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIf(err, "failed to load prompt")
	}
	return &prompt, nil
}

// ListPrompts returns prompts ordered by category then rotation position.
// A nil category returns everything.
func (s *Service) ListPrompts(category *db.Category) ([]db.Prompt, error) {
	query := s.db.Order("category asc, position asc")
	if category != nil {
		if !category.Valid() {
			return nil, errs.Validationf("unknown category %q, expected truth or dare", string(*category))
		}
		query = query.Where("category = ?", *category)
	}
	var prompts []db.Prompt
	if err := query.Find(&prompts).Error; err != nil {
		return nil, errors.WrapIf(err, "failed to list prompts")
	}
	return prompts, nil
}

// NextPrompt serves the next prompt in the category's rotation: the lowest
// position above the cursor, wrapping to the lowest position once the end is
// reached. The cursor read, the prompt lookup and the cursor write share one
// transaction, so two concurrent calls cannot serve the same prompt. When
// deletions have left the cursor pointing at a vanished position the lookup
// simply finds the next surviving one; the resulting skip is accepted
// behavior. Returns nil when the category holds no prompts.
func (s *Service) NextPrompt(category db.Category) (*db.Prompt, error) {
	if !category.Valid() {
		return nil, errs.Validationf("unknown category %q, expected truth or dare", string(category))
	}

	var served *db.Prompt
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cursor db.RotationCursor
		err := tx.First(&cursor, "category = ?", category).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			cursor = db.RotationCursor{Category: category}
		} else if err != nil {
			return errors.WrapIf(err, "failed to load rotation cursor")
		}

		var prompt db.Prompt
		err = tx.Where("category = ? AND position > ?", category, cursor.LastPosition).
			Order("position asc").First(&prompt).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// End of the list, or a stale cursor past the current max: wrap
			// to the first prompt.
			err = tx.Where("category = ?", category).
				Order("position asc").First(&prompt).Error
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
		}
		if err != nil {
			return errors.WrapIf(err, "failed to find next prompt")
		}

		cursor.LastPosition = prompt.Position
		cursor.UpdatedAt = time.Now()
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_position", "updated_at"}),
		}).Create(&cursor).Error
		if err != nil {
			return errors.WrapIf(err, "failed to advance rotation cursor")
		}
		served = &prompt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return served, nil
}
