// Package submission owns the pending→approved/rejected lifecycle for
// user-proposed prompts. Terminal transitions are conditional updates, so a
// submission that already left pending can never be mutated again no matter
// how many moderators click at once.
package submission

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"truth-or-dare/internal/db"
	"truth-or-dare/internal/errs"
	"truth-or-dare/internal/id"
	"truth-or-dare/internal/text"
)

// Notifier tells the submitter about a terminal outcome. Implementations
// live in the transport layer; failures are logged and never fail the
// resolve itself.
type Notifier interface {
	SubmissionResolved(sub *db.Submission, promptID, reason string) error
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	log      *logrus.Entry
}

func NewService(conn *gorm.DB, notifier Notifier, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		db:       conn,
		notifier: notifier,
		log:      log.WithField("component", "submission"),
	}
}

// Create stores a new pending submission. The ID-generation retry is bounded;
// exhausting it means the ID space is in real trouble and the error is
// propagated rather than retried forever.
func (s *Service) Create(category db.Category, rawText, submitterID, originGuildID string) (*db.Submission, error) {
	if !category.Valid() {
		return nil, errs.Validationf("unknown category %q, expected truth or dare", string(category))
	}
	cleaned := text.Sanitize(rawText, db.MaxPromptLength)
	if cleaned == "" {
		return nil, errs.Validationf("submission text is empty")
	}
	if submitterID == "" {
		return nil, errs.Validationf("submitter id is required")
	}

	var sub db.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < id.MaxAttempts; attempt++ {
			subID, err := id.New()
			if err != nil {
				return errors.WrapIf(err, "failed to generate submission id")
			}
			sub = db.Submission{
				ID:            subID,
				Category:      category,
				Text:          cleaned,
				SubmitterID:   submitterID,
				OriginGuildID: originGuildID,
				Status:        db.SubmissionPending,
			}
			err = tx.Create(&sub).Error
			if err == nil {
				return nil
			}
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return errors.WrapIf(err, "failed to insert submission")
		}
		return errs.ErrIDExhausted
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RecordModerationMessage associates the rendered moderation message with a
// submission, once. Later calls report no change so the transport can detect
// accidental re-posting.
func (s *Service) RecordModerationMessage(submissionID, channelID, messageID string) (bool, error) {
	if channelID == "" || messageID == "" {
		return false, errs.Validationf("channel and message ids are required")
	}
	result := s.db.Model(&db.Submission{}).
		Where("id = ? AND moderation_message_id = ''", submissionID).
		Updates(map[string]any{
			"moderation_channel_id": channelID,
			"moderation_message_id": messageID,
		})
	if result.Error != nil {
		return false, errors.WrapIf(result.Error, "failed to record moderation message")
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	exists, err := s.exists(submissionID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, errs.ErrNotFound
	}
	return false, nil
}

// Resolve moves a pending submission to a terminal state with attribution.
// The update is conditional on status still being pending, so double-clicks
// and racing moderators surface errs.ErrConflict instead of a second
// transition, and an unknown ID surfaces errs.ErrNotFound. Prompt creation on
// approval is the caller's job and must happen before this call, so a failed
// creation leaves the submission pending and retryable. promptID and reason
// only feed the audit event and the outbound notification.
func (s *Service) Resolve(submissionID string, outcome db.SubmissionStatus, resolverID, promptID, reason string) error {
	if !outcome.Terminal() {
		return errs.Validationf("outcome must be approved or rejected, got %q", string(outcome))
	}
	if resolverID == "" {
		return errs.Validationf("resolver id is required")
	}
	reason = text.Sanitize(reason, db.MaxReasonLength)

	var sub db.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&db.Submission{}).
			Where("id = ? AND status = ?", submissionID, db.SubmissionPending).
			Updates(map[string]any{
				"status":      outcome,
				"resolved_at": now,
				"resolver_id": resolverID,
			})
		if result.Error != nil {
			return errors.WrapIf(result.Error, "failed to resolve submission")
		}
		if result.RowsAffected == 0 {
			err := tx.First(&sub, "id = ?", submissionID).Error
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			if err != nil {
				return errors.WrapIf(err, "failed to load submission")
			}
			return errs.ErrConflict
		}

		if err := tx.First(&sub, "id = ?", submissionID).Error; err != nil {
			return errors.WrapIf(err, "failed to reload submission")
		}
		detail, err := json.Marshal(map[string]string{
			"prompt_id": promptID,
			"reason":    reason,
		})
		if err != nil {
			return errors.WrapIf(err, "failed to encode moderation detail")
		}
		event := db.ModerationEvent{
			SubmissionID: submissionID,
			Action:       string(outcome),
			ActorID:      resolverID,
			Detail:       datatypes.JSON(detail),
		}
		if err := tx.Create(&event).Error; err != nil {
			return errors.WrapIf(err, "failed to record moderation event")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.SubmissionResolved(&sub, promptID, reason); err != nil {
			s.log.WithError(err).WithField("submission", submissionID).
				Warn("submitter notification failed")
		}
	}
	return nil
}

// Get returns the submission or nil when no row exists.
func (s *Service) Get(submissionID string) (*db.Submission, error) {
	var sub db.Submission
	err := s.db.First(&sub, "id = ?", submissionID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIf(err, "failed to load submission")
	}
	return &sub, nil
}

// ListPending returns pending submissions oldest-first.
func (s *Service) ListPending() ([]db.Submission, error) {
	var subs []db.Submission
	err := s.db.Where("status = ?", db.SubmissionPending).
		Order("created_at asc").Find(&subs).Error
	if err != nil {
		return nil, errors.WrapIf(err, "failed to list pending submissions")
	}
	return subs, nil
}

func (s *Service) exists(submissionID string) (bool, error) {
	var count int64
	err := s.db.Model(&db.Submission{}).Where("id = ?", submissionID).Count(&count).Error
	if err != nil {
		return false, errors.WrapIf(err, "failed to check submission existence")
	}
	return count > 0, nil
}
