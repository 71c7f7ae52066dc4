// Package rating keeps the one-vote-per-user-per-prompt ledger. Casting the
// same value twice retracts the vote, casting the opposite value flips it,
// and the whole read-then-write runs in one transaction.
package rating

import (
	stderrors "errors"
	"time"

	"emperror.dev/errors"
	"github.com/karlseguin/ccache/v2"
	"gorm.io/gorm"

	"truth-or-dare/internal/db"
	"truth-or-dare/internal/errs"
)

// Outcome tells the presentation layer which of the three things CastVote
// did, so it can phrase feedback accordingly.
type Outcome string

const (
	VoteAdded   Outcome = "added"
	VoteRemoved Outcome = "removed"
	VoteUpdated Outcome = "updated"
)

// Counts aggregates a prompt's votes for display.
type Counts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

type Service struct {
	db     *gorm.DB
	counts *ccache.Cache
	ttl    time.Duration
}

// NewService builds the ledger. ttl bounds how long an aggregated count may
// be served from cache; the cache is advisory only and is dropped
// synchronously whenever a vote touches its prompt.
func NewService(conn *gorm.DB, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		db:     conn,
		counts: ccache.New(ccache.Configure().MaxSize(10000)),
		ttl:    ttl,
	}
}

// CastVote records, flips or retracts a user's vote on a prompt. Store
// errors always propagate; a swallowed failure here would desynchronize the
// displayed vote state from reality.
func (s *Service) CastVote(promptID, userID string, value int) (Outcome, error) {
	if value != 1 && value != -1 {
		return "", errs.Validationf("vote value must be +1 or -1, got %d", value)
	}
	if userID == "" {
		return "", errs.Validationf("user id is required")
	}

	var outcome Outcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var promptCount int64
		err := tx.Model(&db.Prompt{}).Where("id = ?", promptID).Count(&promptCount).Error
		if err != nil {
			return errors.WrapIf(err, "failed to check prompt existence")
		}
		if promptCount == 0 {
			return errs.ErrNotFound
		}

		var existing db.Rating
		err = tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).First(&existing).Error
		switch {
		case stderrors.Is(err, gorm.ErrRecordNotFound):
			outcome = VoteAdded
			rating := db.Rating{PromptID: promptID, UserID: userID, Value: value}
			return errors.WrapIf(tx.Create(&rating).Error, "failed to insert vote")
		case err != nil:
			return errors.WrapIf(err, "failed to load existing vote")
		case existing.Value == value:
			outcome = VoteRemoved
			err = tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).
				Delete(&db.Rating{}).Error
			return errors.WrapIf(err, "failed to retract vote")
		default:
			outcome = VoteUpdated
			err = tx.Model(&db.Rating{}).
				Where("prompt_id = ? AND user_id = ?", promptID, userID).
				Updates(map[string]any{"value": value, "updated_at": time.Now()}).Error
			return errors.WrapIf(err, "failed to flip vote")
		}
	})
	if err != nil {
		return "", err
	}
	// The cached aggregate is stale the moment the vote lands.
	s.counts.Delete(promptID)
	return outcome, nil
}

// GetCounts aggregates a prompt's votes, serving from the advisory cache
// when a fresh entry exists.
func (s *Service) GetCounts(promptID string) (Counts, error) {
	if item := s.counts.Get(promptID); item != nil && !item.Expired() {
		return item.Value().(Counts), nil
	}

	var counts Counts
	err := s.db.Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN value > 0 THEN 1 ELSE 0 END), 0) AS upvotes,
			COALESCE(SUM(CASE WHEN value < 0 THEN 1 ELSE 0 END), 0) AS downvotes
		FROM ratings WHERE prompt_id = ?`,
		promptID,
	).Scan(&counts).Error
	if err != nil {
		return Counts{}, errors.WrapIf(err, "failed to aggregate vote counts")
	}
	s.counts.Set(promptID, counts, s.ttl)
	return counts, nil
}

// GetUserVote returns the user's current vote on a prompt and whether one
// exists.
func (s *Service) GetUserVote(promptID, userID string) (int, bool, error) {
	var rating db.Rating
	err := s.db.Where("prompt_id = ? AND user_id = ?", promptID, userID).First(&rating).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.WrapIf(err, "failed to load vote")
	}
	return rating.Value, true, nil
}
