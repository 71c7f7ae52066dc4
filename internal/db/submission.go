package db

import "time"

// SubmissionStatus is one of pending, approved or rejected. The only legal
// transitions are pending→approved and pending→rejected.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

// MaxReasonLength bounds the optional free-text rejection reason.
const MaxReasonLength = 1000

// Submission is a user-proposed prompt awaiting moderation. Once a
// submission leaves pending it is never mutated again; resolve handlers
// enforce this with a conditional update.
type Submission struct {
	ID            string           `gorm:"primaryKey;size:8"`
	Category      Category         `gorm:"size:16;not null"`
	Text          string           `gorm:"size:4000;not null"`
	SubmitterID   string           `gorm:"size:64;not null"`
	OriginGuildID string           `gorm:"size:64"`
	Status        SubmissionStatus `gorm:"size:16;not null;default:pending;index"`

	// Pointer to the rendered moderation message, set once after creation
	// and used for in-place edits by the transport layer.
	ModerationChannelID string `gorm:"size:64"`
	ModerationMessageID string `gorm:"size:64"`

	CreatedAt  time.Time `gorm:"not null"`
	ResolvedAt *time.Time
	ResolverID string `gorm:"size:64"`
}
