package db

import (
	"time"

	"gorm.io/datatypes"
)

// ModerationEvent is an audit record of a terminal submission transition.
// Detail carries action-specific payload such as the rejection reason or the
// ID of the prompt created on approval.
type ModerationEvent struct {
	ID           uint           `gorm:"primaryKey"`
	SubmissionID string         `gorm:"size:8;index;not null"`
	Action       string         `gorm:"size:16;not null"`
	ActorID      string         `gorm:"size:64;not null"`
	Detail       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"not null"`
}
