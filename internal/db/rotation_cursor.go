package db

import "time"

// RotationCursor marks the position of the last prompt served in a category.
// Zero means nothing has been served yet. It is only ever written inside the
// same transaction that read it; after deletions it may point at a position
// that no longer exists, which the rotation engine tolerates.
type RotationCursor struct {
	Category     Category  `gorm:"primaryKey;size:16"`
	LastPosition int       `gorm:"not null;default:0"`
	UpdatedAt    time.Time `gorm:"not null"`
}
