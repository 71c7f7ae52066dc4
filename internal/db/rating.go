package db

import "time"

// Rating is one user's vote on one prompt. At most one row exists per
// (prompt, user); casting the same value again deletes the row and casting
// the opposite value overwrites it.
type Rating struct {
	PromptID  string    `gorm:"primaryKey;size:8"`
	UserID    string    `gorm:"primaryKey;size:64"`
	Value     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
