package models

import "time"

// Recipe is a published entry. Entries are immutable once created; there is
// no edit or delete flow, so only CreatedAt matters in practice.
type Recipe struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Ingredients string `gorm:"type:text"`
	UserID      uint   `gorm:"not null;index"` // owning user, required
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
