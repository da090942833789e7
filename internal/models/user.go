package models

import "time"

// User is a registered account. Passwords are stored only as bcrypt hashes.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	AboutMe      string `gorm:"size:280"`
	LastSeen     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
