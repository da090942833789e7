package models

import "time"

// Rating is free-text feedback on a recipe. The legacy schema allowed the
// user/recipe references to be NULL even though the application always set
// both; the columns are non-null here so the constraint lives in the schema.
type Rating struct {
	ID        uint   `gorm:"primaryKey"`
	Body      string `gorm:"type:text"`
	UserID    uint   `gorm:"not null;index"`
	RecipeID  uint   `gorm:"not null;index"`
	CreatedAt time.Time
}
