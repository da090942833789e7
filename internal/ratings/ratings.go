// Package ratings implements rating creation and the collection helpers.
package ratings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new rating. Author and recipe references are both
// required; ratings are immutable afterwards.
func (r *Repository) Create(ctx context.Context, body string, authorID, recipeID uint) (*models.Rating, error) {
	if authorID == 0 || recipeID == 0 {
		return nil, errors.New("rating requires author and recipe references")
	}
	rating := models.Rating{Body: body, UserID: authorID, RecipeID: recipeID}
	if err := r.db.WithContext(ctx).Create(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListAll returns every rating, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Rating, error) {
	var all []models.Rating
	if err := r.db.WithContext(ctx).Order("id asc").Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

// AuthorUsername resolves the rating's author through an explicit lookup
// instead of a preloaded back-reference.
func (r *Repository) AuthorUsername(ctx context.Context, rating *models.Rating) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("username").First(&user, rating.UserID).Error; err != nil {
		return "", err
	}
	return user.Username, nil
}
