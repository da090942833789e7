// Package recipes implements the recipe listing and creation queries,
// including the offset pagination used by the index, explore and user pages.
package recipes

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/models"
)

// ErrNotFound is returned when a recipe id does not exist.
var ErrNotFound = errors.New("recipe not found")

// Page is one slice of an ordered recipe listing. Numbers are 1-based.
type Page struct {
	Items   []models.Recipe
	Number  int
	Size    int
	Total   int64
	HasNext bool
	HasPrev bool
}

// NextNumber returns the following page number (only meaningful if HasNext).
func (p *Page) NextNumber() int { return p.Number + 1 }

// PrevNumber returns the preceding page number (only meaningful if HasPrev).
func (p *Page) PrevNumber() int { return p.Number - 1 }

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new recipe owned by ownerID. Field-level validation is the
// form layer's job; only the owner reference is required here.
func (r *Repository) Create(ctx context.Context, title, description, ingredients string, ownerID uint) (*models.Recipe, error) {
	if ownerID == 0 {
		return nil, errors.New("recipe requires an owning user")
	}
	recipe := models.Recipe{
		Title:       title,
		Description: description,
		Ingredients: ingredients,
		UserID:      ownerID,
	}
	if err := r.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByID fetches one recipe.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListPage returns one page of all recipes, ordered by title descending.
func (r *Repository) ListPage(ctx context.Context, page, pageSize int) (*Page, error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&models.Recipe{}), page, pageSize)
}

// ListByOwner returns one page of a single user's recipes, same ordering.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uint, page, pageSize int) (*Page, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("user_id = ?", ownerID)
	return r.paginate(ctx, q, page, pageSize)
}

func (r *Repository) paginate(ctx context.Context, q *gorm.DB, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	offset := (page - 1) * pageSize
	var items []models.Recipe
	if err := q.Order("title desc").Limit(pageSize).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return &Page{
		Items:   items,
		Number:  page,
		Size:    pageSize,
		Total:   total,
		HasNext: int64(offset+len(items)) < total,
		HasPrev: page > 1 && total > 0,
	}, nil
}

// RatingsFor returns every rating referencing the recipe, oldest first.
// Rating pages are short; no pagination here.
func (r *Repository) RatingsFor(ctx context.Context, recipeID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("id asc").Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}
