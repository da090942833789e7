package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/accounts"
	"github.com/mkoch/rezeptblog/internal/httpx"
	"github.com/mkoch/rezeptblog/internal/models"
)

// APIHandler serves the read-only JSON user resources.
type APIHandler struct {
	DB *gorm.DB
}

func NewAPIHandler(db *gorm.DB) *APIHandler {
	return &APIHandler{DB: db}
}

// userLinks is the fixed link set of a user resource.
type userLinks struct {
	Self   string `json:"self"`
	Avatar string `json:"avatar"`
}

// userResource is the versioned wire shape of a user. Email is only present
// when the caller explicitly asked for it; anonymous API consumers never get
// it. Counts are computed at serialization time.
type userResource struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	RecipeCount int64     `json:"recipe_count"`
	RatingCount int64     `json:"rating_count"`
	Links       userLinks `json:"links"`
}

type userCollection struct {
	Items []userResource `json:"items"`
}

// serializeUser builds the wire shape for one user.
func (h *APIHandler) serializeUser(u *models.User, includeEmail bool) userResource {
	var recipeCount, ratingCount int64
	h.DB.Model(&models.Recipe{}).Where("user_id = ?", u.ID).Count(&recipeCount)
	h.DB.Model(&models.Rating{}).Where("user_id = ?", u.ID).Count(&ratingCount)
	res := userResource{
		ID:          u.ID,
		Username:    u.Username,
		RecipeCount: recipeCount,
		RatingCount: ratingCount,
		Links: userLinks{
			Self:   "/api/users/" + strconv.FormatUint(uint64(u.ID), 10),
			Avatar: accounts.Avatar(u, 128),
		},
	}
	if includeEmail {
		res.Email = u.Email
	}
	return res
}

// GetUser serves GET /api/users/{id}.
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.NotFound(w)
		return
	}
	var user models.User
	if err := h.DB.WithContext(r.Context()).First(&user, uint(id64)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.NotFound(w)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, h.serializeUser(&user, false))
}

// ListUsers serves GET /api/users.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.WithContext(r.Context()).Order("id asc").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	items := make([]userResource, 0, len(users))
	for i := range users {
		items = append(items, h.serializeUser(&users[i], false))
	}
	httpx.JSON(w, http.StatusOK, userCollection{Items: items})
}
