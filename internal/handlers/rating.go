package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkoch/rezeptblog/internal/auth"
	"github.com/mkoch/rezeptblog/internal/models"
	"github.com/mkoch/rezeptblog/internal/ratings"
	"github.com/mkoch/rezeptblog/internal/recipes"
)

type RatingHandler struct {
	Recipes *recipes.Repository
	Ratings *ratings.Repository
}

func NewRatingHandler(recipeRepo *recipes.Repository, ratingRepo *ratings.Repository) *RatingHandler {
	return &RatingHandler{Recipes: recipeRepo, Ratings: ratingRepo}
}

// ratingView pairs a rating with its resolved author name for the template.
type ratingView struct {
	Rating models.Rating
	Author string
}

// Bewertung shows and accepts ratings for one recipe at /bewertung/{id}.
func (h *RatingHandler) Bewertung(w http.ResponseWriter, r *http.Request) {
	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	recipe, err := h.Recipes.FindByID(r.Context(), uint(id64))
	if err != nil {
		if errors.Is(err, recipes.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "could not load recipe", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		body := strings.TrimSpace(r.FormValue("bewertung"))
		uid, _ := auth.UserIDFromContext(r.Context())
		if body == "" {
			h.render(w, r, recipe, "rating text is required")
			return
		}
		if _, err := h.Ratings.Create(r.Context(), body, uid, recipe.ID); err != nil {
			http.Error(w, "could not create rating", http.StatusInternalServerError)
			return
		}
		SetFlash(w, "Bewertung durchgeführt "+recipe.Title+"!")
		http.Redirect(w, r, "/bewertung/"+strconv.FormatUint(uint64(recipe.ID), 10), statusSeeOther)
	case http.MethodGet:
		h.render(w, r, recipe, "")
	default:
		methodNotAllowed(w)
	}
}

func (h *RatingHandler) render(w http.ResponseWriter, r *http.Request, recipe *models.Recipe, errMsg string) {
	list, err := h.Recipes.RatingsFor(r.Context(), recipe.ID)
	if err != nil {
		http.Error(w, "could not list ratings", http.StatusInternalServerError)
		return
	}
	views := make([]ratingView, 0, len(list))
	for _, rt := range list {
		author, aerr := h.Ratings.AuthorUsername(r.Context(), &rt)
		if aerr != nil {
			author = "?"
		}
		views = append(views, ratingView{Rating: rt, Author: author})
	}
	data := map[string]any{
		"Title":   "Bewertung",
		"Recipe":  recipe,
		"Ratings": views,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	renderTemplate(w, r, "bewertung", data)
}
