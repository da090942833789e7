package handlers

import (
	"net/http"
	"strings"

	"github.com/mkoch/rezeptblog/internal/accounts"
	"github.com/mkoch/rezeptblog/internal/auth"
	"github.com/mkoch/rezeptblog/internal/recipes"
)

type RecipeHandler struct {
	Accounts *accounts.Service
	Recipes  *recipes.Repository
	PageSize int
}

func NewRecipeHandler(accts *accounts.Service, repo *recipes.Repository, pageSize int) *RecipeHandler {
	return &RecipeHandler{Accounts: accts, Recipes: repo, PageSize: pageSize}
}

// Index serves the home page: a paginated recipe listing plus the posting
// form. POST creates a recipe and redirects back (PRG).
func (h *RecipeHandler) Index(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	switch r.Method {
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		title := strings.TrimSpace(r.FormValue("title"))
		description := r.FormValue("description")
		ingredients := r.FormValue("ingredients")
		if title == "" {
			h.renderIndex(w, r, uid, "index", "Home", map[string]any{"Error": "title is required"})
			return
		}
		if _, err := h.Recipes.Create(r.Context(), title, description, ingredients, uid); err != nil {
			http.Error(w, "could not create recipe", http.StatusInternalServerError)
			return
		}
		SetFlash(w, "Dein Rezept ist nun online!")
		http.Redirect(w, r, "/index", statusSeeOther)
	case http.MethodGet:
		h.renderIndex(w, r, uid, "index", "Home", nil)
	default:
		methodNotAllowed(w)
	}
}

// Explore is the read-only listing of all recipes.
func (h *RecipeHandler) Explore(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	h.renderIndex(w, r, uid, "index", "Explore", map[string]any{"ReadOnly": true})
}

func (h *RecipeHandler) renderIndex(w http.ResponseWriter, r *http.Request, uid uint, tpl, title string, extra map[string]any) {
	page, err := h.Recipes.ListPage(r.Context(), pageParam(r), h.PageSize)
	if err != nil {
		http.Error(w, "could not list recipes", http.StatusInternalServerError)
		return
	}
	data := map[string]any{
		"Title":    title,
		"Page":     page,
		"BasePath": r.URL.Path,
	}
	if user, uerr := h.Accounts.FindByID(r.Context(), uid); uerr == nil {
		data["User"] = user
	}
	for k, v := range extra {
		data[k] = v
	}
	renderTemplate(w, r, tpl, data)
}
