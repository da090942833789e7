package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkoch/rezeptblog/internal/accounts"
	"github.com/mkoch/rezeptblog/internal/auth"
	"github.com/mkoch/rezeptblog/internal/recipes"
)

type ProfileHandler struct {
	Accounts *accounts.Service
	Recipes  *recipes.Repository
	PageSize int
}

func NewProfileHandler(accts *accounts.Service, repo *recipes.Repository, pageSize int) *ProfileHandler {
	return &ProfileHandler{Accounts: accts, Recipes: repo, PageSize: pageSize}
}

// UserPage renders /user/{username}: the profile plus that user's recipes,
// paginated with the same contract as the index.
func (h *ProfileHandler) UserPage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.Accounts.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "could not load user", http.StatusInternalServerError)
		return
	}
	page, err := h.Recipes.ListByOwner(r.Context(), user.ID, pageParam(r), h.PageSize)
	if err != nil {
		http.Error(w, "could not list recipes", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "user", map[string]any{
		"Title":    user.Username,
		"User":     user,
		"Page":     page,
		"BasePath": r.URL.Path,
	})
}

// EditProfile lets the authenticated user change username and about text.
func (h *ProfileHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	user, err := h.Accounts.FindByID(r.Context(), uid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "edit_profile", map[string]any{
			"Title": "Edit Profile",
			"User":  user,
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		aboutMe := r.FormValue("about_me")
		if err := h.Accounts.UpdateProfile(r.Context(), user, username, aboutMe); err != nil {
			msg := "could not save changes"
			if errors.Is(err, accounts.ErrUsernameTaken) {
				msg = "Please use a different username."
			}
			renderTemplate(w, r, "edit_profile", map[string]any{
				"Title": "Edit Profile",
				"User":  user,
				"Error": msg,
			})
			return
		}
		SetFlash(w, "Your changes have been saved.")
		http.Redirect(w, r, "/edit_profile", statusSeeOther)
	default:
		methodNotAllowed(w)
	}
}
