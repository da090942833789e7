package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mkoch/rezeptblog/internal/accounts"
	"github.com/mkoch/rezeptblog/internal/auth"
)

type AuthHandler struct {
	Accounts *accounts.Service
}

func NewAuthHandler(accts *accounts.Service) *AuthHandler {
	return &AuthHandler{Accounts: accts}
}

// Login handles GET (form) and POST (session creation). Authenticated users
// are sent straight to the index; a safe "next" target is honored after login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "login", map[string]any{
			"Title": "Sign In",
			"Next":  r.URL.Query().Get("next"),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		user, err := h.Accounts.Authenticate(r.Context(), username, password)
		if err != nil {
			// One generic message for unknown usernames and wrong passwords.
			SetFlash(w, "Invalid username or password")
			http.Redirect(w, r, "/login", statusSeeOther)
			return
		}
		auth.CreateSession(w, user.ID)
		next := auth.SafeNext(r.FormValue("next"), "/index")
		http.Redirect(w, r, next, statusSeeOther)
	default:
		methodNotAllowed(w)
	}
}

// Logout terminates the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register handles account creation. Duplicate username/email render the form
// again with an inline error; nothing is written in that case.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "register", map[string]any{"Title": "Register"})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if username == "" || email == "" || password == "" {
			renderTemplate(w, r, "register", map[string]any{
				"Title": "Register",
				"Error": "username, email and password are required",
			})
			return
		}
		_, err := h.Accounts.Register(r.Context(), username, email, password)
		switch {
		case errors.Is(err, accounts.ErrUsernameTaken):
			renderTemplate(w, r, "register", map[string]any{
				"Title": "Register",
				"Error": "Please use a different username.",
			})
			return
		case errors.Is(err, accounts.ErrEmailTaken):
			renderTemplate(w, r, "register", map[string]any{
				"Title": "Register",
				"Error": "Please use a different email address.",
			})
			return
		case err != nil:
			http.Error(w, "could not create user", http.StatusInternalServerError)
			return
		}
		SetFlash(w, "Congratulations, you are now a registered user!")
		http.Redirect(w, r, "/login", statusSeeOther)
	default:
		methodNotAllowed(w)
	}
}
