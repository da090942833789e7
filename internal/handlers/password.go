package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mkoch/rezeptblog/internal/accounts"
	"github.com/mkoch/rezeptblog/internal/auth"
	"github.com/mkoch/rezeptblog/internal/mailer"
)

type PasswordHandler struct {
	Accounts *accounts.Service
	Mailer   mailer.Mailer
	BaseURL  string
	ResetTTL time.Duration
}

func NewPasswordHandler(accts *accounts.Service, m mailer.Mailer, baseURL string, ttl time.Duration) *PasswordHandler {
	if ttl <= 0 {
		ttl = accounts.DefaultResetTTL
	}
	return &PasswordHandler{Accounts: accts, Mailer: m, BaseURL: strings.TrimRight(baseURL, "/"), ResetTTL: ttl}
}

// RequestReset handles /reset_password_request. The flash is identical
// whether or not the email exists, so the form cannot be used to probe
// for accounts.
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "reset_password_request", map[string]any{"Title": "Reset Password"})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(r.FormValue("email"))
		if user, err := h.Accounts.FindByEmail(r.Context(), email); err == nil {
			token, terr := h.Accounts.IssueResetToken(user, h.ResetTTL)
			if terr == nil {
				resetURL := h.BaseURL + "/reset_password/" + token
				if merr := h.Mailer.SendPasswordReset(user.Email, user.Username, resetURL); merr != nil {
					log.Error().Err(merr).Str("email", user.Email).Msg("sending reset mail failed")
				}
			} else {
				log.Error().Err(terr).Msg("issuing reset token failed")
			}
		}
		SetFlash(w, "Check your email for the instructions to reset your password")
		http.Redirect(w, r, "/login", statusSeeOther)
	default:
		methodNotAllowed(w)
	}
}

// ResetPassword handles /reset_password/{token}. Any token problem sends the
// visitor home without explanation.
func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	token := chi.URLParam(r, "token")
	user := h.Accounts.VerifyResetToken(r.Context(), token)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "reset_password", map[string]any{"Title": "Reset Password", "Token": token})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		password := r.FormValue("password")
		if password == "" || password != r.FormValue("password2") {
			renderTemplate(w, r, "reset_password", map[string]any{
				"Title": "Reset Password",
				"Token": token,
				"Error": "passwords must match and not be empty",
			})
			return
		}
		if err := h.Accounts.SetPassword(r.Context(), user, password); err != nil {
			http.Error(w, "could not set password", http.StatusInternalServerError)
			return
		}
		SetFlash(w, "Your password has been reset.")
		http.Redirect(w, r, "/login", statusSeeOther)
	default:
		methodNotAllowed(w)
	}
}
