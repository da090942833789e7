// Package server wires all routes and middlewares into the root handler.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/accounts"
	"github.com/mkoch/rezeptblog/internal/auth"
	"github.com/mkoch/rezeptblog/internal/config"
	"github.com/mkoch/rezeptblog/internal/handlers"
	"github.com/mkoch/rezeptblog/internal/httpx"
	"github.com/mkoch/rezeptblog/internal/mailer"
	"github.com/mkoch/rezeptblog/internal/models"
	"github.com/mkoch/rezeptblog/internal/ratings"
	"github.com/mkoch/rezeptblog/internal/recipes"
	"github.com/mkoch/rezeptblog/internal/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, log zerolog.Logger, mail mailer.Mailer) http.Handler {
	accts := accounts.NewService(db, cfg.ResetSecret)
	recipeRepo := recipes.NewRepository(db)
	ratingRepo := ratings.NewRepository(db)

	view.SetAvatarFunc(func(u *models.User, size int) string { return accounts.Avatar(u, size) })

	// RequireAuth verifies the session still points at a real user.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	authH := handlers.NewAuthHandler(accts)
	recipeH := handlers.NewRecipeHandler(accts, recipeRepo, cfg.RecipesPerPage)
	ratingH := handlers.NewRatingHandler(recipeRepo, ratingRepo)
	profileH := handlers.NewProfileHandler(accts, recipeRepo, cfg.RecipesPerPage)
	passwordH := handlers.NewPasswordHandler(accts, mail, cfg.BaseURL, time.Duration(cfg.ResetTTLSecs)*time.Second)
	apiH := handlers.NewAPIHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))
	r.Use(auth.Middleware)
	r.Use(touchLastSeen(accts))

	if fi, err := os.Stat("static"); err == nil && fi.IsDir() {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir("static")))
		r.Get("/static/*", fs.ServeHTTP)
	}

	// --- Health endpoints ---
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Session creation and account flows stay public.
	r.HandleFunc("/login", authH.Login)
	r.Get("/logout", authH.Logout)
	r.HandleFunc("/register", authH.Register)
	r.HandleFunc("/reset_password_request", passwordH.RequestReset)
	r.HandleFunc("/reset_password/{token}", passwordH.ResetPassword)

	// Read-only JSON API, also public.
	r.Get("/api/users/{id}", apiH.GetUser)
	r.Get("/api/users", apiH.ListUsers)

	// Everything else needs a session.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.HandleFunc("/", recipeH.Index)
		r.HandleFunc("/index", recipeH.Index)
		r.Get("/explore", recipeH.Explore)
		r.HandleFunc("/bewertung/{id}", ratingH.Bewertung)
		r.Get("/user/{username}", profileH.UserPage)
		r.HandleFunc("/edit_profile", profileH.EditProfile)
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// touchLastSeen records activity for authenticated requests, mirroring the
// old before-request hook.
func touchLastSeen(accts *accounts.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
				accts.TouchLastSeen(r.Context(), uid)
			}
			next.ServeHTTP(w, r)
		})
	}
}
