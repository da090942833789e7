// Package handlers maps HTTP routes onto the account, recipe and rating
// services. Pages follow Post/Redirect/Get with transient flash notices.
package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mkoch/rezeptblog/internal/view"
)

// Explicit constant for 303 See Other (Post/Redirect/Get)
const statusSeeOther = 303

const flashCookieName = "flash"

// SetFlash stores a transient notice shown on the next rendered page.
func SetFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookieName,
		Value: url.QueryEscape(msg),
		Path:  "/",
	})
}

// ConsumeFlash reads and clears the flash cookie.
func ConsumeFlash(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	if dec, derr := url.QueryUnescape(c.Value); derr == nil {
		return dec, true
	}
	return c.Value, true
}

// renderTemplate uses the shared view.Render to ensure layout, partials, funcs, and caching.
// The pending flash (if any) is injected before rendering.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Flash"]; !exists {
		if msg, ok := ConsumeFlash(w, r); ok {
			data["Flash"] = msg
		}
	}
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}

// pageParam reads the 1-based "page" query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", "GET,POST")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
