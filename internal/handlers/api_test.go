package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/models"
)

func setupAPITest(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Recipe{}, &models.Rating{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	h := NewAPIHandler(conn)
	r := chi.NewRouter()
	r.Get("/api/users/{id}", h.GetUser)
	r.Get("/api/users", h.ListUsers)
	return conn, r
}

func TestGetUserResource(t *testing.T) {
	conn, r := setupAPITest(t)

	user := models.User{Username: "alice", Email: "a@x.com", PasswordHash: "x"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	recipe := models.Recipe{Title: "Soup", UserID: user.ID}
	if err := conn.Create(&recipe).Error; err != nil {
		t.Fatalf("recipe: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := conn.Create(&models.Rating{Body: "tasty", UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
			t.Fatalf("rating: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var payload struct {
		ID          uint   `json:"id"`
		Username    string `json:"username"`
		RecipeCount int64  `json:"recipe_count"`
		RatingCount int64  `json:"rating_count"`
		Links       struct {
			Self   string `json:"self"`
			Avatar string `json:"avatar"`
		} `json:"links"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Username != "alice" || payload.RecipeCount != 1 || payload.RatingCount != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Links.Self != "/api/users/1" {
		t.Fatalf("unexpected self link %q", payload.Links.Self)
	}
	if !strings.Contains(payload.Links.Avatar, "gravatar.com/avatar/") {
		t.Fatalf("unexpected avatar link %q", payload.Links.Avatar)
	}
	// Email must never leak to API consumers.
	if strings.Contains(w.Body.String(), "a@x.com") {
		t.Fatalf("email leaked in response: %s", w.Body.String())
	}
}

func TestGetUserNotFound(t *testing.T) {
	_, r := setupAPITest(t)

	for _, path := range []string{"/api/users/999", "/api/users/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 got %d", path, w.Code)
		}
	}
}

func TestListUsersCollection(t *testing.T) {
	conn, r := setupAPITest(t)

	for _, u := range []models.User{
		{Username: "alice", Email: "a@x.com", PasswordHash: "x"},
		{Username: "bob", Email: "b@x.com", PasswordHash: "x"},
	} {
		if err := conn.Create(&u).Error; err != nil {
			t.Fatalf("user: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var payload struct {
		Items []struct {
			Username string `json:"username"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 users, got %d", len(payload.Items))
	}
	if strings.Contains(w.Body.String(), "@x.com") {
		t.Fatalf("email leaked in collection: %s", w.Body.String())
	}
}
