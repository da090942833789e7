package recipes

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/models"
)

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Recipe{}, &models.Rating{}))
	return NewRepository(conn), conn
}

func seedOwner(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	u := models.User{Username: "alice", Email: "a@x.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(&u).Error)
	return &u
}

func TestCreateRequiresOwner(t *testing.T) {
	repo, conn := setupRepo(t)
	owner := seedOwner(t, conn)
	ctx := context.Background()

	recipe, err := repo.Create(ctx, "Soup", "desc", "salt,water", owner.ID)
	require.NoError(t, err)
	assert.NotZero(t, recipe.ID)
	assert.Equal(t, owner.ID, recipe.UserID)

	_, err = repo.Create(ctx, "Orphan", "", "", 0)
	assert.Error(t, err)
}

func TestListPageOrderAndFlags(t *testing.T) {
	repo, conn := setupRepo(t)
	owner := seedOwner(t, conn)
	ctx := context.Background()

	// 7 recipes, page size 3: pages 1..3, last page holds one item.
	for i := 0; i < 7; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("Recipe %d", i), "d", "i", owner.ID)
		require.NoError(t, err)
	}

	p1, err := repo.ListPage(ctx, 1, 3)
	require.NoError(t, err)
	assert.Len(t, p1.Items, 3)
	assert.False(t, p1.HasPrev)
	assert.True(t, p1.HasNext)
	// Ordered by title descending.
	assert.Equal(t, "Recipe 6", p1.Items[0].Title)
	assert.Equal(t, "Recipe 4", p1.Items[2].Title)

	p2, err := repo.ListPage(ctx, 2, 3)
	require.NoError(t, err)
	assert.True(t, p2.HasPrev)
	assert.True(t, p2.HasNext)

	p3, err := repo.ListPage(ctx, 3, 3)
	require.NoError(t, err)
	assert.Len(t, p3.Items, 1)
	assert.True(t, p3.HasPrev)
	assert.False(t, p3.HasNext)
	assert.Equal(t, int64(7), p3.Total)

	// Out-of-range pages are empty with no next.
	p4, err := repo.ListPage(ctx, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, p4.Items)
	assert.False(t, p4.HasNext)

	// page < 1 is clamped to 1.
	p0, err := repo.ListPage(ctx, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, p0.Number)
	assert.False(t, p0.HasPrev)
}

func TestListByOwner(t *testing.T) {
	repo, conn := setupRepo(t)
	alice := seedOwner(t, conn)
	bob := models.User{Username: "bob", Email: "b@x.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(&bob).Error)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("Alice %d", i), "", "", alice.ID)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, "Bob 0", "", "", bob.ID)
	require.NoError(t, err)

	page, err := repo.ListByOwner(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	for _, item := range page.Items {
		assert.Equal(t, alice.ID, item.UserID)
	}
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestFindByID(t *testing.T) {
	repo, conn := setupRepo(t)
	owner := seedOwner(t, conn)
	ctx := context.Background()

	recipe, err := repo.Create(ctx, "Soup", "", "", owner.ID)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Title)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRatingsFor(t *testing.T) {
	repo, conn := setupRepo(t)
	owner := seedOwner(t, conn)
	ctx := context.Background()

	soup, err := repo.Create(ctx, "Soup", "", "", owner.ID)
	require.NoError(t, err)
	stew, err := repo.Create(ctx, "Stew", "", "", owner.ID)
	require.NoError(t, err)

	require.NoError(t, conn.Create(&models.Rating{Body: "tasty", UserID: owner.ID, RecipeID: soup.ID}).Error)
	require.NoError(t, conn.Create(&models.Rating{Body: "meh", UserID: owner.ID, RecipeID: stew.ID}).Error)

	got, err := repo.RatingsFor(ctx, soup.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tasty", got[0].Body)
}
