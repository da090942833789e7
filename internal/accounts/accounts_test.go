package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/models"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Recipe{}, &models.Rating{}))
	return NewService(conn, "test-reset-secret")
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))

	got, err := s.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicates(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other@x.com", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.Register(ctx, "bob", "a@x.com", "pw2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, wrongPass := s.Authenticate(ctx, "alice", "wrong")
	_, noUser := s.Authenticate(ctx, "nobody", "pw1")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestSetPassword(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "a@x.com", "old")
	require.NoError(t, err)
	require.NoError(t, s.SetPassword(ctx, user, "new"))

	_, err = s.Authenticate(ctx, "alice", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "alice", "new")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	alice, err := s.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)
	_, err = s.Register(ctx, "bob", "b@x.com", "pw")
	require.NoError(t, err)

	// Keeping the own username is not a collision.
	require.NoError(t, s.UpdateProfile(ctx, alice, "alice", "likes soup"))
	assert.Equal(t, "likes soup", alice.AboutMe)

	err = s.UpdateProfile(ctx, alice, "bob", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	require.NoError(t, s.UpdateProfile(ctx, alice, "alice2", "still soup"))
	got, err := s.FindByUsername(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
}

func TestLookups(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)

	byID, err := s.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvatar(t *testing.T) {
	u := &models.User{Email: "John@Example.COM"}
	got := Avatar(u, 128)
	// md5("john@example.com")
	assert.Equal(t, "https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=identicon&s=128", got)

	// Deterministic regardless of email casing.
	assert.Equal(t, got, Avatar(&models.User{Email: "john@example.com"}, 128))
	assert.Contains(t, Avatar(u, 32), "s=32")
}
