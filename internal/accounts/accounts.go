// Package accounts implements registration, authentication, password
// management and profile updates on top of the users table.
package accounts

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mkoch/rezeptblog/internal/models"
)

var (
	// ErrUsernameTaken is returned when the requested username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when the requested email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotFound is returned by the lookup helpers.
	ErrNotFound = errors.New("user not found")
)

// dummyHash keeps bcrypt comparison cost constant when the username does not
// exist, so login timing does not leak account existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Service struct {
	db          *gorm.DB
	resetSecret []byte
}

func NewService(db *gorm.DB, resetSecret string) *Service {
	return &Service{db: db, resetSecret: []byte(resetSecret)}
}

// Register creates a user with a hashed password. Username and email
// collisions are reported before the insert so the caller gets a specific
// error; the unique indexes remain the last line of defense.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the password for the given username. A bcrypt compare
// runs even when the user does not exist, and both failure modes surface the
// same ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	hash := dummyHash
	if err == nil {
		hash = user.PasswordHash
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// SetPassword replaces the stored hash.
func (s *Service) SetPassword(ctx context.Context, user *models.User, newPassword string) error {
	if newPassword == "" {
		return errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}

// UpdateProfile changes username and about text. The username check excludes
// the user's own row so saving an unchanged name is not a collision.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, username, aboutMe string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is required")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	updates := map[string]any{"username": username, "about_me": aboutMe}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return err
	}
	user.Username = username
	user.AboutMe = aboutMe
	return nil
}

// TouchLastSeen records request activity for the user. Errors are ignored;
// this is bookkeeping, not part of any request contract.
func (s *Service) TouchLastSeen(ctx context.Context, userID uint) {
	s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("last_seen", gorm.Expr("CURRENT_TIMESTAMP"))
}

func (s *Service) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Avatar derives a deterministic identicon URL from the md5 of the lower-cased
// email, parameterized by pixel size.
func Avatar(user *models.User, size int) string {
	digest := md5.Sum([]byte(strings.ToLower(user.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", digest, size)
}
