package services

import (
	"context"
	"errors"
	"fmt"

	"linkforge/internal/models"
	"linkforge/internal/repository"

	"gorm.io/gorm"
)

// AccountService is the credential store.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Create inserts user. Uniqueness of username and email is left to the
// store's constraints so concurrent signups cannot both succeed.
func (s *AccountService) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if repository.IsDuplicateKey(err) {
			return fmt.Errorf("user %q: %w", user.Username, ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findBy(ctx, "username = ?", username)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findBy(ctx, "email = ?", email)
}

func (s *AccountService) findBy(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
