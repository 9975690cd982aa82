package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkforge/internal/models"
	"linkforge/pkg/utils"
)

// AuthService runs the signup and login flows on top of the credential store
// and the token issuer.
type AuthService struct {
	accounts         *AccountService
	tokens           *TokenService
	tokenTTL         time.Duration
	registerTokenTTL time.Duration
	hashPassword     func(string) (string, error)
}

func NewAuthService(accounts *AccountService, tokens *TokenService, tokenTTL, registerTokenTTL time.Duration) *AuthService {
	return &AuthService{
		accounts:         accounts,
		tokens:           tokens,
		tokenTTL:         tokenTTL,
		registerTokenTTL: registerTokenTTL,
		hashPassword:     utils.HashPassword,
	}
}

// Signup creates a username account. An empty role means RoleUser.
func (s *AuthService) Signup(ctx context.Context, username, password, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks username credentials and issues a token carrying the username.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, credentialsErr(err)
	}

	if err := checkPassword(password, user.PasswordHash); err != nil {
		return "", user, err
	}

	token, err := s.tokens.Issue(Claims{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, s.tokenTTL)
	if err != nil {
		return "", user, err
	}
	return token, user, nil
}

// Register creates an account on the email path. Such accounts always get
// RoleUser.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginByEmail checks email credentials and issues a token carrying the email.
func (s *AuthService) LoginByEmail(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, credentialsErr(err)
	}

	if err := checkPassword(password, user.PasswordHash); err != nil {
		return "", user, err
	}

	token, err := s.tokens.Issue(Claims{
		ID:    user.ID,
		Email: email,
		Role:  user.Role,
	}, s.registerTokenTTL)
	if err != nil {
		return "", user, err
	}
	return token, user, nil
}

func (s *AuthService) hash(password string) (string, error) {
	if len(password) > utils.MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func credentialsErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}

func checkPassword(password, hash string) error {
	ok, err := utils.CheckPasswordHash(password, hash)
	if err != nil {
		return fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
