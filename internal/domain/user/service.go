package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"family-planner-go/pkg/token"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

type Service struct {
	repo   Repository
	tokens *token.Manager
}

func NewService(repo Repository, tokens *token.Manager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account and immediately logs it in, returning a
// signed token alongside the new user.
func (s *Service) Register(ctx context.Context, username, password string) (*User, string, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen {
		return nil, "", fmt.Errorf("username must be at least %d characters", minUsernameLen)
	}
	if len(password) < minPasswordLen {
		return nil, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, signed, nil
}

// Login verifies the credentials and stamps last_login. The error is
// the same whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	username = strings.TrimSpace(username)

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("stamp last login: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, signed, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
