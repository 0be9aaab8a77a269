package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sumit2409/Zenflow/internal/auth"
	"github.com/sumit2409/Zenflow/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")

// UserService handles registration, credential checks and token issuance.
type UserService struct {
	store  storage.Store
	tokens *auth.TokenManager
}

// NewUserService returns a new UserService.
func NewUserService(store storage.Store, tokens *auth.TokenManager) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Register creates a new account with a hashed password and returns a fresh
// session token. Username uniqueness is the backend's job, so two concurrent
// registrations cannot both succeed.
func (s *UserService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if _, err := s.store.CreateAccount(ctx, username, string(hash)); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			return "", ErrUsernameTaken
		}
		return "", err
	}
	return s.tokens.Issue(username)
}

// Login checks username and password and returns a fresh session token.
// Never mutates the account record.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(username)
}
