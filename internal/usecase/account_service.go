package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stocksim/internal/domain"
)

// AccountService handles registration and credential verification
type AccountService struct {
	userRepo     domain.UserRepository
	startingCash float64
}

// NewAccountService creates a new AccountService
func NewAccountService(userRepo domain.UserRepository, startingCash float64) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		startingCash: startingCash,
	}
}

// Register creates a new user with a hashed password and the starting cash
// balance. The plaintext password is never stored.
func (s *AccountService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: you must provide a username", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: you must provide a password", domain.ErrInvalidInput)
	}
	if len(password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d or more characters long", domain.ErrInvalidInput, domain.MinPasswordLength)
	}
	if password != confirmation {
		return nil, fmt.Errorf("%w: password and confirmation must match", domain.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashed),
		Cash:         s.startingCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[OK] Registered user %s with %.2f starting cash", user.Username, user.Cash)
	return user, nil
}

// Login verifies credentials and returns the user. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: you must provide a username", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: you must provide a password", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
