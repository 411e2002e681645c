package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"propbets/events"
	"propbets/models"

	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	uowFactory UnitOfWorkFactory
	bcryptCost int
}

// NewUserService creates a new account service
func NewUserService(uowFactory UnitOfWorkFactory, bcryptCost int) UserService {
	return &userService{
		uowFactory: uowFactory,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account. Username and email uniqueness is enforced
// by the database and surfaces as a ConflictError.
func (s *userService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, NewValidationError("username, email, and password are required")
	}
	if len(password) < 6 {
		return nil, NewValidationError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().Create(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials by username or email. Unknown logins and
// bad passwords produce the same error so the check leaks nothing.
func (s *userService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, NewValidationError("login and password are required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, NewAuthorizationError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewAuthorizationError("invalid credentials")
	}

	return user, nil
}

// GetOrCreateGuest returns the account behind a guest username, creating one
// on first use with a synthetic email and an unguessable password.
func (s *userService) GetOrCreateGuest(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError("username is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByLogin(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate guest secret: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash guest secret: %w", err)
	}

	user, err = uow.UserRepository().Create(ctx, username, username+"@guest.local", string(hash))
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Guest:    true,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetProfile returns a user by ID
func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Entity: "user", ID: userID}
	}

	return user, nil
}
