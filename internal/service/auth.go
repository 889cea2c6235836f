package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/dessert-menu/internal/models"
	"github.com/crucial707/dessert-menu/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// AuthService
// ==========================

// AuthService verifies credentials and registers accounts. Passwords are
// stored as bcrypt hashes and compared with bcrypt's constant-time check.
type AuthService struct {
	Users *repo.UserRepo
}

func NewAuthService(users *repo.UserRepo) *AuthService {
	return &AuthService{Users: users}
}

type registerInput struct {
	Username string `validate:"required,max=100"`
	Password string `validate:"required"`
	Email    string `validate:"omitempty,email,max=250"`
}

// ==========================
// Login
// ==========================

// Login returns the user when username exists and password verifies against
// the stored hash. The two failure modes carry distinct messages.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &AuthenticationError{Message: "Sorry, we don't have your username on file."}
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &AuthenticationError{Message: "Incorrect password."}
	}

	return user, nil
}

// ==========================
// Register
// ==========================

func (s *AuthService) Register(ctx context.Context, username, password, email, name, avatar string) (*models.User, error) {
	in := registerInput{Username: username, Password: password, Email: email}
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Message: "Need a username, a password, and a valid email!"}
	}

	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		return nil, &ConflictError{Message: "That username is taken!"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.Users.Create(ctx, username, string(hash), email, name, avatar)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ==========================
// Change Password
// ==========================

func (s *AuthService) ChangePassword(ctx context.Context, userID int, password string) error {
	if password == "" {
		return &ValidationError{Message: "Need a password!"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Message: "User not found"}
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
