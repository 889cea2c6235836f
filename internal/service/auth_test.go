package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/dessert-menu/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	svc := NewAuthService(repo.NewUserRepo(db))
	return svc, mock, func() { db.Close() }
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	hash := hashFor(t, "correct")
	mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "name", "avatar"}).
			AddRow(1, "alice", hash, "", "Alice", ""))

	user, err := svc.Login(context.Background(), "alice", "correct")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	hash := hashFor(t, "correct")
	mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "name", "avatar"}).
			AddRow(1, "alice", hash, "", "Alice", ""))

	_, err := svc.Login(context.Background(), "alice", "wrong")
	var authn *AuthenticationError
	if !errors.As(err, &authn) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if authn.Message != "Incorrect password." {
		t.Errorf("unexpected message: %q", authn.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	var authn *AuthenticationError
	if !errors.As(err, &authn) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if authn.Message != "Sorry, we don't have your username on file." {
		t.Errorf("unexpected message: %q", authn.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
		WithArgs("bob").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("bob", sqlmock.AnyArg(), "bob@example.com", "Bob", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "name", "avatar"}).
			AddRow(2, "bob", "hash", "bob@example.com", "Bob", ""))

	user, err := svc.Register(context.Background(), "bob", "secret", "bob@example.com", "Bob", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 2 || user.Username != "bob" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, _, done := newAuthService(t)
	defer done()

	for _, tc := range []struct{ username, password string }{
		{"", "secret"},
		{"bob", ""},
	} {
		_, err := svc.Register(context.Background(), tc.username, tc.password, "", "", "")
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("Register(%q,%q): expected ValidationError, got %v", tc.username, tc.password, err)
		}
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, mock, done := newAuthService(t)
	defer done()

	mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "name", "avatar"}).
			AddRow(1, "alice", "hash", "", "Alice", ""))

	_, err := svc.Register(context.Background(), "alice", "secret", "", "", "")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
