package desserts

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// withMockDB points openDB at a sqlmock database for the duration of fn.
func withMockDB(t *testing.T, fn func(mock sqlmock.Sqlmock)) {
	t.Helper()

	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	orig := openDB
	openDB = func() (*sql.DB, error) { return database, nil }
	defer func() { openDB = orig }()

	fn(mock)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListDesserts_TableOutput(t *testing.T) {
	withMockDB(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT id, name, price, calories, user_id FROM desserts ORDER BY id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "calories", "user_id"}).
				AddRow(1, "Brownie", 3.50, 450, 1).
				AddRow(2, "Eclair", 4.25, 380, 2))
		mock.ExpectClose()

		cmd := listDessertsCmd()
		cmd.SetContext(context.Background())
		out := captureOutput(t, func() {
			cmd.Run(cmd, []string{})
		})

		if !strings.Contains(out, "Brownie") || !strings.Contains(out, "Eclair") {
			t.Fatalf("expected dessert names in output, got: %s", out)
		}
	})
}

func TestListDesserts_ByUser(t *testing.T) {
	withMockDB(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "name", "avatar"}).
				AddRow(1, "alice", "hash", "", "Alice", ""))
		mock.ExpectQuery(`SELECT id, name, price, calories, user_id FROM desserts WHERE user_id = \$1 ORDER BY id`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "calories", "user_id"}).
				AddRow(1, "Brownie", 3.50, 450, 1))
		mock.ExpectClose()

		cmd := listDessertsCmd()
		cmd.SetContext(context.Background())
		_ = cmd.Flags().Set("user", "alice")
		out := captureOutput(t, func() {
			cmd.Run(cmd, []string{})
		})

		if !strings.Contains(out, "Brownie") {
			t.Fatalf("expected the user's dessert in output, got: %s", out)
		}
	})
}

func TestListDesserts_UnknownUser(t *testing.T) {
	withMockDB(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT id, username, password_hash, email, name, avatar`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectClose()

		cmd := listDessertsCmd()
		cmd.SetContext(context.Background())
		_ = cmd.Flags().Set("user", "ghost")
		out := captureOutput(t, func() {
			cmd.Run(cmd, []string{})
		})

		if !strings.Contains(out, "No such user: ghost") {
			t.Fatalf("expected a missing-user message, got: %s", out)
		}
	})
}

func TestAudit(t *testing.T) {
	withMockDB(t, func(mock sqlmock.Sqlmock) {
		when := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT id, user_id, action, dessert_id`).
			WithArgs(50, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "dessert_id", "details", "created_at"}).
				AddRow(1, 1, "create", 4, "Baklava", when))
		mock.ExpectClose()

		cmd := auditCmd()
		cmd.SetContext(context.Background())
		out := captureOutput(t, func() {
			cmd.Run(cmd, []string{})
		})

		if !strings.Contains(out, "create") || !strings.Contains(out, "Baklava") {
			t.Fatalf("expected the audit entry in output, got: %s", out)
		}
	})
}
