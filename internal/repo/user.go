package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/dessert-menu/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, email, name, avatar string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, name, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, password_hash, email, name, avatar
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username, passwordHash, email, name, avatar).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Name, &user.Avatar)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, name, avatar
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Name, &user.Avatar)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, email, name, avatar
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Name, &user.Avatar)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Update User (empty fields keep their current value)
// ==========================
func (r *UserRepo) Update(ctx context.Context, id int, username, email, name, avatar string) (*models.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE(NULLIF($1, ''), username),
		    email    = COALESCE(NULLIF($2, ''), email),
		    name     = COALESCE(NULLIF($3, ''), name),
		    avatar   = COALESCE(NULLIF($4, ''), avatar)
		WHERE id = $5
		RETURNING id, username, password_hash, email, name, avatar
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username, email, name, avatar, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Name, &user.Avatar)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Update Password Hash
// ==========================
func (r *UserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, password_hash, email, name, avatar FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Name, &u.Avatar); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
