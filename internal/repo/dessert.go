package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/dessert-menu/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type DessertRepo struct {
	DB *sql.DB
}

func NewDessertRepo(db *sql.DB) *DessertRepo {
	return &DessertRepo{DB: db}
}

// ========================
// CREATE DESSERT
// ========================

// Create inserts a dessert inside a transaction. On any failure the
// transaction is rolled back and the error returned.
func (r *DessertRepo) Create(ctx context.Context, name string, price float64, calories, userID int) (*models.Dessert, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	dessert := &models.Dessert{}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO desserts (name, price, calories, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, price, calories, user_id`,
		name, price, calories, userID,
	).Scan(
		&dessert.ID,
		&dessert.Name,
		&dessert.Price,
		&dessert.Calories,
		&dessert.UserID,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return dessert, nil
}

// ========================
// GET DESSERT BY ID
// ========================

func (r *DessertRepo) GetByID(ctx context.Context, id int) (*models.Dessert, error) {
	dessert := &models.Dessert{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, price, calories, user_id
		 FROM desserts
		 WHERE id = $1`,
		id,
	).Scan(
		&dessert.ID,
		&dessert.Name,
		&dessert.Price,
		&dessert.Calories,
		&dessert.UserID,
	)
	if err != nil {
		return nil, err
	}
	return dessert, nil
}

// ========================
// GET DESSERT BY NAME
// ========================

// GetByName returns the first dessert with the given name. Used for the
// duplicate-name check at creation; returns sql.ErrNoRows when the name is
// free.
func (r *DessertRepo) GetByName(ctx context.Context, name string) (*models.Dessert, error) {
	dessert := &models.Dessert{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, price, calories, user_id
		 FROM desserts
		 WHERE name = $1
		 ORDER BY id
		 LIMIT 1`,
		name,
	).Scan(
		&dessert.ID,
		&dessert.Name,
		&dessert.Price,
		&dessert.Calories,
		&dessert.UserID,
	)
	if err != nil {
		return nil, err
	}
	return dessert, nil
}

// ========================
// UPDATE PRICE AND CALORIES
// ========================

// UpdatePriceCalories mutates price and calories in place, in a transaction.
// Renaming is not supported; the edit form only carries price and calories.
func (r *DessertRepo) UpdatePriceCalories(ctx context.Context, id int, price float64, calories int) (*models.Dessert, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	dessert := &models.Dessert{}
	err = tx.QueryRowContext(ctx,
		`UPDATE desserts
		 SET price = $1, calories = $2
		 WHERE id = $3
		 RETURNING id, name, price, calories, user_id`,
		price, calories, id,
	).Scan(
		&dessert.ID,
		&dessert.Name,
		&dessert.Price,
		&dessert.Calories,
		&dessert.UserID,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return dessert, nil
}

// ========================
// DELETE DESSERT BY ID
// ========================

func (r *DessertRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM desserts WHERE id = $1`, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if rows == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// ========================
// LIST ALL DESSERTS
// ========================

func (r *DessertRepo) List(ctx context.Context) ([]models.Dessert, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, price, calories, user_id FROM desserts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var desserts []models.Dessert
	for rows.Next() {
		var d models.Dessert
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.Calories, &d.UserID); err != nil {
			return nil, err
		}
		desserts = append(desserts, d)
	}
	return desserts, rows.Err()
}

// ========================
// LIST DESSERTS BY OWNER
// ========================

func (r *DessertRepo) ListByOwner(ctx context.Context, userID int) ([]models.Dessert, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, price, calories, user_id FROM desserts WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var desserts []models.Dessert
	for rows.Next() {
		var d models.Dessert
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.Calories, &d.UserID); err != nil {
			return nil, err
		}
		desserts = append(desserts, d)
	}
	return desserts, rows.Err()
}

// ========================
// COUNT DESSERTS
// ========================

func (r *DessertRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM desserts`).Scan(&n)
	return n, err
}
