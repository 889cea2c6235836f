package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDessertRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO desserts \(name, price, calories, user_id\)`).
		WithArgs("Pie", 5.0, 300, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "calories", "user_id"}).
			AddRow(42, "Pie", 5.0, 300, 1))
	mock.ExpectCommit()

	repo := NewDessertRepo(db)
	dessert, err := repo.Create(context.Background(), "Pie", 5.0, 300, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dessert.ID != 42 || dessert.Name != "Pie" || dessert.Calories != 300 {
		t.Errorf("unexpected dessert: %+v", dessert)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_Create_InsertFails_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO desserts`).
		WithArgs("Pie", 5.0, 300, 1).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	repo := NewDessertRepo(db)
	_, err = repo.Create(context.Background(), "Pie", 5.0, 300, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, price, calories, user_id`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	repo := NewDessertRepo(db)
	_, err = repo.GetByID(context.Background(), 999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_GetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, price, calories, user_id`).
		WithArgs("Cake").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "calories", "user_id"}).
			AddRow(7, "Cake", 3.5, 450, 2))

	repo := NewDessertRepo(db)
	dessert, err := repo.GetByName(context.Background(), "Cake")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if dessert.ID != 7 || dessert.UserID != 2 {
		t.Errorf("unexpected dessert: %+v", dessert)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_UpdatePriceCalories(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE desserts`).
		WithArgs(6.5, 500, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "calories", "user_id"}).
			AddRow(7, "Cake", 6.5, 500, 2))
	mock.ExpectCommit()

	repo := NewDessertRepo(db)
	dessert, err := repo.UpdatePriceCalories(context.Background(), 7, 6.5, 500)
	if err != nil {
		t.Fatalf("UpdatePriceCalories: %v", err)
	}
	if dessert.Price != 6.5 || dessert.Calories != 500 {
		t.Errorf("unexpected dessert: %+v", dessert)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM desserts WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewDessertRepo(db)
	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_Delete_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM desserts WHERE id = \$1`).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewDessertRepo(db)
	err = repo.Delete(context.Background(), 999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDessertRepo_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, price, calories, user_id FROM desserts WHERE user_id = \$1 ORDER BY id`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "calories", "user_id"}).
			AddRow(1, "Cake", 3.5, 450, 2).
			AddRow(2, "Tart", 4.0, 350, 2))

	repo := NewDessertRepo(db)
	desserts, err := repo.ListByOwner(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(desserts) != 2 || desserts[0].Name != "Cake" || desserts[1].Name != "Tart" {
		t.Errorf("unexpected list: %+v", desserts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
