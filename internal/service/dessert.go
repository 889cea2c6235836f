package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/crucial707/dessert-menu/internal/models"
	"github.com/crucial707/dessert-menu/internal/repo"
	"github.com/go-playground/validator/v10"
)

// Calorie bounds for a dessert, inclusive.
const (
	MinCalories = 100
	MaxCalories = 3000
)

var validate = validator.New()

// ==========================
// DessertService
// ==========================

// DessertService implements the dessert business rules: required fields,
// calorie bounds, duplicate-name check at creation, and ownership checks on
// edit and delete. Handlers do no validation of their own.
type DessertService struct {
	Desserts *repo.DessertRepo
	Audit    *repo.AuditRepo
}

func NewDessertService(desserts *repo.DessertRepo, audit *repo.AuditRepo) *DessertService {
	return &DessertService{Desserts: desserts, Audit: audit}
}

// createInput carries raw form values; price and calories arrive as strings
// and empty strings are rejected before parsing.
type createInput struct {
	Name     string `validate:"required"`
	Price    string `validate:"required"`
	Calories string `validate:"required"`
	OwnerID  int    `validate:"required"`
}

type editInput struct {
	Price    string `validate:"required"`
	Calories string `validate:"required"`
}

// ==========================
// Create Dessert
// ==========================

func (s *DessertService) Create(ctx context.Context, name, price, calories string, ownerID int) (*models.Dessert, error) {
	in := createInput{Name: name, Price: price, Calories: calories, OwnerID: ownerID}
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Message: "Need name, price, calories, and user!"}
	}

	// Duplicate names are rejected here, not by the schema.
	if _, err := s.Desserts.GetByName(ctx, name); err == nil {
		return nil, &ConflictError{Message: "That dessert already exists!"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check dessert name: %w", err)
	}

	priceVal, caloriesVal, err := parsePriceCalories(price, calories)
	if err != nil {
		return nil, err
	}

	dessert, err := s.Desserts.Create(ctx, name, priceVal, caloriesVal, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create dessert: %w", err)
	}

	s.audit(ctx, ownerID, "create", dessert.ID, dessert.Name)
	return dessert, nil
}

// ==========================
// Edit Dessert
// ==========================

// Edit updates price and calories of the dessert with the given id. The
// dessert must exist and belong to user; renaming is not supported via this
// path.
func (s *DessertService) Edit(ctx context.Context, user *models.User, id int, price, calories string) (*models.Dessert, error) {
	in := editInput{Price: price, Calories: calories}
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Message: "Need name, price, and calories!"}
	}

	priceVal, caloriesVal, err := parsePriceCalories(price, calories)
	if err != nil {
		return nil, err
	}

	dessert, err := s.Desserts.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Message: "Dessert not found"}
	} else if err != nil {
		return nil, fmt.Errorf("get dessert: %w", err)
	}

	if dessert.UserID != user.ID {
		return nil, &AuthorizationError{Message: "That's not your dessert!"}
	}

	updated, err := s.Desserts.UpdatePriceCalories(ctx, id, priceVal, caloriesVal)
	if err != nil {
		return nil, fmt.Errorf("update dessert: %w", err)
	}

	s.audit(ctx, user.ID, "update", updated.ID, updated.Name)
	return updated, nil
}

// ==========================
// Delete Dessert
// ==========================

// Delete removes the dessert with the given id if user owns it, and returns
// the deleted record. Existence is checked before ownership, so a missing id
// yields NotFoundError for owners and strangers alike.
func (s *DessertService) Delete(ctx context.Context, user *models.User, id int) (*models.Dessert, error) {
	dessert, err := s.Desserts.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Message: "Dessert not found"}
	} else if err != nil {
		return nil, fmt.Errorf("get dessert: %w", err)
	}

	if dessert.UserID != user.ID {
		return nil, &AuthorizationError{Message: "That's not your dessert!"}
	}

	if err := s.Desserts.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete dessert: %w", err)
	}

	s.audit(ctx, user.ID, "delete", dessert.ID, dessert.Name)
	return dessert, nil
}

// audit records the change best-effort. A failed audit write never fails the
// operation itself, but it is logged.
func (s *DessertService) audit(ctx context.Context, userID int, action string, dessertID int, details string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Log(ctx, userID, action, dessertID, details); err != nil {
		slog.Error("audit log", "action", action, "dessert", dessertID, "err", err)
	}
}

// parsePriceCalories converts the raw form strings and enforces the calorie
// bounds.
func parsePriceCalories(price, calories string) (float64, int, error) {
	priceVal, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, 0, &ValidationError{Message: "Price must be a number!"}
	}

	caloriesVal, err := strconv.Atoi(calories)
	if err != nil {
		return 0, 0, &ValidationError{Message: "Calories must be a whole number!"}
	}

	if caloriesVal < MinCalories {
		return 0, 0, &ValidationError{Message: "That's not enough calories!"}
	}
	if caloriesVal > MaxCalories {
		return 0, 0, &ValidationError{Message: "That's too many calories!"}
	}

	return priceVal, caloriesVal, nil
}
