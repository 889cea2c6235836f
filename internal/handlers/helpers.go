package handlers

import (
	"net/http"

	"github.com/crucial707/dessert-menu/internal/middleware"
	"github.com/crucial707/dessert-menu/internal/models"
	"github.com/crucial707/dessert-menu/internal/repo"
)

// currentUser resolves the session's user id to a full user record, or nil
// when the request carries no valid session.
func currentUser(r *http.Request, users *repo.UserRepo) *models.User {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil
	}
	user, err := users.GetByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return user
}
