package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/crucial707/dessert-menu/internal/repo"
	"github.com/crucial707/dessert-menu/internal/service"
	"github.com/go-chi/chi/v5"
)

// ==========================
// DessertHandler
// ==========================

// DessertHandler serves the menu pages. Anonymous visitors may browse the
// full menu and dessert details; adding, editing, and deleting require a
// session and ownership is enforced by the service.
type DessertHandler struct {
	Service *service.DessertService
	Repo    *repo.DessertRepo
	Users   *repo.UserRepo
}

// ==========================
// Index (GET /): everyone's desserts, or the session user's own
// ==========================
func (h *DessertHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r, h.Users)
	if user != nil {
		desserts, err := h.Repo.ListByOwner(r.Context(), user.ID)
		if err != nil {
			render(w, "menu.html", map[string]interface{}{"User": user.Name, "Error": errorMessage(err)})
			return
		}
		render(w, "menu.html", map[string]interface{}{"User": user.Name, "Desserts": desserts})
		return
	}

	desserts, err := h.Repo.List(r.Context())
	if err != nil {
		render(w, "menu.html", map[string]interface{}{"Error": errorMessage(err)})
		return
	}
	render(w, "menu.html", map[string]interface{}{"Desserts": desserts})
}

// ==========================
// Menu (GET /menu): the session user's desserts
// ==========================
func (h *DessertHandler) Menu(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r, h.Users)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	desserts, err := h.Repo.ListByOwner(r.Context(), user.ID)
	if err != nil {
		render(w, "menu.html", map[string]interface{}{"User": user.Name, "Error": errorMessage(err)})
		return
	}
	render(w, "menu.html", map[string]interface{}{"User": user.Name, "Desserts": desserts})
}

// ==========================
// Add Form (GET /add)
// ==========================
func (h *DessertHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r, h.Users)
	if user == nil {
		h.renderAnonMenu(w, r, "You must be logged in to add a dessert.")
		return
	}
	render(w, "add.html", map[string]interface{}{"User": user.Name})
}

// ==========================
// Add (POST /add, form fields name_field, price_field, cals_field)
// ==========================
func (h *DessertHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r, h.Users)
	if user == nil {
		h.renderAnonMenu(w, r, "You must be logged in to add a dessert.")
		return
	}

	if err := r.ParseForm(); err != nil {
		render(w, "add.html", map[string]interface{}{"User": user.Name, "Error": "bad form"})
		return
	}

	dessert, err := h.Service.Create(r.Context(),
		r.FormValue("name_field"),
		r.FormValue("price_field"),
		r.FormValue("cals_field"),
		user.ID,
	)
	if err != nil {
		render(w, "add.html", map[string]interface{}{"User": user.Name, "Error": errorMessage(err)})
		return
	}

	render(w, "add.html", map[string]interface{}{"User": user.Name, "Dessert": dessert})
}

// ==========================
// Edit Form (GET /edit/{id})
// ==========================
func (h *DessertHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dessertID(w, r)
	if !ok {
		return
	}

	dessert, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, r)
		return
	} else if err != nil {
		render(w, "menu.html", map[string]interface{}{"Error": errorMessage(err)})
		return
	}

	user := currentUser(r, h.Users)
	if user == nil {
		render(w, "details.html", map[string]interface{}{
			"Dessert": dessert,
			"Error":   "You must be logged in to edit a dessert.",
		})
		return
	}

	render(w, "edit.html", map[string]interface{}{"User": user.Name, "Dessert": dessert})
}

// ==========================
// Edit (POST /edit/{id}, form fields price_field, cals_field)
// ==========================
func (h *DessertHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dessertID(w, r)
	if !ok {
		return
	}

	user := currentUser(r, h.Users)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		render(w, "edit.html", map[string]interface{}{"User": user.Name, "Error": "bad form"})
		return
	}

	_, err := h.Service.Edit(r.Context(), user, id,
		r.FormValue("price_field"),
		r.FormValue("cals_field"),
	)
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) {
			h.renderNotFound(w, r)
			return
		}
		// Re-render the edit form with the message; the record is unchanged.
		dessert, getErr := h.Repo.GetByID(r.Context(), id)
		if getErr != nil {
			render(w, "menu.html", map[string]interface{}{"User": user.Name, "Error": errorMessage(err)})
			return
		}
		render(w, "edit.html", map[string]interface{}{
			"User":    user.Name,
			"Dessert": dessert,
			"Error":   errorMessage(err),
		})
		return
	}

	http.Redirect(w, r, "/menu", http.StatusFound)
}

// ==========================
// Detail (GET /desserts/{id})
// ==========================
func (h *DessertHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dessertID(w, r)
	if !ok {
		return
	}

	dessert, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, r)
		return
	} else if err != nil {
		render(w, "menu.html", map[string]interface{}{"Error": errorMessage(err)})
		return
	}

	data := map[string]interface{}{"Dessert": dessert}
	if user := currentUser(r, h.Users); user != nil {
		data["User"] = user.Name
	}
	render(w, "details.html", data)
}

// ==========================
// Delete (GET /delete/{id})
// ==========================
func (h *DessertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dessertID(w, r)
	if !ok {
		return
	}

	user := currentUser(r, h.Users)
	if user == nil {
		dessert, err := h.Repo.GetByID(r.Context(), id)
		if err != nil {
			h.renderNotFound(w, r)
			return
		}
		render(w, "details.html", map[string]interface{}{
			"Dessert": dessert,
			"Error":   "You must be logged in to delete a dessert.",
		})
		return
	}

	deleted, err := h.Service.Delete(r.Context(), user, id)
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) {
			h.renderNotFound(w, r)
			return
		}
		var authz *service.AuthorizationError
		if errors.As(err, &authz) {
			dessert, getErr := h.Repo.GetByID(r.Context(), id)
			if getErr == nil {
				render(w, "details.html", map[string]interface{}{
					"User":    user.Name,
					"Dessert": dessert,
					"Error":   err.Error(),
				})
				return
			}
		}
		render(w, "menu.html", map[string]interface{}{"User": user.Name, "Error": errorMessage(err)})
		return
	}

	desserts, err := h.Repo.ListByOwner(r.Context(), user.ID)
	if err != nil {
		render(w, "menu.html", map[string]interface{}{"User": user.Name, "Error": errorMessage(err)})
		return
	}
	render(w, "menu.html", map[string]interface{}{
		"User":     user.Name,
		"Desserts": desserts,
		"Message":  "Dessert " + deleted.Name + " deleted",
	})
}

// dessertID parses the {id} route parameter. On garbage it renders the
// not-found page and reports false.
func (h *DessertHandler) dessertID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.renderNotFound(w, r)
		return 0, false
	}
	return id, true
}

// renderNotFound shows the visitor's menu with a not-found message.
func (h *DessertHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"Error": "Dessert not found"}
	if user := currentUser(r, h.Users); user != nil {
		data["User"] = user.Name
		if desserts, err := h.Repo.ListByOwner(r.Context(), user.ID); err == nil {
			data["Desserts"] = desserts
		}
	} else if desserts, err := h.Repo.List(r.Context()); err == nil {
		data["Desserts"] = desserts
	}
	render(w, "menu.html", data)
}

// renderAnonMenu shows the public menu with an instruction message.
func (h *DessertHandler) renderAnonMenu(w http.ResponseWriter, r *http.Request, message string) {
	data := map[string]interface{}{"Message": message}
	if desserts, err := h.Repo.List(r.Context()); err == nil {
		data["Desserts"] = desserts
	}
	render(w, "menu.html", data)
}
