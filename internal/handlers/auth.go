package handlers

import (
	"net/http"

	"github.com/crucial707/dessert-menu/internal/metrics"
	"github.com/crucial707/dessert-menu/internal/middleware"
	"github.com/crucial707/dessert-menu/internal/repo"
	"github.com/crucial707/dessert-menu/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth   *service.AuthService
	Users  *repo.UserRepo
	Secret []byte
}

// ==========================
// Login Form
// ==========================
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); ok {
		http.Redirect(w, r, "/menu", http.StatusFound)
		return
	}
	render(w, "index.html", nil)
}

// ==========================
// Login (POST /, form fields username_field and password_field)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, "index.html", map[string]interface{}{"Error": "bad form"})
		return
	}
	username := r.FormValue("username_field")
	password := r.FormValue("password_field")

	user, err := h.Auth.Login(r.Context(), username, password)
	if err != nil {
		metrics.RecordLogin("failure")
		render(w, "index.html", map[string]interface{}{"Error": errorMessage(err)})
		return
	}
	metrics.RecordLogin("success")

	h.startSession(w, r, user.ID, user.Username, "/menu")
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Register Form
// ==========================
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, "register.html", nil)
}

// ==========================
// Register (creates the account and logs it in)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, "register.html", map[string]interface{}{"Error": "bad form"})
		return
	}

	user, err := h.Auth.Register(r.Context(),
		r.FormValue("username_field"),
		r.FormValue("password_field"),
		r.FormValue("email_field"),
		r.FormValue("name_field"),
		r.FormValue("avatar_field"),
	)
	if err != nil {
		render(w, "register.html", map[string]interface{}{"Error": errorMessage(err)})
		return
	}

	h.startSession(w, r, user.ID, user.Username, "/menu")
}

// startSession issues the session cookie and redirects. The cookie has no max
// age, so it lasts for the browser session; the token inside carries its own
// expiry.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int, username, next string) {
	token, err := middleware.IssueSession(h.Secret, userID, username)
	if err != nil {
		render(w, "index.html", map[string]interface{}{"Error": ErrMessageInternal})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, next, http.StatusFound)
}
