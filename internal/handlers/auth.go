package handlers

import (
	"errors"
	"net/http"
	"strings"

	"event-booking-portal/internal/logging"
	"event-booking-portal/internal/middleware"
	"event-booking-portal/internal/models"
	"event-booking-portal/internal/services"
	"event-booking-portal/internal/session"
	"event-booking-portal/web/templates/pages"
)

// Inline messages on the auth pages.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailExists        = "Email already exists"
	msgAuthUnavailable    = "Service unavailable."
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	authService services.AuthServiceInterface
	sessions    session.Store
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface, sessions session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// LoginPage renders the login form. It is shown to logged-in users too.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.Login(pages.LoginData{Nav: navFor(r)}))
}

// LoginSubmit authenticates the form and starts a session. On failure the
// form is shown again and the session is left untouched.
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req := models.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := req.Validate(); err != nil {
		h.loginError(w, r, http.StatusUnprocessableEntity, req.Email, err.Error())
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		logging.Ctx(r.Context()).Info().Msg("Login failed: invalid credentials")
		h.loginError(w, r, http.StatusUnprocessableEntity, req.Email, msgInvalidCredentials)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Login failed: credential store error")
		h.loginError(w, r, http.StatusServiceUnavailable, req.Email, msgAuthUnavailable)
		return
	}

	if err := h.sessions.Set(w, r, session.Data{UserID: user.ID, Email: user.Email}); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("user_id", user.ID).Msg("Failed to save session")
		h.loginError(w, r, http.StatusInternalServerError, req.Email, msgAuthUnavailable)
		return
	}

	logging.Ctx(r.Context()).Info().Int("user_id", user.ID).Msg("User logged in")
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	render(w, r, status, pages.Login(pages.LoginData{Nav: navFor(r), Error: msg, Email: email}))
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.Register(pages.RegisterData{Nav: navFor(r)}))
}

// RegisterSubmit creates the account and sends the user to the login page.
func (h *AuthHandler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req := &models.RegisterRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := req.Validate(); err != nil {
		h.registerError(w, r, http.StatusUnprocessableEntity, req, err.Error())
		return
	}

	_, err := h.authService.Register(r.Context(), req)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, models.ErrDuplicateEmail):
		h.registerError(w, r, http.StatusUnprocessableEntity, req, msgEmailExists)
	case errors.Is(err, models.ErrInvalidInput):
		h.registerError(w, r, http.StatusUnprocessableEntity, req, strings.TrimPrefix(err.Error(), models.ErrInvalidInput.Error()+": "))
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Registration failed")
		h.registerError(w, r, http.StatusServiceUnavailable, req, msgAuthUnavailable)
	}
}

func (h *AuthHandler) registerError(w http.ResponseWriter, r *http.Request, status int, req *models.RegisterRequest, msg string) {
	render(w, r, status, pages.Register(pages.RegisterData{
		Nav:   navFor(r),
		Error: msg,
		Name:  req.Name,
		Email: req.Email,
	}))
}

// Logout clears the whole session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to clear session")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func navFor(r *http.Request) pages.Nav {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return pages.Nav{}
	}
	return pages.Nav{User: p.Email}
}
