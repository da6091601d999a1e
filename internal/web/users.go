package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/UkralStul/social-blog-service/internal/auth"
	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/forms"
	"github.com/UkralStul/social-blog-service/internal/storage"
)

type signupData struct {
	Viewer   *domain.User
	Errors   map[string]string
	Username string
	Email    string
}

// signup registers a new account and sends the user to the login page.
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	viewer := auth.CurrentUser(r.Context())

	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "signup.html", signupData{
			Viewer: viewer,
			Errors: map[string]string{},
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}
	data := signupData{
		Viewer:   viewer,
		Errors:   map[string]string{},
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}
	password := r.FormValue("password")

	if data.Username == "" {
		data.Errors["username"] = forms.RequiredError
	}
	if password == "" {
		data.Errors["password"] = forms.RequiredError
	}
	if len(data.Errors) > 0 {
		s.render(w, r, http.StatusOK, "signup.html", data)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	_, err = s.store.CreateUser(r.Context(), &domain.User{
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrUsernameTaken) {
		data.Errors["username"] = "A user with that username already exists."
		s.render(w, r, http.StatusOK, "signup.html", data)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, auth.LoginPath, http.StatusFound)
}

type loginData struct {
	Viewer *domain.User
	Error  string
	Next   string
}

// login checks credentials and sets the session cookie. A next parameter
// carried from a protected route is honored after a successful login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	viewer := auth.CurrentUser(r.Context())
	next := r.URL.Query().Get("next")

	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "login.html", loginData{Viewer: viewer, Next: next})
		return
	}

	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.render(w, r, http.StatusOK, "login.html", loginData{
			Viewer: viewer,
			Error:  "Invalid username or password.",
			Next:   next,
		})
		return
	}

	token, err := s.sessions.Issue(user.Username)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.sessions.SetCookie(w, token)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// logout clears the session cookie.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
