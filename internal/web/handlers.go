package web

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"bookvault/internal/auth"
	"bookvault/internal/book"
	"bookvault/internal/config"
	"bookvault/internal/session"
	"bookvault/models"
)

type WebHandler struct {
	authService *auth.Service
	bookService *book.BookService
	tokens      *auth.TokenHandlers
	sessions    *session.Manager
	templates   *template.Template
	config      *config.Config
}

type PageData struct {
	Page    string
	User    *models.Session
	Error   string
	Success string
	Books   []*models.Book
}

func NewWebHandler(
	authService *auth.Service,
	bookService *book.BookService,
	tokens *auth.TokenHandlers,
	sessions *session.Manager,
	cfg *config.Config,
	templatesDir string,
) (*WebHandler, error) {
	funcMap := template.FuncMap{
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseGlob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &WebHandler{
		authService: authService,
		bookService: bookService,
		tokens:      tokens,
		sessions:    sessions,
		templates:   tmpl,
		config:      cfg,
	}, nil
}

// Page Handlers

func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := PageData{Page: "index"}
	if sess, err := h.sessions.Current(r); err == nil {
		data.User = sess
	}
	h.render(w, "index.html", data)
}

func (h *WebHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := PageData{Page: "login"}
	if flashes := h.sessions.Flashes(w, r); len(flashes) > 0 {
		data.Error = flashes[0]
	}
	h.render(w, "login.html", data)
}

func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	sess, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if err := h.sessions.AddFlash(w, r, "Invalid username or password"); err != nil {
				log.Printf("Failed to save flash message: %v", err)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.serverError(w, err)
		return
	}

	if err := h.sessions.Attach(w, r, sess); err != nil {
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (h *WebHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.html", PageData{Page: "signup"})
}

func (h *WebHandler) Signup(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	sess, err := h.authService.Register(r.Context(), username, email, password)
	if err != nil {
		var validationErr *auth.ValidationError
		switch {
		case errors.As(err, &validationErr):
			http.Error(w, "Email, username, and password are required.", http.StatusBadRequest)
		case errors.Is(err, auth.ErrDuplicateUser):
			http.Error(w, "Error while registering: "+err.Error(), http.StatusBadRequest)
		default:
			h.serverError(w, err)
		}
		return
	}

	if err := h.sessions.Attach(w, r, sess); err != nil {
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, err := h.sessions.Current(r); err == nil {
		if err := h.authService.Logout(r.Context(), sess.ID); err != nil {
			h.serverError(w, err)
			return
		}
	}
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("Failed to clear session cookie: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "reset.html", PageData{Page: "reset"})
}

func (h *WebHandler) Reset(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	newPassword := r.FormValue("new_password")

	data := PageData{Page: "reset"}
	err := h.authService.ResetPassword(r.Context(), username, password, newPassword)
	switch {
	case err == nil:
		data.Success = "Password successfully changed"
	case errors.Is(err, auth.ErrUserNotFound):
		data.Error = "User not found"
	case errors.Is(err, auth.ErrIncorrectPassword):
		data.Error = "Current password is incorrect"
	default:
		log.Printf("Password reset failed: %v", err)
		data.Error = "An error occurred"
	}
	h.render(w, "reset.html", data)
}

// Protected book pages. The access-control gate has already resolved the
// session into the request context by the time these run.

func (h *WebHandler) Books(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.List(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	data := PageData{
		Page:  "books",
		User:  session.FromContext(r.Context()),
		Books: books,
	}
	h.render(w, "books.html", data)
}

func (h *WebHandler) NewBookForm(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Page: "new_book",
		User: session.FromContext(r.Context()),
	}
	h.render(w, "new_book.html", data)
}

func (h *WebHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	author := r.FormValue("author")

	var year *int
	if yearStr := r.FormValue("published_year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "Published year must be a number.", http.StatusBadRequest)
			return
		}
		year = &y
	}

	if _, err := h.bookService.Create(r.Context(), title, author, year); err != nil {
		if errors.Is(err, book.ErrValidation) {
			http.Error(w, "Title and author are required.", http.StatusBadRequest)
			return
		}
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data PageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template execution error: %v", err)
		http.Error(w, "Something broke!", http.StatusInternalServerError)
	}
}

func (h *WebHandler) serverError(w http.ResponseWriter, err error) {
	log.Printf("Internal error: %v", err)
	http.Error(w, "Something broke!", http.StatusInternalServerError)
}
