package web

import (
	"bookvault/middleware"

	"github.com/gorilla/mux"
)

func (h *WebHandler) SetupRoutes(mw *middleware.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Public pages
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/signup", h.SignupForm).Methods("GET")
	r.HandleFunc("/signup", h.Signup).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/reset", h.ResetForm).Methods("GET")
	r.HandleFunc("/reset", h.Reset).Methods("POST")

	// Book pages, behind the access-control gate
	books := r.PathPrefix("/books").Subrouter()
	books.Use(mw.RequireSession)
	books.HandleFunc("", h.Books).Methods("GET")
	books.HandleFunc("/new", h.NewBookForm).Methods("GET")
	books.HandleFunc("", h.CreateBook).Methods("POST")

	// JSON API for programmatic clients
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.SetupCORS())
	api.HandleFunc("/login", h.tokens.LoginHandler).Methods("POST")
	api.HandleFunc("/books", mw.RequireToken(h.APIBooks)).Methods("GET")
	api.HandleFunc("/books", mw.RequireToken(h.APICreateBook)).Methods("POST")

	return r
}
