package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookvault/internal/book"
)

type createBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear *int   `json:"published_year,omitempty"`
}

// APIBooks returns the full book list as JSON.
func (h *WebHandler) APIBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.List(r.Context())
	if err != nil {
		h.apiError(w, http.StatusInternalServerError, "Something broke!")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

// APICreateBook creates a book from a JSON payload.
func (h *WebHandler) APICreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.apiError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	created, err := h.bookService.Create(r.Context(), req.Title, req.Author, req.PublishedYear)
	if err != nil {
		if errors.Is(err, book.ErrValidation) {
			h.apiError(w, http.StatusBadRequest, "Title and author are required.")
			return
		}
		h.apiError(w, http.StatusInternalServerError, "Something broke!")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *WebHandler) apiError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
