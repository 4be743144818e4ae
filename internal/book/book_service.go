package book

import (
	"context"
	"errors"
	"time"

	"bookvault/db"
	"bookvault/models"
)

// ErrValidation is returned when a required field is missing.
var ErrValidation = errors.New("title and author are required")

// BookService wraps the book repository with presence validation.
type BookService struct {
	books db.BookRepository
}

// NewBookService creates a new BookService
func NewBookService(books db.BookRepository) *BookService {
	return &BookService{books: books}
}

// Create persists a new book. Title and author are required; the
// published year is optional.
func (s *BookService) Create(ctx context.Context, title, author string, publishedYear *int) (*models.Book, error) {
	if title == "" || author == "" {
		return nil, ErrValidation
	}
	book := &models.Book{
		ID:            db.GenerateID(),
		Title:         title,
		Author:        author,
		PublishedYear: publishedYear,
		CreatedAt:     time.Now(),
	}
	return s.books.Create(ctx, book)
}

// List returns all books in insertion order.
func (s *BookService) List(ctx context.Context) ([]*models.Book, error) {
	return s.books.FindAll(ctx)
}
