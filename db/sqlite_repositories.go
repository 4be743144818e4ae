package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookvault/models"

	"github.com/mattn/go-sqlite3"
)

// SQLiteUserRepository implements the UserRepository interface for SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteUserRepository) Close() error {
	return r.db.Close()
}

// FindByID finds a user by ID
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, email, password_salt, password_hash, created_at, updated_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByUsername finds a user by username
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password_salt, password_hash, created_at, updated_at FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *SQLiteUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordSalt, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user record. A username collision maps to ErrDuplicate.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, username, email, password_salt, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordSalt, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored salt and hash for a user
func (r *SQLiteUserRepository) UpdatePassword(ctx context.Context, id, salt, hash string, updatedAt time.Time) error {
	query := `UPDATE users SET password_salt = ?, password_hash = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, salt, hash, updatedAt, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SQLiteBookRepository implements the BookRepository interface for SQLite
type SQLiteBookRepository struct {
	db *sql.DB
}

// NewSQLiteBookRepository creates a new SQLiteBookRepository
func NewSQLiteBookRepository(db *sql.DB) *SQLiteBookRepository {
	return &SQLiteBookRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteBookRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new book record
func (r *SQLiteBookRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := `INSERT INTO books (id, title, author, published_year, created_at) VALUES (?, ?, ?, ?, ?)`
	var year sql.NullInt64
	if book.PublishedYear != nil {
		year = sql.NullInt64{Int64: int64(*book.PublishedYear), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query, book.ID, book.Title, book.Author, year, book.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting book: %w", err)
	}
	return book, nil
}

// FindAll returns all books in insertion order
func (r *SQLiteBookRepository) FindAll(ctx context.Context) ([]*models.Book, error) {
	query := `SELECT id, title, author, published_year, created_at FROM books ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var book models.Book
		var year sql.NullInt64
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &year, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning book: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			book.PublishedYear = &y
		}
		books = append(books, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}
	return books, nil
}

// SQLiteSessionRepository implements the SessionRepository interface for SQLite
type SQLiteSessionRepository struct {
	db *sql.DB
}

// NewSQLiteSessionRepository creates a new SQLiteSessionRepository
func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteSessionRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new session record
func (r *SQLiteSessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (id, user_id, username, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.Username, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("error inserting session: %w", err)
	}
	return nil
}

// FindByID finds a session by its token
func (r *SQLiteSessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, user_id, username, created_at, expires_at FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var session models.Session
	err := row.Scan(&session.ID, &session.UserID, &session.Username, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent session returns ErrNotFound.
func (r *SQLiteSessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes all sessions whose expiry has passed
func (r *SQLiteSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking delete result: %w", err)
	}
	return rows, nil
}
