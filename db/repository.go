package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookvault/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// UserRepository defines the interface for credential store operations
type UserRepository interface {
	Repository
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id, salt, hash string, updatedAt time.Time) error
}

// BookRepository defines the interface for book store operations
type BookRepository interface {
	Repository
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	FindAll(ctx context.Context) ([]*models.Book, error)
}

// SessionRepository defines the interface for server-side session state
type SessionRepository interface {
	Repository
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RepositoryFactory creates repositories based on the database type
type RepositoryFactory struct {
	SQLiteDB    *sql.DB
	MongoClient *mongo.Client
	DBName      string
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB, mongoClient *mongo.Client, dbName string) *RepositoryFactory {
	return &RepositoryFactory{
		SQLiteDB:    sqliteDB,
		MongoClient: mongoClient,
		DBName:      dbName,
	}
}

// NewUserRepository creates a new user repository
func (f *RepositoryFactory) NewUserRepository() UserRepository {
	if f.SQLiteDB != nil {
		return NewSQLiteUserRepository(f.SQLiteDB)
	}
	return NewMongoUserRepository(f.MongoClient, f.DBName, "users")
}

// NewBookRepository creates a new book repository
func (f *RepositoryFactory) NewBookRepository() BookRepository {
	if f.SQLiteDB != nil {
		return NewSQLiteBookRepository(f.SQLiteDB)
	}
	return NewMongoBookRepository(f.MongoClient, f.DBName, "books")
}

// NewSessionRepository creates a new session repository
func (f *RepositoryFactory) NewSessionRepository() SessionRepository {
	if f.SQLiteDB != nil {
		return NewSQLiteSessionRepository(f.SQLiteDB)
	}
	return NewMongoSessionRepository(f.MongoClient, f.DBName, "sessions")
}

// GenerateID generates a unique ID for a record
func GenerateID() string {
	return uuid.New().String()
}
