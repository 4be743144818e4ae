package db

import (
	"context"
	"fmt"
	"time"

	"bookvault/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository implements the UserRepository interface for MongoDB
type MongoUserRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(client *mongo.Client, database, collection string) *MongoUserRepository {
	return &MongoUserRepository{
		client:     client,
		database:   database,
		collection: collection,
	}
}

// Close closes the MongoDB connection
func (r *MongoUserRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

// FindByID finds a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.client.Database(r.database).Collection(r.collection).
		FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.client.Database(r.database).Collection(r.collection).
		FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user. A username collision maps to ErrDuplicate,
// which relies on the unique index created by EnsureIndexes.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := r.client.Database(r.database).Collection(r.collection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored salt and hash for a user
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, salt, hash string, updatedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"password_salt": salt,
		"password_hash": hash,
		"updated_at":    updatedAt,
	}}
	result, err := r.client.Database(r.database).Collection(r.collection).
		UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoBookRepository implements the BookRepository interface for MongoDB
type MongoBookRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewMongoBookRepository creates a new MongoBookRepository
func NewMongoBookRepository(client *mongo.Client, database, collection string) *MongoBookRepository {
	return &MongoBookRepository{
		client:     client,
		database:   database,
		collection: collection,
	}
}

// Close closes the MongoDB connection
func (r *MongoBookRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

// Create inserts a new book record
func (r *MongoBookRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	_, err := r.client.Database(r.database).Collection(r.collection).InsertOne(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("error inserting book: %w", err)
	}
	return book, nil
}

// FindAll returns all books in insertion order
func (r *MongoBookRepository) FindAll(ctx context.Context) ([]*models.Book, error) {
	cursor, err := r.client.Database(r.database).Collection(r.collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error querying books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []*models.Book
	for cursor.Next(ctx) {
		var book models.Book
		if err := cursor.Decode(&book); err != nil {
			return nil, fmt.Errorf("error decoding book: %w", err)
		}
		books = append(books, &book)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}
	return books, nil
}

// MongoSessionRepository implements the SessionRepository interface for MongoDB
type MongoSessionRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewMongoSessionRepository creates a new MongoSessionRepository
func NewMongoSessionRepository(client *mongo.Client, database, collection string) *MongoSessionRepository {
	return &MongoSessionRepository{
		client:     client,
		database:   database,
		collection: collection,
	}
}

// Close closes the MongoDB connection
func (r *MongoSessionRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

// Create inserts a new session record
func (r *MongoSessionRepository) Create(ctx context.Context, session *models.Session) error {
	_, err := r.client.Database(r.database).Collection(r.collection).InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("error inserting session: %w", err)
	}
	return nil
}

// FindByID finds a session by its token
func (r *MongoSessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.client.Database(r.database).Collection(r.collection).
		FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent session returns ErrNotFound.
func (r *MongoSessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.client.Database(r.database).Collection(r.collection).
		DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes all sessions whose expiry has passed
func (r *MongoSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.client.Database(r.database).Collection(r.collection).
		DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return result.DeletedCount, nil
}
