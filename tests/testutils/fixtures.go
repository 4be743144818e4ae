package testutils

import (
	"time"

	"bookvault/db"
	"bookvault/models"
)

func CreateTestBook(title, author string, year int) *models.Book {
	return &models.Book{
		ID:            db.GenerateID(),
		Title:         title,
		Author:        author,
		PublishedYear: &year,
		CreatedAt:     time.Now(),
	}
}

func CreateTestSession(userID, username string, expiresAt time.Time) *models.Session {
	return &models.Session{
		ID:        db.GenerateID(),
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}
