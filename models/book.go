package models

import "time"

// Book represents a catalog entry.
type Book struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Author        string    `bson:"author" json:"author"`
	PublishedYear *int      `bson:"published_year,omitempty" json:"published_year,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
