package model

import (
	"time"

	"github.com/google/uuid"
)

// Article is a news item shown on the portal.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Excerpt       string    `json:"excerpt"`
	Author        string    `json:"author"`
	Date          time.Time `json:"date"`
	Category      string    `json:"category"`
	Image         string    `json:"image,omitempty"`
	CommentsCount int       `json:"comments_count"`
}

// Comment is a reader's reply attached to exactly one article.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a Comment with a fresh ID stamped at the given time.
func NewComment(author, body string, at time.Time) Comment {
	return Comment{
		ID:        uuid.New(),
		Author:    author,
		Body:      body,
		CreatedAt: at,
	}
}
