package store

import "time"

// Book is a single catalog entry. AuthorID and CategoryID reference
// entities that must exist in the same store.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorID      string    `json:"author_id"`
	CategoryID    string    `json:"category_id"`
	ISBN          string    `json:"isbn,omitempty"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	PublishedYear int       `json:"published_year,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Author is a book author.
type Author struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// Category is a catalog shelf.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
