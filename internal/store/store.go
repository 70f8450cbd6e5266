// Package store holds the in-memory bookstore catalog. All entities are
// kept as values behind a single RWMutex; reads return copies so callers
// never alias store state.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is an in-memory catalog of books, authors and categories.
// The zero value is not usable, call New.
type Store struct {
	mu         sync.RWMutex
	books      map[string]Book
	authors    map[string]Author
	categories map[string]Category
}

// New returns a store seeded with the demo catalog.
func New() *Store {
	s := &Store{
		books:      make(map[string]Book),
		authors:    make(map[string]Author),
		categories: make(map[string]Category),
	}
	s.seed()
	return s
}

// ListBooks returns every book sorted by ID.
func (s *Store) ListBooks() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books
}

// GetBook returns the book with the given ID.
func (s *Store) GetBook(id string) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	return b, nil
}

// CreateBook adds a new book. A missing ID is generated. The referenced
// author and category must already exist.
func (s *Store) CreateBook(b Book) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = "bk-" + uuid.NewString()
	}
	if _, ok := s.books[b.ID]; ok {
		return Book{}, fmt.Errorf("book %q: %w", b.ID, ErrConflict)
	}
	if err := s.checkReferences(b); err != nil {
		return Book{}, err
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.books[b.ID] = b
	return b, nil
}

// UpdateBook replaces the mutable fields of an existing book. CreatedAt
// is preserved, UpdatedAt is bumped.
func (s *Store) UpdateBook(id string, b Book) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.books[id]
	if !ok {
		return Book{}, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	if err := s.checkReferences(b); err != nil {
		return Book{}, err
	}

	b.ID = current.ID
	b.CreatedAt = current.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	s.books[id] = b
	return b, nil
}

// DeleteBook removes a book.
func (s *Store) DeleteBook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	delete(s.books, id)
	return nil
}

// ListAuthors returns every author sorted by ID.
func (s *Store) ListAuthors() []Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make([]Author, 0, len(s.authors))
	for _, a := range s.authors {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	return authors
}

// GetAuthor returns the author with the given ID.
func (s *Store) GetAuthor(id string) (Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[id]
	if !ok {
		return Author{}, fmt.Errorf("author %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// CreateAuthor adds a new author. A missing ID is generated.
func (s *Store) CreateAuthor(a Author) (Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = "at-" + uuid.NewString()
	}
	if _, ok := s.authors[a.ID]; ok {
		return Author{}, fmt.Errorf("author %q: %w", a.ID, ErrConflict)
	}
	s.authors[a.ID] = a
	return a, nil
}

// ListCategories returns every category sorted by ID.
func (s *Store) ListCategories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories
}

// GetCategory returns the category with the given ID.
func (s *Store) GetCategory(id string) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Counts reports how many entities the store holds.
func (s *Store) Counts() (books, authors, categories int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), len(s.authors), len(s.categories)
}

// checkReferences verifies the author and category a book points at.
// Callers must hold at least a read lock.
func (s *Store) checkReferences(b Book) error {
	if _, ok := s.authors[b.AuthorID]; !ok {
		return fmt.Errorf("author %q: %w", b.AuthorID, ErrInvalidReference)
	}
	if _, ok := s.categories[b.CategoryID]; !ok {
		return fmt.Errorf("category %q: %w", b.CategoryID, ErrInvalidReference)
	}
	return nil
}
