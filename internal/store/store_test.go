package store

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeedsCatalog(t *testing.T) {
	s := New()

	books, authors, categories := s.Counts()
	assert.Equal(t, 6, books)
	assert.Equal(t, 4, authors)
	assert.Equal(t, 3, categories)

	b, err := s.GetBook("bk-001")
	require.NoError(t, err)
	assert.Equal(t, "The Dispossessed", b.Title)
	assert.Equal(t, "at-001", b.AuthorID)
	assert.Equal(t, "ct-002", b.CategoryID)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestListBooks_SortedByID(t *testing.T) {
	s := New()

	books := s.ListBooks()
	require.Len(t, books, 6)
	for i := 1; i < len(books); i++ {
		assert.Less(t, books[i-1].ID, books[i].ID)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := New()

	_, err := s.GetBook("bk-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "bk-missing")
}

func TestCreateBook(t *testing.T) {
	s := New()

	created, err := s.CreateBook(Book{
		Title:      "Kindred",
		AuthorID:   "at-004",
		CategoryID: "ct-001",
		Price:      16.00,
		Stock:      4,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "bk-"))
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.GetBook(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kindred", got.Title)

	books, _, _ := s.Counts()
	assert.Equal(t, 7, books)
}

func TestCreateBook_Errors(t *testing.T) {
	tests := []struct {
		name    string
		book    Book
		wantErr error
	}{
		{
			name:    "duplicate id",
			book:    Book{ID: "bk-001", Title: "Clone", AuthorID: "at-001", CategoryID: "ct-001"},
			wantErr: ErrConflict,
		},
		{
			name:    "unknown author",
			book:    Book{Title: "Orphan", AuthorID: "at-999", CategoryID: "ct-001"},
			wantErr: ErrInvalidReference,
		},
		{
			name:    "unknown category",
			book:    Book{Title: "Unshelved", AuthorID: "at-001", CategoryID: "ct-999"},
			wantErr: ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			_, err := s.CreateBook(tt.book)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateBook(t *testing.T) {
	s := New()

	orig, err := s.GetBook("bk-002")
	require.NoError(t, err)

	updated, err := s.UpdateBook("bk-002", Book{
		Title:         "Things Fall Apart",
		AuthorID:      "at-002",
		CategoryID:    "ct-001",
		ISBN:          orig.ISBN,
		Price:         12.95,
		Stock:         20,
		PublishedYear: 1958,
	})
	require.NoError(t, err)
	assert.Equal(t, "bk-002", updated.ID)
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(orig.UpdatedAt))
	assert.Equal(t, 12.95, updated.Price)
	assert.Equal(t, 20, updated.Stock)
}

func TestUpdateBook_Errors(t *testing.T) {
	s := New()

	_, err := s.UpdateBook("bk-missing", Book{Title: "x", AuthorID: "at-001", CategoryID: "ct-001"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateBook("bk-001", Book{Title: "x", AuthorID: "at-999", CategoryID: "ct-001"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	// A failed update must not touch the stored book.
	b, err := s.GetBook("bk-001")
	require.NoError(t, err)
	assert.Equal(t, "The Dispossessed", b.Title)
}

func TestDeleteBook(t *testing.T) {
	s := New()

	require.NoError(t, s.DeleteBook("bk-003"))

	_, err := s.GetBook("bk-003")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteBook("bk-003")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthors(t *testing.T) {
	s := New()

	authors := s.ListAuthors()
	require.Len(t, authors, 4)
	for i := 1; i < len(authors); i++ {
		assert.Less(t, authors[i-1].ID, authors[i].ID)
	}

	a, err := s.GetAuthor("at-002")
	require.NoError(t, err)
	assert.Equal(t, "Chinua Achebe", a.Name)

	_, err = s.GetAuthor("at-999")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := s.CreateAuthor(Author{Name: "Stanisław Lem", Country: "Poland"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "at-"))

	_, err = s.CreateAuthor(Author{ID: "at-001", Name: "Duplicate"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategories(t *testing.T) {
	s := New()

	categories := s.ListCategories()
	require.Len(t, categories, 3)
	assert.Equal(t, "Fiction", categories[0].Name)

	c, err := s.GetCategory("ct-003")
	require.NoError(t, err)
	assert.Equal(t, "Essays", c.Name)

	_, err = s.GetCategory("ct-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBooks_ReturnsCopies(t *testing.T) {
	s := New()

	books := s.ListBooks()
	books[0].Title = "mutated"

	b, err := s.GetBook(books[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", b.Title)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := s.CreateBook(Book{
					Title:      fmt.Sprintf("concurrent %d-%d", n, j),
					AuthorID:   "at-001",
					CategoryID: "ct-001",
				})
				assert.NoError(t, err)
				s.ListBooks()
				_, _ = s.GetBook("bk-001")
			}
		}(i)
	}
	wg.Wait()

	books, _, _ := s.Counts()
	assert.Equal(t, 6+10*20, books)
}
