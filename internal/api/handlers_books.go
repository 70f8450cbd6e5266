package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookvault/go-api/internal/store"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// listBooks handles GET /api/v1/books as a plain array.
func (s *Server) listBooks(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ListBooks())
}

// listBooksPaged handles GET /api/v2/books with a pagination envelope.
func (s *Server) listBooksPaged(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	perPage := defaultPerPage
	if v := c.Query("per_page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= maxPerPage {
			perPage = parsed
		}
	}

	books := s.store.ListBooks()
	total := len(books)

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, PagedBooks{
		Data: books[start:end],
		Meta: PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}

// getBook handles GET /api/v*/books/:id.
func (s *Server) getBook(c *gin.Context) {
	book, err := s.store.GetBook(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// createBook handles POST /api/v*/books.
func (s *Server) createBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book payload"})
		return
	}

	book, err := s.store.CreateBook(store.Book{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		CategoryID:    req.CategoryID,
		ISBN:          req.ISBN,
		Price:         req.Price,
		Stock:         req.Stock,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.logger.Info("Book created",
		zap.String("id", book.ID),
		zap.String("title", book.Title),
		zap.String("subject", claimSetFrom(c).Subject()),
	)
	c.JSON(http.StatusCreated, book)
}

// updateBook handles PUT /api/v*/books/:id.
func (s *Server) updateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book payload"})
		return
	}

	book, err := s.store.UpdateBook(c.Param("id"), store.Book{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		CategoryID:    req.CategoryID,
		ISBN:          req.ISBN,
		Price:         req.Price,
		Stock:         req.Stock,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// deleteBook handles DELETE /api/v*/books/:id.
func (s *Server) deleteBook(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.DeleteBook(id); err != nil {
		s.renderError(c, err)
		return
	}

	s.logger.Info("Book deleted",
		zap.String("id", id),
		zap.String("subject", claimSetFrom(c).Subject()),
	)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
