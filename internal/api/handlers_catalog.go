package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookvault/go-api/internal/store"
)

// listAuthors handles GET /api/v*/authors.
func (s *Server) listAuthors(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ListAuthors())
}

// getAuthor handles GET /api/v*/authors/:id.
func (s *Server) getAuthor(c *gin.Context) {
	author, err := s.store.GetAuthor(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// createAuthor handles POST /api/v*/authors.
func (s *Server) createAuthor(c *gin.Context) {
	var req AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid author payload"})
		return
	}

	author, err := s.store.CreateAuthor(store.Author{
		Name:    req.Name,
		Country: req.Country,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.logger.Info("Author created",
		zap.String("id", author.ID),
		zap.String("name", author.Name),
		zap.String("subject", claimSetFrom(c).Subject()),
	)
	c.JSON(http.StatusCreated, author)
}

// listCategories handles GET /api/v*/categories.
func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ListCategories())
}

// getCategory handles GET /api/v*/categories/:id.
func (s *Server) getCategory(c *gin.Context) {
	category, err := s.store.GetCategory(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}
