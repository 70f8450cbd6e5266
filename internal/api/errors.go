package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookvault/go-api/internal/auth"
	"github.com/bookvault/go-api/internal/store"
)

// ErrRateLimited exists so the error mapper has a 429 class to
// demonstrate. No limiter produces it outside the demo endpoint.
var ErrRateLimited = errors.New("rate limit exceeded")

// statusFor maps domain errors to HTTP status codes. Anything unmapped
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes the mapped status with the error message. Internal
// errors are logged and redacted so no internals leak to callers.
func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestID(c)),
		)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// demoError triggers each mapped error class on demand. GET
// /api/v1/demo/errors/:kind with kind one of not-found, conflict,
// bad-reference, unauthorized, rate-limited, internal.
func (s *Server) demoError(c *gin.Context) {
	kind := c.Param("kind")
	switch kind {
	case "not-found":
		s.renderError(c, fmt.Errorf("book %q: %w", "bk-demo", store.ErrNotFound))
	case "conflict":
		s.renderError(c, fmt.Errorf("book %q: %w", "bk-001", store.ErrConflict))
	case "bad-reference":
		s.renderError(c, fmt.Errorf("author %q: %w", "at-demo", store.ErrInvalidReference))
	case "unauthorized":
		s.renderError(c, auth.ErrInvalidCredentials)
	case "rate-limited":
		s.renderError(c, ErrRateLimited)
	case "internal":
		s.renderError(c, errors.New("synthetic backend failure"))
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("unknown error kind %q", kind),
		})
	}
}
