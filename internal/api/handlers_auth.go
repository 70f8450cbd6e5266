package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// issueToken handles POST /auth/token, the demo password grant.
func (s *Server) issueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("Invalid token request",
			zap.Error(err),
			zap.String("remote_addr", c.ClientIP()),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "username and password are required",
		})
		return
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	token, err := s.issuer.IssueToken(user)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// whoAmI handles GET /auth/me, returning the caller's validated claims.
func (s *Server) whoAmI(c *gin.Context) {
	claims := claimSetFrom(c)

	resp := MeResponse{
		Subject:       claims.Subject(),
		Roles:         claims.Roles(),
		Permissions:   claims.Permissions(),
		SecurityLevel: claims.SecurityLevel(),
	}
	if department, ok := claims.Department(); ok {
		resp.Department = department
	}
	if region, ok := claims.Region(); ok {
		resp.Region = region
	}
	if attrs := claims.Attributes(); len(attrs) > 0 {
		resp.Attributes = attrs
	}

	c.JSON(http.StatusOK, resp)
}
