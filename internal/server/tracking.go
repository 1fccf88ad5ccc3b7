package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EnsureTrackingToken mints (or returns) the order's tracking token so the
// storefront can hand the customer a link.
func (s *Server) EnsureTrackingToken(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	token, err := s.trackingSvc.EnsureForOrder(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": token.Value,
	}})
}

// TrackOrder is the unauthenticated tracking page lookup. It exposes only
// the public view, never internal IDs.
func (s *Server) TrackOrder(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	resp, err := s.trackingSvc.Resolve(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
