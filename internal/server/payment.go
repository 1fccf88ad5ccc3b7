package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
)

func (s *Server) RecordPayment(c *gin.Context) {
	var req paymentdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.OrderID = strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	actor, actorErr := actorFrom(c)
	if actorErr == nil {
		s.recordAudit(c, actor, "payment.recorded", "order", req.OrderID, map[string]any{
			"kind":   string(req.Kind),
			"amount": req.Amount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderLedger(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ReissueDownPayment replaces an expired down payment with a fresh pending
// tranche. The caller may supply the new due date; otherwise the payment
// service applies the configured down-payment window.
func (s *Server) ReissueDownPayment(c *gin.Context) {
	var req struct {
		DueAt time.Time `json:"due_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	orderID := strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.ReissueDownPayment(c.Request.Context(), orderID, req.DueAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
