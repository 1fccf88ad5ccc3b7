package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/tailorline/internal/audit/domain"
	reportingdomain "github.com/smallbiznis/tailorline/internal/reporting/domain"
)

func (s *Server) GetSalesSummary(c *gin.Context) {
	req, err := summaryRequestFrom(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportingSvc.SalesSummary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStatusCounts(c *gin.Context) {
	req, err := summaryRequestFrom(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportingSvc.StatusCounts(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query struct {
		Action     string `form:"action"`
		TargetType string `form:"target_type"`
		TargetID   string `form:"target_id"`
		Limit      string `form:"limit"`
		Offset     string `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, page, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListRequest{
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		TargetID:   strings.TrimSpace(query.TargetID),
		Limit:      parseIntDefault(query.Limit, 50),
		Offset:     parseIntDefault(query.Offset, 0),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp, "page_info": page})
}

func summaryRequestFrom(c *gin.Context) (reportingdomain.SummaryRequest, error) {
	from, err := parseOptionalTime(c.Query("from"))
	if err != nil || from == nil {
		return reportingdomain.SummaryRequest{}, newValidationError("from", "invalid_from", "invalid time")
	}
	to, err := parseOptionalTime(c.Query("to"))
	if err != nil || to == nil {
		return reportingdomain.SummaryRequest{}, newValidationError("to", "invalid_to", "invalid time")
	}
	return reportingdomain.SummaryRequest{From: *from, To: *to}, nil
}
