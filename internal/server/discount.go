package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	discountdomain "github.com/studiocompas/compas/internal/discount/domain"
)

type createDiscountRequest struct {
	Name          string `json:"name"`
	PercentageBps int64  `json:"percentage_bps"`
	Automatic     bool   `json:"automatic"`
	MinStyles     int    `json:"min_styles"`
}

func (s *Server) CreateDiscount(c *gin.Context) {
	var req createDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.discountSvc.Create(c.Request.Context(), discountdomain.CreateDiscountRequest{
		Name:          strings.TrimSpace(req.Name),
		PercentageBps: req.PercentageBps,
		Automatic:     req.Automatic,
		MinStyles:     req.MinStyles,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDiscounts(c *gin.Context) {
	resp, err := s.discountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDiscountByID(c *gin.Context) {
	resp, err := s.discountSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateDiscount(c *gin.Context) {
	if err := s.discountSvc.Deactivate(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deactivated": true}})
}

func (s *Server) ComputeAutomaticDiscount(c *gin.Context) {
	resp, err := s.discountSvc.ComputeAutomatic(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type applyManualDiscountRequest struct {
	StudentID  string `json:"student_id"`
	DiscountID string `json:"discount_id"`
	StartDate  string `json:"start_date"`
}

func (s *Server) ApplyManualDiscount(c *gin.Context) {
	var req applyManualDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalTime(req.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}

	resp, err := s.discountSvc.ApplyManual(c.Request.Context(), discountdomain.ApplyManualRequest{
		StudentID:  strings.TrimSpace(req.StudentID),
		DiscountID: strings.TrimSpace(req.DiscountID),
		StartDate:  startDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RevokeDiscountApplication(c *gin.Context) {
	if err := s.discountSvc.Revoke(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"revoked": true}})
}

func isDiscountValidationError(err error) bool {
	switch err {
	case discountdomain.ErrInvalidName,
		discountdomain.ErrInvalidPercentage,
		discountdomain.ErrInvalidMinStyles,
		discountdomain.ErrInvalidID,
		discountdomain.ErrDiscountInactive:
		return true
	default:
		return false
	}
}
