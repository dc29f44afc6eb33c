package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/studiocompas/compas/internal/catalog/domain"
	"github.com/studiocompas/compas/pkg/money"
)

type createStyleRequest struct {
	Name       string `json:"name"`
	BaseAmount string `json:"base_amount"`
}

func (s *Server) CreateStyle(c *gin.Context) {
	var req createStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	baseAmount, err := money.ParseDecimal(req.BaseAmount, money.DefaultExponent)
	if err != nil {
		AbortWithError(c, newValidationError("base_amount", "invalid_base_amount", "invalid base_amount"))
		return
	}

	resp, err := s.catalogSvc.CreateStyle(c.Request.Context(), catalogdomain.CreateStyleRequest{
		Name:       strings.TrimSpace(req.Name),
		BaseAmount: baseAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStyles(c *gin.Context) {
	resp, err := s.catalogSvc.ListStyles(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStyleByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetStyle(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ResolveStylePrice(c *gin.Context) {
	kind := strings.TrimSpace(c.Query("kind"))
	amount, err := s.catalogSvc.ResolvePrice(c.Request.Context(), strings.TrimSpace(c.Param("id")), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"amount": money.FormatDecimal(amount, money.DefaultExponent),
		"kind":   kind,
	}})
}

type createConceptRequest struct {
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	StyleID string `json:"style_id"`
}

func (s *Server) CreateConcept(c *gin.Context) {
	var req createConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amount, err := money.ParseDecimal(req.Amount, money.DefaultExponent)
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "invalid amount"))
		return
	}

	resp, err := s.catalogSvc.CreateConcept(c.Request.Context(), catalogdomain.CreateConceptRequest{
		Name:    strings.TrimSpace(req.Name),
		Amount:  amount,
		StyleID: strings.TrimSpace(req.StyleID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConcepts(c *gin.Context) {
	resp, err := s.catalogSvc.ListConcepts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetConceptByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetConcept(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createModalityRequest struct {
	StyleID       string `json:"style_id"`
	Kind          string `json:"kind"`
	PercentageBps int64  `json:"percentage_bps"`
}

func (s *Server) CreateModality(c *gin.Context) {
	var req createModalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateModality(c.Request.Context(), catalogdomain.CreateModalityRequest{
		StyleID:       strings.TrimSpace(req.StyleID),
		Kind:          strings.TrimSpace(req.Kind),
		PercentageBps: req.PercentageBps,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidAmount,
		catalogdomain.ErrInvalidKind,
		catalogdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
