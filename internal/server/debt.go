package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	debtdomain "github.com/studiocompas/compas/internal/debt/domain"
	"github.com/studiocompas/compas/pkg/money"
)

type createDebtRequest struct {
	StudentID string `json:"student_id"`
	ConceptID string `json:"concept_id"`
	Period    string `json:"period"`
	Amount    string `json:"amount"`
	Kind      string `json:"kind"`
}

func (s *Server) CreateDebt(c *gin.Context) {
	var req createDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amount, err := money.ParseDecimal(req.Amount, money.DefaultExponent)
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "invalid amount"))
		return
	}

	resp, err := s.debtSvc.Create(c.Request.Context(), debtdomain.CreateDebtRequest{
		StudentID: strings.TrimSpace(req.StudentID),
		ConceptID: strings.TrimSpace(req.ConceptID),
		Period:    strings.TrimSpace(req.Period),
		Amount:    amount,
		Kind:      strings.TrimSpace(req.Kind),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDebtByID(c *gin.Context) {
	resp, err := s.debtSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOutstandingDebts(c *gin.Context) {
	resp, err := s.debtSvc.ListOutstanding(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDebt(c *gin.Context) {
	if err := s.debtSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isDebtValidationError(err error) bool {
	switch err {
	case debtdomain.ErrInvalidAmount,
		debtdomain.ErrInvalidPeriod,
		debtdomain.ErrInvalidKind,
		debtdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
