package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	receiptdomain "github.com/studiocompas/compas/internal/receipt/domain"
)

type createReceiptRequest struct {
	StudentID     string `json:"student_id"`
	ConceptID     string `json:"concept_id"`
	ClassID       string `json:"class_id"`
	DiscountBps   string `json:"discount_bps"`
	PaymentMethod string `json:"payment_method"`
	SettleDebts   bool   `json:"settle_debts"`
	Period        string `json:"period"`
	Date          string `json:"date"`
}

func (s *Server) CreateReceipt(c *gin.Context) {
	var req createReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	discountBps, err := parseOptionalInt64(req.DiscountBps)
	if err != nil {
		AbortWithError(c, newValidationError("discount_bps", "invalid_discount", "invalid discount_bps"))
		return
	}

	date, err := parseOptionalTime(req.Date, false)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	resp, err := s.receiptSvc.Create(c.Request.Context(), receiptdomain.CreateReceiptRequest{
		StudentID:     strings.TrimSpace(req.StudentID),
		ConceptID:     strings.TrimSpace(req.ConceptID),
		ClassID:       strings.TrimSpace(req.ClassID),
		DiscountBps:   discountBps,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		SettleDebts:   req.SettleDebts,
		Period:        strings.TrimSpace(req.Period),
		Date:          date,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReceiptByID(c *gin.Context) {
	resp, err := s.receiptSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type voidReceiptRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) VoidReceipt(c *gin.Context) {
	var req voidReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.receiptSvc.Void(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteReceipt(c *gin.Context) {
	if err := s.receiptSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isReceiptValidationError(err error) bool {
	switch err {
	case receiptdomain.ErrInvalidID,
		receiptdomain.ErrInvalidAmount,
		receiptdomain.ErrInvalidDiscount,
		receiptdomain.ErrInvalidPaymentMethod,
		receiptdomain.ErrInvalidPeriod,
		receiptdomain.ErrInvalidReason:
		return true
	default:
		return false
	}
}
