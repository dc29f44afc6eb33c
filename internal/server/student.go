package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	studentdomain "github.com/studiocompas/compas/internal/student/domain"
	"github.com/studiocompas/compas/pkg/db/pagination"
)

type createStudentRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.Create(c.Request.Context(), studentdomain.CreateStudentRequest{
		Name:  strings.TrimSpace(req.Name),
		Kind:  strings.TrimSpace(req.Kind),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStudents(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Kind        string `form:"kind"`
		Name        string `form:"name"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}

	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.studentSvc.List(c.Request.Context(), studentdomain.ListStudentRequest{
		Pagination:  query.Pagination,
		Kind:        strings.TrimSpace(query.Kind),
		Name:        strings.TrimSpace(query.Name),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStudentByID(c *gin.Context) {
	resp, err := s.studentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteStudent(c *gin.Context) {
	if err := s.studentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

type enrollRequest struct {
	StyleID    string `json:"style_id"`
	ModalityID string `json:"modality_id"`
}

func (s *Server) EnrollStudent(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.Enroll(c.Request.Context(), studentdomain.EnrollRequest{
		StudentID:  strings.TrimSpace(c.Param("id")),
		StyleID:    strings.TrimSpace(req.StyleID),
		ModalityID: strings.TrimSpace(req.ModalityID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListEnrollments(c *gin.Context) {
	resp, err := s.studentSvc.ListEnrollments(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DropEnrollment(c *gin.Context) {
	err := s.studentSvc.Drop(c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		strings.TrimSpace(c.Param("style_id")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"dropped": true}})
}

type promoteRequest struct {
	RegularID string `json:"regular_id"`
}

func (s *Server) PromoteStudent(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.Promote(c.Request.Context(), studentdomain.PromoteRequest{
		DropInID:  strings.TrimSpace(c.Param("id")),
		RegularID: strings.TrimSpace(req.RegularID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isStudentValidationError(err error) bool {
	switch err {
	case studentdomain.ErrInvalidName,
		studentdomain.ErrInvalidKind,
		studentdomain.ErrInvalidID,
		studentdomain.ErrInvalidPageToken,
		studentdomain.ErrNotDropIn,
		studentdomain.ErrNotRegular,
		studentdomain.ErrNotEnrolled:
		return true
	default:
		return false
	}
}
