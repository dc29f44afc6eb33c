package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/studiocompas/compas/internal/account"
	accountdomain "github.com/studiocompas/compas/internal/account/domain"
	"github.com/studiocompas/compas/internal/audit"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	"github.com/studiocompas/compas/internal/catalog"
	catalogdomain "github.com/studiocompas/compas/internal/catalog/domain"
	"github.com/studiocompas/compas/internal/config"
	"github.com/studiocompas/compas/internal/debt"
	debtdomain "github.com/studiocompas/compas/internal/debt/domain"
	"github.com/studiocompas/compas/internal/discount"
	discountdomain "github.com/studiocompas/compas/internal/discount/domain"
	"github.com/studiocompas/compas/internal/observability"
	obsmiddleware "github.com/studiocompas/compas/internal/observability/logger"
	"github.com/studiocompas/compas/internal/receipt"
	receiptdomain "github.com/studiocompas/compas/internal/receipt/domain"
	"github.com/studiocompas/compas/internal/student"
	studentdomain "github.com/studiocompas/compas/internal/student/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	catalog.Module,
	student.Module,
	discount.Module,
	debt.Module,
	receipt.Module,
	account.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	auditSvc    auditdomain.Service
	catalogSvc  catalogdomain.Service
	studentSvc  studentdomain.Service
	discountSvc discountdomain.Service
	debtSvc     debtdomain.Service
	receiptSvc  receiptdomain.Service
	accountSvc  accountdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	AuditSvc    auditdomain.Service
	CatalogSvc  catalogdomain.Service
	StudentSvc  studentdomain.Service
	DiscountSvc discountdomain.Service
	DebtSvc     debtdomain.Service
	ReceiptSvc  receiptdomain.Service
	AccountSvc  accountdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		auditSvc:    p.AuditSvc,
		catalogSvc:  p.CatalogSvc,
		studentSvc:  p.StudentSvc,
		discountSvc: p.DiscountSvc,
		debtSvc:     p.DebtSvc,
		receiptSvc:  p.ReceiptSvc,
		accountSvc:  p.AccountSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")

	api.POST("/styles", s.CreateStyle)
	api.GET("/styles", s.ListStyles)
	api.GET("/styles/:id", s.GetStyleByID)
	api.GET("/styles/:id/price", s.ResolveStylePrice)
	api.POST("/concepts", s.CreateConcept)
	api.GET("/concepts", s.ListConcepts)
	api.GET("/concepts/:id", s.GetConceptByID)
	api.POST("/modalities", s.CreateModality)

	api.POST("/students", s.CreateStudent)
	api.GET("/students", s.ListStudents)
	api.GET("/students/:id", s.GetStudentByID)
	api.DELETE("/students/:id", s.DeleteStudent)
	api.POST("/students/:id/enrollments", s.EnrollStudent)
	api.GET("/students/:id/enrollments", s.ListEnrollments)
	api.DELETE("/students/:id/enrollments/:style_id", s.DropEnrollment)
	api.POST("/students/:id/promote", s.PromoteStudent)
	api.GET("/students/:id/ledger", s.GetStudentLedger)
	api.GET("/students/:id/discount", s.ComputeAutomaticDiscount)
	api.GET("/students/:id/debts", s.ListOutstandingDebts)

	api.POST("/discounts", s.CreateDiscount)
	api.GET("/discounts", s.ListDiscounts)
	api.GET("/discounts/:id", s.GetDiscountByID)
	api.DELETE("/discounts/:id", s.DeactivateDiscount)
	api.POST("/discount-applications", s.ApplyManualDiscount)
	api.DELETE("/discount-applications/:id", s.RevokeDiscountApplication)

	api.POST("/debts", s.CreateDebt)
	api.GET("/debts/:id", s.GetDebtByID)
	api.DELETE("/debts/:id", s.DeleteDebt)

	api.POST("/receipts", s.CreateReceipt)
	api.GET("/receipts/:id", s.GetReceiptByID)
	api.POST("/receipts/:id/void", s.VoidReceipt)
	api.DELETE("/receipts/:id", s.DeleteReceipt)

	api.GET("/audit-logs", s.ListAuditLogs)
}
