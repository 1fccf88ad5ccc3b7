package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/smallbiznis/tailorline/internal/audit/domain"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/tailorline/internal/catalog/domain"
	"github.com/smallbiznis/tailorline/internal/config"
	obsmetrics "github.com/smallbiznis/tailorline/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/tailorline/internal/order/domain"
	paymentdomain "github.com/smallbiznis/tailorline/internal/payment/domain"
	reportingdomain "github.com/smallbiznis/tailorline/internal/reporting/domain"
	trackingdomain "github.com/smallbiznis/tailorline/internal/tracking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics, gatherer prometheus.Gatherer) *gin.Engine {
	return NewEngine(log, httpMetrics, gatherer)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	authsvc      authdomain.Service
	catalogSvc   catalogdomain.Service
	orderSvc     orderdomain.Service
	paymentSvc   paymentdomain.Service
	trackingSvc  trackingdomain.Service
	reportingSvc reportingdomain.Service
	auditSvc     auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Authsvc      authdomain.Service
	CatalogSvc   catalogdomain.Service
	OrderSvc     orderdomain.Service
	PaymentSvc   paymentdomain.Service
	TrackingSvc  trackingdomain.Service
	ReportingSvc reportingdomain.Service
	AuditSvc     auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		authsvc:      p.Authsvc,
		catalogSvc:   p.CatalogSvc,
		orderSvc:     p.OrderSvc,
		paymentSvc:   p.PaymentSvc,
		trackingSvc:  p.TrackingSvc,
		reportingSvc: p.ReportingSvc,
		auditSvc:     p.AuditSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/register", s.AuthRequired(), s.RequireRole(authdomain.RoleAdmin), s.Register)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	staffRoles := []authdomain.Role{
		authdomain.RoleAdmin,
		authdomain.RoleCashier,
		authdomain.RoleStaff,
		authdomain.RoleOwner,
	}

	// -------- Catalog --------
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProductByID)
	api.POST("/products", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleOwner), s.CreateProduct)
	api.PATCH("/products/:id", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleOwner), s.UpdateProduct)

	// -------- Orders --------
	// Any authenticated role may place an order; the intake service decides
	// the initial status from the actor's role.
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/quote", s.QuoteOrder)
	api.GET("/orders", s.RequireRole(staffRoles...), s.ListOrders)
	api.GET("/orders/:id", s.RequireRole(staffRoles...), s.GetOrderByID)
	// Per-role transition rules live in the order domain, not here.
	api.POST("/orders/:id/transition", s.TransitionOrder)

	// -------- Payments --------
	api.GET("/orders/:id/ledger", s.RequireRole(staffRoles...), s.GetOrderLedger)
	api.POST("/orders/:id/payments", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleCashier), s.RecordPayment)
	api.POST("/orders/:id/payments/reissue", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleCashier), s.ReissueDownPayment)

	// -------- Tracking --------
	api.POST("/orders/:id/tracking-token", s.RequireRole(staffRoles...), s.EnsureTrackingToken)

	// -------- Reporting --------
	api.GET("/reports/sales-summary", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleOwner), s.GetSalesSummary)
	api.GET("/reports/status-counts", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleOwner), s.GetStatusCounts)

	api.GET("/audit-logs", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleOwner), s.ListAuditLogs)
}

func (s *Server) registerPublicRoutes() {
	// Token lookup needs no account; the token itself is the credential.
	s.engine.GET("/track/:token", s.TrackOrder)
}

// recordAudit is best effort: an audit failure never fails the request.
func (s *Server) recordAudit(c *gin.Context, actor authdomain.ActingUser, action, targetType, targetID string, metadata map[string]any) {
	entry := auditdomain.Entry{
		ActorID:    &actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
	}
	if err := s.auditSvc.Record(c.Request.Context(), entry); err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
