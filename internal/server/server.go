package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	appconfig "github.com/cabinetworks/quoteflow/internal/config"
	customerdomain "github.com/cabinetworks/quoteflow/internal/customer/domain"
	"github.com/cabinetworks/quoteflow/internal/observability"
	obsmiddleware "github.com/cabinetworks/quoteflow/internal/observability/logger"
	obsmetrics "github.com/cabinetworks/quoteflow/internal/observability/metrics"
	"github.com/cabinetworks/quoteflow/internal/providers/email"
	"github.com/cabinetworks/quoteflow/internal/providers/pdf"
	quotedomain "github.com/cabinetworks/quoteflow/internal/quote/domain"
	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, registry)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg appconfig.Config) {
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
	engine       *gin.Engine
	cfg          appconfig.Config
	db           *gorm.DB
	genID        *snowflake.Node
	policy       *appconfig.PricingPolicyHolder
	customerSvc  customerdomain.Service
	catalogSvc   catalogdomain.Service
	settingsSvc  settingsdomain.Service
	quoteSvc     quotedomain.Service
	pdfProvider  pdf.Provider
	mailProvider email.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          appconfig.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	Policy       *appconfig.PricingPolicyHolder
	CustomerSvc  customerdomain.Service
	CatalogSvc   catalogdomain.Service
	SettingsSvc  settingsdomain.Service
	QuoteSvc     quotedomain.Service
	PDFProvider  pdf.Provider
	MailProvider email.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		policy:       p.Policy,
		customerSvc:  p.CustomerSvc,
		catalogSvc:   p.CatalogSvc,
		settingsSvc:  p.SettingsSvc,
		quoteSvc:     p.QuoteSvc,
		pdfProvider:  p.PDFProvider,
		mailProvider: p.MailProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	api.GET("/collections", s.ListCollections)
	api.GET("/styles", s.ListStyles)
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)

	api.GET("/settings", s.GetSettings)
	api.PUT("/settings", s.UpdateSettings)

	api.POST("/quotes", s.CreateQuote)
	api.GET("/quotes", s.ListQuotes)
	api.GET("/quotes/:id", s.GetQuoteByID)
	api.PUT("/quotes/:id/items", s.UpdateQuoteItems)
	api.POST("/quotes/:id/status", s.UpdateQuoteStatus)
	api.POST("/quotes/:id/duplicate", s.DuplicateQuote)
	api.DELETE("/quotes/:id", s.DeleteQuote)
	api.GET("/quotes/:id/view", s.GetQuoteView)
	api.GET("/quotes/:id/pdf", s.GetQuotePDF)
	api.POST("/quotes/:id/send", s.SendQuote)
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	severity := "warn"
	if status >= http.StatusInternalServerError {
		severity = "error"
	}
	return severity, payload.Type
}
