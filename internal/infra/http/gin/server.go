package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"directstay/internal/infra/config"
	"directstay/internal/infra/obs"
)

type PricingHTTP interface {
	Preview(c *gin.Context)
	ValidatePromo(c *gin.Context)
}

type CheckoutHTTP interface {
	Create(c *gin.Context)
	ConfirmPayment(c *gin.Context)
}

type AdminHTTP interface {
	ListPromos(c *gin.Context)
	CreatePromo(c *gin.Context)
	DeletePromo(c *gin.Context)
	GetConfig(c *gin.Context)
	PutConfig(c *gin.Context)
	ResetPricingRules(c *gin.Context)
	RateSchedule(c *gin.Context)
	RateScheduleXLSX(c *gin.Context)
}

type InvoiceHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
}

type Handlers struct {
	Pricing  PricingHTTP
	Checkout CheckoutHTTP
	Admin    AdminHTTP
	Invoice  InvoiceHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.Env, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(env string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Pricing != nil {
		api.GET("/properties/:id/pricing", h.Pricing.Preview)
		api.POST("/promo-codes/validate", h.Pricing.ValidatePromo)
	}
	if h.Checkout != nil {
		api.POST("/checkout", h.Checkout.Create)
		api.POST("/payments/confirm", h.Checkout.ConfirmPayment)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/promo-codes", h.Admin.ListPromos)
		adminGroup.POST("/promo-codes", h.Admin.CreatePromo)
		adminGroup.DELETE("/promo-codes/:code", h.Admin.DeletePromo)
		adminGroup.GET("/config/:name", h.Admin.GetConfig)
		adminGroup.PUT("/config/:name", h.Admin.PutConfig)
		adminGroup.DELETE("/config/pricing-rules", h.Admin.ResetPricingRules)
		adminGroup.GET("/properties/:id/rates", h.Admin.RateSchedule)
		adminGroup.GET("/properties/:id/rates.xlsx", h.Admin.RateScheduleXLSX)
	}
	if h.Invoice != nil {
		api.POST("/admin/invoices", h.Invoice.Create)
		api.GET("/admin/invoices/:id", h.Invoice.Get)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
