package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"campstation/internal/infra/config"
	"campstation/internal/infra/obs"
	"campstation/internal/infra/validation"
)

const serviceName = "campstation-pricing"

type PricingHTTP interface {
	Calculate(c *gin.Context)
}

type OwnerPricingHTTP interface {
	List(c *gin.Context)
	Invalidate(c *gin.Context)
}

type Handlers struct {
	Pricing      PricingHTTP
	OwnerPricing OwnerPricingHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(obsMW, health, h),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	if err := registerBindingRules(); err != nil && obsMW.Logger != nil {
		obsMW.Logger.Error("register binding rules", "error", err)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.Tracing(serviceName))
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	if docs, err := newAPIDocs(); err != nil {
		if obsMW.Logger != nil {
			obsMW.Logger.Error("load api docs", "error", err)
		}
	} else {
		docs.register(router)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Pricing != nil {
		api.GET("/pricing/calculate", h.Pricing.Calculate)
	}
	if h.OwnerPricing != nil {
		owner := api.Group("/owner/sites/:siteId/pricing")
		owner.GET("", h.OwnerPricing.List)
		owner.POST("/invalidate", h.OwnerPricing.Invalidate)
	}
	return router
}

func registerBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validation.RegisterRules(v)
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
