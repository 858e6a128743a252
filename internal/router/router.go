package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/handler/health"
	"github.com/medictrans/oncall-api/internal/handler/prometheus"
	"github.com/medictrans/oncall-api/internal/middleware"
)

// Handler is a group of API routes.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers []Handler
	health   *health.Handler
	metrics  *prometheus.Handler
}

type RouterConfig struct {
	Mode           string
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	Security       middleware.SecurityConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	config RouterConfig,
	handlers ...Handler,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		health:   healthH,
		metrics:  metricsH,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metricsH.Middleware(),
		middleware.SecurityHeaders(config.Security),
		middleware.CORS(config.CORSConfig),
		middleware.BodyLimit(config.Security.MaxBodySize),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.ErrorHandler(),
	)

	return r
}

// Setup registers every route. It must run once before Engine is served.
func (r *Router) Setup() *gin.Engine {
	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Metrics())

	api := r.engine.Group("/api/v1", middleware.APIVersion("1.0"))

	for _, h := range r.handlers {
		h.RegisterRoutes(api, r.auth)
	}

	return r.engine
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
