package handlers

import (
	"time"

	"syringe_rig/internal/logger"
	"syringe_rig/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	statusInterval time.Duration
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, statusInterval: defaultInterval}
}

// SetStatusInterval changes the websocket push interval used when the client
// does not ask for one. Values outside (0, maxInterval] are ignored.
func (h *Handler) SetStatusInterval(d time.Duration) {
	if d > 0 && d <= maxInterval {
		h.statusInterval = d
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live status stream on the same port
	router.GET("/ws", h.statusStream)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		h.registerMotionRoutes(api)
	}
}

func (h *Handler) registerMotionRoutes(api *gin.RouterGroup) {
	motion := api.Group("/motion")
	{
		motion.GET("/status", h.getStatus)
		motion.POST("/stop", h.stopMotion)
		motion.GET("/events", h.getEvents)
	}
}
