package handlers

import (
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rorymcdaniel/temperature-checker/internal/logger"
	"github.com/rorymcdaniel/temperature-checker/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerStateRoutes(api)
		h.registerHistoryRoutes(api)
	}
}

func (h *Handler) registerStateRoutes(api *gin.RouterGroup) {
	{
		api.GET("/state", h.getState)
		// Body example: {"window_state":"open"}
		api.POST("/window", h.setWindowState)
		// Body example: {"mode":"heating"}
		api.POST("/mode", h.setMode)
		api.POST("/reset", h.resetNotifications)
		api.POST("/check", h.runCheck)
	}
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("/readings", h.getReadings)
		history.GET("/notifications", h.getNotifications)
	}
}
