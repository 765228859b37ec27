// internal/app/router.go
package app

import (
	"net/http"

	authHandler "uav-maintenance-service/internal/handlers/auth"
	procedureHandler "uav-maintenance-service/internal/handlers/procedure"
	statsHandler "uav-maintenance-service/internal/handlers/stats"
	uavHandler "uav-maintenance-service/internal/handlers/uav"
	wsHandler "uav-maintenance-service/internal/handlers/websocket"
	"uav-maintenance-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	UAVHandler       *uavHandler.UAVHandler
	StatsHandler     *statsHandler.StatsHandler
	ProcedureHandler *procedureHandler.ProcedureHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, gatherer prometheus.Gatherer, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Metrics ====================
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/signup", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.GET("/session", h.AuthHandler.GetSession)
		authProtected.PUT("/email", h.AuthHandler.UpdateEmail)
		authProtected.PUT("/password", h.AuthHandler.UpdatePassword)
	}

	// ==================== Fleet ====================
	uavs := api.Group("/uavs")
	uavs.Use(h.AuthMiddleware.Auth())
	{
		uavs.GET("", h.UAVHandler.ListUAVs)
		uavs.POST("", h.UAVHandler.CreateUAV)
		uavs.PUT("/filter", h.UAVHandler.SetFilter)
		uavs.GET("/state", h.UAVHandler.GetState)
		uavs.POST("/reload", h.UAVHandler.Reload)
		uavs.GET("/:id", h.UAVHandler.GetUAV)
		uavs.PUT("/:id", h.UAVHandler.UpdateUAV)
		uavs.DELETE("/:id", h.UAVHandler.DeleteUAV)
		uavs.PUT("/:id/signature", h.UAVHandler.SaveSignature)
		uavs.GET("/:id/signature", h.UAVHandler.GetSignature)
		uavs.GET("/:id/signature/history", h.UAVHandler.SignatureHistory)
	}

	// ==================== Statistics ====================
	stats := api.Group("/stats")
	stats.Use(h.AuthMiddleware.Auth())
	{
		stats.GET("/dashboard", h.StatsHandler.Dashboard)
		stats.GET("/status", h.StatsHandler.StatusDistribution)
		stats.GET("/locations", h.StatsHandler.LocationDistribution)
		stats.GET("/arrivals", h.StatsHandler.Arrivals)
		stats.GET("/malfunctions", h.StatsHandler.Malfunctions)
		stats.GET("/recent", h.StatsHandler.Recent)
	}

	// ==================== Maintenance Procedures ====================
	procedures := api.Group("/procedures")
	procedures.Use(h.AuthMiddleware.Auth())
	{
		procedures.GET("", h.ProcedureHandler.List)
		procedures.GET("/:id", h.ProcedureHandler.Get)
		procedures.GET("/:id/progress", h.ProcedureHandler.Progress)
		procedures.DELETE("/:id/progress", h.ProcedureHandler.Reset)
		procedures.PUT("/:id/steps/:step_id/toggle", h.ProcedureHandler.ToggleStep)
	}

	// ==================== WebSocket stats ====================
	api.GET("/ws/stats", h.AuthMiddleware.Auth(), h.WSHandler.GetStats)
}
