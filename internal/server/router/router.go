package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router wires up.
type Handlers struct {
	Records   *handlers.RecordsHandler
	Prices    *handlers.PricesHandler
	Dashboard *handlers.DashboardHandler
	Reports   *handlers.ReportsHandler
	Settings  *handlers.SettingsHandler
	Auth      *handlers.AuthHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")

	api.POST("/records", h.Records.Create)
	api.PUT("/records/:id", h.Records.Update)
	api.DELETE("/records/:id", h.Records.Delete)

	api.GET("/prices", h.Prices.List)
	api.PUT("/prices/:month", h.Prices.Merge)

	api.GET("/dashboard", h.Dashboard.View)
	api.GET("/dashboard/advice", h.Dashboard.Advice)

	api.GET("/reports", h.Reports.View)
	api.GET("/reports/:month/csv", h.Reports.CSV)
	api.GET("/reports/:month/xlsx", h.Reports.XLSX)
	api.POST("/reports/:month/export", h.Reports.Export)

	api.GET("/factories", h.Settings.ListFactories)
	api.POST("/factories", h.Settings.CreateFactory)
	api.DELETE("/factories/:id", h.Settings.DeleteFactory)
	api.GET("/plots", h.Settings.ListPlots)
	api.POST("/plots", h.Settings.CreatePlot)
	api.DELETE("/plots/:id", h.Settings.DeletePlot)
	api.GET("/reminders", h.Settings.ListReminders)
	api.POST("/reminders", h.Settings.CreateReminder)
	api.POST("/reminders/:id/complete", h.Settings.CompleteReminder)
	api.DELETE("/reminders/:id", h.Settings.DeleteReminder)

	api.POST("/auth/setup", h.Auth.Setup)
	api.POST("/auth/verify", h.Auth.Verify)
	api.PUT("/auth/pins", h.Auth.Change)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
