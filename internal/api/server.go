package api

import (
	"net/http"

	"sheetlens/app"
	"sheetlens/internal"
	"sheetlens/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Services bundles the application services the API exposes
type Services struct {
	Uploads  *app.UploadService
	Insights *app.InsightService
	Charts   *app.ChartService
	Overview *app.OverviewService
	Admin    *app.AdminService
}

// Options tunes the HTTP layer
type Options struct {
	MaxUploadBytes int64
	Metrics        *metrics.Metrics
}

// Server is the JSON API
type Server struct {
	router   *gin.Engine
	services Services
	opts     Options
	logger   *internal.Logger
}

// NewServer builds the gin engine with middleware and routes
func NewServer(services Services, opts Options) *Server {
	s := &Server{
		router:   gin.New(),
		services: services,
		opts:     opts,
		logger:   internal.DefaultLogger.WithPrefix("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	if gin.Mode() != gin.TestMode {
		s.router.Use(gin.Logger())
	}
	s.router.Use(gin.Recovery())
	s.router.Use(RequestMetrics(s.opts.Metrics))
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api", Identity())

	uploads := api.Group("/uploads")
	uploads.POST("", s.handleUpload)
	uploads.GET("", s.handleListUploads)
	uploads.GET("/stats", s.handleUploadStats)
	uploads.GET("/:id", s.handleGetUpload)
	uploads.GET("/:id/data", s.handleGetUploadData)
	uploads.GET("/:id/columns", s.handleGetUploadColumns)
	uploads.DELETE("/:id", s.handleDeleteUpload)

	admin := api.Group("/admin")
	admin.GET("/uploads", s.handleListAllUploads)
	admin.GET("/dashboard", s.handleAdminDashboard)
	admin.GET("/stats", s.handleAdminStats)
	admin.GET("/activity", s.handleAdminActivity)

	insights := api.Group("/insights")
	insights.POST("/generate/:uploadId", s.handleGenerateInsights)
	insights.POST("/generate/:uploadId/:type", s.handleGenerateInsight)
	insights.GET("", s.handleListInsights)
	insights.GET("/stats", s.handleInsightStats)
	insights.GET("/upload/:uploadId", s.handleListUploadInsights)
	insights.GET("/:id", s.handleGetInsight)
	insights.PUT("/:id/read", s.handleMarkInsightRead)
	insights.DELETE("/:id", s.handleDeleteInsight)

	charts := api.Group("/charts")
	charts.POST("", s.handleCreateChart)
	charts.GET("", s.handleListCharts)
	charts.GET("/stats", s.handleChartStats)
	charts.GET("/upload/:uploadId", s.handleListUploadCharts)
	charts.GET("/:id", s.handleGetChart)
	charts.PUT("/:id", s.handleUpdateChart)
	charts.DELETE("/:id", s.handleDeleteChart)
	charts.POST("/:id/download", s.handleDownloadChart)

	api.GET("/overview", s.handleOverview)
}
