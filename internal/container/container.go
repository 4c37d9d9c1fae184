package container

import (
	"context"
	"fmt"
	"log"

	"sheetlens/adapters/excel"
	"sheetlens/adapters/postgres"
	"sheetlens/app"
	"sheetlens/internal/api"
	"sheetlens/internal/config"
	"sheetlens/internal/metrics"
	"sheetlens/internal/storage"
	"sheetlens/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Metrics *metrics.Metrics
	Storage ports.FileStorage
	Parser  ports.WorkbookParser

	// Repositories (data access layer)
	UploadRepo  ports.UploadRepository
	ChartRepo   ports.ChartRepository
	InsightRepo ports.InsightRepository

	// Application services
	UploadService   *app.UploadService
	InsightService  *app.InsightService
	ChartService    *app.ChartService
	OverviewService *app.OverviewService
	AdminService    *app.AdminService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:  cfg,
		Metrics: metrics.New(),
		Storage: storage.NewLocalFileStorage(cfg.Storage.UploadDir),
		Parser:  excel.NewParser(),
	}

	return c, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db
	c.DB.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	c.DB.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	c.DB.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	// Initialize repositories
	c.UploadRepo = postgres.NewUploadRepository(db)
	c.ChartRepo = postgres.NewChartRepository(db)
	c.InsightRepo = postgres.NewInsightRepository(db)

	c.initServices()

	log.Printf("Container initialized successfully with database connection")
	return nil
}

// initServices wires the application services over whatever repositories
// are set on the container
func (c *Container) initServices() {
	c.UploadService = app.NewUploadService(c.UploadRepo, c.Storage, c.Parser, c.Metrics, app.UploadServiceConfig{
		MaxUploadBytes:   c.Config.Server.MaxUploadBytes,
		DefaultPageLimit: c.Config.Analysis.DefaultPageLimit,
	})
	c.InsightService = app.NewInsightService(c.UploadRepo, c.InsightRepo, c.Metrics, app.InsightServiceConfig{
		Confidence:       c.Config.Analysis.InsightConfidence,
		DefaultPageLimit: c.Config.Analysis.InsightPageLimit,
	})
	c.ChartService = app.NewChartService(c.ChartRepo, c.UploadRepo, c.Config.Analysis.DefaultPageLimit)
	c.OverviewService = app.NewOverviewService(c.UploadService, c.ChartService, c.InsightService)
	c.AdminService = app.NewAdminService(c.UploadRepo, c.ChartRepo, c.InsightRepo)
}

// APIServer builds the HTTP API over the initialized services
func (c *Container) APIServer() *api.Server {
	return api.NewServer(api.Services{
		Uploads:  c.UploadService,
		Insights: c.InsightService,
		Charts:   c.ChartService,
		Overview: c.OverviewService,
		Admin:    c.AdminService,
	}, api.Options{
		MaxUploadBytes: c.Config.Server.MaxUploadBytes,
		Metrics:        c.Metrics,
	})
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
