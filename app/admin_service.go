package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/upload"
	"sheetlens/internal"
	"sheetlens/ports"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardRecentUploads = 5
	uploadTrendDays        = 7
	defaultActivityLimit   = 50
)

// UploadTotals is the uploads section of the admin dashboard
type UploadTotals struct {
	Total       int                 `json:"total"`
	TotalSize   int64               `json:"total_size"`
	TotalSheets int                 `json:"total_sheets"`
	TotalRows   int                 `json:"total_rows"`
	Recent      []*upload.Upload    `json:"recent"`
	Trends      []upload.DailyCount `json:"trends"`
}

// ChartTotals is the charts section of the admin dashboard
type ChartTotals struct {
	Total       int                     `json:"total"`
	ByDimension map[chart.Dimension]int `json:"by_dimension"`
}

// InsightTotals is the insights section of the admin dashboard
type InsightTotals struct {
	Total  int                  `json:"total"`
	ByType map[insight.Kind]int `json:"by_type"`
}

// Dashboard summarizes activity across every user
type Dashboard struct {
	Uploads  UploadTotals  `json:"uploads"`
	Charts   ChartTotals   `json:"charts"`
	Insights InsightTotals `json:"insights"`
}

// StorageStats describes stored upload sizes in bytes
type StorageStats struct {
	TotalStorage int64   `json:"total_storage"`
	AvgFileSize  float64 `json:"avg_file_size"`
	MaxFileSize  int64   `json:"max_file_size"`
}

// SystemStats is storage usage plus chart type distribution
type SystemStats struct {
	Storage    StorageStats      `json:"storage"`
	ChartTypes []chart.TypeUsage `json:"chart_types"`
}

// Activity is one entry of the admin activity feed
type Activity struct {
	Type        string    `json:"type"`
	OwnerID     core.ID   `json:"owner_id"`
	ResourceID  core.ID   `json:"resource_id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// AdminService exposes system-wide statistics. Every operation requires the
// admin role.
type AdminService struct {
	uploads  ports.UploadRepository
	charts   ports.ChartRepository
	insights ports.InsightRepository
	logger   *internal.Logger
	now      func() time.Time
}

// NewAdminService creates an admin service
func NewAdminService(uploads ports.UploadRepository, charts ports.ChartRepository, insights ports.InsightRepository) *AdminService {
	return &AdminService{
		uploads:  uploads,
		charts:   charts,
		insights: insights,
		logger:   internal.DefaultLogger.WithPrefix("AdminService"),
		now:      time.Now,
	}
}

// Dashboard loads upload, chart and insight totals, the most recent uploads
// and the daily upload counts of the last week.
func (s *AdminService) Dashboard(ctx context.Context, id core.Identity) (*Dashboard, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	var (
		uploadStats  *upload.SystemStats
		recent       []*upload.Upload
		trends       []upload.DailyCount
		chartStats   *chart.SystemStats
		insightStats *insight.Stats
	)
	since := s.now().UTC().AddDate(0, 0, -uploadTrendDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		uploadStats, err = s.uploads.SystemStats(gctx)
		return resolve(err, "Upload")
	})
	g.Go(func() error {
		var err error
		recent, _, err = s.uploads.List(gctx, ports.UploadFilter{}, ports.Page{Number: 1, Limit: dashboardRecentUploads})
		return resolve(err, "Upload")
	})
	g.Go(func() error {
		var err error
		trends, err = s.uploads.DailyCounts(gctx, since)
		return resolve(err, "Upload")
	})
	g.Go(func() error {
		var err error
		chartStats, err = s.charts.SystemStats(gctx)
		return resolve(err, "Chart")
	})
	g.Go(func() error {
		var err error
		insightStats, err = s.insights.SystemStats(gctx)
		return resolve(err, "Insight")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if recent == nil {
		recent = []*upload.Upload{}
	}
	if trends == nil {
		trends = []upload.DailyCount{}
	}
	return &Dashboard{
		Uploads: UploadTotals{
			Total:       uploadStats.TotalUploads,
			TotalSize:   uploadStats.TotalSize,
			TotalSheets: uploadStats.TotalSheets,
			TotalRows:   uploadStats.TotalRows,
			Recent:      recent,
			Trends:      trends,
		},
		Charts:   ChartTotals{Total: chartStats.TotalCharts, ByDimension: chartStats.ByDimension},
		Insights: InsightTotals{Total: insightStats.Total, ByType: insightStats.ByKind},
	}, nil
}

// SystemStats reports storage usage and chart usage per type
func (s *AdminService) SystemStats(ctx context.Context, id core.Identity) (*SystemStats, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	uploadStats, err := s.uploads.SystemStats(ctx)
	if err != nil {
		return nil, resolve(err, "Upload")
	}
	chartStats, err := s.charts.SystemStats(ctx)
	if err != nil {
		return nil, resolve(err, "Chart")
	}

	return &SystemStats{
		Storage: StorageStats{
			TotalStorage: uploadStats.TotalSize,
			AvgFileSize:  uploadStats.AvgFileSize,
			MaxFileSize:  uploadStats.MaxFileSize,
		},
		ChartTypes: chartStats.ByType,
	}, nil
}

// Activity merges the newest uploads and charts into one feed, newest
// first. limit defaults to 50 and is capped at the maximum page size.
func (s *AdminService) Activity(ctx context.Context, id core.Identity, limit int) ([]Activity, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	page := ports.NewPage(1, limit, defaultActivityLimit)

	uploads, _, err := s.uploads.List(ctx, ports.UploadFilter{}, page)
	if err != nil {
		return nil, resolve(err, "Upload")
	}
	charts, _, err := s.charts.List(ctx, ports.ChartFilter{}, page)
	if err != nil {
		return nil, resolve(err, "Chart")
	}

	feed := make([]Activity, 0, len(uploads)+len(charts))
	for _, u := range uploads {
		feed = append(feed, Activity{
			Type:        "upload",
			OwnerID:     u.OwnerID,
			ResourceID:  u.ID,
			Description: fmt.Sprintf("Uploaded file: %s", u.OriginalFileName),
			Timestamp:   u.CreatedAt,
		})
	}
	for _, c := range charts {
		feed = append(feed, Activity{
			Type:        "chart",
			OwnerID:     c.OwnerID,
			ResourceID:  c.ID,
			Description: fmt.Sprintf("Created %s chart: %s", c.ChartType, c.Title),
			Timestamp:   c.CreatedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > page.Limit {
		feed = feed[:page.Limit]
	}
	s.logger.Debug("activity feed: %d uploads, %d charts, %d entries", len(uploads), len(charts), len(feed))
	return feed, nil
}
