package app

import (
	"context"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/upload"

	"golang.org/x/sync/errgroup"
)

// Overview is the dashboard summary for one user
type Overview struct {
	Uploads  *upload.Stats  `json:"uploads"`
	Charts   *chart.Stats   `json:"charts"`
	Insights *insight.Stats `json:"insights"`
}

// OverviewService gathers per-user statistics from the other services
type OverviewService struct {
	uploads  *UploadService
	charts   *ChartService
	insights *InsightService
}

// NewOverviewService creates an overview service
func NewOverviewService(uploads *UploadService, charts *ChartService, insights *InsightService) *OverviewService {
	return &OverviewService{uploads: uploads, charts: charts, insights: insights}
}

// Get loads the three statistics concurrently. The first failure cancels the
// remaining lookups.
func (s *OverviewService) Get(ctx context.Context, id core.Identity) (*Overview, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	out := &Overview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.uploads.Stats(gctx, id)
		out.Uploads = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.charts.Stats(gctx, id)
		out.Charts = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.insights.Stats(gctx, id)
		out.Insights = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
