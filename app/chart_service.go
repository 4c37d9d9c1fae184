package app

import (
	"context"
	"encoding/json"
	"time"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/internal"
	"sheetlens/internal/errors"
	"sheetlens/ports"
)

// ChartService manages saved chart definitions
type ChartService struct {
	charts       ports.ChartRepository
	uploads      ports.UploadRepository
	logger       *internal.Logger
	defaultLimit int
}

// ChartInput carries the fields of a new chart
type ChartInput struct {
	UploadID      core.ID
	Title         string
	Description   string
	ChartType     chart.Type
	Dimension     chart.Dimension
	Configuration chart.Configuration
	ChartData     json.RawMessage
	IsPublic      bool
	Tags          []string
}

// ChartQuery narrows a chart listing
type ChartQuery struct {
	UploadID  core.ID
	ChartType chart.Type
	Dimension chart.Dimension
	Page      int
	Limit     int
}

// NewChartService creates a chart service
func NewChartService(charts ports.ChartRepository, uploads ports.UploadRepository, defaultLimit int) *ChartService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &ChartService{
		charts:       charts,
		uploads:      uploads,
		logger:       internal.DefaultLogger.WithPrefix("ChartService"),
		defaultLimit: defaultLimit,
	}
}

// Create validates and stores a chart, then bumps the upload's chart count
func (s *ChartService) Create(ctx context.Context, id core.Identity, in ChartInput) (*chart.Chart, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &chart.Chart{
		ID:            core.NewID(),
		OwnerID:       id.UserID,
		UploadID:      in.UploadID,
		Title:         in.Title,
		Description:   in.Description,
		ChartType:     in.ChartType,
		Dimension:     in.Dimension,
		Configuration: in.Configuration,
		ChartData:     in.ChartData,
		IsPublic:      in.IsPublic,
		Tags:          in.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.Dimension == "" {
		c.Dimension = chart.Dimension2D
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	u, err := s.uploads.GetByID(ctx, in.UploadID)
	if err != nil {
		return nil, resolve(err, "Upload")
	}
	if !id.CanAccess(u.OwnerID) {
		return nil, errors.Forbidden("upload")
	}

	if err := s.charts.Create(ctx, c); err != nil {
		return nil, resolve(err, "Chart")
	}
	if err := s.uploads.AdjustChartCount(ctx, u.ID, 1); err != nil {
		s.logger.Warn("failed to increment chart count for upload %s: %v", u.ID, err)
	}
	return c, nil
}

// List returns the caller's charts, newest first
func (s *ChartService) List(ctx context.Context, id core.Identity, q ChartQuery) ([]*chart.Chart, ports.PageInfo, error) {
	if err := requireIdentity(id); err != nil {
		return nil, ports.PageInfo{}, err
	}
	filter := ports.ChartFilter{OwnerID: id.UserID, UploadID: q.UploadID, ChartType: q.ChartType, Dimension: q.Dimension}
	return s.list(ctx, filter, q.Page, q.Limit)
}

// ListByUpload returns the charts built from one upload
func (s *ChartService) ListByUpload(ctx context.Context, id core.Identity, uploadID core.ID, pageNumber, limit int) ([]*chart.Chart, ports.PageInfo, error) {
	if err := requireIdentity(id); err != nil {
		return nil, ports.PageInfo{}, err
	}
	u, err := s.uploads.GetByID(ctx, uploadID)
	if err != nil {
		return nil, ports.PageInfo{}, resolve(err, "Upload")
	}
	if !id.CanAccess(u.OwnerID) {
		return nil, ports.PageInfo{}, errors.Forbidden("upload")
	}
	return s.list(ctx, ports.ChartFilter{UploadID: uploadID}, pageNumber, limit)
}

func (s *ChartService) list(ctx context.Context, filter ports.ChartFilter, pageNumber, limit int) ([]*chart.Chart, ports.PageInfo, error) {
	page := ports.NewPage(pageNumber, limit, s.defaultLimit)
	charts, total, err := s.charts.List(ctx, filter, page)
	if err != nil {
		return nil, ports.PageInfo{}, resolve(err, "Chart")
	}
	return charts, page.Info(total), nil
}

// Get returns a chart the caller may view and counts the view
func (s *ChartService) Get(ctx context.Context, id core.Identity, chartID core.ID) (*chart.Chart, error) {
	c, err := s.viewable(ctx, id, chartID)
	if err != nil {
		return nil, err
	}
	if err := s.charts.IncrementViews(ctx, c.ID); err != nil {
		return nil, resolve(err, "Chart")
	}
	c.ViewCount++
	return c, nil
}

// Update applies the allowed field changes
func (s *ChartService) Update(ctx context.Context, id core.Identity, chartID core.ID, upd chart.Update) (*chart.Chart, error) {
	c, err := s.owned(ctx, id, chartID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(c); err != nil {
		return nil, err
	}
	if err := s.charts.Update(ctx, c); err != nil {
		return nil, resolve(err, "Chart")
	}
	return c, nil
}

// Delete removes a chart and decrements its upload's chart count
func (s *ChartService) Delete(ctx context.Context, id core.Identity, chartID core.ID) error {
	c, err := s.owned(ctx, id, chartID)
	if err != nil {
		return err
	}
	if err := s.charts.Delete(ctx, c.ID); err != nil {
		return resolve(err, "Chart")
	}
	if err := s.uploads.AdjustChartCount(ctx, c.UploadID, -1); err != nil {
		s.logger.Warn("failed to decrement chart count for upload %s: %v", c.UploadID, err)
	}
	return nil
}

// IncrementDownload counts a download and returns the new total
func (s *ChartService) IncrementDownload(ctx context.Context, id core.Identity, chartID core.ID) (int, error) {
	c, err := s.viewable(ctx, id, chartID)
	if err != nil {
		return 0, err
	}
	count, err := s.charts.IncrementDownloads(ctx, c.ID)
	if err != nil {
		return 0, resolve(err, "Chart")
	}
	return count, nil
}

// Stats summarizes the caller's charts
func (s *ChartService) Stats(ctx context.Context, id core.Identity) (*chart.Stats, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	stats, err := s.charts.Stats(ctx, id.UserID)
	if err != nil {
		return nil, resolve(err, "Chart")
	}
	return stats, nil
}

func (s *ChartService) load(ctx context.Context, id core.Identity, chartID core.ID) (*chart.Chart, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	c, err := s.charts.GetByID(ctx, chartID)
	if err != nil {
		return nil, resolve(err, "Chart")
	}
	return c, nil
}

func (s *ChartService) viewable(ctx context.Context, id core.Identity, chartID core.ID) (*chart.Chart, error) {
	c, err := s.load(ctx, id, chartID)
	if err != nil {
		return nil, err
	}
	if !c.CanView(id) {
		return nil, errors.Forbidden("chart")
	}
	return c, nil
}

func (s *ChartService) owned(ctx context.Context, id core.Identity, chartID core.ID) (*chart.Chart, error) {
	c, err := s.load(ctx, id, chartID)
	if err != nil {
		return nil, err
	}
	if !id.CanAccess(c.OwnerID) {
		return nil, errors.Forbidden("chart")
	}
	return c, nil
}
