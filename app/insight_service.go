package app

import (
	"context"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/upload"
	"sheetlens/internal"
	"sheetlens/internal/analysis"
	"sheetlens/internal/errors"
	"sheetlens/internal/metrics"
	"sheetlens/ports"
)

// InsightService runs the analysis engine over stored uploads and manages
// the resulting insights
type InsightService struct {
	uploads      ports.UploadRepository
	insights     ports.InsightRepository
	metrics      *metrics.Metrics
	logger       *internal.Logger
	confidence   int
	defaultLimit int
}

// InsightServiceConfig holds the confidence policy and listing defaults
type InsightServiceConfig struct {
	Confidence       int
	DefaultPageLimit int
}

// InsightQuery narrows an insight listing
type InsightQuery struct {
	Kind     insight.Kind
	UploadID core.ID
	IsRead   *bool
	Page     int
	Limit    int
}

// NewInsightService creates an insight service
func NewInsightService(uploads ports.UploadRepository, insights ports.InsightRepository, m *metrics.Metrics, cfg InsightServiceConfig) *InsightService {
	if cfg.Confidence <= 0 || cfg.Confidence > 100 {
		cfg.Confidence = insight.DefaultConfidence
	}
	if cfg.DefaultPageLimit <= 0 {
		cfg.DefaultPageLimit = 20
	}
	return &InsightService{
		uploads:      uploads,
		insights:     insights,
		metrics:      m,
		logger:       internal.DefaultLogger.WithPrefix("InsightService"),
		confidence:   cfg.Confidence,
		defaultLimit: cfg.DefaultPageLimit,
	}
}

// Generate runs every detector over the upload and stores the results
func (s *InsightService) Generate(ctx context.Context, id core.Identity, uploadID core.ID) ([]*insight.Insight, error) {
	u, err := s.completedUpload(ctx, id, uploadID)
	if err != nil {
		return nil, err
	}

	records := analysis.GenerateAll(u.Workbook())
	if len(records) == 0 {
		s.metrics.AnalysisFailed(errors.CodeInsufficientData)
		return nil, errors.Wrap(core.NewInsufficientDataError("no insight could be derived from this upload"), "Error generating insights")
	}

	out := make([]*insight.Insight, 0, len(records))
	for _, rec := range records {
		in, err := s.build(u.OwnerID, u.ID, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := s.insights.CreateBatch(ctx, out); err != nil {
		return nil, resolve(err, "Insight")
	}

	for _, in := range out {
		s.metrics.InsightsGenerated(string(in.Kind), 1)
	}
	s.logger.Info("generated %d insights for upload %s", len(out), u.ID)
	return out, nil
}

// GenerateSpecific runs a single detector. column may be empty.
func (s *InsightService) GenerateSpecific(ctx context.Context, id core.Identity, uploadID core.ID, kind insight.Kind, column string) (*insight.Insight, error) {
	u, err := s.completedUpload(ctx, id, uploadID)
	if err != nil {
		return nil, err
	}

	rec, err := analysis.Generate(u.Workbook(), kind, column)
	if err != nil {
		s.metrics.AnalysisFailed(errors.GetCode(err))
		return nil, errors.Wrapf(err, "Error generating %s insight", kind)
	}

	in, err := s.build(u.OwnerID, u.ID, rec)
	if err != nil {
		return nil, err
	}
	if err := s.insights.Create(ctx, in); err != nil {
		return nil, resolve(err, "Insight")
	}
	s.metrics.InsightsGenerated(string(in.Kind), 1)
	return in, nil
}

// List returns the caller's insights, newest first
func (s *InsightService) List(ctx context.Context, id core.Identity, q InsightQuery) ([]*insight.Insight, ports.PageInfo, error) {
	if err := requireIdentity(id); err != nil {
		return nil, ports.PageInfo{}, err
	}
	page := ports.NewPage(q.Page, q.Limit, s.defaultLimit)
	filter := ports.InsightFilter{OwnerID: id.UserID, UploadID: q.UploadID, Kind: q.Kind, IsRead: q.IsRead}
	insights, total, err := s.insights.List(ctx, filter, page)
	if err != nil {
		return nil, ports.PageInfo{}, resolve(err, "Insight")
	}
	return insights, page.Info(total), nil
}

// ListByUpload returns the insights of one upload after checking access to it
func (s *InsightService) ListByUpload(ctx context.Context, id core.Identity, uploadID core.ID, pageNumber, limit int) ([]*insight.Insight, ports.PageInfo, error) {
	if _, err := s.accessibleUpload(ctx, id, uploadID); err != nil {
		return nil, ports.PageInfo{}, err
	}
	page := ports.NewPage(pageNumber, limit, s.defaultLimit)
	insights, total, err := s.insights.List(ctx, ports.InsightFilter{UploadID: uploadID}, page)
	if err != nil {
		return nil, ports.PageInfo{}, resolve(err, "Insight")
	}
	return insights, page.Info(total), nil
}

// Get returns one insight and marks it read
func (s *InsightService) Get(ctx context.Context, id core.Identity, insightID core.ID) (*insight.Insight, error) {
	in, err := s.owned(ctx, id, insightID)
	if err != nil {
		return nil, err
	}
	if !in.IsRead {
		if err := s.insights.MarkRead(ctx, in.ID); err != nil {
			return nil, resolve(err, "Insight")
		}
		in.IsRead = true
	}
	return in, nil
}

// MarkRead flags an insight as read
func (s *InsightService) MarkRead(ctx context.Context, id core.Identity, insightID core.ID) error {
	in, err := s.owned(ctx, id, insightID)
	if err != nil {
		return err
	}
	return resolve(s.insights.MarkRead(ctx, in.ID), "Insight")
}

// Delete removes an insight
func (s *InsightService) Delete(ctx context.Context, id core.Identity, insightID core.ID) error {
	in, err := s.owned(ctx, id, insightID)
	if err != nil {
		return err
	}
	return resolve(s.insights.Delete(ctx, in.ID), "Insight")
}

// Stats counts the caller's insights by kind
func (s *InsightService) Stats(ctx context.Context, id core.Identity) (*insight.Stats, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	stats, err := s.insights.Stats(ctx, id.UserID)
	if err != nil {
		return nil, resolve(err, "Insight")
	}
	return stats, nil
}

func (s *InsightService) build(owner, uploadID core.ID, rec insight.Record) (*insight.Insight, error) {
	if rec.ConfidenceScore <= 0 {
		rec.ConfidenceScore = s.confidence
	}
	in, err := insight.New(owner, uploadID, rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build insight")
	}
	return in, nil
}

func (s *InsightService) owned(ctx context.Context, id core.Identity, insightID core.ID) (*insight.Insight, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	in, err := s.insights.GetByID(ctx, insightID)
	if err != nil {
		return nil, resolve(err, "Insight")
	}
	if !id.CanAccess(in.OwnerID) {
		return nil, errors.Forbidden("insight")
	}
	return in, nil
}

func (s *InsightService) accessibleUpload(ctx context.Context, id core.Identity, uploadID core.ID) (*upload.Upload, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	u, err := s.uploads.GetByID(ctx, uploadID)
	if err != nil {
		return nil, resolve(err, "Upload")
	}
	if !id.CanAccess(u.OwnerID) {
		return nil, errors.Forbidden("upload")
	}
	return u, nil
}

func (s *InsightService) completedUpload(ctx context.Context, id core.Identity, uploadID core.ID) (*upload.Upload, error) {
	u, err := s.accessibleUpload(ctx, id, uploadID)
	if err != nil {
		return nil, err
	}
	if u.Status != upload.StatusCompleted {
		return nil, errors.InvalidInput("Upload has not been processed successfully")
	}
	return u, nil
}
