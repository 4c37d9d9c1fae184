package ports

import (
	"context"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
)

// ChartFilter narrows chart listings
type ChartFilter struct {
	OwnerID   core.ID
	UploadID  core.ID
	ChartType chart.Type
	Dimension chart.Dimension
}

// ChartRepository defines the interface for chart storage operations
type ChartRepository interface {
	Create(ctx context.Context, c *chart.Chart) error
	GetByID(ctx context.Context, id core.ID) (*chart.Chart, error)
	List(ctx context.Context, filter ChartFilter, page Page) ([]*chart.Chart, int, error)
	Update(ctx context.Context, c *chart.Chart) error
	Delete(ctx context.Context, id core.ID) error
	IncrementViews(ctx context.Context, id core.ID) error
	IncrementDownloads(ctx context.Context, id core.ID) (int, error)
	Stats(ctx context.Context, ownerID core.ID) (*chart.Stats, error)
	SystemStats(ctx context.Context) (*chart.SystemStats, error)
}
