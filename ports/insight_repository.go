package ports

import (
	"context"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
)

// InsightFilter narrows insight listings. A nil IsRead matches both states.
type InsightFilter struct {
	OwnerID  core.ID
	UploadID core.ID
	Kind     insight.Kind
	IsRead   *bool
}

// InsightRepository defines the interface for insight storage operations.
// Insights are additive: creating the same analysis twice stores two rows.
type InsightRepository interface {
	Create(ctx context.Context, in *insight.Insight) error
	CreateBatch(ctx context.Context, ins []*insight.Insight) error
	GetByID(ctx context.Context, id core.ID) (*insight.Insight, error)
	List(ctx context.Context, filter InsightFilter, page Page) ([]*insight.Insight, int, error)
	MarkRead(ctx context.Context, id core.ID) error
	Delete(ctx context.Context, id core.ID) error
	Stats(ctx context.Context, ownerID core.ID) (*insight.Stats, error)
	// SystemStats counts insights of every owner.
	SystemStats(ctx context.Context) (*insight.Stats, error)
}
