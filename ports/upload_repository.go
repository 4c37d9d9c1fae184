package ports

import (
	"context"
	"time"

	"sheetlens/domain/core"
	"sheetlens/domain/upload"
)

// UploadFilter narrows upload listings. An empty OwnerID lists every owner.
type UploadFilter struct {
	OwnerID core.ID
	Status  upload.Status
}

// UploadRepository defines the interface for upload storage operations.
// Soft-deleted uploads are invisible to every read.
type UploadRepository interface {
	Create(ctx context.Context, u *upload.Upload) error
	GetByID(ctx context.Context, id core.ID) (*upload.Upload, error)
	// List returns uploads without parsed data, newest first, plus the total count.
	List(ctx context.Context, filter UploadFilter, page Page) ([]*upload.Upload, int, error)
	Update(ctx context.Context, u *upload.Upload) error
	SoftDelete(ctx context.Context, id core.ID) error
	AdjustChartCount(ctx context.Context, id core.ID, delta int) error
	Stats(ctx context.Context, ownerID core.ID) (*upload.Stats, error)
	// SystemStats aggregates uploads of every owner.
	SystemStats(ctx context.Context) (*upload.SystemStats, error)
	// DailyCounts counts uploads created at or after since, per UTC day, oldest first.
	DailyCounts(ctx context.Context, since time.Time) ([]upload.DailyCount, error)
}
