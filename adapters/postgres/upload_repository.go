package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sheetlens/domain/core"
	"sheetlens/domain/table"
	"sheetlens/domain/upload"
	"sheetlens/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uploadColumns = `id, owner_id, original_file_name, stored_file_ref, file_size_bytes, mime_type,
	COALESCE(content_hash, '') AS content_hash, sheet_count, row_count, column_count, sheet_names,
	status, COALESCE(error_message, '') AS error_message, chart_count, download_count, is_deleted,
	created_at, updated_at`

// uploadRow mirrors the uploads table
type uploadRow struct {
	ID               core.ID        `db:"id"`
	OwnerID          core.ID        `db:"owner_id"`
	OriginalFileName string         `db:"original_file_name"`
	StoredFileRef    string         `db:"stored_file_ref"`
	FileSizeBytes    int64          `db:"file_size_bytes"`
	MimeType         string         `db:"mime_type"`
	ContentHash      string         `db:"content_hash"`
	SheetCount       int            `db:"sheet_count"`
	RowCount         int            `db:"row_count"`
	ColumnCount      int            `db:"column_count"`
	SheetNames       pq.StringArray `db:"sheet_names"`
	ParsedData       []byte         `db:"parsed_data"`
	Status           string         `db:"status"`
	ErrorMessage     string         `db:"error_message"`
	ChartCount       int            `db:"chart_count"`
	DownloadCount    int            `db:"download_count"`
	IsDeleted        bool           `db:"is_deleted"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r uploadRow) toDomain() (*upload.Upload, error) {
	u := &upload.Upload{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		OriginalFileName: r.OriginalFileName,
		StoredFileRef:    r.StoredFileRef,
		FileSizeBytes:    r.FileSizeBytes,
		MimeType:         r.MimeType,
		ContentHash:      core.Hash(r.ContentHash),
		SheetCount:       r.SheetCount,
		RowCount:         r.RowCount,
		ColumnCount:      r.ColumnCount,
		SheetNames:       []string(r.SheetNames),
		Status:           upload.Status(r.Status),
		ErrorMessage:     r.ErrorMessage,
		ChartCount:       r.ChartCount,
		DownloadCount:    r.DownloadCount,
		IsDeleted:        r.IsDeleted,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if u.SheetNames == nil {
		u.SheetNames = []string{}
	}
	if len(r.ParsedData) > 0 {
		var sheets map[string]*table.SheetTable
		if err := json.Unmarshal(r.ParsedData, &sheets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parsed data: %w", err)
		}
		u.ParsedData = sheets
	}
	return u, nil
}

// uploadRepository implements ports.UploadRepository
type uploadRepository struct {
	db *sqlx.DB
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db *sqlx.DB) ports.UploadRepository {
	return &uploadRepository{db: db}
}

func marshalParsedData(sheets map[string]*table.SheetTable) ([]byte, error) {
	if sheets == nil {
		return nil, nil
	}
	data, err := json.Marshal(sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed data: %w", err)
	}
	return data, nil
}

// Create inserts a new upload
func (r *uploadRepository) Create(ctx context.Context, u *upload.Upload) error {
	parsed, err := marshalParsedData(u.ParsedData)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO uploads (
			id, owner_id, original_file_name, stored_file_ref, file_size_bytes, mime_type,
			content_hash, sheet_count, row_count, column_count, sheet_names, parsed_data,
			status, error_message, chart_count, download_count, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		u.ID, u.OwnerID, u.OriginalFileName, u.StoredFileRef, u.FileSizeBytes, u.MimeType,
		u.ContentHash, u.SheetCount, u.RowCount, u.ColumnCount, pq.Array(u.SheetNames), parsed,
		u.Status, nullString(u.ErrorMessage), u.ChartCount, u.DownloadCount, u.IsDeleted, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: upload %s already exists", core.ErrInvalidInput, u.ID)
		}
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

// GetByID retrieves an upload with its parsed data
func (r *uploadRepository) GetByID(ctx context.Context, id core.ID) (*upload.Upload, error) {
	var row uploadRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+uploadColumns+`, parsed_data FROM uploads WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrUploadNotFound
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return row.toDomain()
}

// List returns upload summaries without parsed data
func (r *uploadRepository) List(ctx context.Context, filter ports.UploadFilter, page ports.Page) ([]*upload.Upload, int, error) {
	var where whereClause
	where.add("is_deleted = false")
	if !filter.OwnerID.IsEmpty() {
		where.add("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}

	countQuery, countArgs := where.build(`SELECT COUNT(*) FROM uploads`, "")
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	query, args := where.build(`SELECT `+uploadColumns+` FROM uploads`,
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`, page.Limit, page.Offset())
	var rows []uploadRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list uploads: %w", err)
	}

	uploads := make([]*upload.Upload, 0, len(rows))
	for _, row := range rows {
		u, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		uploads = append(uploads, u)
	}
	return uploads, total, nil
}

// Update persists the mutable fields of an upload
func (r *uploadRepository) Update(ctx context.Context, u *upload.Upload) error {
	parsed, err := marshalParsedData(u.ParsedData)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE uploads SET
			sheet_count = $2, row_count = $3, column_count = $4, sheet_names = $5, parsed_data = $6,
			status = $7, error_message = $8, stored_file_ref = $9, updated_at = $10
		WHERE id = $1 AND is_deleted = false`,
		u.ID, u.SheetCount, u.RowCount, u.ColumnCount, pq.Array(u.SheetNames), parsed,
		u.Status, nullString(u.ErrorMessage), u.StoredFileRef, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update upload: %w", err)
	}
	return expectOne(res, core.ErrUploadNotFound)
}

// SoftDelete hides an upload from every read
func (r *uploadRepository) SoftDelete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE uploads SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return expectOne(res, core.ErrUploadNotFound)
}

// AdjustChartCount shifts the chart counter atomically, never below zero
func (r *uploadRepository) AdjustChartCount(ctx context.Context, id core.ID, delta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE uploads SET chart_count = GREATEST(chart_count + $2, 0), updated_at = NOW() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust chart count: %w", err)
	}
	return expectOne(res, core.ErrUploadNotFound)
}

// Stats aggregates a user's uploads
func (r *uploadRepository) Stats(ctx context.Context, ownerID core.ID) (*upload.Stats, error) {
	var totals struct {
		TotalUploads int   `db:"total_uploads"`
		TotalSize    int64 `db:"total_size"`
		TotalRows    int   `db:"total_rows"`
		TotalCharts  int   `db:"total_charts"`
	}
	err := r.db.GetContext(ctx, &totals, `
		SELECT COUNT(*) AS total_uploads,
			COALESCE(SUM(file_size_bytes), 0) AS total_size,
			COALESCE(SUM(row_count), 0) AS total_rows,
			COALESCE(SUM(chart_count), 0) AS total_charts
		FROM uploads WHERE owner_id = $1 AND is_deleted = false`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate uploads: %w", err)
	}

	var byStatus []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err = r.db.SelectContext(ctx, &byStatus, `
		SELECT status, COUNT(*) AS count FROM uploads
		WHERE owner_id = $1 AND is_deleted = false GROUP BY status`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate upload status: %w", err)
	}

	stats := &upload.Stats{
		TotalUploads: totals.TotalUploads,
		TotalSize:    totals.TotalSize,
		TotalRows:    totals.TotalRows,
		TotalCharts:  totals.TotalCharts,
		ByStatus:     make(map[upload.Status]int, len(byStatus)),
	}
	for _, s := range byStatus {
		stats.ByStatus[upload.Status(s.Status)] = s.Count
	}
	return stats, nil
}

// SystemStats aggregates uploads across every owner
func (r *uploadRepository) SystemStats(ctx context.Context) (*upload.SystemStats, error) {
	var stats upload.SystemStats
	err := r.db.QueryRowxContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(file_size_bytes), 0),
			COALESCE(SUM(sheet_count), 0),
			COALESCE(SUM(row_count), 0),
			COALESCE(AVG(file_size_bytes), 0)::float8,
			COALESCE(MAX(file_size_bytes), 0)
		FROM uploads WHERE is_deleted = false`).Scan(
		&stats.TotalUploads, &stats.TotalSize, &stats.TotalSheets,
		&stats.TotalRows, &stats.AvgFileSize, &stats.MaxFileSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate system uploads: %w", err)
	}
	return &stats, nil
}

// DailyCounts groups recent uploads by UTC day
func (r *uploadRepository) DailyCounts(ctx context.Context, since time.Time) ([]upload.DailyCount, error) {
	var rows []struct {
		Day   string `db:"day"`
		Count int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM uploads WHERE is_deleted = false AND created_at >= $1
		GROUP BY day ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count daily uploads: %w", err)
	}

	counts := make([]upload.DailyCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, upload.DailyCount{Date: row.Day, Count: row.Count})
	}
	return counts, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
