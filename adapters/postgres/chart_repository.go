package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const chartColumns = `id, owner_id, upload_id, title, COALESCE(description, '') AS description, chart_type,
	chart_dimension, configuration, chart_data, COALESCE(image_url, '') AS image_url, view_count,
	download_count, is_public, tags, created_at, updated_at`

type chartRow struct {
	ID            core.ID        `db:"id"`
	OwnerID       core.ID        `db:"owner_id"`
	UploadID      core.ID        `db:"upload_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	ChartType     string         `db:"chart_type"`
	Dimension     string         `db:"chart_dimension"`
	Configuration []byte         `db:"configuration"`
	ChartData     []byte         `db:"chart_data"`
	ImageURL      string         `db:"image_url"`
	ViewCount     int            `db:"view_count"`
	DownloadCount int            `db:"download_count"`
	IsPublic      bool           `db:"is_public"`
	Tags          pq.StringArray `db:"tags"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r chartRow) toDomain() (*chart.Chart, error) {
	c := &chart.Chart{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		UploadID:      r.UploadID,
		Title:         r.Title,
		Description:   r.Description,
		ChartType:     chart.Type(r.ChartType),
		Dimension:     chart.Dimension(r.Dimension),
		ChartData:     json.RawMessage(r.ChartData),
		ImageURL:      r.ImageURL,
		ViewCount:     r.ViewCount,
		DownloadCount: r.DownloadCount,
		IsPublic:      r.IsPublic,
		Tags:          []string(r.Tags),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if len(r.Configuration) > 0 {
		if err := json.Unmarshal(r.Configuration, &c.Configuration); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chart configuration: %w", err)
		}
	}
	return c, nil
}

// chartRepository implements ports.ChartRepository
type chartRepository struct {
	db *sqlx.DB
}

// NewChartRepository creates a new chart repository
func NewChartRepository(db *sqlx.DB) ports.ChartRepository {
	return &chartRepository{db: db}
}

func chartPayloads(c *chart.Chart) ([]byte, []byte, error) {
	config, err := json.Marshal(c.Configuration)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal chart configuration: %w", err)
	}
	data := []byte(c.ChartData)
	if len(data) == 0 {
		data = []byte("{}")
	}
	return config, data, nil
}

// Create inserts a chart
func (r *chartRepository) Create(ctx context.Context, c *chart.Chart) error {
	config, data, err := chartPayloads(c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO charts (
			id, owner_id, upload_id, title, description, chart_type, chart_dimension, configuration,
			chart_data, image_url, view_count, download_count, is_public, tags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.OwnerID, c.UploadID, c.Title, nullString(c.Description), c.ChartType, c.Dimension, config,
		data, nullString(c.ImageURL), c.ViewCount, c.DownloadCount, c.IsPublic, pq.Array(c.Tags), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: chart %s already exists", core.ErrInvalidInput, c.ID)
		}
		return fmt.Errorf("failed to create chart: %w", err)
	}
	return nil
}

// GetByID retrieves a chart
func (r *chartRepository) GetByID(ctx context.Context, id core.ID) (*chart.Chart, error) {
	var row chartRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+chartColumns+` FROM charts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrChartNotFound
		}
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}
	return row.toDomain()
}

// List returns charts matching filter, newest first
func (r *chartRepository) List(ctx context.Context, filter ports.ChartFilter, page ports.Page) ([]*chart.Chart, int, error) {
	var where whereClause
	if !filter.OwnerID.IsEmpty() {
		where.add("owner_id = ?", filter.OwnerID)
	}
	if !filter.UploadID.IsEmpty() {
		where.add("upload_id = ?", filter.UploadID)
	}
	if filter.ChartType != "" {
		where.add("chart_type = ?", filter.ChartType)
	}
	if filter.Dimension != "" {
		where.add("chart_dimension = ?", filter.Dimension)
	}

	countQuery, countArgs := where.build(`SELECT COUNT(*) FROM charts`, "")
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count charts: %w", err)
	}

	query, args := where.build(`SELECT `+chartColumns+` FROM charts`,
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`, page.Limit, page.Offset())
	var rows []chartRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list charts: %w", err)
	}

	charts := make([]*chart.Chart, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		charts = append(charts, c)
	}
	return charts, total, nil
}

// Update persists the editable chart fields
func (r *chartRepository) Update(ctx context.Context, c *chart.Chart) error {
	config, data, err := chartPayloads(c)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE charts SET title = $2, description = $3, configuration = $4, chart_data = $5,
			is_public = $6, tags = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Title, nullString(c.Description), config, data, c.IsPublic, pq.Array(c.Tags), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update chart: %w", err)
	}
	return expectOne(res, core.ErrChartNotFound)
}

// Delete removes a chart
func (r *chartRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	return expectOne(res, core.ErrChartNotFound)
}

// IncrementViews bumps the view counter
func (r *chartRepository) IncrementViews(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE charts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment chart views: %w", err)
	}
	return expectOne(res, core.ErrChartNotFound)
}

// IncrementDownloads bumps the download counter and returns the new value
func (r *chartRepository) IncrementDownloads(ctx context.Context, id core.ID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`UPDATE charts SET download_count = download_count + 1 WHERE id = $1 RETURNING download_count`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, core.ErrChartNotFound
		}
		return 0, fmt.Errorf("failed to increment chart downloads: %w", err)
	}
	return count, nil
}

// Stats aggregates a user's charts
func (r *chartRepository) Stats(ctx context.Context, ownerID core.ID) (*chart.Stats, error) {
	var rows []struct {
		ChartType string `db:"chart_type"`
		Count     int    `db:"count"`
		Views     int    `db:"views"`
		Downloads int    `db:"downloads"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT chart_type, COUNT(*) AS count,
			COALESCE(SUM(view_count), 0) AS views,
			COALESCE(SUM(download_count), 0) AS downloads
		FROM charts WHERE owner_id = $1 GROUP BY chart_type`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate charts: %w", err)
	}

	stats := &chart.Stats{ByType: make(map[chart.Type]int, len(rows))}
	for _, row := range rows {
		stats.TotalCharts += row.Count
		stats.TotalViews += row.Views
		stats.TotalDownloads += row.Downloads
		stats.ByType[chart.Type(row.ChartType)] = row.Count
	}
	return stats, nil
}

// SystemStats aggregates charts across every owner
func (r *chartRepository) SystemStats(ctx context.Context) (*chart.SystemStats, error) {
	var byType []struct {
		ChartType string `db:"chart_type"`
		Count     int    `db:"count"`
		Views     int    `db:"views"`
		Downloads int    `db:"downloads"`
	}
	err := r.db.SelectContext(ctx, &byType, `
		SELECT chart_type, COUNT(*) AS count,
			COALESCE(SUM(view_count), 0) AS views,
			COALESCE(SUM(download_count), 0) AS downloads
		FROM charts GROUP BY chart_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate chart types: %w", err)
	}

	var byDimension []struct {
		Dimension string `db:"chart_dimension"`
		Count     int    `db:"count"`
	}
	err = r.db.SelectContext(ctx, &byDimension,
		`SELECT chart_dimension, COUNT(*) AS count FROM charts GROUP BY chart_dimension`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate chart dimensions: %w", err)
	}

	stats := &chart.SystemStats{
		ByDimension: make(map[chart.Dimension]int, len(byDimension)),
		ByType:      make([]chart.TypeUsage, 0, len(byType)),
	}
	for _, row := range byType {
		stats.TotalCharts += row.Count
		stats.ByType = append(stats.ByType, chart.TypeUsage{
			Type:      chart.Type(row.ChartType),
			Count:     row.Count,
			Views:     row.Views,
			Downloads: row.Downloads,
		})
	}
	for _, row := range byDimension {
		stats.ByDimension[chart.Dimension(row.Dimension)] = row.Count
	}
	chart.SortTypeUsage(stats.ByType)
	return stats, nil
}
