package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/ports"

	"github.com/jmoiron/sqlx"
)

const insightColumns = `id, owner_id, upload_id, kind, title, content, data, confidence, status, is_read, created_at, updated_at`

// insightRepository implements ports.InsightRepository
type insightRepository struct {
	db *sqlx.DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *sqlx.DB) ports.InsightRepository {
	return &insightRepository{db: db}
}

const insertInsight = `INSERT INTO insights (
	id, owner_id, upload_id, kind, title, content, data, confidence, status, is_read, created_at, updated_at
) VALUES (
	:id, :owner_id, :upload_id, :kind, :title, :content, :data, :confidence, :status, :is_read, :created_at, :updated_at
)`

// Create inserts one insight
func (r *insightRepository) Create(ctx context.Context, in *insight.Insight) error {
	if _, err := r.db.NamedExecContext(ctx, insertInsight, insightArgs(in)); err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

// CreateBatch inserts insights in one transaction
func (r *insightRepository) CreateBatch(ctx context.Context, ins []*insight.Insight) error {
	if len(ins) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, in := range ins {
		if _, err := tx.NamedExecContext(ctx, insertInsight, insightArgs(in)); err != nil {
			return fmt.Errorf("failed to create %s insight: %w", in.Kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insights: %w", err)
	}
	return nil
}

// insightArgs maps an insight onto named parameters; JSONB needs raw bytes.
func insightArgs(in *insight.Insight) map[string]interface{} {
	data := []byte(in.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	return map[string]interface{}{
		"id":         in.ID,
		"owner_id":   in.OwnerID,
		"upload_id":  in.UploadID,
		"kind":       in.Kind,
		"title":      in.Title,
		"content":    in.Content,
		"data":       data,
		"confidence": in.Confidence,
		"status":     in.Status,
		"is_read":    in.IsRead,
		"created_at": in.CreatedAt,
		"updated_at": in.UpdatedAt,
	}
}

// GetByID retrieves an insight
func (r *insightRepository) GetByID(ctx context.Context, id core.ID) (*insight.Insight, error) {
	var in insight.Insight
	if err := r.db.GetContext(ctx, &in, `SELECT `+insightColumns+` FROM insights WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrInsightNotFound
		}
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}
	return &in, nil
}

// List returns insights matching filter, newest first
func (r *insightRepository) List(ctx context.Context, filter ports.InsightFilter, page ports.Page) ([]*insight.Insight, int, error) {
	where := insightWhere(filter)

	countQuery, countArgs := where.build(`SELECT COUNT(*) FROM insights`, "")
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count insights: %w", err)
	}

	query, args := where.build(`SELECT `+insightColumns+` FROM insights`,
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`, page.Limit, page.Offset())
	insights := []*insight.Insight{}
	if err := r.db.SelectContext(ctx, &insights, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, total, nil
}

func insightWhere(filter ports.InsightFilter) *whereClause {
	where := &whereClause{}
	if !filter.OwnerID.IsEmpty() {
		where.add("owner_id = ?", filter.OwnerID)
	}
	if !filter.UploadID.IsEmpty() {
		where.add("upload_id = ?", filter.UploadID)
	}
	if filter.Kind != "" {
		where.add("kind = ?", filter.Kind)
	}
	if filter.IsRead != nil {
		where.add("is_read = ?", *filter.IsRead)
	}
	return where
}

// MarkRead flags an insight as read
func (r *insightRepository) MarkRead(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE insights SET is_read = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark insight read: %w", err)
	}
	return expectOne(res, core.ErrInsightNotFound)
}

// Delete removes an insight
func (r *insightRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
	}
	return expectOne(res, core.ErrInsightNotFound)
}

// Stats counts a user's insights by kind
func (r *insightRepository) Stats(ctx context.Context, ownerID core.ID) (*insight.Stats, error) {
	var where whereClause
	where.add("owner_id = ?", ownerID)
	return r.stats(ctx, where)
}

// SystemStats counts insights of every owner by kind
func (r *insightRepository) SystemStats(ctx context.Context) (*insight.Stats, error) {
	return r.stats(ctx, whereClause{})
}

func (r *insightRepository) stats(ctx context.Context, where whereClause) (*insight.Stats, error) {
	var rows []struct {
		Kind   string `db:"kind"`
		Count  int    `db:"count"`
		Unread int    `db:"unread"`
	}
	query, args := where.build(
		`SELECT kind, COUNT(*) AS count, COUNT(*) FILTER (WHERE NOT is_read) AS unread FROM insights`,
		` GROUP BY kind`)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate insights: %w", err)
	}

	stats := &insight.Stats{ByKind: make(map[insight.Kind]int, len(rows))}
	for _, row := range rows {
		stats.Total += row.Count
		stats.Unread += row.Unread
		stats.ByKind[insight.Kind(row.Kind)] = row.Count
	}
	return stats, nil
}
