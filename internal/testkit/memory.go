package testkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/table"
	"sheetlens/domain/upload"
	"sheetlens/ports"
)

// window slices items to one page. Items are expected newest first.
func window[T any](items []T, page ports.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// storedSheets copies parsed data through its JSON form, as the database
// column does, so reads see what a real store would return.
func storedSheets(sheets map[string]*table.SheetTable) (map[string]*table.SheetTable, error) {
	if sheets == nil {
		return nil, nil
	}
	data, err := json.Marshal(sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed data: %w", err)
	}
	var out map[string]*table.SheetTable
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parsed data: %w", err)
	}
	return out, nil
}

// InMemoryUploadRepository implements ports.UploadRepository with in-memory storage
type InMemoryUploadRepository struct {
	uploads map[core.ID]upload.Upload
	mu      sync.RWMutex
}

func NewInMemoryUploadRepository() *InMemoryUploadRepository {
	return &InMemoryUploadRepository{uploads: make(map[core.ID]upload.Upload)}
}

func (r *InMemoryUploadRepository) Create(ctx context.Context, u *upload.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.uploads[u.ID]; exists {
		return fmt.Errorf("%w: upload %s already exists", core.ErrInvalidInput, u.ID)
	}
	stored := *u
	sheets, err := storedSheets(u.ParsedData)
	if err != nil {
		return err
	}
	stored.ParsedData = sheets
	r.uploads[u.ID] = stored
	return nil
}

func (r *InMemoryUploadRepository) GetByID(ctx context.Context, id core.ID) (*upload.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.uploads[id]
	if !ok || u.IsDeleted {
		return nil, core.ErrUploadNotFound
	}
	return &u, nil
}

func (r *InMemoryUploadRepository) List(ctx context.Context, filter ports.UploadFilter, page ports.Page) ([]*upload.Upload, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*upload.Upload
	for _, u := range r.uploads {
		if u.IsDeleted {
			continue
		}
		if !filter.OwnerID.IsEmpty() && u.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		u := u
		u.ParsedData = nil
		matched = append(matched, &u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, page), len(matched), nil
}

func (r *InMemoryUploadRepository) Update(ctx context.Context, u *upload.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.uploads[u.ID]
	if !ok || existing.IsDeleted {
		return core.ErrUploadNotFound
	}
	updated := *u
	sheets, err := storedSheets(u.ParsedData)
	if err != nil {
		return err
	}
	updated.ParsedData = sheets
	updated.ChartCount = existing.ChartCount
	updated.UpdatedAt = time.Now().UTC()
	r.uploads[u.ID] = updated
	return nil
}

func (r *InMemoryUploadRepository) SoftDelete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.uploads[id]
	if !ok || u.IsDeleted {
		return core.ErrUploadNotFound
	}
	u.IsDeleted = true
	r.uploads[id] = u
	return nil
}

func (r *InMemoryUploadRepository) AdjustChartCount(ctx context.Context, id core.ID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.uploads[id]
	if !ok || u.IsDeleted {
		return core.ErrUploadNotFound
	}
	u.ChartCount += delta
	if u.ChartCount < 0 {
		u.ChartCount = 0
	}
	r.uploads[id] = u
	return nil
}

func (r *InMemoryUploadRepository) Stats(ctx context.Context, ownerID core.ID) (*upload.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &upload.Stats{ByStatus: map[upload.Status]int{}}
	for _, u := range r.uploads {
		if u.IsDeleted || u.OwnerID != ownerID {
			continue
		}
		stats.TotalUploads++
		stats.TotalSize += u.FileSizeBytes
		stats.TotalRows += u.RowCount
		stats.TotalCharts += u.ChartCount
		stats.ByStatus[u.Status]++
	}
	return stats, nil
}

func (r *InMemoryUploadRepository) SystemStats(ctx context.Context) (*upload.SystemStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &upload.SystemStats{}
	for _, u := range r.uploads {
		if u.IsDeleted {
			continue
		}
		stats.TotalUploads++
		stats.TotalSize += u.FileSizeBytes
		stats.TotalSheets += u.SheetCount
		stats.TotalRows += u.RowCount
		if u.FileSizeBytes > stats.MaxFileSize {
			stats.MaxFileSize = u.FileSizeBytes
		}
	}
	if stats.TotalUploads > 0 {
		stats.AvgFileSize = float64(stats.TotalSize) / float64(stats.TotalUploads)
	}
	return stats, nil
}

func (r *InMemoryUploadRepository) DailyCounts(ctx context.Context, since time.Time) ([]upload.DailyCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := map[string]int{}
	for _, u := range r.uploads {
		if u.IsDeleted || u.CreatedAt.Before(since) {
			continue
		}
		byDay[u.CreatedAt.UTC().Format("2006-01-02")]++
	}
	counts := make([]upload.DailyCount, 0, len(byDay))
	for day, n := range byDay {
		counts = append(counts, upload.DailyCount{Date: day, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts, nil
}

// InMemoryChartRepository implements ports.ChartRepository with in-memory storage
type InMemoryChartRepository struct {
	charts map[core.ID]chart.Chart
	mu     sync.RWMutex
}

func NewInMemoryChartRepository() *InMemoryChartRepository {
	return &InMemoryChartRepository{charts: make(map[core.ID]chart.Chart)}
}

func (r *InMemoryChartRepository) Create(ctx context.Context, c *chart.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.charts[c.ID] = *c
	return nil
}

func (r *InMemoryChartRepository) GetByID(ctx context.Context, id core.ID) (*chart.Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.charts[id]
	if !ok {
		return nil, core.ErrChartNotFound
	}
	return &c, nil
}

func (r *InMemoryChartRepository) List(ctx context.Context, filter ports.ChartFilter, page ports.Page) ([]*chart.Chart, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*chart.Chart
	for _, c := range r.charts {
		switch {
		case !filter.OwnerID.IsEmpty() && c.OwnerID != filter.OwnerID,
			!filter.UploadID.IsEmpty() && c.UploadID != filter.UploadID,
			filter.ChartType != "" && c.ChartType != filter.ChartType,
			filter.Dimension != "" && c.Dimension != filter.Dimension:
			continue
		}
		c := c
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, page), len(matched), nil
}

func (r *InMemoryChartRepository) Update(ctx context.Context, c *chart.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.charts[c.ID]; !ok {
		return core.ErrChartNotFound
	}
	r.charts[c.ID] = *c
	return nil
}

func (r *InMemoryChartRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.charts[id]; !ok {
		return core.ErrChartNotFound
	}
	delete(r.charts, id)
	return nil
}

func (r *InMemoryChartRepository) IncrementViews(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.charts[id]
	if !ok {
		return core.ErrChartNotFound
	}
	c.ViewCount++
	r.charts[id] = c
	return nil
}

func (r *InMemoryChartRepository) IncrementDownloads(ctx context.Context, id core.ID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.charts[id]
	if !ok {
		return 0, core.ErrChartNotFound
	}
	c.DownloadCount++
	r.charts[id] = c
	return c.DownloadCount, nil
}

func (r *InMemoryChartRepository) Stats(ctx context.Context, ownerID core.ID) (*chart.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &chart.Stats{ByType: map[chart.Type]int{}}
	for _, c := range r.charts {
		if c.OwnerID != ownerID {
			continue
		}
		stats.TotalCharts++
		stats.TotalViews += c.ViewCount
		stats.TotalDownloads += c.DownloadCount
		stats.ByType[c.ChartType]++
	}
	return stats, nil
}

func (r *InMemoryChartRepository) SystemStats(ctx context.Context) (*chart.SystemStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &chart.SystemStats{ByDimension: map[chart.Dimension]int{}, ByType: []chart.TypeUsage{}}
	usage := map[chart.Type]*chart.TypeUsage{}
	for _, c := range r.charts {
		stats.TotalCharts++
		stats.ByDimension[c.Dimension]++
		u, ok := usage[c.ChartType]
		if !ok {
			u = &chart.TypeUsage{Type: c.ChartType}
			usage[c.ChartType] = u
		}
		u.Count++
		u.Views += c.ViewCount
		u.Downloads += c.DownloadCount
	}
	for _, u := range usage {
		stats.ByType = append(stats.ByType, *u)
	}
	chart.SortTypeUsage(stats.ByType)
	return stats, nil
}

// InMemoryInsightRepository implements ports.InsightRepository with in-memory storage
type InMemoryInsightRepository struct {
	insights map[core.ID]insight.Insight
	mu       sync.RWMutex
}

func NewInMemoryInsightRepository() *InMemoryInsightRepository {
	return &InMemoryInsightRepository{insights: make(map[core.ID]insight.Insight)}
}

func (r *InMemoryInsightRepository) Create(ctx context.Context, in *insight.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insights[in.ID] = *in
	return nil
}

func (r *InMemoryInsightRepository) CreateBatch(ctx context.Context, ins []*insight.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, in := range ins {
		r.insights[in.ID] = *in
	}
	return nil
}

func (r *InMemoryInsightRepository) GetByID(ctx context.Context, id core.ID) (*insight.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.insights[id]
	if !ok {
		return nil, core.ErrInsightNotFound
	}
	return &in, nil
}

func (r *InMemoryInsightRepository) List(ctx context.Context, filter ports.InsightFilter, page ports.Page) ([]*insight.Insight, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*insight.Insight
	for _, in := range r.insights {
		switch {
		case !filter.OwnerID.IsEmpty() && in.OwnerID != filter.OwnerID,
			!filter.UploadID.IsEmpty() && in.UploadID != filter.UploadID,
			filter.Kind != "" && in.Kind != filter.Kind,
			filter.IsRead != nil && in.IsRead != *filter.IsRead:
			continue
		}
		in := in
		matched = append(matched, &in)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, page), len(matched), nil
}

func (r *InMemoryInsightRepository) MarkRead(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.insights[id]
	if !ok {
		return core.ErrInsightNotFound
	}
	in.IsRead = true
	r.insights[id] = in
	return nil
}

func (r *InMemoryInsightRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.insights[id]; !ok {
		return core.ErrInsightNotFound
	}
	delete(r.insights, id)
	return nil
}

func (r *InMemoryInsightRepository) Stats(ctx context.Context, ownerID core.ID) (*insight.Stats, error) {
	return r.stats(func(in insight.Insight) bool { return in.OwnerID == ownerID }), nil
}

func (r *InMemoryInsightRepository) SystemStats(ctx context.Context) (*insight.Stats, error) {
	return r.stats(func(insight.Insight) bool { return true }), nil
}

func (r *InMemoryInsightRepository) stats(match func(insight.Insight) bool) *insight.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &insight.Stats{ByKind: map[insight.Kind]int{}}
	for _, in := range r.insights {
		if !match(in) {
			continue
		}
		stats.Total++
		if !in.IsRead {
			stats.Unread++
		}
		stats.ByKind[in.Kind]++
	}
	return stats
}

// InMemoryFileStorage implements ports.FileStorage in memory
type InMemoryFileStorage struct {
	files map[string][]byte
	mu    sync.RWMutex
}

func NewInMemoryFileStorage() *InMemoryFileStorage {
	return &InMemoryFileStorage{files: make(map[string][]byte)}
}

func (s *InMemoryFileStorage) Store(ctx context.Context, filename string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := core.NewID().String() + "_" + filename
	s.files[ref] = append([]byte(nil), content...)
	return ref, nil
}

func (s *InMemoryFileStorage) Read(ctx context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.files[ref]
	if !ok {
		return nil, fmt.Errorf("stored file %s not found", ref)
	}
	return b, nil
}

func (s *InMemoryFileStorage) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, ref)
	return nil
}

func (s *InMemoryFileStorage) Exists(ctx context.Context, ref string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[ref]
	return ok, nil
}

// Len reports how many files are held
func (s *InMemoryFileStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
