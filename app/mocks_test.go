package app

import (
	"context"
	"fmt"
	"time"

	"sheetlens/domain/chart"
	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/table"
	"sheetlens/domain/upload"
	"sheetlens/domain/workbook"
	"sheetlens/ports"

	"github.com/stretchr/testify/mock"
)

type mockUploadRepository struct {
	mock.Mock
}

func (m *mockUploadRepository) Create(ctx context.Context, u *upload.Upload) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUploadRepository) GetByID(ctx context.Context, id core.ID) (*upload.Upload, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*upload.Upload)
	return u, args.Error(1)
}

func (m *mockUploadRepository) List(ctx context.Context, filter ports.UploadFilter, page ports.Page) ([]*upload.Upload, int, error) {
	args := m.Called(ctx, filter, page)
	list, _ := args.Get(0).([]*upload.Upload)
	return list, args.Int(1), args.Error(2)
}

func (m *mockUploadRepository) Update(ctx context.Context, u *upload.Upload) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUploadRepository) SoftDelete(ctx context.Context, id core.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUploadRepository) AdjustChartCount(ctx context.Context, id core.ID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *mockUploadRepository) Stats(ctx context.Context, ownerID core.ID) (*upload.Stats, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(*upload.Stats)
	return s, args.Error(1)
}

func (m *mockUploadRepository) SystemStats(ctx context.Context) (*upload.SystemStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*upload.SystemStats)
	return s, args.Error(1)
}

func (m *mockUploadRepository) DailyCounts(ctx context.Context, since time.Time) ([]upload.DailyCount, error) {
	args := m.Called(ctx, since)
	counts, _ := args.Get(0).([]upload.DailyCount)
	return counts, args.Error(1)
}

type mockChartRepository struct {
	mock.Mock
}

func (m *mockChartRepository) Create(ctx context.Context, c *chart.Chart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockChartRepository) GetByID(ctx context.Context, id core.ID) (*chart.Chart, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*chart.Chart)
	return c, args.Error(1)
}

func (m *mockChartRepository) List(ctx context.Context, filter ports.ChartFilter, page ports.Page) ([]*chart.Chart, int, error) {
	args := m.Called(ctx, filter, page)
	list, _ := args.Get(0).([]*chart.Chart)
	return list, args.Int(1), args.Error(2)
}

func (m *mockChartRepository) Update(ctx context.Context, c *chart.Chart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockChartRepository) Delete(ctx context.Context, id core.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockChartRepository) IncrementViews(ctx context.Context, id core.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockChartRepository) IncrementDownloads(ctx context.Context, id core.ID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockChartRepository) Stats(ctx context.Context, ownerID core.ID) (*chart.Stats, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(*chart.Stats)
	return s, args.Error(1)
}

func (m *mockChartRepository) SystemStats(ctx context.Context) (*chart.SystemStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*chart.SystemStats)
	return s, args.Error(1)
}

type mockInsightRepository struct {
	mock.Mock
}

func (m *mockInsightRepository) Create(ctx context.Context, in *insight.Insight) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockInsightRepository) CreateBatch(ctx context.Context, ins []*insight.Insight) error {
	return m.Called(ctx, ins).Error(0)
}

func (m *mockInsightRepository) GetByID(ctx context.Context, id core.ID) (*insight.Insight, error) {
	args := m.Called(ctx, id)
	in, _ := args.Get(0).(*insight.Insight)
	return in, args.Error(1)
}

func (m *mockInsightRepository) List(ctx context.Context, filter ports.InsightFilter, page ports.Page) ([]*insight.Insight, int, error) {
	args := m.Called(ctx, filter, page)
	list, _ := args.Get(0).([]*insight.Insight)
	return list, args.Int(1), args.Error(2)
}

func (m *mockInsightRepository) MarkRead(ctx context.Context, id core.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInsightRepository) Delete(ctx context.Context, id core.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInsightRepository) Stats(ctx context.Context, ownerID core.ID) (*insight.Stats, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(*insight.Stats)
	return s, args.Error(1)
}

func (m *mockInsightRepository) SystemStats(ctx context.Context) (*insight.Stats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*insight.Stats)
	return s, args.Error(1)
}

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) Store(ctx context.Context, filename string, content []byte) (string, error) {
	args := m.Called(ctx, filename, content)
	return args.String(0), args.Error(1)
}

func (m *mockFileStorage) Read(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockFileStorage) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *mockFileStorage) Exists(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

type mockParser struct {
	mock.Mock
}

func (m *mockParser) Parse(data []byte) workbook.Result {
	return m.Called(data).Get(0).(workbook.Result)
}

var (
	ownerID = core.ID("018f2c1e-7a2b-7c3d-9e4f-000000000001")
	otherID = core.ID("018f2c1e-7a2b-7c3d-9e4f-000000000002")
	adminID = core.ID("018f2c1e-7a2b-7c3d-9e4f-000000000003")

	owner = core.Identity{UserID: ownerID, Role: core.RoleUser}
	other = core.Identity{UserID: otherID, Role: core.RoleUser}
	admin = core.Identity{UserID: adminID, Role: core.RoleAdmin}
)

// salesWorkbook builds a one-sheet parse result with a text Month column
// and a numeric Revenue column holding values.
func salesWorkbook(values ...float64) workbook.Result {
	raw := [][]interface{}{{"Month", "Revenue"}}
	for i, v := range values {
		raw = append(raw, []interface{}{fmt.Sprintf("M%02d", i+1), v})
	}
	t := table.Normalize(raw)
	sheets := map[string]*table.SheetTable{"Sales": &t}
	return workbook.Result{
		Success:  true,
		Workbook: workbook.Aggregate([]string{"Sales"}, sheets),
		Sheets:   sheets,
	}
}

func completedUpload(owner core.ID, res workbook.Result) *upload.Upload {
	u := upload.New(owner, "sales.xlsx", "sales_ref.xlsx", upload.MimeXLSX, []byte("content"))
	u.ApplyResult(res)
	return u
}
