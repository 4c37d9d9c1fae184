package testkit

import (
	"log"

	"sheetlens/adapters/excel"
	"sheetlens/app"
	"sheetlens/internal/metrics"
)

// TestKit wires the application services over in-memory adapters and the
// real workbook parser, for handler tests and local experiments.
type TestKit struct {
	Uploads  *InMemoryUploadRepository
	Charts   *InMemoryChartRepository
	Insights *InMemoryInsightRepository
	Storage  *InMemoryFileStorage
	Parser   *excel.Parser
	Metrics  *metrics.Metrics

	uploadService  *app.UploadService
	chartService   *app.ChartService
	insightService *app.InsightService
}

// NewTestKit creates a test kit with empty stores
func NewTestKit() *TestKit {
	kit := &TestKit{
		Uploads:  NewInMemoryUploadRepository(),
		Charts:   NewInMemoryChartRepository(),
		Insights: NewInMemoryInsightRepository(),
		Storage:  NewInMemoryFileStorage(),
		Parser:   excel.NewParser(),
		Metrics:  metrics.New(),
	}
	kit.uploadService = app.NewUploadService(kit.Uploads, kit.Storage, kit.Parser, kit.Metrics, app.UploadServiceConfig{})
	kit.chartService = app.NewChartService(kit.Charts, kit.Uploads, 10)
	kit.insightService = app.NewInsightService(kit.Uploads, kit.Insights, kit.Metrics, app.InsightServiceConfig{})
	return kit
}

func (t *TestKit) UploadService() *app.UploadService { return t.uploadService }

func (t *TestKit) ChartService() *app.ChartService { return t.chartService }

func (t *TestKit) InsightService() *app.InsightService { return t.insightService }

func (t *TestKit) OverviewService() *app.OverviewService {
	return app.NewOverviewService(t.uploadService, t.chartService, t.insightService)
}

func (t *TestKit) AdminService() *app.AdminService {
	return app.NewAdminService(t.Uploads, t.Charts, t.Insights)
}

// SampleWorkbook returns a generated orders workbook with the given number of
// rows. It panics if the workbook cannot be encoded, which only happens on a
// broken excelize install.
func (t *TestKit) SampleWorkbook(orders int) []byte {
	config := DefaultShoppingConfig()
	config.OrderCount = orders
	data, err := NewShoppingDataGenerator(config).Workbook()
	if err != nil {
		log.Panicf("[TestKit] failed to generate sample workbook: %v", err)
	}
	return data
}
