package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/xuri/excelize/v2"
)

// ShoppingGeneratorConfig configures the synthetic orders workbook
type ShoppingGeneratorConfig struct {
	OrderCount  int       `json:"order_count"`
	StartDate   time.Time `json:"start_date"`
	DailyGrowth float64   `json:"daily_growth"` // revenue drift per order, in currency units
	MissingRate float64   `json:"missing_rate"` // share of blank Units cells
	SpikeEvery  int       `json:"spike_every"`  // every Nth order gets an outlier revenue; 0 disables
	Seed        int64     `json:"seed"`
}

// DefaultShoppingConfig returns sensible defaults for the orders workbook
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		OrderCount:  120,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DailyGrowth: 1.5,
		MissingRate: 0.05,
		SpikeEvery:  40,
		Seed:        42,
	}
}

// Order is one generated row of the Orders sheet
type Order struct {
	OrderID string
	Date    time.Time
	Region  string
	Channel string
	Units   *int
	Revenue float64
}

// ShoppingDataGenerator produces deterministic spreadsheet fixtures: an
// Orders sheet with a rising revenue series and a few outliers, and a small
// Regions lookup sheet.
type ShoppingDataGenerator struct {
	config ShoppingGeneratorConfig
	rng    *rand.Rand
}

// NewShoppingDataGenerator creates a new generator
func NewShoppingDataGenerator(config ShoppingGeneratorConfig) *ShoppingDataGenerator {
	return &ShoppingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var ordersHeader = []interface{}{"Order ID", "Order Date", "Region", "Channel", "Units", "Revenue"}

// GenerateOrders generates the order rows
func (g *ShoppingDataGenerator) GenerateOrders() []Order {
	orders := make([]Order, 0, g.config.OrderCount)
	for i := 0; i < g.config.OrderCount; i++ {
		units := 1 + g.rng.Intn(9)
		revenue := 100 + float64(i)*g.config.DailyGrowth + float64(units)*12 + g.rng.NormFloat64()*8
		if g.config.SpikeEvery > 0 && (i+1)%g.config.SpikeEvery == 0 {
			revenue *= 6
		}

		order := Order{
			OrderID: fmt.Sprintf("ORD-%05d", i+1),
			Date:    g.config.StartDate.AddDate(0, 0, i),
			Region:  g.randomRegion(),
			Channel: g.randomChannel(),
			Revenue: math.Round(revenue*100) / 100,
		}
		if g.rng.Float64() >= g.config.MissingRate {
			order.Units = &units
		}
		orders = append(orders, order)
	}
	return orders
}

// Workbook renders the generated data as an .xlsx file
func (g *ShoppingDataGenerator) Workbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Orders"); err != nil {
		return nil, fmt.Errorf("failed to name orders sheet: %w", err)
	}
	if err := f.SetSheetRow("Orders", "A1", &ordersHeader); err != nil {
		return nil, fmt.Errorf("failed to write orders header: %w", err)
	}
	for i, o := range g.GenerateOrders() {
		var units interface{}
		if o.Units != nil {
			units = *o.Units
		}
		row := []interface{}{o.OrderID, o.Date, o.Region, o.Channel, units, o.Revenue}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow("Orders", cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write order row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet("Regions"); err != nil {
		return nil, fmt.Errorf("failed to add regions sheet: %w", err)
	}
	lookup := [][]interface{}{
		{"Region", "Manager", "Target"},
		{"North", "Avery", 25000},
		{"South", "Blake", 18000},
		{"East", "Casey", 21000},
		{"West", "Devon", 23000},
	}
	for i, row := range lookup {
		row := row
		if err := f.SetSheetRow("Regions", fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("failed to write regions row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Helper methods for random value generation

func (g *ShoppingDataGenerator) randomRegion() string {
	regions := []string{"North", "South", "East", "West"}
	return regions[g.rng.Intn(len(regions))]
}

func (g *ShoppingDataGenerator) randomChannel() string {
	channels := []string{"web", "store", "phone"}
	weights := []float64{0.6, 0.3, 0.1} // Web most common

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return channels[i]
		}
	}
	return channels[0]
}
