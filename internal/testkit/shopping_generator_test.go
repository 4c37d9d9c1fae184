package testkit

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestShoppingDataGenerator_Deterministic(t *testing.T) {
	config := DefaultShoppingConfig()
	config.OrderCount = 20

	a := NewShoppingDataGenerator(config).GenerateOrders()
	b := NewShoppingDataGenerator(config).GenerateOrders()

	if len(a) != 20 {
		t.Fatalf("expected 20 orders, got %d", len(a))
	}
	for i := range a {
		if a[i].Revenue != b[i].Revenue || a[i].Region != b[i].Region {
			t.Fatalf("order %d differs between runs with the same seed", i)
		}
	}
	if !a[1].Date.Equal(config.StartDate.AddDate(0, 0, 1)) {
		t.Errorf("expected daily order dates, got %v", a[1].Date)
	}
}

func TestShoppingDataGenerator_Spikes(t *testing.T) {
	config := ShoppingGeneratorConfig{
		OrderCount: 10,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		SpikeEvery: 5,
		Seed:       7,
	}
	orders := NewShoppingDataGenerator(config).GenerateOrders()

	if orders[4].Revenue < 3*orders[3].Revenue {
		t.Errorf("expected order 5 to be an outlier: %.2f vs %.2f", orders[4].Revenue, orders[3].Revenue)
	}
	for i, o := range orders {
		if o.Units == nil {
			t.Errorf("order %d has blank units with a zero missing rate", i)
		}
	}
}

func TestShoppingDataGenerator_Workbook(t *testing.T) {
	config := DefaultShoppingConfig()
	config.OrderCount = 15

	data, err := NewShoppingDataGenerator(config).Workbook()
	if err != nil {
		t.Fatalf("Failed to build workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook does not open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Orders" || sheets[1] != "Regions" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("failed to read orders: %v", err)
	}
	if len(rows) != 16 {
		t.Errorf("expected header plus 15 rows, got %d", len(rows))
	}
	if rows[0][5] != "Revenue" {
		t.Errorf("unexpected header %v", rows[0])
	}
}
