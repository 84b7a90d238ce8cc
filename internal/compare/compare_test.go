package compare

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/HerbHall/rigplanner/pkg/models"
)

func cpu(id string, cores, threads int, boost string, price float64, stock int) models.Component {
	return models.Component{
		ID:         id,
		Type:       models.SlotCPU,
		Name:       id,
		Price:      price,
		StockCount: stock,
		Specs: models.NewSpecs(
			"Core Count", cores,
			"Thread Count", threads,
			"Max Boost Clock", boost,
		),
	}
}

func priced(id string, price float64, pairs ...any) models.Component {
	return models.Component{ID: id, Type: models.SlotGPU, Name: id, Price: price, Specs: models.NewSpecs(pairs...)}
}

func TestScore_FixedPoints(t *testing.T) {
	a := cpu("A", 8, 16, "5.0 GHz", 15000, 10)
	b := cpu("B", 6, 12, "4.6 GHz", 12000, 30)

	tests := []struct {
		c    models.Component
		want float64
	}{
		{a, 266.2},
		{b, 255.96},
	}
	for _, tt := range tests {
		if got := Score(tt.c); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Score(%s) = %v, want %v", tt.c.ID, got, tt.want)
		}
	}

	w, err := Winner([]models.Component{b, a})
	if err != nil {
		t.Fatal(err)
	}
	if w.ID != "A" {
		t.Errorf("Winner = %s, want A", w.ID)
	}
}

func TestExplain(t *testing.T) {
	got := Explain(priced("gpu", 0, "VRAM", "12 GB", "Boost Clock", "2.5 GHz"))
	if got.Performance != 39 {
		t.Errorf("Performance = %v, want 39", got.Performance)
	}
	if got.Value != 3900000 {
		t.Errorf("Value = %v, want 3900000 (price floored at 1)", got.Value)
	}
	if got.Reliability != 0 {
		t.Errorf("Reliability = %v, want 0", got.Reliability)
	}
}

func TestScore_StockCapped(t *testing.T) {
	low := cpu("x", 4, 8, "4 GHz", 1000, 40)
	high := cpu("x", 4, 8, "4 GHz", 1000, 400)
	if Score(low) != Score(high) {
		t.Errorf("stock above %d changed score: %v vs %v", stockSignalCap, Score(low), Score(high))
	}
}

func TestScore_KeyFallbacks(t *testing.T) {
	primary := priced("p", 1000, "Core Count", 8, "Threads", 16, "Clock Speed", "4 GHz", "Memory Size", "8 GB")
	fallback := priced("f", 1000, "Cores", 8, "Thread Count", 16, "Boost Clock", 4, "Capacity", "8 GB")
	if Score(primary) != Score(fallback) {
		t.Errorf("fallback keys scored differently: %v vs %v", Score(primary), Score(fallback))
	}
}

func TestExplain_UnparsableKeyFallsThrough(t *testing.T) {
	got := Explain(priced("gpu", 20000, "VRAM", "N/A", "Memory Size", "16 GB"))
	if got.Performance != 32 {
		t.Errorf("Performance = %v, want 32 from Memory Size", got.Performance)
	}
}

func TestWinner_Empty(t *testing.T) {
	if _, err := Winner(nil); !errors.Is(err, ErrEmptyComparison) {
		t.Errorf("Winner(nil) error = %v, want ErrEmptyComparison", err)
	}
}

func TestWinner_TieFirstWins(t *testing.T) {
	a := cpu("first", 4, 8, "4 GHz", 1000, 5)
	b := cpu("second", 4, 8, "4 GHz", 1000, 5)
	w, _ := Winner([]models.Component{a, b})
	if w.ID != "first" {
		t.Errorf("Winner = %s, want first", w.ID)
	}
}

func TestRank(t *testing.T) {
	a := cpu("A", 8, 16, "5.0 GHz", 15000, 10)
	b := cpu("B", 6, 12, "4.6 GHz", 12000, 30)
	tie := cpu("A2", 8, 16, "5.0 GHz", 15000, 10)

	got := Rank([]models.Component{b, a, tie})
	want := []string{"A", "A2", "B"}
	for i, r := range got {
		if r.Component.ID != want[i] {
			t.Errorf("rank %d = %s, want %s", i+1, r.Component.ID, want[i])
		}
		if r.Rank != i+1 {
			t.Errorf("Rank field = %d, want %d", r.Rank, i+1)
		}
	}
}

func TestParallelScores(t *testing.T) {
	items := make([]models.Component, 97)
	for i := range items {
		items[i] = cpu(fmt.Sprintf("c%d", i), i%16, i%32, fmt.Sprintf("%d.%d GHz", 3+i%3, i%10), float64(1000+i*37), i%50)
	}
	for _, workers := range []int{0, 1, 4, 200} {
		got, err := ParallelScores(context.Background(), items, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i := range items {
			if got[i] != Score(items[i]) {
				t.Fatalf("workers=%d: score %d = %v, want %v", workers, i, got[i], Score(items[i]))
			}
		}
	}

	got, err := ParallelScores(context.Background(), nil, 4)
	if err != nil || len(got) != 0 {
		t.Errorf("ParallelScores(nil) = %v, %v", got, err)
	}
}

func TestTable_Empty(t *testing.T) {
	rows, err := Table(nil)
	if !errors.Is(err, ErrEmptyComparison) {
		t.Errorf("Table(nil) error = %v, want ErrEmptyComparison", err)
	}
	if rows != nil {
		t.Errorf("Table(nil) rows = %v, want nil", rows)
	}
}

func TestTable_PriceRow(t *testing.T) {
	items := []models.Component{priced("a", 1200), priced("b", 900), priced("c", 1500)}
	rows, err := Table(items)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	price := rows[0]
	if price.Key != PriceRowKey {
		t.Errorf("first row key = %q, want Price", price.Key)
	}
	if price.BestIndex == nil || *price.BestIndex != 1 {
		t.Errorf("BestIndex = %v, want 1", price.BestIndex)
	}
	wantValues := []string{"PHP 1,200", "PHP 900", "PHP 1,500"}
	for i, want := range wantValues {
		if price.Values[i] != want {
			t.Errorf("value %d = %q, want %q", i, price.Values[i], want)
		}
	}
}

func TestTable_PriceTieFirstWins(t *testing.T) {
	rows, _ := Table([]models.Component{priced("a", 500), priced("b", 500)})
	if rows[0].BestIndex == nil || *rows[0].BestIndex != 0 {
		t.Errorf("BestIndex = %v, want 0", rows[0].BestIndex)
	}
}

func TestTable_SingleItemHasNoWinners(t *testing.T) {
	rows, err := Table([]models.Component{priced("a", 500, "VRAM", "8 GB")})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if r.BestIndex != nil {
			t.Errorf("row %q has winner with a single item", r.Key)
		}
	}
}

func TestTable_SpecRows(t *testing.T) {
	items := []models.Component{
		priced("a", 100, "VRAM", "8 GB", "Chipset", "RTX 4060", "Length", "199 mm"),
		priced("b", 200, "VRAM", "16 GB", "Length", "280 mm", "TBP", "263 W"),
		priced("c", 300, "VRAM", "16 GB", "Chipset", "RX 7800"),
	}
	rows, err := Table(items)
	if err != nil {
		t.Fatal(err)
	}

	wantKeys := []string{"Price", "VRAM", "Chipset", "Length", "TBP"}
	if len(rows) != len(wantKeys) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantKeys))
	}
	for i, k := range wantKeys {
		if rows[i].Key != k {
			t.Errorf("row %d key = %q, want %q", i, rows[i].Key, k)
		}
	}

	vram := rows[1]
	if vram.BestIndex == nil || *vram.BestIndex != 1 {
		t.Errorf("VRAM BestIndex = %v, want 1 (first max)", vram.BestIndex)
	}
	if rows[2].BestIndex != nil {
		t.Error("Chipset row has a missing cell and must have no winner")
	}
	tbp := rows[4]
	if tbp.Values[0] != MissingCell || tbp.Values[1] != "263 W" {
		t.Errorf("TBP values = %v", tbp.Values)
	}

	length := rows[3]
	if length.Values[2] != MissingCell {
		t.Errorf("missing cell = %q, want %q", length.Values[2], MissingCell)
	}
	if length.BestIndex != nil {
		t.Error("partially missing row must have no winner")
	}
}

func TestTable_Options(t *testing.T) {
	var pairs []any
	for i := 0; i < 20; i++ {
		pairs = append(pairs, fmt.Sprintf("Key %02d", i), i)
	}
	items := []models.Component{priced("a", 1234567.5, pairs...), priced("b", 10, pairs...)}

	rows, _ := Table(items)
	if len(rows) != 21 {
		t.Errorf("default rows = %d, want 21", len(rows))
	}

	rows, _ = Table(items, WithMaxSpecRows(16), WithCurrency("USD"))
	if len(rows) != 17 {
		t.Errorf("capped rows = %d, want 17", len(rows))
	}
	if rows[0].Values[0] != "USD 1,234,567.5" {
		t.Errorf("price = %q", rows[0].Values[0])
	}

	rows, _ = Table(items, WithCurrency(""))
	if rows[0].Values[1] != "PHP 10" {
		t.Errorf("empty currency should keep default, got %q", rows[0].Values[1])
	}
}

func TestTable_Idempotent(t *testing.T) {
	items := []models.Component{
		cpu("A", 8, 16, "5.0 GHz", 15000, 10),
		cpu("B", 6, 12, "4.6 GHz", 12000, 30),
	}
	first, _ := Table(items)
	second, _ := Table(items)
	for i := range first {
		if fmt.Sprint(first[i].Values) != fmt.Sprint(second[i].Values) {
			t.Errorf("row %d differs between calls", i)
		}
		if (first[i].BestIndex == nil) != (second[i].BestIndex == nil) ||
			(first[i].BestIndex != nil && *first[i].BestIndex != *second[i].BestIndex) {
			t.Errorf("row %d winner differs between calls", i)
		}
	}
}

func TestTable_NonNumericRowHasNoWinner(t *testing.T) {
	items := []models.Component{
		priced("a", 100, "Modular", "Full"),
		priced("b", 200, "Modular", "Semi"),
	}
	rows, _ := Table(items)
	if rows[1].BestIndex != nil {
		t.Error("text-only row must have no winner")
	}
}
