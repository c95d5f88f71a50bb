package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	apperrors "season-dashboard/internal/errors"
	"season-dashboard/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecords() []models.Record {
	return []models.Record{
		{Title: "Jaqueta", Season: "Summer", SalesQtyCode: 10, DiscountNorm: 0.5, Discount: 20, Price: 100, Rating: 4.5, RatingCount: 12},
		{Title: "Casaco", Season: "Winter", SalesQtyCode: 5, DiscountNorm: 0.2, Discount: 10, Price: 250, Rating: 3.0, RatingCount: 4},
		{Title: "Bermuda", Season: "Summer", SalesQtyCode: 3, DiscountNorm: 0.1, Discount: 5, Price: 60, Rating: 5.0, RatingCount: 30},
	}
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.dataset == nil {
		t.Error("dataset should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
	if a.metrics == nil {
		t.Error("metrics should be initialized")
	}
	if a.Loaded() {
		t.Error("new analytics should not report loaded data")
	}
}

func TestAnalytics_SetData(t *testing.T) {
	a := NewAnalytics(WithLogger(quietLogger()))
	records := testRecords()
	a.SetData(records)

	if !a.Loaded() {
		t.Error("Loaded() should be true after SetData")
	}

	got := a.Categories()
	if len(got) != 2 || got[0] != "Summer" || got[1] != "Winter" {
		t.Errorf("Categories() = %v, want [Summer Winter]", got)
	}

	// The caller's slice must not alias the dataset.
	records[0].Season = "Changed"
	if a.Categories()[0] != "Summer" {
		t.Error("SetData should copy records")
	}
}

func TestAnalytics_DefaultSelection(t *testing.T) {
	a := NewAnalytics()
	if got := a.DefaultSelection(); len(got) != 0 {
		t.Errorf("DefaultSelection() without data = %v, want empty", got)
	}

	a.SetData(testRecords())
	got := a.DefaultSelection()
	if len(got) != 1 || got[0] != "Summer" {
		t.Errorf("DefaultSelection() = %v, want [Summer]", got)
	}
}

func TestAnalytics_NormalizeSelection(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{"empty", []string{}, []string{}, false},
		{"nil", nil, []string{}, false},
		{"reordered", []string{"Winter", "Summer"}, []string{"Summer", "Winter"}, false},
		{"duplicates", []string{"Winter", "Winter"}, []string{"Winter"}, false},
		{"unknown", []string{"Summer", "Autumn"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.NormalizeSelection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeSelection() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperrors.HasCode(err, apperrors.CodeValidation) {
					t.Errorf("error code = %v, want VALIDATION_ERROR", err)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeSelection() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeSelection()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAnalytics_OnFilterChanged(t *testing.T) {
	a := NewAnalytics(WithLogger(quietLogger()))
	a.SetData(testRecords())

	set, err := a.OnFilterChanged(context.Background(), []string{"Summer"})
	if err != nil {
		t.Fatalf("OnFilterChanged() error = %v", err)
	}

	if set.Rows != 2 {
		t.Errorf("Rows = %d, want 2", set.Rows)
	}
	if len(set.Selection) != 1 || set.Selection[0] != "Summer" {
		t.Errorf("Selection = %v", set.Selection)
	}
	if len(set.Proportion.Slices) != 1 || set.Proportion.Slices[0].SalesQty != 13 {
		t.Errorf("Proportion = %+v, want Summer: 13", set.Proportion)
	}
	if len(set.Scatter.Points) != 2 {
		t.Errorf("Scatter points = %d, want 2", len(set.Scatter.Points))
	}

	stats := a.Stats()
	if stats["filter_events"].(int64) != 1 {
		t.Errorf("filter_events = %v, want 1", stats["filter_events"])
	}
}

func TestAnalytics_OnFilterChanged_EmptySelection(t *testing.T) {
	a := NewAnalytics(WithLogger(quietLogger()))
	a.SetData(testRecords())

	set, err := a.OnFilterChanged(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty selection should not error, got %v", err)
	}
	if set.Rows != 0 || len(set.Bar.Series) != 0 || set.Proportion.Total != 0 {
		t.Errorf("expected empty charts, got %+v", set)
	}
}

func TestAnalytics_OnFilterChanged_UnknownSeason(t *testing.T) {
	a := NewAnalytics(WithLogger(quietLogger()))
	a.SetData(testRecords())

	if _, err := a.OnFilterChanged(context.Background(), []string{"Monsoon"}); err == nil {
		t.Error("unknown season should be rejected")
	}
}

func TestAnalytics_LoadFromCSV(t *testing.T) {
	f := createTempCSV(t, validCSV)

	a := NewAnalytics(WithLogger(quietLogger()))
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() error = %v", err)
	}

	got := a.Categories()
	if len(got) != 2 || got[0] != "primavera/verão" {
		t.Errorf("Categories() = %v", got)
	}
	if a.Stats()["source"] != "csv" {
		t.Errorf("source = %v, want csv", a.Stats()["source"])
	}
}

func TestAnalytics_LoadFromCSV_Invalid(t *testing.T) {
	a := NewAnalytics(WithLogger(quietLogger()))
	err := a.LoadFromCSV(context.Background(), createTempCSV(t, "Temporada\n"))
	if err == nil {
		t.Fatal("LoadFromCSV() should fail on malformed data")
	}
	if !apperrors.HasCode(err, apperrors.CodeDataLoad) {
		t.Errorf("error = %v, want DATA_LOAD_ERROR", err)
	}
	if a.Loaded() {
		t.Error("failed load must not install data")
	}
}

func TestAnalytics_LoadFromCSV_Snapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	f := createTempCSV(t, validCSV)

	first := NewAnalytics(WithLogger(quietLogger()), WithSnapshotDir(dir))
	if err := first.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Stats()["source"] != "csv" {
		t.Errorf("first load source = %v, want csv", first.Stats()["source"])
	}

	second := NewAnalytics(WithLogger(quietLogger()), WithSnapshotDir(dir))
	if err := second.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.Stats()["source"] != "snapshot" {
		t.Errorf("second load source = %v, want snapshot", second.Stats()["source"])
	}
	if got := second.Categories(); len(got) != 2 {
		t.Errorf("Categories() from snapshot = %v", got)
	}
}

func TestAnalytics_ConcurrentAccess(t *testing.T) {
	a := NewAnalytics(WithLogger(quietLogger()))
	a.SetData(testRecords())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			_, _ = a.OnFilterChanged(context.Background(), []string{"Summer", "Winter"})
			_ = a.Categories()
			_ = a.Stats()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if got := a.Stats()["filter_events"].(int64); got != 10 {
		t.Errorf("filter_events = %d, want 10", got)
	}
}

func BenchmarkAnalytics_OnFilterChanged(b *testing.B) {
	a := NewAnalytics(WithLogger(quietLogger()))
	seasons := []string{"primavera/verão", "outono/inverno", "primavera-verão - outono-inverno"}
	data := make([]models.Record, 5000)
	for i := range data {
		data[i] = models.Record{
			Season:       seasons[i%len(seasons)],
			SalesQtyCode: float64(i % 7),
			DiscountNorm: float64(i%100) / 100,
			Discount:     float64(i % 60),
			Price:        float64(20 + i%300),
			Rating:       float64(i%50) / 10,
			RatingCount:  float64(i % 400),
		}
	}
	a.SetData(data)
	selection := seasons[:2]

	b.ResetTimer()
	for b.Loop() {
		_, _ = a.OnFilterChanged(context.Background(), selection)
	}
}
