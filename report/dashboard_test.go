package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

func sampleStats() *models.StatsReport {
	mean := 36.5
	median := 12.0
	ratio := 0.9
	excluded := 7
	return &models.StatsReport{
		TotalRecords:           100,
		ExcludedRecords:        &excluded,
		DistinctBoroughs:       2,
		DistinctComplaintTypes: 3,
		MeanResponseHours:      &mean,
		MedianResponseHours:    &median,
		ResponseSamples:        80,
		TopComplaintTypes: []models.ComplaintCount{
			{ComplaintType: "HEAT/HOT WATER", Count: 40},
			{ComplaintType: "Noise - Residential", Count: 35},
		},
		BoroughStats: []models.BoroughStat{
			{Borough: "BROOKLYN", Count: 60, MeanResponseHours: &mean},
			{Borough: "QUEENS", Count: 40},
		},
		MonthlyCounts: []models.MonthCount{
			{YearMonth: "2020-01", Count: 55},
			{YearMonth: "2020-02", Count: 45},
		},
		Quality: models.QualityStats{
			ValidBorough:      90,
			ValidBoroughRatio: &ratio,
		},
		DuplicateRecords: 2,
	}
}

func TestDashboardRender(t *testing.T) {
	d := NewDashboard(1000, utils.Silent())
	path := filepath.Join(t.TempDir(), "dashboard.html")

	var records []*models.DerivedRecord
	for _, h := range []float64{2, 8, 12, 40, 150} {
		hours := h
		records = append(records, &models.DerivedRecord{ResponseHours: &hours})
	}

	if err := d.Render(sampleStats(), records, path); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(html)

	for _, want := range []string{
		"NYC 311 Service Request Analysis",
		"HEAT/HOT WATER",
		"BROOKLYN",
		"36.5 h",
		"12.0 h",
		"90.0%",
		"Key Insight",
		"most common complaint type",
		"positively skewed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard HTML missing %q", want)
		}
	}
}

func TestDashboardUndefinedStats(t *testing.T) {
	d := NewDashboard(1000, utils.Silent())
	path := filepath.Join(t.TempDir(), "dashboard.html")

	// An empty report renders with explicit n/a values, never zeros
	// masquerading as measurements.
	if err := d.Render(&models.StatsReport{}, nil, path); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html, _ := os.ReadFile(path)
	if !strings.Contains(string(html), "n/a") {
		t.Error("undefined mean/median should render as n/a")
	}
}

func TestDashboardExcludedUnknown(t *testing.T) {
	// A report built from stored data has no exclusion count; the
	// dashboard must say so instead of printing a measured-looking zero.
	d := NewDashboard(1000, utils.Silent())
	data := d.buildData(&models.StatsReport{TotalRecords: 5}, nil)
	if data.ExcludedRecords != "n/a" {
		t.Errorf("ExcludedRecords = %q; want n/a when unknown", data.ExcludedRecords)
	}

	n := 3
	data = d.buildData(&models.StatsReport{TotalRecords: 5, ExcludedRecords: &n}, nil)
	if data.ExcludedRecords != "3" {
		t.Errorf("ExcludedRecords = %q; want 3", data.ExcludedRecords)
	}
}

func TestTimeSeriesChartProducesPNG(t *testing.T) {
	png, err := TimeSeriesChart([]models.MonthCount{
		{YearMonth: "2020-01", Count: 10},
		{YearMonth: "2020-02", Count: 20},
		{YearMonth: "2020-03", Count: 15},
	})
	if err != nil {
		t.Fatalf("TimeSeriesChart: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected base64 PNG data")
	}
}

func TestBoroughChartProducesPNG(t *testing.T) {
	png, err := BoroughChart([]models.BoroughStat{
		{Borough: "BROOKLYN", Count: 60},
		{Borough: "QUEENS", Count: 40},
	})
	if err != nil {
		t.Fatalf("BoroughChart: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected base64 PNG data")
	}
}

func TestResponseTimeChartProducesPNG(t *testing.T) {
	var records []*models.DerivedRecord
	for _, h := range []float64{0.5, 2, 2, 12, 48, 300} {
		hours := h
		records = append(records, &models.DerivedRecord{ResponseHours: &hours})
	}

	png, err := ResponseTimeChart(records)
	if err != nil {
		t.Fatalf("ResponseTimeChart: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected base64 PNG data")
	}
}

func TestResponseTimeChartFiltersOutliers(t *testing.T) {
	// Zero, negative-adjacent and month-plus durations are excluded from
	// the histogram; with nothing left the chart declines to render.
	zero, long := 0.0, 2000.0
	records := []*models.DerivedRecord{
		{ResponseHours: &zero},
		{ResponseHours: &long},
		{},
	}
	if _, err := ResponseTimeChart(records); err == nil {
		t.Error("ResponseTimeChart should fail when no duration is chartable")
	}
}

func TestChartsRejectEmptyData(t *testing.T) {
	if _, err := TimeSeriesChart(nil); err == nil {
		t.Error("TimeSeriesChart should fail with no months")
	}
	if _, err := TopComplaintsChart(nil); err == nil {
		t.Error("TopComplaintsChart should fail with no types")
	}
	if _, err := HourlyChart([24]int{}); err == nil {
		t.Error("HourlyChart should fail with all-zero hours")
	}
	if _, err := GeoScatterChart(nil, 100); err == nil {
		t.Error("GeoScatterChart should fail with no located records")
	}
	if _, err := BoroughChart(nil); err == nil {
		t.Error("BoroughChart should fail with no boroughs")
	}
	if _, err := ResponseTimeChart(nil); err == nil {
		t.Error("ResponseTimeChart should fail with no records")
	}
}
