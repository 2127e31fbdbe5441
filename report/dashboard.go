package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// Dashboard renders the single-file HTML dashboard with embedded charts.
type Dashboard struct {
	logger            *utils.Logger
	scatterSampleSize int
}

// NewDashboard creates a Dashboard renderer.
func NewDashboard(scatterSampleSize int, logger *utils.Logger) *Dashboard {
	return &Dashboard{logger: logger, scatterSampleSize: scatterSampleSize}
}

type dashboardChart struct {
	Title string
	PNG   string
	// Note is the short data-driven takeaway shown under the chart, empty
	// when there is nothing meaningful to say.
	Note string
}

type dashboardData struct {
	GeneratedAt string

	TotalRecords           int
	ExcludedRecords        string
	DistinctBoroughs       int
	DistinctComplaintTypes int
	MeanResponse           string
	MedianResponse         string
	DuplicateRecords       int

	ValidBoroughPct     string
	ValidCoordinatesPct string
	HasClosedDatePct    string

	Charts []dashboardChart

	BoroughRows   []boroughRow
	ComplaintRows []models.ComplaintCount
}

type boroughRow struct {
	Borough      string
	Count        int
	MeanResponse string
}

// Render writes the dashboard for the given report and records to path.
func (d *Dashboard) Render(stats *models.StatsReport, records []*models.DerivedRecord, path string) error {
	data := d.buildData(stats, records)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("dashboard: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dashboard: create %q: %w", path, err)
	}
	defer f.Close()

	if err := dashboardTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("dashboard: render: %w", err)
	}

	d.logger.Info("[dashboard] Wrote %s (%d charts)", path, len(data.Charts))
	return nil
}

func (d *Dashboard) buildData(stats *models.StatsReport, records []*models.DerivedRecord) *dashboardData {
	data := &dashboardData{
		GeneratedAt:            time.Now().Format("2006-01-02 15:04"),
		TotalRecords:           stats.TotalRecords,
		ExcludedRecords:        formatCount(stats.ExcludedRecords),
		DistinctBoroughs:       stats.DistinctBoroughs,
		DistinctComplaintTypes: stats.DistinctComplaintTypes,
		MeanResponse:           formatHours(stats.MeanResponseHours),
		MedianResponse:         formatHours(stats.MedianResponseHours),
		DuplicateRecords:       stats.DuplicateRecords,
		ValidBoroughPct:        formatPct(stats.Quality.ValidBoroughRatio),
		ValidCoordinatesPct:    formatPct(stats.Quality.ValidCoordinatesRatio),
		HasClosedDatePct:       formatPct(stats.Quality.HasClosedDateRatio),
		ComplaintRows:          stats.TopComplaintTypes,
	}

	for _, b := range stats.BoroughStats {
		data.BoroughRows = append(data.BoroughRows, boroughRow{
			Borough:      b.Borough,
			Count:        b.Count,
			MeanResponse: formatHours(b.MeanResponseHours),
		})
	}

	charts := []struct {
		title  string
		note   string
		render func() (string, error)
	}{
		{"Monthly Volume", seasonalNote(stats),
			func() (string, error) { return TimeSeriesChart(stats.MonthlyCounts) }},
		{"Top Complaint Types", complaintNote(stats),
			func() (string, error) { return TopComplaintsChart(stats.TopComplaintTypes) }},
		{"Borough Distribution", "",
			func() (string, error) { return BoroughChart(stats.BoroughStats) }},
		{"Response Time Distribution", responseNote(stats),
			func() (string, error) { return ResponseTimeChart(records) }},
		{"Hourly Pattern", "",
			func() (string, error) { return HourlyChart(stats.HourlyCounts) }},
		{"Geographic Distribution",
			"Denser clusters mark neighborhoods submitting more requests, which tends to track population density and aging infrastructure.",
			func() (string, error) { return GeoScatterChart(records, d.scatterSampleSize) }},
	}
	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			d.logger.Warn("[dashboard] Skipping chart %q: %v", c.title, err)
			continue
		}
		data.Charts = append(data.Charts, dashboardChart{Title: c.title, PNG: png, Note: c.note})
	}

	return data
}

func seasonalNote(stats *models.StatsReport) string {
	if len(stats.MonthlyCounts) < 2 {
		return ""
	}
	peak := stats.MonthlyCounts[0]
	for _, m := range stats.MonthlyCounts[1:] {
		if m.Count > peak.Count {
			peak = m
		}
	}
	return fmt.Sprintf("Monthly volume fluctuates across %d months and peaks in %s; winter peaks usually track heating complaints.",
		len(stats.MonthlyCounts), peak.YearMonth)
}

func complaintNote(stats *models.StatsReport) string {
	if len(stats.TopComplaintTypes) == 0 {
		return ""
	}
	note := fmt.Sprintf("%s is the most common complaint type.", stats.TopComplaintTypes[0].ComplaintType)
	if len(stats.BoroughStats) > 0 {
		note += fmt.Sprintf(" %s leads in total complaint volume.", stats.BoroughStats[0].Borough)
	}
	return note
}

func responseNote(stats *models.StatsReport) string {
	if stats.MeanResponseHours == nil || stats.MedianResponseHours == nil {
		return ""
	}
	if *stats.MedianResponseHours >= *stats.MeanResponseHours {
		return ""
	}
	return fmt.Sprintf("The distribution is positively skewed: the median (%.1f h) sits well below the mean (%.1f h), so most complaints close quickly while a long tail takes far longer.",
		*stats.MedianResponseHours, *stats.MeanResponseHours)
}

func formatHours(h *float64) string {
	if h == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f h", *h)
}

func formatPct(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *r*100)
}

func formatCount(n *int) string {
	if n == nil {
		return "n/a"
	}
	return strconv.Itoa(*n)
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>NYC 311 Data Analysis Dashboard</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
  background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%);
  color: #ffffff; min-height: 100vh; line-height: 1.6;
}
.container { max-width: 1400px; margin: 0 auto; padding: 20px; }
header {
  text-align: center; padding: 40px 20px;
  background: linear-gradient(135deg, #0f3460 0%, #16213e 100%);
  border-radius: 15px; margin-bottom: 30px;
}
header h1 { font-size: 2.2em; color: #e94560; }
header p { color: #a0a0a0; }
.stats-grid {
  display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
  gap: 20px; margin-bottom: 30px;
}
.stat-card {
  background: linear-gradient(145deg, #1f4068 0%, #16213e 100%);
  padding: 25px; border-radius: 15px; text-align: center;
  border: 1px solid rgba(255, 255, 255, 0.1);
}
.stat-value { font-size: 2.2em; font-weight: bold; color: #e94560; display: block; }
.stat-label { color: #a0a0a0; font-size: 0.85em; text-transform: uppercase; letter-spacing: 1px; }
.section {
  background: linear-gradient(145deg, #1f4068 0%, #16213e 100%);
  border-radius: 15px; padding: 30px; margin-bottom: 30px;
  border: 1px solid rgba(255, 255, 255, 0.1);
}
.section h2 { color: #e94560; margin-bottom: 20px; border-bottom: 2px solid #e94560; padding-bottom: 10px; }
.chart-container { background: #ffffff; border-radius: 10px; padding: 15px; margin: 20px 0; text-align: center; }
.chart-container img { max-width: 100%; height: auto; }
.insight-box {
  background: rgba(233, 69, 96, 0.1); border-left: 4px solid #e94560;
  border-radius: 0 10px 10px 0; padding: 15px 20px; margin: 15px 0;
}
.insight-box h4 { color: #e94560; margin-bottom: 5px; }
.insight-box p { color: #d0d0d0; font-size: 0.95em; }
table { width: 100%; border-collapse: collapse; margin-top: 15px; }
th, td { padding: 10px 15px; text-align: left; border-bottom: 1px solid rgba(255, 255, 255, 0.1); }
th { background: rgba(233, 69, 96, 0.2); color: #e94560; text-transform: uppercase; font-size: 0.85em; }
footer { text-align: center; padding: 30px; color: #a0a0a0; font-size: 0.9em; }
</style>
</head>
<body>
<div class="container">
<header>
  <h1>NYC 311 Service Request Analysis</h1>
  <p>Generated {{.GeneratedAt}}</p>
</header>

<div class="stats-grid">
  <div class="stat-card"><span class="stat-value">{{.TotalRecords}}</span><span class="stat-label">Total Records</span></div>
  <div class="stat-card"><span class="stat-value">{{.DistinctBoroughs}}</span><span class="stat-label">Boroughs</span></div>
  <div class="stat-card"><span class="stat-value">{{.DistinctComplaintTypes}}</span><span class="stat-label">Complaint Types</span></div>
  <div class="stat-card"><span class="stat-value">{{.MeanResponse}}</span><span class="stat-label">Mean Response</span></div>
  <div class="stat-card"><span class="stat-value">{{.MedianResponse}}</span><span class="stat-label">Median Response</span></div>
</div>

{{range .Charts}}
<div class="section">
  <h2>{{.Title}}</h2>
  <div class="chart-container"><img src="data:image/png;base64,{{.PNG}}" alt="{{.Title}}"></div>
  {{if .Note}}<div class="insight-box"><h4>Key Insight</h4><p>{{.Note}}</p></div>{{end}}
</div>
{{end}}

<div class="section">
  <h2>Borough Breakdown</h2>
  <table>
    <tr><th>Borough</th><th>Complaints</th><th>Mean Response</th></tr>
    {{range .BoroughRows}}<tr><td>{{.Borough}}</td><td>{{.Count}}</td><td>{{.MeanResponse}}</td></tr>
    {{end}}
  </table>
</div>

<div class="section">
  <h2>Top Complaint Types</h2>
  <table>
    <tr><th>Complaint Type</th><th>Count</th></tr>
    {{range .ComplaintRows}}<tr><td>{{.ComplaintType}}</td><td>{{.Count}}</td></tr>
    {{end}}
  </table>
</div>

<div class="section">
  <h2>Data Quality</h2>
  <table>
    <tr><th>Check</th><th>Share of Records</th></tr>
    <tr><td>Valid borough</td><td>{{.ValidBoroughPct}}</td></tr>
    <tr><td>Valid coordinates</td><td>{{.ValidCoordinatesPct}}</td></tr>
    <tr><td>Has closed date</td><td>{{.HasClosedDatePct}}</td></tr>
    <tr><td>Duplicate records</td><td>{{.DuplicateRecords}}</td></tr>
    <tr><td>Excluded rows (no identifier)</td><td>{{.ExcludedRecords}}</td></tr>
  </table>
</div>

<footer>NYC Open Data · 311 Service Requests</footer>
</div>
</body>
</html>
`))
