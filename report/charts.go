// Package report renders the presentation surfaces: the HTML dashboard, the
// executive PDF, the Excel workbook and the profiling report. Everything here
// consumes the StatsReport snapshot and the derived record sequence; no new
// statistic is computed in this package.
package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/services"
)

var errNoData = errors.New("report: no data to chart")

var boroughColors = map[string]color.RGBA{
	"BROOKLYN":      {R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
	"QUEENS":        {R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
	"MANHATTAN":     {R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
	"BRONX":         {R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
	"STATEN ISLAND": {R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
}

var steelBlue = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}

// TimeSeriesChart renders monthly complaint volume as a line chart and
// returns it base64-encoded for HTML embedding.
func TimeSeriesChart(months []models.MonthCount) (string, error) {
	if len(months) == 0 {
		return "", errNoData
	}

	p := plot.New()
	p.Title.Text = "Complaint Volume Over Time"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Number of Complaints"

	xys := make(plotter.XYs, len(months))
	labels := make([]string, len(months))
	// Thin the axis labels when there are many months.
	step := 1 + len(months)/12
	for i, m := range months {
		xys[i].X = float64(i)
		xys[i].Y = float64(m.Count)
		if i%step == 0 {
			labels[i] = m.YearMonth
		}
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return "", fmt.Errorf("report: time series: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = steelBlue

	p.Add(line, plotter.NewGrid())
	p.NominalX(labels...)
	rotateXLabels(p)

	return renderBase64(p, 9*vg.Inch, 4*vg.Inch)
}

// TopComplaintsChart renders the top complaint types as a bar chart.
func TopComplaintsChart(top []models.ComplaintCount) (string, error) {
	if len(top) == 0 {
		return "", errNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Complaint Types", len(top))
	p.Y.Label.Text = "Number of Complaints"

	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, c := range top {
		values[i] = float64(c.Count)
		labels[i] = c.ComplaintType
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return "", fmt.Errorf("report: complaint bars: %w", err)
	}
	bars.Color = steelBlue
	bars.LineStyle.Width = 0

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	rotateXLabels(p)

	return renderBase64(p, 9*vg.Inch, 5*vg.Inch)
}

// BoroughChart renders each borough's share of total complaints.
func BoroughChart(stats []models.BoroughStat) (string, error) {
	total := 0
	for _, b := range stats {
		total += b.Count
	}
	if total == 0 {
		return "", errNoData
	}

	p := plot.New()
	p.Title.Text = "Complaints by Borough"
	p.Y.Label.Text = "Share of Complaints (%)"

	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, b := range stats {
		values[i] = 100 * float64(b.Count) / float64(total)
		labels[i] = b.Borough
	}

	bars, err := plotter.NewBarChart(values, vg.Points(36))
	if err != nil {
		return "", fmt.Errorf("report: borough bars: %w", err)
	}
	bars.Color = steelBlue
	bars.LineStyle.Width = 0

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	rotateXLabels(p)

	return renderBase64(p, 6*vg.Inch, 5*vg.Inch)
}

// maxChartedHours caps the response-time histogram. Durations of a month or
// more are real but would flatten the bins everyone actually reads.
const maxChartedHours = 720

// ResponseTimeChart renders the distribution of positive response durations
// under maxChartedHours as a histogram, with the sample mean and median in
// the title.
func ResponseTimeChart(records []*models.DerivedRecord) (string, error) {
	var values plotter.Values
	for _, r := range records {
		if r.ResponseHours != nil && *r.ResponseHours > 0 && *r.ResponseHours < maxChartedHours {
			values = append(values, *r.ResponseHours)
		}
	}
	if len(values) == 0 {
		return "", errNoData
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mean := stat.Mean(sorted, nil)
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of Response Times (median %.1f h, mean %.1f h)", median, mean)
	p.X.Label.Text = "Response Time (hours)"
	p.Y.Label.Text = "Frequency"

	hist, err := plotter.NewHist(values, 50)
	if err != nil {
		return "", fmt.Errorf("report: response histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	hist.LineStyle.Width = 0

	p.Add(hist, plotter.NewGrid())

	return renderBase64(p, 9*vg.Inch, 4*vg.Inch)
}

// HourlyChart renders complaint volume by hour of day.
func HourlyChart(hourly [24]int) (string, error) {
	total := 0
	values := make(plotter.Values, 24)
	labels := make([]string, 24)
	for h, n := range hourly {
		values[h] = float64(n)
		labels[h] = fmt.Sprintf("%02d", h)
		total += n
	}
	if total == 0 {
		return "", errNoData
	}

	p := plot.New()
	p.Title.Text = "Complaint Volume by Hour of Day"
	p.X.Label.Text = "Hour"
	p.Y.Label.Text = "Number of Complaints"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return "", fmt.Errorf("report: hourly bars: %w", err)
	}
	bars.Color = color.RGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff}
	bars.LineStyle.Width = 0

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)

	return renderBase64(p, 9*vg.Inch, 4*vg.Inch)
}

// GeoScatterChart renders the geographic distribution of validly located
// complaints, colored by borough, using the same axis limits the source
// data's bounding box implies.
func GeoScatterChart(records []*models.DerivedRecord, sampleSize int) (string, error) {
	perBorough := make(map[string]plotter.XYs)
	for _, r := range sampleRecords(geoRecords(records), sampleSize) {
		if _, known := boroughColors[r.Borough]; !known {
			continue
		}
		perBorough[r.Borough] = append(perBorough[r.Borough], plotter.XY{
			X: *r.Longitude,
			Y: *r.Latitude,
		})
	}
	if len(perBorough) == 0 {
		return "", errNoData
	}

	p := plot.New()
	p.Title.Text = "Geographic Distribution of Complaints"
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = -74.3, -73.7
	p.Y.Min, p.Y.Max = 40.5, 40.95

	// Canonical borough order keeps legend and colors stable between runs.
	for _, borough := range services.Boroughs {
		xys, ok := perBorough[borough]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return "", fmt.Errorf("report: scatter %s: %w", borough, err)
		}
		c := boroughColors[borough]
		c.A = 0x99
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(1)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(scatter)
		p.Legend.Add(borough, scatter)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return renderBase64(p, 7*vg.Inch, 7*vg.Inch)
}

func rotateXLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func geoRecords(records []*models.DerivedRecord) []*models.DerivedRecord {
	out := make([]*models.DerivedRecord, 0, len(records))
	for _, r := range records {
		if r.HasValidCoordinates && r.Latitude != nil && r.Longitude != nil {
			out = append(out, r)
		}
	}
	return out
}

func renderBase64(p *plot.Plot, w, h vg.Length) (string, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return "", fmt.Errorf("report: render chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("report: encode chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
