package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// PDFReport builds the executive summary PDF from a StatsReport.
type PDFReport struct {
	logger *utils.Logger
}

// NewPDFReport creates a PDFReport builder.
func NewPDFReport(logger *utils.Logger) *PDFReport {
	return &PDFReport{logger: logger}
}

// Render writes the PDF for the given report to path.
func (p *PDFReport) Render(stats *models.StatsReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "NYC 311 Service Request Data Analysis Report", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	writeChapter(pdf, "1. Executive Summary", p.executiveSummary(stats))
	writeChapter(pdf, "2. Dataset Overview", p.datasetOverview(stats))
	p.writeBoroughList(pdf, stats)
	writeChapter(pdf, "3. Data Cleaning Methodology", cleaningMethodology)

	pdf.AddPage()
	writeChapterTitle(pdf, "4. Key Insights")
	p.writeTopComplaints(pdf, stats)
	writeChapterBody(pdf, p.keyInsights(stats))
	writeChapter(pdf, "5. Limitations and Assumptions", limitations)
	writeChapter(pdf, "6. Conclusion", p.conclusion(stats))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf: write %q: %w", path, err)
	}

	p.logger.Info("[pdf] Wrote %s", path)
	return nil
}

func (p *PDFReport) executiveSummary(stats *models.StatsReport) string {
	top := "n/a"
	if len(stats.TopComplaintTypes) > 0 {
		top = stats.TopComplaintTypes[0].ComplaintType
	}
	leading := "n/a"
	if len(stats.BoroughStats) > 0 {
		leading = stats.BoroughStats[0].Borough
	}
	return fmt.Sprintf(
		"This report presents an analysis of NYC 311 service request data comprising %d records. "+
			"The analysis covers data cleaning, quality flagging, feature derivation and aggregation "+
			"across New York City boroughs.\n\n"+
			"Key findings: %s leads in complaint volume and %s is the most common complaint type. "+
			"Median response time is %s.",
		stats.TotalRecords, leading, top, formatHours(stats.MedianResponseHours))
}

func (p *PDFReport) datasetOverview(stats *models.StatsReport) string {
	return fmt.Sprintf(
		"Source: NYC Open Data - 311 Service Requests\n"+
			"Total Records: %d\n"+
			"Excluded Rows (no identifier): %s\n"+
			"Duplicate Records: %d\n"+
			"Data Quality:\n"+
			"  - Valid Borough: %d (%s)\n"+
			"  - Valid Coordinates: %d (%s)\n"+
			"  - Has Closed Date: %d (%s)\n\n"+
			"Borough Distribution:",
		stats.TotalRecords, formatCount(stats.ExcludedRecords), stats.DuplicateRecords,
		stats.Quality.ValidBorough, formatPct(stats.Quality.ValidBoroughRatio),
		stats.Quality.ValidCoordinates, formatPct(stats.Quality.ValidCoordinatesRatio),
		stats.Quality.HasClosedDate, formatPct(stats.Quality.HasClosedDateRatio))
}

func (p *PDFReport) writeBoroughList(pdf *fpdf.Fpdf, stats *models.StatsReport) {
	pdf.SetFont("Arial", "", 10)
	for _, b := range stats.BoroughStats {
		share := ""
		if stats.TotalRecords > 0 {
			share = fmt.Sprintf(" (%.1f%%)", 100*float64(b.Count)/float64(stats.TotalRecords))
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %d%s", b.Borough, b.Count, share), "", 1, "L", false, 0, "")
	}
	if stats.UnknownBoroughCount > 0 {
		pdf.CellFormat(0, 5, fmt.Sprintf("  (unspecified): %d", stats.UnknownBoroughCount), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (p *PDFReport) writeTopComplaints(pdf *fpdf.Fpdf, stats *models.StatsReport) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Top 5 Complaint Types:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	top := stats.TopComplaintTypes
	if len(top) > 5 {
		top = top[:5]
	}
	for _, c := range top {
		pdf.CellFormat(0, 5, fmt.Sprintf("  - %s: %d", c.ComplaintType, c.Count), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (p *PDFReport) keyInsights(stats *models.StatsReport) string {
	var sb strings.Builder
	sb.WriteString("Geographic Patterns:\n")
	if len(stats.BoroughStats) > 0 {
		names := make([]string, 0, len(stats.BoroughStats))
		for _, b := range stats.BoroughStats {
			names = append(names, b.Borough)
		}
		sb.WriteString(fmt.Sprintf(
			"Complaint volume by borough, highest first: %s.\n\n", strings.Join(names, ", ")))
	} else {
		sb.WriteString("No borough-attributed records in this dataset.\n\n")
	}

	sb.WriteString("Temporal Patterns:\n")
	sb.WriteString(fmt.Sprintf(
		"Volume spans %d calendar months; the hourly profile peaks at hour %02d.\n\n",
		len(stats.MonthlyCounts), peakHour(stats.HourlyCounts)))

	sb.WriteString("Response Time Analysis:\n")
	sb.WriteString(fmt.Sprintf(
		"Across %d closed requests with usable timestamps, mean response is %s and median %s. "+
			"Mean response varies across boroughs, suggesting differences in service capacity "+
			"or complaint mix by location.",
		stats.ResponseSamples, formatHours(stats.MeanResponseHours), formatHours(stats.MedianResponseHours)))
	return sb.String()
}

func (p *PDFReport) conclusion(stats *models.StatsReport) string {
	return fmt.Sprintf(
		"This analysis applies one shared cleaning and aggregation pass to %d raw service "+
			"requests, so every output surface reports identical numbers.\n\n"+
			"Key takeaways:\n"+
			"1. Complaint volume concentrates in a small number of complaint types\n"+
			"2. Response times vary by borough and by time of day\n"+
			"3. Data quality flags make missing and suspect values visible instead of dropping rows\n\n"+
			"These findings can inform resource allocation for NYC agencies. Future work could "+
			"incorporate additional data sources and formal statistical testing.",
		stats.TotalRecords)
}

const cleaningMethodology = `The cleaning process is a single shared transformation applied before any reporting:

1. Date Parsing: string dates in the export's month/day/year 12-hour format; anything else becomes null, never a sentinel date
2. Coordinate Validation: records outside the NYC bounding box (40.4-40.95 lat, -74.3 to -73.6 lon) are flagged; parsed values are kept for auditing
3. Borough Normalization: names standardized via a fixed alias table (e.g. 'KINGS' to 'BROOKLYN')
4. Duplicate Handling: records identical in every field except the identifier are counted as duplicates, not removed
5. Missing Value Treatment: quality flags for missing boroughs, coordinates and closed dates
6. Structural failures: only rows with no identifier at all are excluded, and the excluded count is reported

Raw inputs are never modified; all transformations construct new records.`

const limitations = `Data Limitations:
1. Self-reported data may underrepresent certain neighborhoods
2. Closed date may not reflect actual resolution time
3. Missing coordinates limit spatial analysis for some records

Assumptions:
1. Missing values are randomly distributed
2. Complaint categories are consistently applied
3. Negative response times represent data entry errors

Potential Bias:
1. Reporting bias across demographic groups
2. Selection bias if some issues use different channels
3. Temporal bias if data collection methods changed over time`

func writeChapter(pdf *fpdf.Fpdf, title, body string) {
	writeChapterTitle(pdf, title)
	writeChapterBody(pdf, body)
}

func writeChapterTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(200, 220, 255)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func writeChapterBody(pdf *fpdf.Fpdf, body string) {
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(3)
}

func peakHour(hourly [24]int) int {
	peak := 0
	for h, n := range hourly {
		if n > hourly[peak] {
			peak = h
		}
	}
	return peak
}
