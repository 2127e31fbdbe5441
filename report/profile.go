package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// Profiler builds the per-column profiling report over a deterministic
// sample of the derived records.
type Profiler struct {
	logger     *utils.Logger
	sampleSize int
}

// NewProfiler creates a Profiler that samples at most sampleSize records.
func NewProfiler(sampleSize int, logger *utils.Logger) *Profiler {
	return &Profiler{logger: logger, sampleSize: sampleSize}
}

type numericProfile struct {
	Column  string
	Count   int
	Missing int
	Mean    string
	StdDev  string
	Min     string
	Median  string
	Max     string
}

type topValue struct {
	Value string
	Count int
}

type categoricalProfile struct {
	Column   string
	Count    int
	Missing  int
	Distinct int
	Top      []topValue
}

type profileData struct {
	SampleSize   int
	TotalRecords int
	Numerics     []numericProfile
	Categoricals []categoricalProfile
}

// Render writes the profiling report for the records to path.
func (p *Profiler) Render(records []*models.DerivedRecord, path string) error {
	sample := sampleRecords(records, p.sampleSize)
	data := &profileData{SampleSize: len(sample), TotalRecords: len(records)}

	data.Numerics = []numericProfile{
		profileFloats("latitude", sample, func(r *models.DerivedRecord) *float64 { return r.Latitude }),
		profileFloats("longitude", sample, func(r *models.DerivedRecord) *float64 { return r.Longitude }),
		profileFloats("response_hours", sample, func(r *models.DerivedRecord) *float64 { return r.ResponseHours }),
		profileInts("hour_of_day", sample, func(r *models.DerivedRecord) *int { return r.HourOfDay }),
		profileInts("day_of_week", sample, func(r *models.DerivedRecord) *int { return r.DayOfWeek }),
	}

	data.Categoricals = []categoricalProfile{
		profileStrings("unique_key", sample, func(r *models.DerivedRecord) string { return r.UniqueKey }),
		profileStrings("agency", sample, func(r *models.DerivedRecord) string { return r.Agency }),
		profileStrings("complaint_type", sample, func(r *models.DerivedRecord) string { return r.ComplaintType }),
		profileStrings("complaint_category", sample, func(r *models.DerivedRecord) string { return r.ComplaintCategory }),
		profileStrings("status", sample, func(r *models.DerivedRecord) string { return r.Status }),
		profileStrings("borough", sample, func(r *models.DerivedRecord) string { return r.Borough }),
		profileStrings("is_weekend", sample, func(r *models.DerivedRecord) string { return strconv.FormatBool(r.IsWeekend) }),
		profileStrings("year_month", sample, func(r *models.DerivedRecord) string { return r.YearMonth }),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("profile: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("profile: create %q: %w", path, err)
	}
	defer f.Close()

	if err := profileTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("profile: render: %w", err)
	}

	p.logger.Info("[profile] Wrote %s (sample of %d/%d records)", path, len(sample), len(records))
	return nil
}

func profileFloats(name string, records []*models.DerivedRecord, get func(*models.DerivedRecord) *float64) numericProfile {
	values := make([]float64, 0, len(records))
	missing := 0
	for _, r := range records {
		if v := get(r); v != nil {
			values = append(values, *v)
		} else {
			missing++
		}
	}
	return summarize(name, values, missing)
}

func profileInts(name string, records []*models.DerivedRecord, get func(*models.DerivedRecord) *int) numericProfile {
	values := make([]float64, 0, len(records))
	missing := 0
	for _, r := range records {
		if v := get(r); v != nil {
			values = append(values, float64(*v))
		} else {
			missing++
		}
	}
	return summarize(name, values, missing)
}

// summarize computes the numeric column stats through a gota series, the
// same dataframe layer the profiling report is built around.
func summarize(name string, values []float64, missing int) numericProfile {
	p := numericProfile{Column: name, Count: len(values), Missing: missing}
	if len(values) == 0 {
		p.Mean, p.StdDev, p.Min, p.Median, p.Max = "n/a", "n/a", "n/a", "n/a", "n/a"
		return p
	}

	s := series.New(values, series.Float, name)
	p.Mean = fmt.Sprintf("%.3f", s.Mean())
	p.StdDev = fmt.Sprintf("%.3f", s.StdDev())
	p.Min = fmt.Sprintf("%.3f", s.Min())
	p.Median = fmt.Sprintf("%.3f", s.Median())
	p.Max = fmt.Sprintf("%.3f", s.Max())
	return p
}

func profileStrings(name string, records []*models.DerivedRecord, get func(*models.DerivedRecord) string) categoricalProfile {
	counts := make(map[string]int)
	missing := 0
	for _, r := range records {
		v := get(r)
		if v == "" {
			missing++
			continue
		}
		counts[v]++
	}

	p := categoricalProfile{
		Column:   name,
		Count:    len(records) - missing,
		Missing:  missing,
		Distinct: len(counts),
	}

	top := make([]topValue, 0, len(counts))
	for v, n := range counts {
		top = append(top, topValue{Value: v, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if len(top) > 5 {
		top = top[:5]
	}
	p.Top = top
	return p
}

var profileTemplate = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>NYC 311 Data Profiling Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; margin: 0; background: #f4f6f8; color: #222; }
.container { max-width: 1100px; margin: 0 auto; padding: 30px; }
h1 { color: #0f3460; }
h2 { color: #0f3460; border-bottom: 2px solid #e94560; padding-bottom: 6px; }
.meta { color: #666; margin-bottom: 25px; }
table { width: 100%; border-collapse: collapse; background: #fff; margin-bottom: 30px; }
th, td { padding: 8px 12px; border: 1px solid #ddd; text-align: left; font-size: 0.92em; }
th { background: #0f3460; color: #fff; }
tr:nth-child(even) { background: #f0f3f7; }
.top-values { color: #555; font-size: 0.88em; }
</style>
</head>
<body>
<div class="container">
<h1>NYC 311 Data Profiling Report</h1>
<p class="meta">Profiled {{.SampleSize}} sampled records out of {{.TotalRecords}} total.</p>

<h2>Numeric Columns</h2>
<table>
<tr><th>Column</th><th>Count</th><th>Missing</th><th>Mean</th><th>Std Dev</th><th>Min</th><th>Median</th><th>Max</th></tr>
{{range .Numerics}}<tr><td>{{.Column}}</td><td>{{.Count}}</td><td>{{.Missing}}</td><td>{{.Mean}}</td><td>{{.StdDev}}</td><td>{{.Min}}</td><td>{{.Median}}</td><td>{{.Max}}</td></tr>
{{end}}
</table>

<h2>Categorical Columns</h2>
<table>
<tr><th>Column</th><th>Count</th><th>Missing</th><th>Distinct</th><th>Top Values</th></tr>
{{range .Categoricals}}<tr><td>{{.Column}}</td><td>{{.Count}}</td><td>{{.Missing}}</td><td>{{.Distinct}}</td>
<td class="top-values">{{range .Top}}{{.Value}} ({{.Count}}) {{end}}</td></tr>
{{end}}
</table>
</div>
</body>
</html>
`))
