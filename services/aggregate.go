package services

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// DefaultTopN is how many complaint types the report ranks when the caller
// does not say otherwise.
const DefaultTopN = 10

// Aggregator reduces a collection of derived records into a StatsReport.
// Input records are never mutated; the report is rebuilt from scratch on
// every call, never updated incrementally.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate runs one full reduction over the records.
func (a *Aggregator) Aggregate(records []*models.DerivedRecord, topN int) *models.StatsReport {
	acc := NewAccumulator()
	for _, r := range records {
		acc.Add(r)
	}

	report := acc.Report(topN)
	a.logger.Info("[aggregate] %d records: %d complaint types, %d boroughs, %d duplicates",
		report.TotalRecords, report.DistinctComplaintTypes, report.DistinctBoroughs,
		report.DuplicateRecords)
	return report
}

type boroughAccumulator struct {
	count         int
	responseSum   float64
	responseCount int
}

type complaintAccumulator struct {
	count     int
	firstSeen int
}

// Accumulator is a pairwise-mergeable partial aggregate. Counts and sums are
// associative, so partitions of the input can be accumulated independently
// and merged; only the first-seen tiebreak order follows Add/Merge order.
type Accumulator struct {
	total int

	responseHours []float64

	boroughs       map[string]*boroughAccumulator
	unknownBorough int

	complaints map[string]*complaintAccumulator
	nextSeen   int

	hourly      [24]int
	unknownHour int
	monthly     map[string]int

	validBorough     int
	validCoordinates int
	hasClosedDate    int

	// tuples counts occurrences of each full field tuple (identifier
	// excluded); every occurrence beyond the first is a duplicate.
	tuples map[string]int
}

// NewAccumulator creates an empty partial aggregate.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		boroughs:   make(map[string]*boroughAccumulator),
		complaints: make(map[string]*complaintAccumulator),
		monthly:    make(map[string]int),
		tuples:     make(map[string]int),
	}
}

// Add folds one record into the partial aggregate.
func (acc *Accumulator) Add(r *models.DerivedRecord) {
	acc.total++

	if r.ResponseHours != nil {
		acc.responseHours = append(acc.responseHours, *r.ResponseHours)
	}

	if r.Borough == "" {
		// The null borough is its own bucket, never merged into a named one.
		acc.unknownBorough++
	} else {
		b := acc.boroughs[r.Borough]
		if b == nil {
			b = &boroughAccumulator{}
			acc.boroughs[r.Borough] = b
		}
		b.count++
		if r.ResponseHours != nil {
			b.responseSum += *r.ResponseHours
			b.responseCount++
		}
	}

	c := acc.complaints[r.ComplaintType]
	if c == nil {
		c = &complaintAccumulator{firstSeen: acc.nextSeen}
		acc.nextSeen++
		acc.complaints[r.ComplaintType] = c
	}
	c.count++

	if r.HourOfDay != nil {
		acc.hourly[*r.HourOfDay]++
	} else {
		acc.unknownHour++
	}
	if r.YearMonth != "" {
		acc.monthly[r.YearMonth]++
	}

	if r.HasValidBorough {
		acc.validBorough++
	}
	if r.HasValidCoordinates {
		acc.validCoordinates++
	}
	if r.HasClosedDate {
		acc.hasClosedDate++
	}

	acc.tuples[r.CleanedRecord.TupleKey()]++
}

// Merge folds another partial aggregate into this one. Merging partitions in
// any order yields the same report, apart from first-seen tie order which
// follows the merge order.
func (acc *Accumulator) Merge(other *Accumulator) {
	acc.total += other.total
	acc.responseHours = append(acc.responseHours, other.responseHours...)

	for name, ob := range other.boroughs {
		b := acc.boroughs[name]
		if b == nil {
			b = &boroughAccumulator{}
			acc.boroughs[name] = b
		}
		b.count += ob.count
		b.responseSum += ob.responseSum
		b.responseCount += ob.responseCount
	}
	acc.unknownBorough += other.unknownBorough

	// Preserve the other partition's internal first-seen order for types
	// this partition has not encountered yet.
	type seenType struct {
		name string
		ca   *complaintAccumulator
	}
	incoming := make([]seenType, 0, len(other.complaints))
	for name, oc := range other.complaints {
		incoming = append(incoming, seenType{name, oc})
	}
	sort.Slice(incoming, func(i, j int) bool {
		return incoming[i].ca.firstSeen < incoming[j].ca.firstSeen
	})
	for _, in := range incoming {
		c := acc.complaints[in.name]
		if c == nil {
			c = &complaintAccumulator{firstSeen: acc.nextSeen}
			acc.nextSeen++
			acc.complaints[in.name] = c
		}
		c.count += in.ca.count
	}

	for h, n := range other.hourly {
		acc.hourly[h] += n
	}
	acc.unknownHour += other.unknownHour
	for m, n := range other.monthly {
		acc.monthly[m] += n
	}

	acc.validBorough += other.validBorough
	acc.validCoordinates += other.validCoordinates
	acc.hasClosedDate += other.hasClosedDate

	for tuple, n := range other.tuples {
		acc.tuples[tuple] += n
	}
}

// Report finalizes the partial aggregate into an immutable StatsReport.
// An empty accumulator produces zero counts and nil ratios, never an error.
func (acc *Accumulator) Report(topN int) *models.StatsReport {
	if topN <= 0 {
		topN = DefaultTopN
	}

	report := &models.StatsReport{
		TotalRecords:           acc.total,
		DistinctBoroughs:       len(acc.boroughs),
		DistinctComplaintTypes: len(acc.complaints),
		UnknownBoroughCount:    acc.unknownBorough,
		HourlyCounts:           acc.hourly,
		UnknownHourCount:       acc.unknownHour,
		ResponseSamples:        len(acc.responseHours),
	}

	if len(acc.responseHours) > 0 {
		mean := stat.Mean(acc.responseHours, nil)
		median := median(acc.responseHours)
		report.MeanResponseHours = &mean
		report.MedianResponseHours = &median
	}

	report.TopComplaintTypes = acc.topComplaints(topN)
	report.BoroughStats = acc.boroughStats()
	report.MonthlyCounts = acc.monthlyCounts()

	report.Quality = models.QualityStats{
		ValidBorough:     acc.validBorough,
		ValidCoordinates: acc.validCoordinates,
		HasClosedDate:    acc.hasClosedDate,
	}
	if acc.total > 0 {
		report.Quality.ValidBoroughRatio = ratio(acc.validBorough, acc.total)
		report.Quality.ValidCoordinatesRatio = ratio(acc.validCoordinates, acc.total)
		report.Quality.HasClosedDateRatio = ratio(acc.hasClosedDate, acc.total)
	}

	for _, n := range acc.tuples {
		report.DuplicateRecords += n - 1
	}

	return report
}

// topComplaints ranks complaint types by count descending; ties keep
// first-seen order so the ranking is reproducible regardless of map
// iteration order.
func (acc *Accumulator) topComplaints(topN int) []models.ComplaintCount {
	type entry struct {
		name string
		ca   *complaintAccumulator
	}
	entries := make([]entry, 0, len(acc.complaints))
	for name, ca := range acc.complaints {
		entries = append(entries, entry{name, ca})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ca.count != entries[j].ca.count {
			return entries[i].ca.count > entries[j].ca.count
		}
		return entries[i].ca.firstSeen < entries[j].ca.firstSeen
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}
	out := make([]models.ComplaintCount, len(entries))
	for i, e := range entries {
		out[i] = models.ComplaintCount{ComplaintType: e.name, Count: e.ca.count}
	}
	return out
}

func (acc *Accumulator) boroughStats() []models.BoroughStat {
	stats := make([]models.BoroughStat, 0, len(acc.boroughs))
	for name, b := range acc.boroughs {
		s := models.BoroughStat{Borough: name, Count: b.count}
		if b.responseCount > 0 {
			mean := b.responseSum / float64(b.responseCount)
			s.MeanResponseHours = &mean
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Borough < stats[j].Borough
	})
	return stats
}

func (acc *Accumulator) monthlyCounts() []models.MonthCount {
	months := make([]models.MonthCount, 0, len(acc.monthly))
	for m, n := range acc.monthly {
		months = append(months, models.MonthCount{YearMonth: m, Count: n})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].YearMonth < months[j].YearMonth
	})
	return months
}

// median averages the two middle samples for even-length inputs, matching
// the conventional sample median.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func ratio(part, total int) *float64 {
	r := float64(part) / float64(total)
	return &r
}
