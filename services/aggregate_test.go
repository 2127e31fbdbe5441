package services

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

func derivedWithType(key, complaint string) *models.DerivedRecord {
	return &models.DerivedRecord{
		CleanedRecord: models.CleanedRecord{UniqueKey: key, ComplaintType: complaint},
	}
}

func derivedWithHours(key string, hours float64) *models.DerivedRecord {
	return &models.DerivedRecord{
		CleanedRecord: models.CleanedRecord{UniqueKey: key},
		ResponseHours: &hours,
	}
}

func TestAggregateTotalMatchesInput(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	var records []*models.DerivedRecord
	for i := 0; i < 25; i++ {
		records = append(records, derivedWithType(fmt.Sprintf("k%d", i), "Noise"))
	}

	report := agg.Aggregate(records, 0)
	if report.TotalRecords != 25 {
		t.Errorf("TotalRecords = %d; want 25", report.TotalRecords)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := NewAggregator(utils.Silent())
	report := agg.Aggregate(nil, 0)

	if report.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d; want 0", report.TotalRecords)
	}
	if report.MeanResponseHours != nil || report.MedianResponseHours != nil {
		t.Error("mean/median must be undefined (nil) for empty input, not zero")
	}
	if report.Quality.ValidBoroughRatio != nil {
		t.Error("quality ratios must be undefined for empty input")
	}
	if report.DuplicateRecords != 0 {
		t.Errorf("DuplicateRecords = %d; want 0", report.DuplicateRecords)
	}
}

func TestAggregateTopComplaintsStableTieOrder(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	// A,A,B,B,B,C → topN=2 must be [B:3, A:2]: count descending, ties (none
	// here) and ranking insensitive to map iteration order.
	var records []*models.DerivedRecord
	for i, ct := range []string{"A", "A", "B", "B", "B", "C"} {
		records = append(records, derivedWithType(fmt.Sprintf("k%d", i), ct))
	}

	report := agg.Aggregate(records, 2)
	want := []models.ComplaintCount{{ComplaintType: "B", Count: 3}, {ComplaintType: "A", Count: 2}}
	if !reflect.DeepEqual(report.TopComplaintTypes, want) {
		t.Errorf("TopComplaintTypes = %+v; want %+v", report.TopComplaintTypes, want)
	}
}

func TestAggregateTiesKeepFirstSeenOrder(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	// Z first encountered before A, both count 2: Z must rank first.
	var records []*models.DerivedRecord
	for i, ct := range []string{"Z", "A", "Z", "A"} {
		records = append(records, derivedWithType(fmt.Sprintf("k%d", i), ct))
	}

	report := agg.Aggregate(records, 10)
	if report.TopComplaintTypes[0].ComplaintType != "Z" {
		t.Errorf("tie broken against first-seen order: got %q first",
			report.TopComplaintTypes[0].ComplaintType)
	}
}

func TestAggregateMeanMedianOverNonNilOnly(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	records := []*models.DerivedRecord{
		derivedWithHours("1", 1),
		derivedWithHours("2", 2),
		derivedWithHours("3", 9),
		derivedWithType("4", "X"), // nil ResponseHours, must not count
	}

	report := agg.Aggregate(records, 0)
	if report.ResponseSamples != 3 {
		t.Fatalf("ResponseSamples = %d; want 3", report.ResponseSamples)
	}
	if *report.MeanResponseHours != 4 {
		t.Errorf("MeanResponseHours = %v; want 4", *report.MeanResponseHours)
	}
	if *report.MedianResponseHours != 2 {
		t.Errorf("MedianResponseHours = %v; want 2", *report.MedianResponseHours)
	}
}

func TestAggregateMedianEvenSamples(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	records := []*models.DerivedRecord{
		derivedWithHours("1", 1),
		derivedWithHours("2", 3),
		derivedWithHours("3", 5),
		derivedWithHours("4", 100),
	}

	report := agg.Aggregate(records, 0)
	if *report.MedianResponseHours != 4 {
		t.Errorf("MedianResponseHours = %v; want 4", *report.MedianResponseHours)
	}
}

func TestAggregateDuplicateDetection(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	base := models.CleanedRecord{
		Agency:        "HPD",
		ComplaintType: "HEAT/HOT WATER",
		Borough:       "BRONX",
	}

	// Two records differing only by identifier: one duplicate. All three
	// records stay in the total - duplicates are counted, never dropped.
	a := &models.DerivedRecord{CleanedRecord: base}
	a.UniqueKey = "1"
	b := &models.DerivedRecord{CleanedRecord: base}
	b.UniqueKey = "2"
	c := derivedWithType("3", "Other")

	report := agg.Aggregate([]*models.DerivedRecord{a, b, c}, 0)
	if report.DuplicateRecords != 1 {
		t.Errorf("DuplicateRecords = %d; want 1", report.DuplicateRecords)
	}
	if report.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d; want 3 (duplicates are not filtered)", report.TotalRecords)
	}
}

func TestAggregateUnknownBoroughIsSeparateBucket(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	records := []*models.DerivedRecord{
		{CleanedRecord: models.CleanedRecord{UniqueKey: "1", Borough: "QUEENS"}},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "2", Borough: ""}},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "3", Borough: ""}},
	}

	report := agg.Aggregate(records, 0)
	if report.UnknownBoroughCount != 2 {
		t.Errorf("UnknownBoroughCount = %d; want 2", report.UnknownBoroughCount)
	}
	if report.DistinctBoroughs != 1 {
		t.Errorf("DistinctBoroughs = %d; want 1 (null bucket is not a borough)", report.DistinctBoroughs)
	}
	for _, b := range report.BoroughStats {
		if b.Borough == "" {
			t.Error("the null borough bucket must not appear among named boroughs")
		}
	}
}

func TestAggregateHourBuckets(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	ten := 10
	records := []*models.DerivedRecord{
		{CleanedRecord: models.CleanedRecord{UniqueKey: "1"}, HourOfDay: &ten},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "2"}, HourOfDay: &ten},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "3"}}, // no created date
	}

	report := agg.Aggregate(records, 0)
	if report.HourlyCounts[10] != 2 {
		t.Errorf("HourlyCounts[10] = %d; want 2", report.HourlyCounts[10])
	}
	if report.UnknownHourCount != 1 {
		t.Errorf("UnknownHourCount = %d; want 1", report.UnknownHourCount)
	}
}

func TestAggregateBoroughMeanResponse(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	two, four := 2.0, 4.0
	records := []*models.DerivedRecord{
		{CleanedRecord: models.CleanedRecord{UniqueKey: "1", Borough: "BRONX"}, ResponseHours: &two},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "2", Borough: "BRONX"}, ResponseHours: &four},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "3", Borough: "QUEENS"}},
	}

	report := agg.Aggregate(records, 0)
	var bronx, queens *models.BoroughStat
	for i := range report.BoroughStats {
		switch report.BoroughStats[i].Borough {
		case "BRONX":
			bronx = &report.BoroughStats[i]
		case "QUEENS":
			queens = &report.BoroughStats[i]
		}
	}
	if bronx == nil || bronx.MeanResponseHours == nil || *bronx.MeanResponseHours != 3 {
		t.Errorf("BRONX mean = %+v; want 3", bronx)
	}
	if queens == nil || queens.MeanResponseHours != nil {
		t.Error("QUEENS has no duration samples, mean must be nil")
	}
}

func TestAggregateQualityRatios(t *testing.T) {
	agg := NewAggregator(utils.Silent())

	records := []*models.DerivedRecord{
		{CleanedRecord: models.CleanedRecord{UniqueKey: "1", HasValidBorough: true, HasClosedDate: true}},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "2", HasValidBorough: true}},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "3"}},
		{CleanedRecord: models.CleanedRecord{UniqueKey: "4"}},
	}

	report := agg.Aggregate(records, 0)
	if *report.Quality.ValidBoroughRatio != 0.5 {
		t.Errorf("ValidBoroughRatio = %v; want 0.5", *report.Quality.ValidBoroughRatio)
	}
	if *report.Quality.HasClosedDateRatio != 0.25 {
		t.Errorf("HasClosedDateRatio = %v; want 0.25", *report.Quality.HasClosedDateRatio)
	}
	if *report.Quality.ValidCoordinatesRatio != 0 {
		t.Errorf("ValidCoordinatesRatio = %v; want 0", *report.Quality.ValidCoordinatesRatio)
	}
}

func TestAccumulatorMergeMatchesSinglePass(t *testing.T) {
	var records []*models.DerivedRecord
	hours := []float64{5, 1, 7, 3, 9, 2}
	types := []string{"A", "B", "A", "C", "B", "A"}
	boroughs := []string{"BRONX", "", "QUEENS", "BRONX", "QUEENS", "BRONX"}
	for i := range hours {
		r := &models.DerivedRecord{
			CleanedRecord: models.CleanedRecord{
				UniqueKey:     fmt.Sprintf("k%d", i),
				ComplaintType: types[i],
				Borough:       boroughs[i],
			},
			ResponseHours: &hours[i],
		}
		records = append(records, r)
	}

	single := NewAccumulator()
	for _, r := range records {
		single.Add(r)
	}

	left := NewAccumulator()
	right := NewAccumulator()
	for i, r := range records {
		if i < 3 {
			left.Add(r)
		} else {
			right.Add(r)
		}
	}
	left.Merge(right)

	if !reflect.DeepEqual(single.Report(10), left.Report(10)) {
		t.Error("split + merge must produce the same report as a single pass")
	}
}

func TestStatsReportStructuralEquality(t *testing.T) {
	agg := NewAggregator(utils.Silent())
	records := []*models.DerivedRecord{derivedWithHours("1", 2), derivedWithType("2", "X")}

	a := agg.Aggregate(records, 5)
	b := agg.Aggregate(records, 5)
	if !reflect.DeepEqual(a, b) {
		t.Error("two aggregations of the same input must be structurally equal")
	}
}
