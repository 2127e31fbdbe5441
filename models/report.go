package models

// ComplaintCount is one entry in the top complaint-type ranking.
type ComplaintCount struct {
	ComplaintType string
	Count         int
}

// BoroughStat summarizes one borough's share of the dataset.
type BoroughStat struct {
	Borough           string
	Count             int
	MeanResponseHours *float64
}

// MonthCount is the complaint volume for one "2006-01" calendar bucket.
type MonthCount struct {
	YearMonth string
	Count     int
}

// QualityStats carries the data-quality flag tallies and their proportions.
// Proportions are nil when there are no records to take a share of.
type QualityStats struct {
	ValidBorough     int
	ValidCoordinates int
	HasClosedDate    int

	ValidBoroughRatio     *float64
	ValidCoordinatesRatio *float64
	HasClosedDateRatio    *float64
}

// StatsReport is the immutable aggregate snapshot every presentation surface
// (dashboard, PDF, Excel, profile) consumes. It is rebuilt from scratch on
// every pass; comparing two reports field by field is how golden tests work,
// so every field here must be deterministically ordered.
type StatsReport struct {
	TotalRecords int

	// ExcludedRecords is known only when the cleaning pass ran in this
	// process; it is not persisted, so a report built from stored data
	// carries nil, not a fabricated zero.
	ExcludedRecords *int

	DistinctBoroughs       int
	DistinctComplaintTypes int

	// Mean/median over records with a usable response duration. Nil when no
	// such record exists - an undefined mean is not a mean of zero.
	MeanResponseHours   *float64
	MedianResponseHours *float64
	ResponseSamples     int

	// TopComplaintTypes is ordered by count descending; ties keep the order
	// in which the types were first encountered.
	TopComplaintTypes []ComplaintCount

	// BoroughStats covers the canonical boroughs, ordered by count
	// descending. Records without a recognized borough are tallied in
	// UnknownBoroughCount, never folded into a named borough.
	BoroughStats        []BoroughStat
	UnknownBoroughCount int

	// HourlyCounts[h] is the volume created in hour h. Records with no
	// created timestamp land in UnknownHourCount.
	HourlyCounts     [24]int
	UnknownHourCount int

	// MonthlyCounts is ordered chronologically by YearMonth.
	MonthlyCounts []MonthCount

	Quality          QualityStats
	DuplicateRecords int
}
