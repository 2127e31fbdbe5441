package models

import (
	"strconv"
	"strings"
	"time"
)

// RawRecord holds one 311 service request exactly as it appears in the
// NYC Open Data CSV export, before any cleaning or validation.
type RawRecord struct {
	UniqueKey         string
	CreatedDate       string
	ClosedDate        string
	Agency            string
	ComplaintType     string
	ComplaintCategory string
	Status            string
	Borough           string
	Latitude          string
	Longitude         string
}

// CleanedRecord is a RawRecord after normalization and validation flagging.
// Exactly one CleanedRecord is produced per accepted RawRecord; it is never
// mutated after construction.
type CleanedRecord struct {
	UniqueKey         string
	Agency            string
	ComplaintType     string
	ComplaintCategory string
	Status            string

	// Borough is one of the canonical borough names, or empty when the raw
	// value was absent or unrecognized.
	Borough string

	CreatedAt *time.Time
	ClosedAt  *time.Time

	// Latitude/Longitude keep their parsed values even when out of range,
	// so suspect rows stay auditable.
	Latitude  *float64
	Longitude *float64

	HasValidBorough     bool
	HasValidCoordinates bool
	HasClosedDate       bool
}

// DerivedRecord is a CleanedRecord augmented with computed time features.
type DerivedRecord struct {
	CleanedRecord

	// ResponseHours is closed minus created, in hours. Nil when either
	// timestamp is missing or the difference is negative (entry error).
	ResponseHours *float64

	// HourOfDay is 0-23, DayOfWeek is 0-6 with Monday=0. Both nil when
	// CreatedAt is nil.
	HourOfDay *int
	DayOfWeek *int
	IsWeekend bool

	// YearMonth is the "2006-01" calendar bucket, empty when CreatedAt is nil.
	YearMonth string
}

// TupleKey encodes every field except the unique key. Two records with the
// same TupleKey are duplicates of each other regardless of identifier.
func (c *CleanedRecord) TupleKey() string {
	parts := []string{
		c.Agency,
		c.ComplaintType,
		c.ComplaintCategory,
		c.Status,
		c.Borough,
		formatTime(c.CreatedAt),
		formatTime(c.ClosedAt),
		formatFloat(c.Latitude),
		formatFloat(c.Longitude),
	}
	return strings.Join(parts, "\x1f")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
