package services

import (
	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
)

// Derive computes the time features for one cleaned record. It is
// deterministic: the same CleanedRecord always yields the same
// DerivedRecord, and the input is never modified.
func Derive(cleaned *models.CleanedRecord) *models.DerivedRecord {
	d := &models.DerivedRecord{CleanedRecord: *cleaned}

	if cleaned.CreatedAt != nil && cleaned.ClosedAt != nil {
		hours := cleaned.ClosedAt.Sub(*cleaned.CreatedAt).Hours()
		// A closed date before the created date is a data-entry error.
		// Nulling instead of clamping keeps the record marked as suspect
		// without discarding it.
		if hours >= 0 {
			d.ResponseHours = &hours
		}
	}

	if cleaned.CreatedAt != nil {
		created := *cleaned.CreatedAt

		hour := created.Hour()
		d.HourOfDay = &hour

		// Monday=0 through Sunday=6.
		day := (int(created.Weekday()) + 6) % 7
		d.DayOfWeek = &day
		d.IsWeekend = day == 5 || day == 6

		d.YearMonth = created.Format("2006-01")
	}

	return d
}
