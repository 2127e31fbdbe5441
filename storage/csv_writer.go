package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
)

// CSVWriter exports cleaned+derived records to a CSV file for auditing.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"unique_key", "agency", "complaint_type", "complaint_category", "status",
		"borough", "created_at", "closed_at", "latitude", "longitude",
		"has_valid_borough", "has_valid_coordinates", "has_closed_date",
		"response_hours", "hour_of_day", "day_of_week", "is_weekend", "year_month",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRecords appends all records to the CSV file. Nil fields are written
// as empty cells, never sentinel values.
func (c *CSVWriter) WriteRecords(records []*models.DerivedRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		row := []string{
			r.UniqueKey,
			r.Agency,
			r.ComplaintType,
			r.ComplaintCategory,
			r.Status,
			r.Borough,
			timeCell(r.CreatedAt),
			timeCell(r.ClosedAt),
			floatCell(r.Latitude),
			floatCell(r.Longitude),
			strconv.FormatBool(r.HasValidBorough),
			strconv.FormatBool(r.HasValidCoordinates),
			strconv.FormatBool(r.HasClosedDate),
			floatCell(r.ResponseHours),
			intCell(r.HourOfDay),
			intCell(r.DayOfWeek),
			strconv.FormatBool(r.IsWeekend),
			r.YearMonth,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intCell(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
