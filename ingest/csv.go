// Package ingest reads NYC Open Data 311 CSV exports into raw records.
// It maps columns by header name, so column order and extra columns in the
// export do not matter. Content is not validated here - that is the
// normalizer's job - but rows the CSV parser cannot read at all are counted
// and skipped rather than aborting the batch.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// Result is one ingestion pass: the raw records plus how many rows could not
// be read at all and how many carried a unique key already seen in this pass.
type Result struct {
	Records      []*models.RawRecord
	SkippedRows  int
	RepeatedKeys int
}

// Reader ingests raw 311 records from CSV data.
type Reader struct {
	logger *utils.Logger
	keys   *utils.KeySet
}

// NewReader creates a Reader with the given logger.
func NewReader(logger *utils.Logger) *Reader {
	return &Reader{logger: logger, keys: utils.NewKeySet()}
}

// ReadFile ingests the CSV file at path.
func (r *Reader) ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %q: %w", path, err)
	}
	defer f.Close()

	return r.Read(f)
}

// Read ingests CSV data from an io.Reader. The first row must be the header.
func (r *Reader) Read(src io.Reader) (*Result, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	cols := newColumnMap(header)

	result := &Result{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// An unreadable row is a structural failure of that row only.
			result.SkippedRows++
			r.logger.Debug("[ingest] skipping unreadable row: %v", err)
			continue
		}

		record := &models.RawRecord{
			UniqueKey:         cols.get(row, "unique key"),
			CreatedDate:       cols.get(row, "created date"),
			ClosedDate:        cols.get(row, "closed date"),
			Agency:            cols.get(row, "agency"),
			ComplaintType:     cols.get(row, "complaint type"),
			ComplaintCategory: cols.category(row),
			Status:            cols.get(row, "status"),
			Borough:           cols.get(row, "borough"),
			Latitude:          cols.get(row, "latitude"),
			Longitude:         cols.get(row, "longitude"),
		}

		if key := strings.TrimSpace(record.UniqueKey); key != "" && !r.keys.Add(key) {
			// Repeated unique keys do exist in the export. They are
			// ingested anyway; the aggregator reports duplicates.
			result.RepeatedKeys++
			r.logger.Debug("[ingest] repeated unique key %q", key)
		}

		result.Records = append(result.Records, record)
	}

	r.logger.Info("[ingest] Read %d records (%d unreadable rows skipped, %d repeated keys)",
		len(result.Records), result.SkippedRows, result.RepeatedKeys)
	return result, nil
}

// columnMap resolves header names to column indexes, case-insensitively.
type columnMap struct {
	index map[string]int
}

func newColumnMap(header []string) *columnMap {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return &columnMap{index: index}
}

func (c *columnMap) get(row []string, name string) string {
	i, ok := c.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// category prefers an explicit complaint-category column and falls back to
// the export's descriptor column, which older exports use for the same
// information.
func (c *columnMap) category(row []string) string {
	if v := c.get(row, "complaint category"); v != "" {
		return v
	}
	return c.get(row, "descriptor")
}
