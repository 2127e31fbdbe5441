package storage

import "github.com/Mtasiu0/GET-305-Data-Analysis/models"

// RecordStore is the interface any persistence backend must satisfy. The
// core only ever asks for the full record sequence and flag counts; any new
// summary statistic belongs in the aggregator, not here.
type RecordStore interface {
	Write(records []*models.DerivedRecord) error
	FetchAll() ([]*models.DerivedRecord, error)
	CountFlag(flag Flag) (int, error)
	Close() error
}

// AuditWriter is the interface for exporting cleaned records for inspection.
type AuditWriter interface {
	WriteRecords(records []*models.DerivedRecord) error
	Close() error
}
