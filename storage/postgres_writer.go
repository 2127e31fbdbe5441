package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
)

// Flag names a persisted quality flag for count pushdown.
type Flag string

const (
	FlagValidBorough     Flag = "has_valid_borough"
	FlagValidCoordinates Flag = "has_valid_coordinates"
	FlagHasClosedDate    Flag = "has_closed_date"
)

// PostgresStore persists derived records to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, creates the schema if
// needed, and returns a ready-to-use PostgresStore. Connection retries are
// the caller's concern; a failed ping is returned immediately.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

// unique_key is deliberately not UNIQUE: the export contains repeated keys,
// and every cleaned row must survive to aggregation so the duplicate count
// stays honest. Only a missing key excludes a record, and that happens in
// the pipeline, never here.
const createSchema = `
		CREATE TABLE IF NOT EXISTS service_requests (
			id                    SERIAL PRIMARY KEY,
			unique_key            TEXT NOT NULL,
			agency                TEXT NOT NULL DEFAULT '',
			complaint_type        TEXT NOT NULL DEFAULT '',
			complaint_category    TEXT NOT NULL DEFAULT '',
			status                TEXT NOT NULL DEFAULT '',
			borough               TEXT,
			created_at            TIMESTAMPTZ,
			closed_at             TIMESTAMPTZ,
			latitude              DOUBLE PRECISION,
			longitude             DOUBLE PRECISION,
			has_valid_borough     BOOLEAN NOT NULL DEFAULT FALSE,
			has_valid_coordinates BOOLEAN NOT NULL DEFAULT FALSE,
			has_closed_date       BOOLEAN NOT NULL DEFAULT FALSE,
			response_hours        DOUBLE PRECISION,
			hour_of_day           SMALLINT,
			day_of_week           SMALLINT,
			is_weekend            BOOLEAN NOT NULL DEFAULT FALSE,
			year_month            TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_requests_unique_key     ON service_requests(unique_key);
		CREATE INDEX IF NOT EXISTS idx_requests_borough        ON service_requests(borough);
		CREATE INDEX IF NOT EXISTS idx_requests_complaint_type ON service_requests(complaint_type);
		CREATE INDEX IF NOT EXISTS idx_requests_year_month     ON service_requests(year_month);
	`

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(createSchema)
	return err
}

// Clear deletes all stored records.
func (ps *PostgresStore) Clear() error {
	_, err := ps.db.Exec("DELETE FROM service_requests")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all derived records, clearing old data first. The
// store holds exactly one batch; the pipeline rebuilds, never updates.
func (ps *PostgresStore) Write(records []*models.DerivedRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := ps.Clear(); err != nil {
		return err
	}

	const batchSize = 200
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := ps.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// year_month is derivable from created_at but stored anyway so future
// rollups can be pushed down without date math in SQL.
const insertColumns = 18

func (ps *PostgresStore) insertBatch(batch []*models.DerivedRecord) error {
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)
	for _, r := range batch {
		valueArgs = append(valueArgs,
			r.UniqueKey, r.Agency, r.ComplaintType, r.ComplaintCategory, r.Status,
			nullString(r.Borough), r.CreatedAt, r.ClosedAt, r.Latitude, r.Longitude,
			r.HasValidBorough, r.HasValidCoordinates, r.HasClosedDate,
			r.ResponseHours, nullInt(r.HourOfDay), nullInt(r.DayOfWeek), r.IsWeekend,
			r.YearMonth,
		)
	}

	_, err := ps.db.Exec(insertQuery(len(batch)), valueArgs...)
	return err
}

// insertQuery builds the multi-row INSERT for n records. Plain inserts: a
// conflict clause would silently discard rows and shrink the stored
// collection behind the pipeline's back.
func insertQuery(n int) string {
	valueStrings := make([]string, 0, n)
	for idx := 0; idx < n; idx++ {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
	}

	return fmt.Sprintf(`
		INSERT INTO service_requests (
			unique_key, agency, complaint_type, complaint_category, status,
			borough, created_at, closed_at, latitude, longitude,
			has_valid_borough, has_valid_coordinates, has_closed_date,
			response_hours, hour_of_day, day_of_week, is_weekend, year_month
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))
}

// FetchAll retrieves all stored records in insertion order, reconstructing
// the derived fields exactly as they were written.
func (ps *PostgresStore) FetchAll() ([]*models.DerivedRecord, error) {
	rows, err := ps.db.Query(`
		SELECT unique_key, agency, complaint_type, complaint_category, status,
		       borough, created_at, closed_at, latitude, longitude,
		       has_valid_borough, has_valid_coordinates, has_closed_date,
		       response_hours, hour_of_day, day_of_week, is_weekend, year_month
		FROM service_requests
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []*models.DerivedRecord
	for rows.Next() {
		r := &models.DerivedRecord{}
		var (
			borough    sql.NullString
			createdAt  sql.NullTime
			closedAt   sql.NullTime
			latitude   sql.NullFloat64
			longitude  sql.NullFloat64
			respHours  sql.NullFloat64
			hourOfDay  sql.NullInt64
			dayOfWeek  sql.NullInt64
		)
		if err := rows.Scan(
			&r.UniqueKey, &r.Agency, &r.ComplaintType, &r.ComplaintCategory, &r.Status,
			&borough, &createdAt, &closedAt, &latitude, &longitude,
			&r.HasValidBorough, &r.HasValidCoordinates, &r.HasClosedDate,
			&respHours, &hourOfDay, &dayOfWeek, &r.IsWeekend, &r.YearMonth,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		if borough.Valid {
			r.Borough = borough.String
		}
		if createdAt.Valid {
			t := createdAt.Time
			r.CreatedAt = &t
		}
		if closedAt.Valid {
			t := closedAt.Time
			r.ClosedAt = &t
		}
		if latitude.Valid {
			v := latitude.Float64
			r.Latitude = &v
		}
		if longitude.Valid {
			v := longitude.Float64
			r.Longitude = &v
		}
		if respHours.Valid {
			v := respHours.Float64
			r.ResponseHours = &v
		}
		if hourOfDay.Valid {
			v := int(hourOfDay.Int64)
			r.HourOfDay = &v
		}
		if dayOfWeek.Valid {
			v := int(dayOfWeek.Int64)
			r.DayOfWeek = &v
		}

		records = append(records, r)
	}
	return records, rows.Err()
}

// CountFlag pushes a quality-flag count down to SQL. The flag columns are
// written verbatim from the cleaned records, so this matches what a full
// in-memory aggregation would count.
func (ps *PostgresStore) CountFlag(flag Flag) (int, error) {
	switch flag {
	case FlagValidBorough, FlagValidCoordinates, FlagHasClosedDate:
	default:
		return 0, fmt.Errorf("postgres: unknown flag %q", flag)
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM service_requests WHERE %s", string(flag))
	if err := ps.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", flag, err)
	}
	return count, nil
}

// Count returns the number of stored records.
func (ps *PostgresStore) Count() (int, error) {
	var count int
	if err := ps.db.QueryRow("SELECT COUNT(*) FROM service_requests").Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return count, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
