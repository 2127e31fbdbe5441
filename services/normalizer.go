package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"time"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// timestampLayout is the fixed locale format of the NYC Open Data export:
// month/day/year 12-hour clock with AM/PM.
const timestampLayout = "01/02/2006 03:04:05 PM"

// NYC bounding box. Coordinates outside it are flagged, not discarded.
const (
	minLatitude  = 40.4
	maxLatitude  = 40.95
	minLongitude = -74.3
	maxLongitude = -73.6
)

// Boroughs lists the canonical borough names in their conventional order.
var Boroughs = []string{"BROOKLYN", "QUEENS", "MANHATTAN", "BRONX", "STATEN ISLAND"}

// DefaultBoroughAliases maps raw borough spellings (including the historical
// county names that appear in older records) to canonical borough names.
func DefaultBoroughAliases() map[string]string {
	return map[string]string{
		"BRONX":         "BRONX",
		"BROOKLYN":      "BROOKLYN",
		"MANHATTAN":     "MANHATTAN",
		"QUEENS":        "QUEENS",
		"STATEN ISLAND": "STATEN ISLAND",
		"KINGS":         "BROOKLYN",
		"NEW YORK":      "MANHATTAN",
		"RICHMOND":      "STATEN ISLAND",
	}
}

// Normalizer transforms RawRecords into clean, validated CleanedRecords.
// It is a pure mapping: no state changes during processing and identical
// input always yields identical output.
type Normalizer struct {
	aliases map[string]string
	logger  *utils.Logger
}

// NewNormalizer creates a Normalizer with the given borough alias table.
// The table is copied, so the caller's map cannot mutate normalization
// behavior afterwards.
func NewNormalizer(aliases map[string]string, logger *utils.Logger) *Normalizer {
	copied := make(map[string]string, len(aliases))
	for k, v := range aliases {
		copied[k] = v
	}
	return &Normalizer{aliases: copied, logger: logger}
}

// Normalize validates and repairs one raw record. Malformed fields degrade
// to nil values and cleared quality flags; the only rejection (ok=false) is
// a structurally broken record with no unique key, since without an
// identifier the record cannot be tracked at all.
func (n *Normalizer) Normalize(raw *models.RawRecord) (*models.CleanedRecord, bool) {
	key := strings.TrimSpace(raw.UniqueKey)
	if key == "" {
		n.logger.Debug("[normalizer] rejecting record with no unique key (type=%q)", raw.ComplaintType)
		return nil, false
	}

	borough, validBorough := n.normalizeBorough(raw.Borough)
	lat := parseCoordinate(raw.Latitude)
	lon := parseCoordinate(raw.Longitude)
	closedAt := parseTimestamp(raw.ClosedDate)

	return &models.CleanedRecord{
		UniqueKey:         key,
		Agency:            normalizeText(raw.Agency),
		ComplaintType:     normalizeText(raw.ComplaintType),
		ComplaintCategory: normalizeText(raw.ComplaintCategory),
		Status:            normalizeText(raw.Status),
		Borough:           borough,
		CreatedAt:         parseTimestamp(raw.CreatedDate),
		ClosedAt:          closedAt,
		Latitude:          lat,
		Longitude:         lon,

		HasValidBorough:     validBorough,
		HasValidCoordinates: coordinatesInBounds(lat, lon),
		HasClosedDate:       closedAt != nil,
	}, true
}

// normalizeBorough uppercases, trims and resolves aliases. Unrecognized
// values produce an empty borough with the flag cleared.
func (n *Normalizer) normalizeBorough(raw string) (string, bool) {
	key := strings.ToUpper(normalizeText(raw))
	if key == "" {
		return "", false
	}
	canonical, ok := n.aliases[key]
	if !ok {
		return "", false
	}
	return canonical, true
}

// parseTimestamp returns nil for anything that does not match the export's
// fixed format. A bad date is a quality problem, never a parse error, and is
// never defaulted to now or epoch.
func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// parseCoordinate returns nil for empty or non-finite values. Out-of-range
// values are kept; the bounding-box check only affects the flag.
func parseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func coordinatesInBounds(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= minLatitude && *lat <= maxLatitude &&
		*lon >= minLongitude && *lon <= maxLongitude
}

// normalizeText strips leading/trailing whitespace and collapses internal
// whitespace. Case is preserved.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
