package models

import (
	"testing"
	"time"
)

func TestTupleKeyIgnoresIdentifier(t *testing.T) {
	created := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	lat := 40.7

	a := CleanedRecord{UniqueKey: "1", Agency: "HPD", Borough: "BRONX", CreatedAt: &created, Latitude: &lat}
	b := CleanedRecord{UniqueKey: "2", Agency: "HPD", Borough: "BRONX", CreatedAt: &created, Latitude: &lat}

	if a.TupleKey() != b.TupleKey() {
		t.Error("records differing only by identifier must share a tuple key")
	}
}

func TestTupleKeyDistinguishesFields(t *testing.T) {
	base := CleanedRecord{UniqueKey: "1", Agency: "HPD", ComplaintType: "Noise"}

	tests := []struct {
		name   string
		mutate func(*CleanedRecord)
	}{
		{"agency", func(c *CleanedRecord) { c.Agency = "NYPD" }},
		{"complaint type", func(c *CleanedRecord) { c.ComplaintType = "Water Leak" }},
		{"borough", func(c *CleanedRecord) { c.Borough = "QUEENS" }},
		{"created", func(c *CleanedRecord) {
			ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			c.CreatedAt = &ts
		}},
		{"latitude", func(c *CleanedRecord) {
			v := 40.5
			c.Latitude = &v
		}},
	}

	for _, tt := range tests {
		other := base
		tt.mutate(&other)
		if base.TupleKey() == other.TupleKey() {
			t.Errorf("%s: tuple key must change when the field changes", tt.name)
		}
	}
}

func TestTupleKeyNilVersusZero(t *testing.T) {
	zero := 0.0
	a := CleanedRecord{UniqueKey: "1"}
	b := CleanedRecord{UniqueKey: "2", Latitude: &zero}

	if a.TupleKey() == b.TupleKey() {
		t.Error("a nil coordinate must not collide with an explicit zero")
	}
}
