package report

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
)

func makeRecords(n int) []*models.DerivedRecord {
	out := make([]*models.DerivedRecord, n)
	for i := range out {
		out[i] = &models.DerivedRecord{
			CleanedRecord: models.CleanedRecord{UniqueKey: fmt.Sprintf("k%d", i)},
		}
	}
	return out
}

func TestSampleReturnsAllWhenSmall(t *testing.T) {
	records := makeRecords(10)
	got := sampleRecords(records, 50)
	if len(got) != 10 {
		t.Errorf("len = %d; want all 10", len(got))
	}
}

func TestSampleBounded(t *testing.T) {
	records := makeRecords(1000)
	got := sampleRecords(records, 100)
	if len(got) != 100 {
		t.Errorf("len = %d; want 100", len(got))
	}

	seen := make(map[string]bool)
	for _, r := range got {
		if seen[r.UniqueKey] {
			t.Fatalf("record %s sampled twice", r.UniqueKey)
		}
		seen[r.UniqueKey] = true
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	records := makeRecords(500)
	a := sampleRecords(records, 50)
	b := sampleRecords(records, 50)
	if !reflect.DeepEqual(a, b) {
		t.Error("sampling must be reproducible across runs")
	}
}
