package report

import (
	"math/rand"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
)

// sampleSeed fixes the sampling so repeated runs over the same data produce
// identical charts and profiles.
const sampleSeed = 42

// sampleRecords returns up to n records drawn without replacement. The input
// slice is never reordered.
func sampleRecords(records []*models.DerivedRecord, n int) []*models.DerivedRecord {
	if n <= 0 || len(records) <= n {
		return records
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	picked := rng.Perm(len(records))[:n]

	out := make([]*models.DerivedRecord, 0, n)
	for _, i := range picked {
		out = append(out, records[i])
	}
	return out
}
