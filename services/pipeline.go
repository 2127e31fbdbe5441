package services

import (
	"sync/atomic"

	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

// Pipeline runs the normalize and derive stages over a raw batch. Records are
// independent of each other, so partitions are processed concurrently on the
// worker pool and stitched back together in input order; aggregation stays a
// separate reduction so stored data can be re-aggregated without re-cleaning.
type Pipeline struct {
	normalizer  *Normalizer
	logger      *utils.Logger
	concurrency int
}

// NewPipeline creates a Pipeline with the given normalizer and concurrency.
func NewPipeline(normalizer *Normalizer, concurrency int, logger *utils.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		normalizer:  normalizer,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run cleans and derives every raw record. The returned slice preserves the
// input order with structurally broken records removed; the second return
// value is how many records were excluded. This is the only place the row
// count shrinks between the raw and cleaned stages.
func (p *Pipeline) Run(raws []*models.RawRecord) ([]*models.DerivedRecord, int) {
	if len(raws) == 0 {
		return nil, 0
	}

	partitions := p.partition(len(raws))
	results := make([][]*models.DerivedRecord, len(partitions))
	var excluded int64

	pool := utils.NewWorkerPool(p.concurrency)
	for i, part := range partitions {
		i, part := i, part
		pool.Submit(func() {
			out := make([]*models.DerivedRecord, 0, part.end-part.start)
			for _, raw := range raws[part.start:part.end] {
				cleaned, ok := p.normalizer.Normalize(raw)
				if !ok {
					atomic.AddInt64(&excluded, 1)
					continue
				}
				out = append(out, Derive(cleaned))
			}
			results[i] = out
		})
	}
	pool.Wait()

	derived := make([]*models.DerivedRecord, 0, len(raws))
	for _, part := range results {
		derived = append(derived, part...)
	}

	p.logger.Info("[pipeline] Cleaned %d raw records, kept %d (excluded %d)",
		len(raws), len(derived), excluded)
	return derived, int(excluded)
}

type span struct {
	start, end int
}

func (p *Pipeline) partition(n int) []span {
	parts := p.concurrency
	if parts > n {
		parts = n
	}
	spans := make([]span, 0, parts)
	size := (n + parts - 1) / parts
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, span{start, end})
	}
	return spans
}
