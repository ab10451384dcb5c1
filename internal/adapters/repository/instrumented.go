package repository

import (
	"context"
	"time"

	"github.com/okian/salesboard/pkg/metrics"
)

// Instrumented records fetch latency, failures and row counts for a Source.
type Instrumented struct {
	Source
}

// Instrument wraps src with metrics.
func Instrument(src Source) *Instrumented {
	return &Instrumented{Source: src}
}

// BatchGet implements Source.
func (i *Instrumented) BatchGet(ctx context.Context, ranges []string) ([][][]any, error) {
	start := time.Now()
	out, err := i.Source.BatchGet(ctx, ranges)
	latency := float64(time.Since(start).Nanoseconds()) / 1e6
	metrics.RecordSourceFetchLatency(i.Name(), latency)
	if err != nil {
		metrics.RecordSourceFetchError(i.Name())
		metrics.RecordErrorLatency("repository", "fetch", latency)
		return nil, err
	}
	for j, rng := range ranges {
		if j < len(out) {
			metrics.UpdateSourceRows(SheetName(rng), len(out[j]))
		}
	}
	return out, nil
}

// Append implements Source.
func (i *Instrumented) Append(ctx context.Context, rng string, row []any) error {
	start := time.Now()
	err := i.Source.Append(ctx, rng, row)
	if err != nil {
		metrics.RecordSourceFetchError(i.Name())
		metrics.RecordErrorLatency("repository", "append", float64(time.Since(start).Nanoseconds())/1e6)
	}
	return err
}
