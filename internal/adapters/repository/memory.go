package repository

import (
	"context"
	"sync"
)

// MemorySource keeps sheets in process memory. It backs tests and the demo
// mode that serves seeded data without any file.
type MemorySource struct {
	mu     sync.RWMutex
	sheets map[string][][]any
}

// NewMemorySource creates an empty source.
func NewMemorySource(opts ...MemoryOption) *MemorySource {
	m := &MemorySource{sheets: make(map[string][][]any)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Source.
func (m *MemorySource) Name() string { return "memory" }

// BatchGet implements Source.
func (m *MemorySource) BatchGet(ctx context.Context, ranges []string) ([][][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][][]any, len(ranges))
	for i, rng := range ranges {
		out[i] = clip(copyRows(m.sheets[SheetName(rng)]), Width(rng))
	}
	return out, nil
}

// Append implements Source.
func (m *MemorySource) Append(ctx context.Context, rng string, row []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(row) == 0 {
		return ErrEmptyRow
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	name := SheetName(rng)
	m.sheets[name] = append(m.sheets[name], append([]any(nil), row...))
	return nil
}

// Rows returns a copy of a sheet, header included.
func (m *MemorySource) Rows(name string) [][]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.sheets[name])
}

func copyRows(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = append([]any(nil), row...)
	}
	return out
}
