// Package store provides in-memory statutory.Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[int]statutory.TableSetRecord
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[int]statutory.TableSetRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SaveTableSet upserts the record, bumping its version.
func (m *Memory) SaveTableSet(_ context.Context, rec statutory.TableSetRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.records[rec.Year]; ok {
		rec.Version = existing.Version + 1
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.Version = 1
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.records[rec.Year] = rec
	return rec.Version, nil
}

func (m *Memory) GetTableSet(_ context.Context, year int) (*statutory.TableSetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[year]
	if !ok {
		return nil, fmt.Errorf("year %d: %w", year, generic.ErrTableSetNotFound)
	}
	return &rec, nil
}

func (m *Memory) ListTableSets(_ context.Context) ([]statutory.TableSetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]statutory.TableSetRecord, 0, len(m.records))
	for _, rec := range m.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result, nil
}

func (m *Memory) DeleteTableSet(_ context.Context, year int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[year]; !ok {
		return fmt.Errorf("year %d: %w", year, generic.ErrTableSetNotFound)
	}
	delete(m.records, year)
	return nil
}

var _ statutory.Store = (*Memory)(nil)
