package statutory

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/milana/payroll-engine/generic"
)

var log = logrus.WithField("module", "statutory")

// =============================================================================
// REGISTRY - Atomically swapped set of TableSets
// =============================================================================
//
// Readers load one snapshot pointer per calculation and keep using it, so a
// concurrent reload can never hand a calculation half of one year's tables
// and half of another's. Writers build a complete new snapshot and swap it in.

type snapshot struct {
	sets   map[int]*TableSet
	active int
}

type Registry struct {
	current atomic.Pointer[snapshot]
	writeMu sync.Mutex // serializes copy-on-write updates
}

// NewRegistry validates sets and publishes them with active as the default year.
func NewRegistry(sets []*TableSet, active int) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(sets, active); err != nil {
		return nil, err
	}
	return r, nil
}

// Current returns the active year's TableSet.
func (r *Registry) Current() *TableSet {
	snap := r.current.Load()
	return snap.sets[snap.active]
}

// Active returns the active statutory year.
func (r *Registry) Active() int {
	return r.current.Load().active
}

// ForYear returns the TableSet for year. Year 0 means the active year.
func (r *Registry) ForYear(year int) (*TableSet, error) {
	snap := r.current.Load()
	if year == 0 {
		year = snap.active
	}
	ts, ok := snap.sets[year]
	if !ok {
		return nil, fmt.Errorf("year %d: %w", year, generic.ErrTableSetNotFound)
	}
	return ts, nil
}

// Years lists the published years in ascending order.
func (r *Registry) Years() []int {
	years := lo.Keys(r.current.Load().sets)
	sort.Ints(years)
	return years
}

// Replace validates every set and swaps in a snapshot holding exactly these
// sets. On error the previous snapshot stays published.
func (r *Registry) Replace(sets []*TableSet, active int) error {
	next := &snapshot{sets: make(map[int]*TableSet, len(sets)), active: active}
	for _, ts := range sets {
		if err := ts.Validate(); err != nil {
			return err
		}
		next.sets[ts.Year] = ts
	}
	if _, ok := next.sets[active]; !ok {
		return fmt.Errorf("active year %d: %w", active, generic.ErrTableSetNotFound)
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.current.Store(next)
	log.WithFields(logrus.Fields{"years": len(next.sets), "active": active}).Debug("table sets published")
	return nil
}

// Reload validates sets and swaps them in under the active year current at
// the time of the swap, so a SetActive racing with the reload is kept. The
// active year must be among sets.
func (r *Registry) Reload(sets []*TableSet) (int, error) {
	next := &snapshot{sets: make(map[int]*TableSet, len(sets))}
	for _, ts := range sets {
		if err := ts.Validate(); err != nil {
			return 0, err
		}
		next.sets[ts.Year] = ts
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	next.active = r.current.Load().active
	if _, ok := next.sets[next.active]; !ok {
		return 0, fmt.Errorf("active year %d: %w", next.active, generic.ErrTableSetNotFound)
	}
	r.current.Store(next)
	log.WithFields(logrus.Fields{"years": len(next.sets), "active": next.active}).Debug("table sets reloaded")
	return next.active, nil
}

// Put validates ts and publishes it alongside the existing sets, replacing
// any set for the same year.
func (r *Registry) Put(ts *TableSet) error {
	if err := ts.Validate(); err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	prev := r.current.Load()
	next := &snapshot{sets: make(map[int]*TableSet, len(prev.sets)+1), active: prev.active}
	for year, set := range prev.sets {
		next.sets[year] = set
	}
	next.sets[ts.Year] = ts
	r.current.Store(next)
	log.WithField("year", ts.Year).Info("table set published")
	return nil
}

// SetActive changes the default year.
func (r *Registry) SetActive(year int) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	prev := r.current.Load()
	if _, ok := prev.sets[year]; !ok {
		return fmt.Errorf("year %d: %w", year, generic.ErrTableSetNotFound)
	}
	r.current.Store(&snapshot{sets: prev.sets, active: year})
	log.WithField("year", year).Info("active table set changed")
	return nil
}
