/*
scheduler.go - Table-set reload scheduler

PURPOSE:
  Periodically re-reads every table-set document from the store and
  publishes them to the registry, so that a document saved by another
  process (or edited directly in the database) goes live without a restart.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Documents that fail to parse or validate are logged and skipped
  - A failed reload keeps the previous snapshot published
  - Reloads and Publish share one lock: a document saved while a reload is
    between reading the store and swapping the registry is published after
    the swap, never overwritten by it
  - Calculations already running keep the snapshot they started with

CONFIGURATION:
  - CheckInterval: How often to reload (default: 5 minutes)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReloadScheduler(store, registry)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ReloadTables endpoint (manual reload)
  - statutory/registry.go: Registry.Replace
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/milana/payroll-engine/factory"
	"github.com/milana/payroll-engine/statutory"
)

// ErrNoTableSets is returned when a reload finds no valid document.
var ErrNoTableSets = errors.New("no valid table sets in store")

// ReloadSummary describes the outcome of one reload.
type ReloadSummary struct {
	Loaded  int
	Skipped int
	Years   []int
	Active  int
	At      time.Time
}

// ReloadScheduler handles periodic table-set reloads.
type ReloadScheduler struct {
	Store         statutory.Store
	Registry      *statutory.Registry
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// publishMu orders store reads and writes with registry swaps.
	publishMu sync.Mutex

	lastMu  sync.RWMutex
	lastRun *ReloadSummary
}

// NewReloadScheduler creates a new scheduler.
func NewReloadScheduler(store statutory.Store, registry *statutory.Registry) *ReloadScheduler {
	return &ReloadScheduler{
		Store:         store,
		Registry:      registry,
		CheckInterval: 5 * time.Minute,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (rs *ReloadScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled || rs.CheckInterval <= 0 {
		log.Info("table reload scheduler disabled")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.WithField("interval", rs.CheckInterval.String()).Info("table reload scheduler started")
}

// Stop stops the scheduler. It is safe to call more than once.
func (rs *ReloadScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Info("table reload scheduler stopped")
	}
}

func (rs *ReloadScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	for {
		select {
		case <-ticker.C:
			if _, err := rs.RunNow(context.Background()); err != nil {
				log.WithError(err).Warn("table reload failed, keeping previous tables")
			}
		case <-stop:
			return
		}
	}
}

// RunNow reloads immediately (for startup and the admin endpoint).
func (rs *ReloadScheduler) RunNow(ctx context.Context) (ReloadSummary, error) {
	rs.publishMu.Lock()
	defer rs.publishMu.Unlock()

	sets, skipped, err := factory.LoadFromStore(ctx, rs.Store)
	if err != nil {
		return ReloadSummary{}, err
	}
	if len(sets) == 0 {
		return ReloadSummary{Skipped: skipped}, ErrNoTableSets
	}

	active, err := rs.Registry.Reload(sets)
	if err != nil {
		return ReloadSummary{Skipped: skipped}, fmt.Errorf("publish reloaded tables: %w", err)
	}

	summary := ReloadSummary{
		Loaded:  len(sets),
		Skipped: skipped,
		Years:   rs.Registry.Years(),
		Active:  active,
		At:      time.Now().UTC(),
	}
	rs.lastMu.Lock()
	rs.lastRun = &summary
	rs.lastMu.Unlock()

	log.WithFields(logrus.Fields{
		"loaded":  summary.Loaded,
		"skipped": summary.Skipped,
		"active":  summary.Active,
	}).Info("table sets reloaded")
	return summary, nil
}

// Publish saves rec and publishes its already-built table set. It waits for
// any reload in progress so that reload cannot drop the new document.
func (rs *ReloadScheduler) Publish(ctx context.Context, rec statutory.TableSetRecord, ts *statutory.TableSet) (int, error) {
	rs.publishMu.Lock()
	defer rs.publishMu.Unlock()

	version, err := rs.Store.SaveTableSet(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save table set %d: %w", rec.Year, err)
	}
	if err := rs.Registry.Put(ts); err != nil {
		return version, fmt.Errorf("publish table set %d: %w", rec.Year, err)
	}
	return version, nil
}

// LastRun returns the last successful reload, if any.
func (rs *ReloadScheduler) LastRun() (ReloadSummary, bool) {
	rs.lastMu.RLock()
	defer rs.lastMu.RUnlock()
	if rs.lastRun == nil {
		return ReloadSummary{}, false
	}
	return *rs.lastRun, true
}

