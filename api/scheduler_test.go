package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milana/payroll-engine/factory"
	"github.com/milana/payroll-engine/statutory"
)

func TestReloadScheduler_RunNow(t *testing.T) {
	// GIVEN: A document saved by another process
	s := setupTestServer(t)
	ctx := context.Background()
	_, err := s.store.SaveTableSet(ctx, statutory.TableSetRecord{Year: 2027, Format: factory.FormatJSON, Document: string(nextYearDocument(t, 2027))})
	require.NoError(t, err)

	_, ok := s.handler.Reloader.LastRun()
	assert.False(t, ok)

	// WHEN: Reloading
	summary, err := s.handler.Reloader.RunNow(ctx)

	// THEN: Both years are published and the active one is unchanged
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, []int{2026, 2027}, summary.Years)
	assert.Equal(t, 2026, s.registry.Active())

	ts, err := s.registry.ForYear(2027)
	require.NoError(t, err)
	assert.Equal(t, "120", ts.Constants.UMADaily.String())

	last, ok := s.handler.Reloader.LastRun()
	require.True(t, ok)
	assert.Equal(t, summary.Years, last.Years)
}

func TestReloadScheduler_EmptyStore(t *testing.T) {
	s := setupTestServer(t)
	require.NoError(t, s.store.Reset(context.Background()))

	_, err := s.handler.Reloader.RunNow(context.Background())

	assert.ErrorIs(t, err, ErrNoTableSets)
	assert.Equal(t, []int{2026}, s.registry.Years())
}

func TestReloadScheduler_ActiveYearRemoved(t *testing.T) {
	// GIVEN: The active year is deleted from the store, another remains
	s := setupTestServer(t)
	ctx := context.Background()
	_, err := s.store.SaveTableSet(ctx, statutory.TableSetRecord{Year: 2027, Format: factory.FormatJSON, Document: string(nextYearDocument(t, 2027))})
	require.NoError(t, err)
	require.NoError(t, s.store.DeleteTableSet(ctx, 2026))

	// WHEN: Reloading
	_, err = s.handler.Reloader.RunNow(ctx)

	// THEN: The reload is refused and 2026 stays published
	assert.Error(t, err)
	assert.Equal(t, []int{2026}, s.registry.Years())
	assert.Equal(t, 2026, s.registry.Current().Year)
}

// listHookStore runs onList once, after the first listing completes.
type listHookStore struct {
	statutory.Store
	once   sync.Once
	onList func()
}

func (s *listHookStore) ListTableSets(ctx context.Context) ([]statutory.TableSetRecord, error) {
	records, err := s.Store.ListTableSets(ctx)
	s.once.Do(s.onList)
	return records, err
}

func TestReloadScheduler_PublishDuringReloadIsKept(t *testing.T) {
	// GIVEN: A 2027 upload arrives after a reload listed the store but
	// before it swapped the registry
	s := setupTestServer(t)
	ctx := context.Background()
	doc := nextYearDocument(t, 2027)
	ts, err := factory.ParseJSON(doc)
	require.NoError(t, err)

	published := make(chan error, 1)
	hooked := &listHookStore{Store: s.store}
	rs := NewReloadScheduler(hooked, s.registry)
	hooked.onList = func() {
		go func() {
			_, err := rs.Publish(ctx, statutory.TableSetRecord{Year: 2027, Format: factory.FormatJSON, Document: string(doc)}, ts)
			published <- err
		}()
	}

	// WHEN: The reload finishes and the upload completes
	summary, err := rs.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2026}, summary.Years)
	require.NoError(t, <-published)

	// THEN: The uploaded year is published and stored
	got, err := s.registry.ForYear(2027)
	require.NoError(t, err)
	assert.Same(t, ts, got)

	_, err = s.store.GetTableSet(ctx, 2027)
	assert.NoError(t, err)

	// AND: A later reload keeps it
	summary, err = rs.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2027}, summary.Years)
}

func TestReloadScheduler_StartStop(t *testing.T) {
	s := setupTestServer(t)
	rs := s.handler.Reloader
	rs.CheckInterval = 10 * time.Millisecond

	rs.Start()
	rs.Start()
	_, err := s.store.SaveTableSet(context.Background(), statutory.TableSetRecord{Year: 2027, Format: factory.FormatJSON, Document: string(nextYearDocument(t, 2027))})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := s.registry.ForYear(2027)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	rs.Stop()
	rs.Stop()
}

func TestReloadScheduler_Disabled(t *testing.T) {
	s := setupTestServer(t)
	rs := s.handler.Reloader
	rs.Enabled = false
	rs.CheckInterval = 10 * time.Millisecond

	rs.Start()
	_, err := s.store.SaveTableSet(context.Background(), statutory.TableSetRecord{Year: 2027, Format: factory.FormatJSON, Document: string(nextYearDocument(t, 2027))})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	_, err = s.registry.ForYear(2027)
	assert.Error(t, err)
	rs.Stop()
}
