package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute, 0)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute, 0)
	var calls atomic.Int32

	loader := func(context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	stats := store.Stats()
	if stats.Loads != 1 || stats.Hits < 1 || stats.Entries != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute, 0)
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("got=%v want=%v", err, boom)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("failed load must not be cached")
	}
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0, 2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { now = now.Add(time.Second); return now }

	ctx := context.Background()
	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)
	store.Set(ctx, "c", 3)

	if _, ok := store.Get(ctx, "a"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if v, ok := store.Get(ctx, "c"); !ok || v != 3 {
		t.Fatalf("got=%v,%v want=3,true", v, ok)
	}
	if got := store.Stats().Evictions; got != 1 {
		t.Fatalf("got=%d want=1 evictions", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0, 0)
	ctx := context.Background()
	store.Set(ctx, "forecast:bos:a", 1)
	store.Set(ctx, "forecast:bos:b", 2)
	store.Set(ctx, "forecast:nyk:c", 3)

	if removed := store.DeletePrefix(ctx, "forecast:bos:"); removed != 2 {
		t.Fatalf("got=%d want=2", removed)
	}
	if got := store.Stats().Entries; got != 1 {
		t.Fatalf("got=%d want=1 entries", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
