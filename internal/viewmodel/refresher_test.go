package viewmodel

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitIdle(t *testing.T, r *refresher) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		idle := !r.inFlight
		r.mu.Unlock()
		if idle {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("refresher never went idle")
}

func TestRefresherCoalescesBursts(t *testing.T) {
	var calls int32
	entered := make(chan struct{}, 10)
	release := make(chan struct{})

	r := newRefresher(func() (func(), error) {
		atomic.AddInt32(&calls, 1)
		entered <- struct{}{}
		<-release
		return func() {}, nil
	})

	r.Trigger()
	<-entered

	// these all land while the first fetch is still running and must fold
	// into a single follow-up run
	r.Trigger()
	r.Trigger()
	r.Trigger()

	release <- struct{}{}
	<-entered
	release <- struct{}{}

	waitIdle(t, r)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 fetches for a burst of 4 triggers, got %d", got)
	}
}

func TestRefresherDropsStaleSnapshot(t *testing.T) {
	var mu sync.Mutex
	var applied []int
	var call int

	started := make(chan int, 2)
	unblockFirst := make(chan struct{})

	r := newRefresher(func() (func(), error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		started <- n
		if n == 1 {
			<-unblockFirst
		}
		return func() {
			mu.Lock()
			applied = append(applied, n)
			mu.Unlock()
		}, nil
	})

	done := make(chan error, 1)
	go func() { done <- r.Sync() }()
	<-started

	// second refresh starts after the first but finishes before it
	if err := r.Sync(); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	<-started

	close(unblockFirst)
	if err := <-done; err != nil {
		t.Fatalf("first sync failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != 2 {
		t.Fatalf("expected only the newer snapshot applied, got %v", applied)
	}
}

func TestRefresherLateApplyCannotOverwriteNewerState(t *testing.T) {
	var calls int32
	var state string

	applyEntered := make(chan struct{})
	release := make(chan struct{})

	r := newRefresher(func() (func(), error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return func() {
				close(applyEntered)
				<-release
				state = "old"
			}, nil
		}
		return func() { state = "new" }, nil
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := r.Sync(); err != nil {
			t.Errorf("first sync failed: %v", err)
		}
	}()
	<-applyEntered

	// second refresh starts while the first is mid-publish
	go func() {
		defer wg.Done()
		if err := r.Sync(); err != nil {
			t.Errorf("second sync failed: %v", err)
		}
	}()
	time.Sleep(20 * time.Millisecond)

	close(release)
	wg.Wait()

	if state != "new" {
		t.Fatalf("stale snapshot overwrote fresh state: state=%q, want new", state)
	}
}

func TestRefresherSyncReportsFetchError(t *testing.T) {
	wantErr := errors.New("store down")
	r := newRefresher(func() (func(), error) { return nil, wantErr })

	if err := r.Sync(); !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
