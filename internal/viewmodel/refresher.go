package viewmodel

import (
	"log"
	"sync"
)

// refresher serializes refreshes of one read model. At most one fetch runs at
// a time; events arriving mid-fetch coalesce into exactly one follow-up run,
// so a burst of rapid changes costs two refreshes, not one per event.
//
// Each run is issued a monotonic sequence number and its snapshot is applied
// only if no newer run has already been applied, so a slow fetch can never
// overwrite fresher state.
type refresher struct {
	mu       sync.Mutex
	inFlight bool
	pending  bool
	issued   uint64
	applied  uint64

	// fetch gathers data and returns an apply func that publishes the
	// snapshot. Splitting the two lets the staleness check sit between
	// the slow part and the publish.
	fetch func() (apply func(), err error)
}

func newRefresher(fetch func() (func(), error)) *refresher {
	return &refresher{fetch: fetch}
}

// Trigger requests an asynchronous refresh, coalescing with any in-flight one.
func (r *refresher) Trigger() {
	r.mu.Lock()
	if r.inFlight {
		r.pending = true
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	go r.loop()
}

func (r *refresher) loop() {
	for {
		if err := r.runOnce(); err != nil {
			log.Printf("viewmodel: refresh failed: %v", err)
		}

		r.mu.Lock()
		if !r.pending {
			r.inFlight = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
	}
}

// Sync runs one refresh on the caller's goroutine and reports its error.
func (r *refresher) Sync() error {
	return r.runOnce()
}

func (r *refresher) runOnce() error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.mu.Unlock()

	apply, err := r.fetch()
	if err != nil {
		return err
	}

	// the staleness check and the publish share one critical section; a
	// superseded snapshot can never land after a newer one
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.applied {
		return nil
	}
	r.applied = seq
	apply()
	return nil
}
