// Package store connects the backing services the API depends on and reports
// their health.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"schoolbell/internal/records"
	"schoolbell/internal/sheet"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Health runs named checks concurrently, each bounded by Timeout.
type Health struct {
	Timeout time.Duration
	checks  map[string]Check
}

// NewHealth returns an empty set of checks.
func NewHealth(timeout time.Duration) *Health {
	return &Health{Timeout: timeout, checks: make(map[string]Check)}
}

// Add registers check under name.
func (h *Health) Add(name string, check Check) {
	h.checks[name] = check
}

// Status is the outcome of one check.
type Status struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Run executes every check and reports whether all passed. Results are sorted
// by name.
func (h *Health) Run(ctx context.Context) ([]Status, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make([]Status, 0, len(h.checks))
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			st := Status{Name: name, OK: true}
			if err := check(ctx); err != nil {
				st.OK, st.Error = false, err.Error()
			}
			mu.Lock()
			out = append(out, st)
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	healthy := true
	for _, st := range out {
		healthy = healthy && st.OK
	}
	return out, healthy
}

// SheetCheck reads the header cell of the Classes tab.
func SheetCheck(values sheet.Values) Check {
	rng := sheet.Columns(records.ClassesTab, 0, 0).Row(1)
	return func(ctx context.Context) error {
		_, err := values.Get(ctx, rng)
		return err
	}
}
