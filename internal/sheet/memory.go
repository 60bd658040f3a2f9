package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Values used in tests and with SHEET_BACKEND=memory.
// Each call is serialised, which is all the remote store guarantees as well.
type Memory struct {
	mu   sync.Mutex
	tabs map[string][][]string
	fail error
}

// NewMemory creates an empty grid.
func NewMemory() *Memory {
	return &Memory{tabs: make(map[string][][]string)}
}

// Seed replaces the content of a tab, starting at sheet row 1.
func (m *Memory) Seed(tab string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid := make([][]string, len(rows))
	for i, r := range rows {
		grid[i] = append([]string(nil), r...)
	}
	m.tabs[tab] = grid
}

// Snapshot returns a copy of the raw cells of a tab, holes included.
func (m *Memory) Snapshot(tab string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.tabs[tab]))
	for i, r := range m.tabs[tab] {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// FailWith makes every following call return err wrapped in
// ErrRemoteUnavailable. A nil err restores normal operation.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

// Get implements Values.
func (m *Memory) Get(_ context.Context, rng Range) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("get", rng); err != nil {
		return nil, err
	}
	grid := m.tabs[rng.Sheet]
	first, last := rowBounds(rng, len(grid))
	var out [][]string
	for i := first; i <= last && i < len(grid); i++ {
		out = append(out, trimRight(cells(grid[i], rng.FirstCol, rng.LastCol)))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Append implements Values.
func (m *Memory) Append(_ context.Context, rng Range, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("append", rng); err != nil {
		return err
	}
	if len(row) > rng.Width() {
		return fmt.Errorf("sheet: append %s: %d values exceed range width %d", rng.A1(), len(row), rng.Width())
	}
	grid := m.tabs[rng.Sheet]
	start := rng.FirstRow - 1
	if start < 0 {
		start = 0
	}
	at := start
	for i := len(grid) - 1; i >= start; i-- {
		if len(trimRight(cells(grid[i], rng.FirstCol, rng.LastCol))) > 0 {
			at = i + 1
			break
		}
	}
	m.write(rng.Sheet, at, rng.FirstCol, row)
	return nil
}

// Update implements Values.
func (m *Memory) Update(_ context.Context, rng Range, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("update", rng); err != nil {
		return err
	}
	if rng.FirstRow < 1 {
		return fmt.Errorf("sheet: update %s: range has no start row", rng.A1())
	}
	if len(row) > rng.Width() {
		return fmt.Errorf("sheet: update %s: %d values exceed range width %d", rng.A1(), len(row), rng.Width())
	}
	m.write(rng.Sheet, rng.FirstRow-1, rng.FirstCol, row)
	return nil
}

// Clear implements Values.
func (m *Memory) Clear(_ context.Context, rng Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("clear", rng); err != nil {
		return err
	}
	grid := m.tabs[rng.Sheet]
	first, last := rowBounds(rng, len(grid))
	for i := first; i <= last && i < len(grid); i++ {
		for c := rng.FirstCol; c <= rng.LastCol && c < len(grid[i]); c++ {
			grid[i][c] = ""
		}
	}
	return nil
}

func (m *Memory) failure(op string, rng Range) error {
	if m.fail == nil {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %v", ErrRemoteUnavailable, op, rng.A1(), m.fail)
}

func (m *Memory) write(tab string, rowIdx, col int, values []string) {
	grid := m.tabs[tab]
	for len(grid) <= rowIdx {
		grid = append(grid, nil)
	}
	r := grid[rowIdx]
	for len(r) < col+len(values) {
		r = append(r, "")
	}
	copy(r[col:], values)
	grid[rowIdx] = r
	m.tabs[tab] = grid
}

// rowBounds converts the one-based rows of rng to zero-based grid indexes.
func rowBounds(rng Range, n int) (int, int) {
	first, last := 0, n-1
	if rng.FirstRow > 0 {
		first = rng.FirstRow - 1
	}
	if rng.LastRow > 0 {
		last = rng.LastRow - 1
	}
	return first, last
}

func cells(r []string, first, last int) []string {
	out := make([]string, 0, last-first+1)
	for c := first; c <= last; c++ {
		if c < len(r) {
			out = append(out, r[c])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func trimRight(r []string) []string {
	n := len(r)
	for n > 0 && r[n-1] == "" {
		n--
	}
	return r[:n]
}
