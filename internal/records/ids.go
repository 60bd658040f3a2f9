package records

import (
	"strconv"
	"sync"
	"time"
)

// Kind names an entity type. Each kind has its own tab and id namespace.
type Kind string

const (
	KindClass      Kind = "class"
	KindSubject    Kind = "subject"
	KindStudent    Kind = "student"
	KindAttendance Kind = "attendance"
)

var prefixes = map[Kind]string{
	KindClass:      "C",
	KindSubject:    "SUB",
	KindStudent:    "S",
	KindAttendance: "ATT",
}

// Prefix returns the id prefix of k.
func (k Kind) Prefix() string { return prefixes[k] }

// IDGenerator issues "<prefix><unix millis>" ids. Within one process the
// sequence of each kind is strictly increasing, even for calls in the same
// millisecond. Separate processes can still collide.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last map[Kind]int64
}

// NewIDGenerator returns a generator reading now; nil means time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now, last: make(map[Kind]int64)}
}

// Next returns a new id for k.
func (g *IDGenerator) Next(k Kind) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.now().UnixMilli()
	if last := g.last[k]; n <= last {
		n = last + 1
	}
	g.last[k] = n
	return k.Prefix() + strconv.FormatInt(n, 10)
}
