package sheet

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schoolbell",
		Subsystem: "sheet",
		Name:      "requests_total",
		Help:      "Calls made to the backing spreadsheet, by operation, tab and outcome.",
	}, []string{"op", "sheet", "outcome"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "schoolbell",
		Subsystem: "sheet",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to the backing spreadsheet.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
	}, []string{"op", "sheet"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Instrumented records a counter and a latency sample for every call to the
// wrapped Values.
type Instrumented struct {
	next Values
}

// Instrument wraps v with Prometheus metrics.
func Instrument(v Values) *Instrumented {
	return &Instrumented{next: v}
}

func (i *Instrumented) observe(op string, rng Range, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(op, rng.Sheet, outcome).Inc()
	requestDuration.WithLabelValues(op, rng.Sheet).Observe(time.Since(start).Seconds())
}

// Get implements Values.
func (i *Instrumented) Get(ctx context.Context, rng Range) (rows [][]string, err error) {
	defer func(start time.Time) { i.observe("get", rng, start, err) }(time.Now())
	return i.next.Get(ctx, rng)
}

// Append implements Values.
func (i *Instrumented) Append(ctx context.Context, rng Range, row []string) (err error) {
	defer func(start time.Time) { i.observe("append", rng, start, err) }(time.Now())
	return i.next.Append(ctx, rng, row)
}

// Update implements Values.
func (i *Instrumented) Update(ctx context.Context, rng Range, row []string) (err error) {
	defer func(start time.Time) { i.observe("update", rng, start, err) }(time.Now())
	return i.next.Update(ctx, rng, row)
}

// Clear implements Values.
func (i *Instrumented) Clear(ctx context.Context, rng Range) (err error) {
	defer func(start time.Time) { i.observe("clear", rng, start, err) }(time.Now())
	return i.next.Clear(ctx, rng)
}
