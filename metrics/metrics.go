package metrics

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mizan/crimewatch-api/flow"
	"github.com/mizan/crimewatch-api/geo"
	"github.com/mizan/crimewatch-api/schema"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	once sync.Once

	// ReportsSubmittedTotal counts report submissions by outcome.
	ReportsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crimewatch",
		Subsystem: "api",
		Name:      "reports_submitted_total",
		Help:      "Total number of report submissions, labeled by result.",
	}, []string{"result"})

	// ReportListingsTotal counts report listings by scope and outcome.
	ReportListingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crimewatch",
		Subsystem: "api",
		Name:      "report_listings_total",
		Help:      "Total number of report listings, labeled by scope and result.",
	}, []string{"scope", "result"})

	// PlaceLookupsTotal counts place lookups by outcome.
	PlaceLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crimewatch",
		Subsystem: "api",
		Name:      "place_lookups_total",
		Help:      "Total number of place lookups, labeled by result.",
	}, []string{"result"})

	// DirectoryRequestDurationSeconds is the latency of one directory search.
	DirectoryRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crimewatch",
		Subsystem: "directory",
		Name:      "request_duration_seconds",
		Help:      "Time spent on one directory search, labeled by provider and result.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider", "result"})

	EnrichmentEnqueueErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crimewatch",
		Subsystem: "background",
		Name:      "enrichment_enqueue_error_total",
		Help:      "Total number of report enrichment tasks that could not be enqueued.",
	})
)

// Register registers the metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsSubmittedTotal,
			ReportListingsTotal,
			PlaceLookupsTotal,
			DirectoryRequestDurationSeconds,
			EnrichmentEnqueueErrorTotal,
		)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result turns a flow error into a metric label, e.g. "lookup_error"
func Result(err error) string {
	if err == nil {
		return ResultOK
	}

	if kind := flow.KindOf(err); kind != nil {
		return strings.ReplaceAll(kind.Error(), " ", "_")
	}

	return ResultError
}

type instrumentedDirectory struct {
	provider string
	next     geo.Directory
}

// InstrumentDirectory records the latency of every search made through d
func InstrumentDirectory(provider string, d geo.Directory) geo.Directory {
	return &instrumentedDirectory{
		provider: provider,
		next:     d,
	}
}

func (i *instrumentedDirectory) Search(ctx context.Context, q schema.PlaceQuery) ([]schema.RawPlace, error) {
	start := time.Now()
	places, err := i.next.Search(ctx, q)

	result := ResultOK
	if err != nil {
		result = ResultError
	}
	DirectoryRequestDurationSeconds.WithLabelValues(i.provider, result).Observe(time.Since(start).Seconds())

	return places, err
}
