// Package metrics records build statistics as Prometheus metrics. A build is
// a batch job, so the metrics are written to a textfile for the node
// exporter instead of being served.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "tokenmap"

	// Status label values for source fetches
	StatusSuccess = "success"
	StatusError   = "error"

	// Token kind label values
	KindTotal    = "total"
	KindCurated  = "curated"
	KindVerified = "verified"
	KindScam     = "scam"
	KindAdded    = "added"
	KindRenamed  = "renamed"
)

// Metrics holds every build metric. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	tokens          *prometheus.GaugeVec
	sourceRecords   *prometheus.GaugeVec
	sourceFetches   *prometheus.CounterVec
	sourceDuration  *prometheus.GaugeVec
	marketBatches   prometheus.Counter
	buildDuration   prometheus.Gauge
	lastSuccessTime prometheus.Gauge
}

// New creates a Metrics instance and registers all metrics with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		tokens: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tokens",
			Help:      "Tokens in the last built catalog by kind",
		}, []string{"kind"}),
		sourceRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "source",
			Name:      "records",
			Help:      "Records normalized from each source",
		}, []string{"source"}),
		sourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Source fetches by source and status",
		}, []string{"source", "status"}),
		sourceDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the last fetch of each source",
		}, []string{"source"}),
		marketBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "market_data",
			Name:      "batches_total",
			Help:      "Market data price requests made",
		}),
		buildDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of the last successful build",
		}),
		lastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build",
		}),
	}

	err := errors.Join(
		reg.Register(m.tokens),
		reg.Register(m.sourceRecords),
		reg.Register(m.sourceFetches),
		reg.Register(m.sourceDuration),
		reg.Register(m.marketBatches),
		reg.Register(m.buildDuration),
		reg.Register(m.lastSuccessTime),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSource records the outcome of one source fetch.
func (m *Metrics) RecordSource(source string, records int, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.sourceFetches.WithLabelValues(source, status).Inc()
	m.sourceDuration.WithLabelValues(source).Set(d.Seconds())
	if err == nil {
		m.sourceRecords.WithLabelValues(source).Set(float64(records))
	}
}

// AddMarketBatches counts market data requests.
func (m *Metrics) AddMarketBatches(n int) {
	if m == nil {
		return
	}
	m.marketBatches.Add(float64(n))
}

// Counts are the token tallies of a built catalog.
type Counts struct {
	Total    int
	Curated  int
	Verified int
	Scam     int
	Added    int
	Renamed  int
}

// RecordBuild records a successful build.
func (m *Metrics) RecordBuild(c Counts, d time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.tokens.WithLabelValues(KindTotal).Set(float64(c.Total))
	m.tokens.WithLabelValues(KindCurated).Set(float64(c.Curated))
	m.tokens.WithLabelValues(KindVerified).Set(float64(c.Verified))
	m.tokens.WithLabelValues(KindScam).Set(float64(c.Scam))
	m.tokens.WithLabelValues(KindAdded).Set(float64(c.Added))
	m.tokens.WithLabelValues(KindRenamed).Set(float64(c.Renamed))
	m.buildDuration.Set(d.Seconds())
	m.lastSuccessTime.Set(float64(finished.Unix()))
}
