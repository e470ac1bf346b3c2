package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RebuildCollector bundles the Prometheus metrics for dataset imports and
// zone rebuild runs and provides the /metrics handler. It satisfies the
// metrics interfaces of the rebuild, zone, and dataset packages.
type RebuildCollector struct {
	gatherer prometheus.Gatherer

	Zones          *prometheus.CounterVec
	AreasDiscarded *prometheus.CounterVec
	Repairs        *prometheus.CounterVec
	PointsRead     prometheus.Counter
	RunDurations   prometheus.Histogram
}

// NewRebuildCollector registers the rebuild Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewRebuildCollector(reg prometheus.Registerer) (*RebuildCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	zones := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rebuild_zones_total",
		Help: "Total number of zones processed by rebuild runs, labeled by outcome.",
	}, []string{"outcome"})
	zones, err := registerCounterVec(reg, zones, "rebuild_zones_total")
	if err != nil {
		return nil, err
	}

	areas := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rebuild_areas_discarded_total",
		Help: "Total number of areas that contributed no polygon, labeled by cause.",
	}, []string{"cause"})
	areas, err = registerCounterVec(reg, areas, "rebuild_areas_discarded_total")
	if err != nil {
		return nil, err
	}

	repairs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rebuild_repairs_total",
		Help: "Total number of make-valid attempts, labeled by strategy and whether the result was usable.",
	}, []string{"strategy", "usable"})
	repairs, err = registerCounterVec(reg, repairs, "rebuild_repairs_total")
	if err != nil {
		return nil, err
	}

	points, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dataset_points_imported_total",
		Help: "Total number of point records imported from dataset files.",
	}), "dataset_points_imported_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rebuild_run_duration_seconds",
		Help:    "Rebuild run duration in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}), "rebuild_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &RebuildCollector{
		gatherer:       gatherer,
		Zones:          zones,
		AreasDiscarded: areas,
		Repairs:        repairs,
		PointsRead:     points,
		RunDurations:   durations,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *RebuildCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ZoneOutcome counts n zones that finished a rebuild run with the outcome.
func (c *RebuildCollector) ZoneOutcome(outcome string, n int) {
	if c == nil || c.Zones == nil {
		return
	}
	c.Zones.WithLabelValues(outcome).Add(float64(n))
}

// RunObserved records the duration of one rebuild run.
func (c *RebuildCollector) RunObserved(d time.Duration) {
	if c == nil || c.RunDurations == nil {
		return
	}
	c.RunDurations.Observe(d.Seconds())
}

// AreaDiscarded counts an area that contributed no polygon to its zone.
func (c *RebuildCollector) AreaDiscarded(cause string) {
	if c == nil || c.AreasDiscarded == nil {
		return
	}
	c.AreasDiscarded.WithLabelValues(cause).Inc()
}

// RepairAttempted counts one make-valid attempt and whether it produced a
// usable polygon.
func (c *RebuildCollector) RepairAttempted(strategy string, usable bool) {
	if c == nil || c.Repairs == nil {
		return
	}
	c.Repairs.WithLabelValues(strategy, strconv.FormatBool(usable)).Inc()
}

// PointsImported counts point records loaded by a dataset import.
func (c *RebuildCollector) PointsImported(n int) {
	if c == nil || c.PointsRead == nil {
		return
	}
	c.PointsRead.Add(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
