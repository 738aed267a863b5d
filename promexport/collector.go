// Package promexport exposes the aggregate statistics of a codetiming
// registry as Prometheus metrics.
//
// The collector reads a registry snapshot on every scrape, so metrics
// are always computed from a consistent view of the recorded history:
//
//	prometheus.MustRegister(promexport.NewCollector(codetiming.DefaultRegistry))
package promexport

import (
	"math"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/realpython/codetiming"
)

// DefaultNamespace prefixes the exported metric names unless overridden
// with WithNamespace.
const DefaultNamespace = "codetiming"

// Collector implements prometheus.Collector over a codetiming.Registry.
// Per recorded name it exports the recording count, the total recorded
// seconds, and min/max/mean/median/stdev gauges distinguished by a
// "stat" label. The stdev series is omitted while a name has fewer than
// two recordings rather than exporting a placeholder value.
type Collector struct {
	registry *codetiming.Registry

	count *prometheus.Desc
	total *prometheus.Desc
	stat  *prometheus.Desc
}

// NewCollector creates a collector exporting the statistics of reg
// under the default namespace.
func NewCollector(reg *codetiming.Registry) *Collector {
	c := &Collector{registry: reg}
	return c.WithNamespace(DefaultNamespace)
}

// WithNamespace changes the metric name prefix. Call it before
// registering the collector.
func (c *Collector) WithNamespace(namespace string) *Collector {
	c.count = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "timer", "count"),
		"Number of durations recorded under a timer name.",
		[]string{"name"}, nil,
	)
	c.total = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "timer", "seconds_total"),
		"Sum of the durations recorded under a timer name in seconds.",
		[]string{"name"}, nil,
	)
	c.stat = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "timer", "seconds"),
		"Aggregate statistics over the durations recorded under a timer name in seconds.",
		[]string{"name", "stat"}, nil,
	)
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.total
	ch <- c.stat
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, durations := range c.registry.Snapshot() {
		s := summarize(durations)
		ch <- prometheus.MustNewConstMetric(c.count, prometheus.CounterValue, float64(s.count), name)
		ch <- prometheus.MustNewConstMetric(c.total, prometheus.CounterValue, s.total.Seconds(), name)
		ch <- prometheus.MustNewConstMetric(c.stat, prometheus.GaugeValue, s.min.Seconds(), name, "min")
		ch <- prometheus.MustNewConstMetric(c.stat, prometheus.GaugeValue, s.max.Seconds(), name, "max")
		ch <- prometheus.MustNewConstMetric(c.stat, prometheus.GaugeValue, s.mean.Seconds(), name, "mean")
		ch <- prometheus.MustNewConstMetric(c.stat, prometheus.GaugeValue, s.median.Seconds(), name, "median")
		if s.count >= 2 {
			ch <- prometheus.MustNewConstMetric(c.stat, prometheus.GaugeValue, s.stdev.Seconds(), name, "stdev")
		}
	}
}

// summary holds the aggregate statistics of one recorded history.
type summary struct {
	count  int
	total  time.Duration
	min    time.Duration
	max    time.Duration
	mean   time.Duration
	median time.Duration
	stdev  time.Duration // meaningful only when count >= 2
}

// summarize computes the statistics of a non-empty snapshot history.
// The registry never stores a name without at least one recording.
func summarize(durations []time.Duration) summary {
	s := summary{
		count: len(durations),
		min:   durations[0],
		max:   durations[0],
	}
	for _, d := range durations {
		s.total += d
		if d < s.min {
			s.min = d
		}
		if d > s.max {
			s.max = d
		}
	}
	s.mean = s.total / time.Duration(s.count)
	s.median = median(durations)
	if s.count >= 2 {
		s.stdev = stdev(durations)
	}
	return s
}

func median(durations []time.Duration) time.Duration {
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stdev(durations []time.Duration) time.Duration {
	var sum float64
	for _, d := range durations {
		sum += float64(d)
	}
	mean := sum / float64(len(durations))
	var squares float64
	for _, d := range durations {
		diff := float64(d) - mean
		squares += diff * diff
	}
	return time.Duration(math.Sqrt(squares / float64(len(durations)-1)))
}
