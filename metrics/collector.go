package metrics

import (
	"sync"

	"github.com/npillmayer/scapegoat"
	"github.com/prometheus/client_golang/prometheus"
)

// Source is the part of a tree a Collector reads from.
// *scapegoat.Tree satisfies it for any type parameters.
type Source interface {
	Stats() scapegoat.Stats
	Len() int
}

// Collector is a prometheus.Collector for a single tree.
type Collector struct {
	source Source
	lock   sync.Locker
	labels prometheus.Labels

	size                *prometheus.Desc
	tombstones          *prometheus.Desc
	inserts             *prometheus.Desc
	updates             *prometheus.Desc
	removes             *prometheus.Desc
	rebuilds            *prometheus.Desc
	rebuiltEntries      *prometheus.Desc
	reclaimedTombstones *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLock makes the collector hold l while reading from its source.
func WithLock(l sync.Locker) CollectorOption {
	return func(c *Collector) {
		c.lock = l
	}
}

// WithLabels attaches constant labels to all metrics of a collector, e.g. to
// tell apart several trees registered with the same registry.
func WithLabels(labels prometheus.Labels) CollectorOption {
	return func(c *Collector) {
		c.labels = labels
	}
}

// NewCollector creates a collector for source. Metric names are prefixed by
// namespace and the subsystem "tree", e.g. "myapp_tree_rebuilds_total".
func NewCollector(namespace string, source Source, opts ...CollectorOption) *Collector {
	c := &Collector{source: source}
	for _, opt := range opts {
		opt(c)
	}
	c.makeDescs(namespace, c.labels)
	return c
}

func (c *Collector) makeDescs(ns string, labels prometheus.Labels) {
	name := func(n string) string {
		return prometheus.BuildFQName(ns, "tree", n)
	}
	c.size = prometheus.NewDesc(name("size"),
		"Number of live entries.", nil, labels)
	c.tombstones = prometheus.NewDesc(name("tombstones"),
		"Number of removed entries not yet reclaimed by a rebuild.", nil, labels)
	c.inserts = prometheus.NewDesc(name("inserts_total"),
		"Number of insertions of new keys.", nil, labels)
	c.updates = prometheus.NewDesc(name("updates_total"),
		"Number of insertions replacing the value of an existing key.", nil, labels)
	c.removes = prometheus.NewDesc(name("removes_total"),
		"Number of removed keys.", nil, labels)
	c.rebuilds = prometheus.NewDesc(name("rebuilds_total"),
		"Number of subtree rebuilds.", nil, labels)
	c.rebuiltEntries = prometheus.NewDesc(name("rebuilt_entries_total"),
		"Number of live entries placed by subtree rebuilds.", nil, labels)
	c.reclaimedTombstones = prometheus.NewDesc(name("reclaimed_tombstones_total"),
		"Number of tombstones dropped by rebuilds.", nil, labels)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.tombstones
	ch <- c.inserts
	ch <- c.updates
	ch <- c.removes
	ch <- c.rebuilds
	ch <- c.rebuiltEntries
	ch <- c.reclaimedTombstones
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.source == nil {
		tracer().Errorf("metrics collector has no source")
		return
	}
	if c.lock != nil {
		c.lock.Lock()
	}
	stats, size := c.source.Stats(), c.source.Len()
	if c.lock != nil {
		c.lock.Unlock()
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge(c.size, float64(size))
	gauge(c.tombstones, float64(stats.Tombstones))
	counter(c.inserts, stats.Inserts)
	counter(c.updates, stats.Updates)
	counter(c.removes, stats.Removes)
	counter(c.rebuilds, stats.Rebuilds)
	counter(c.rebuiltEntries, stats.RebuiltEntries)
	counter(c.reclaimedTombstones, stats.ReclaimedTombstones)
}
