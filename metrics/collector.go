// Package metrics exports buffer pool statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"pagedb"
)

// StatsSource is anything that reports buffer pool statistics, such as
// *pagedb.DB.
type StatsSource interface {
	Stats() pagedb.Stats
}

// Collector reads a fresh Stats snapshot on every scrape.
type Collector struct {
	src StatsSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	reads     *prometheus.Desc
	writes    *prometheus.Desc
	bytesRead *prometheus.Desc
	written   *prometheus.Desc
	frames    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(src StatsSource, namespace string) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "buffer_pool", name), help, labels, nil)
	}

	return &Collector{
		src:       src,
		hits:      desc("hits_total", "Pins served from a resident frame."),
		misses:    desc("misses_total", "Pins that needed a frame."),
		evictions: desc("evictions_total", "Pages evicted by the clock sweep."),
		reads:     desc("page_reads_total", "Pages read from disk."),
		writes:    desc("page_writes_total", "Pages written to disk."),
		bytesRead: desc("read_bytes_total", "Bytes read from paged files."),
		written:   desc("written_bytes_total", "Bytes written to paged files."),
		frames:    desc("frames", "Frames by state.", "state"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.reads
	ch <- c.writes
	ch <- c.bytesRead
	ch <- c.written
	ch <- c.frames
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.hits, s.Hits)
	counter(c.misses, s.Misses)
	counter(c.evictions, s.Evictions)
	counter(c.reads, s.Reads)
	counter(c.writes, s.Writes)
	counter(c.bytesRead, s.BytesRead)
	counter(c.written, s.BytesWritten)

	gauge := func(state string, v int) {
		ch <- prometheus.MustNewConstMetric(c.frames, prometheus.GaugeValue, float64(v), state)
	}
	gauge("total", s.PoolSize)
	gauge("resident", s.Resident)
	gauge("pinned", s.Pinned)
	gauge("dirty", s.Dirty)
}
