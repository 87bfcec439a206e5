package metric

import "github.com/prometheus/client_golang/prometheus"

// LiveState is read on every scrape.
type LiveState interface {
	Version() int64
	Status() (string, bool)
}

// Collector reports the live-reload version and whether a status
// message is shown.
type Collector struct {
	state         LiveState
	versionDesc   *prometheus.Desc
	statusActDesc *prometheus.Desc
}

// NewCollector creates a collector over state.
func NewCollector(state LiveState) *Collector {
	return &Collector{
		state: state,
		versionDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "live_version"),
			"Current live-reload version.",
			nil, nil,
		),
		statusActDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "status_active"),
			"1 while a status message is set.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.versionDesc
	ch <- c.statusActDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.versionDesc, prometheus.GaugeValue, float64(c.state.Version()))

	active := 0.0
	if _, ok := c.state.Status(); ok {
		active = 1
	}
	ch <- prometheus.MustNewConstMetric(c.statusActDesc, prometheus.GaugeValue, active)
}
