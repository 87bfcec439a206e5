// Package metric provides Prometheus metrics for the devloop server.
//
//   - prometheus.go: registry, counters and the /metrics handler
//   - collector.go: collector that reads live-reload state on scrape
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
