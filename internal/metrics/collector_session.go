package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var kakomonActiveSessionsDesc = prometheus.NewDesc(
	"kakomon_active_sessions",
	"Number of quiz sessions currently in progress",
	nil,
	nil,
)

// ActiveSessionCounter reports how many sessions are in progress.
type ActiveSessionCounter interface {
	ActiveSessions() int
}

type SessionCollector struct {
	counter ActiveSessionCounter
}

func NewSessionCollector(counter ActiveSessionCounter) *SessionCollector {
	return &SessionCollector{counter: counter}
}

func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- kakomonActiveSessionsDesc
}

func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(kakomonActiveSessionsDesc, prometheus.GaugeValue, float64(c.counter.ActiveSessions()))
}

var _ prometheus.Collector = (*SessionCollector)(nil)
