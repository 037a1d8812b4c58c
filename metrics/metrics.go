// Package metrics exports the runtime stats snapshot as prometheus
// collectors for hosts that already scrape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	fluffyruntime "github.com/odvcencio/fluffyui/runtime"
)

// StatsSource supplies snapshots, typically (*runtime.App).Stats.
type StatsSource func() fluffyruntime.Stats

// Bridge polls a stats source into prometheus gauges. Call Observe
// from a post-frame hook or a scrape-time collector.
type Bridge struct {
	source StatsSource

	queued       prometheus.Gauge
	dropped      prometheus.Gauge
	peakDepth    prometheus.Gauge
	pendingTicks prometheus.Gauge
	activeTimers prometheus.Gauge
}

// NewBridge registers the gauges on the default registerer.
func NewBridge(source StatsSource) *Bridge {
	return &Bridge{
		source: source,
		queued: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fluffyui",
			Name:      "events_queued",
			Help:      "Events currently waiting in the priority queue.",
		}),
		dropped: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fluffyui",
			Name:      "events_dropped_total",
			Help:      "Events evicted from the queue under pressure.",
		}),
		peakDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fluffyui",
			Name:      "queue_peak_depth",
			Help:      "High-water mark of queued events.",
		}),
		pendingTicks: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fluffyui",
			Name:      "ticks_pending",
			Help:      "Scheduled tick requests not yet due.",
		}),
		activeTimers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fluffyui",
			Name:      "timers_active",
			Help:      "Named timers currently armed.",
		}),
	}
}

// Observe samples the stats source into the gauges.
func (b *Bridge) Observe() {
	if b == nil || b.source == nil {
		return
	}
	s := b.source()
	b.queued.Set(float64(s.Queued))
	b.dropped.Set(float64(s.Dropped))
	b.peakDepth.Set(float64(s.PeakDepth))
	b.pendingTicks.Set(float64(s.PendingTicks))
	b.activeTimers.Set(float64(s.ActiveTimers))
}
