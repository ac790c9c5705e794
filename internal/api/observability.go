package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality: labels are fixed enumerations, never
// player ids.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Time spent advancing one simulation tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	entityCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_entity_count",
		Help: "Live entities in the world",
	})

	waveCounter = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_wave",
		Help: "Current zombie wave",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_commands_total",
		Help: "Commands applied by the tick loop",
	}, []string{"type", "outcome"}) // outcome: "accepted" | "rejected"

	commandDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_command_drops_total",
		Help: "Commands dropped before reaching the world",
	}, []string{"reason"}) // reason: "queue_limit" | "queue_full"

	wsSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "net_snapshot_subscribers",
		Help: "Subscribers receiving snapshot broadcasts",
	})

	snapshotBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "net_snapshot_bytes_total",
		Help: "Serialized snapshot bytes broadcast to guests",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})
)

// ObserveTick records one tick's duration and world gauges.
func ObserveTick(duration time.Duration, entities, wave int) {
	tickDuration.Observe(duration.Seconds())
	entityCount.Set(float64(entities))
	waveCounter.Set(float64(wave))
}

// CountCommand records one applied command.
func CountCommand(commandType string, accepted bool) {
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	commandsTotal.WithLabelValues(commandType, outcome).Inc()
}

// CountCommandDrop records a command rejected by queue backpressure.
func CountCommandDrop(reason string) {
	commandDrops.WithLabelValues(reason).Inc()
}

// ObserveBroadcast records one snapshot fan-out.
func ObserveBroadcast(bytes, subscribers int) {
	snapshotBytes.Add(float64(bytes))
	wsSubscribers.Set(float64(subscribers))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware counts requests per route pattern with bounded labels.
func metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		requestsTotal.WithLabelValues(r.Method, endpoint, http.StatusText(rec.status)).Inc()
	}
}
