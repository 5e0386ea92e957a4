package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "planner"

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "API requests by route, method and status."},
		[]string{"route", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "API request duration.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	// itinerary generation is slow; buckets reach the request timeout
	upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "upstream_calls_total", Help: "Itinerary service calls by op and status (0 = no response)."},
		[]string{"service", "op", "status"},
	)
	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "upstream_call_duration_seconds",
			Help:    "Itinerary service call duration.",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "op"},
	)
	upstreamInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: namespace, Name: "upstream_in_flight", Help: "Itinerary service calls awaiting a response."},
		[]string{"service"},
	)
	draftStore = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "draft_store_events_total", Help: "Draft store events."},
		[]string{"store", "event"}, // hit|miss|set|del
	)
	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "submissions_total", Help: "Trip submissions by outcome."},
		[]string{"outcome"}, // ok|failed|rejected
	)
)

// InitRegistry returns a registry holding every planner collector.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(httpRequests, httpLatency, upstreamCalls, upstreamLatency, upstreamInFlight, draftStore, submissions)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes reg on a separate listener. Empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// TrackExternal marks one outbound call as started. The returned func
// records it; pass status 0 when no response arrived.
func TrackExternal(service, op string) func(status int) {
	start := time.Now()
	g := upstreamInFlight.WithLabelValues(service)
	g.Inc()
	return func(status int) {
		g.Dec()
		upstreamCalls.WithLabelValues(service, op, strconv.Itoa(status)).Inc()
		upstreamLatency.WithLabelValues(service, op).Observe(time.Since(start).Seconds())
	}
}

func ObserveStore(store, event string) {
	draftStore.WithLabelValues(store, event).Inc()
}

func ObserveSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}
