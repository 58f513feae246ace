// Package metric provides Prometheus metrics collection and monitoring.
package metric

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/cpu"
)

const systemInterval = 5 * time.Second

// Metrics contains the Prometheus metrics server and registered custom metrics.
type Metrics struct {
	httpServer *http.Server
	config     Config
	registry   *prometheus.Registry

	webSocketConnections prometheus.Gauge
	activePlaybacks      *prometheus.GaugeVec
	events               *prometheus.CounterVec
	droppedSubscribers   prometheus.Counter
	responses            *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	cpuUsage             prometheus.Gauge
	memoryUsage          prometheus.Gauge
}

// New creates a new Metrics instance with the specified configuration.
func New(config Config) *Metrics {
	if config.Path == "" {
		config.Path = DefaultMetricsPath
	}
	return &Metrics{
		config:   config,
		registry: prometheus.NewRegistry(),
		webSocketConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of WebSocket connections.",
		}),
		activePlaybacks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "active_playbacks",
			Help: "Current number of media playbacks published into game rooms.",
		}, []string{"kind"}), // Kind: "audio" or "video"
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "game_events_total",
			Help: "Number of game events broadcast, by topic.",
		}, []string{"topic"}),
		droppedSubscribers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dropped_subscribers_total",
			Help: "Number of event stream subscribers dropped for falling behind.",
		}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_responses_total",
			Help: "Number of HTTP responses, by status class.",
		}, []string{"class"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpu_usage_percentage",
			Help: "CPU usage percentage.",
		}),
		memoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memory_usage_bytes",
			Help: "Current memory usage in bytes.",
		}),
	}
}

// RegisterMetrics registers custom metrics with the registry.
func (m *Metrics) RegisterMetrics() {
	m.registry.MustRegister(
		m.webSocketConnections,
		m.activePlaybacks,
		m.events,
		m.droppedSubscribers,
		m.responses,
		m.requestDuration,
		m.cpuUsage,
		m.memoryUsage,
		collectors.NewGoCollector(),
	)
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Run serves the metrics until ctx is done. A zero port disables the server.
func (m *Metrics) Run(ctx context.Context) error {
	if m.config.Port == 0 {
		<-ctx.Done()
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())
	m.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go m.UpdateSystemMetrics(ctx)
	go func() {
		<-ctx.Done()
		_ = m.Stop()
	}()

	log.Printf("Starting metrics server on port %d at path %s", m.config.Port, m.config.Path)
	if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// Stop shuts down the metrics server.
func (m *Metrics) Stop() error {
	if m.httpServer != nil {
		log.Printf("Stopping metrics server on port %d", m.config.Port)
		return m.httpServer.Close()
	}
	return nil
}

// UpdateSystemMetrics samples CPU and memory usage until ctx is done.
func (m *Metrics) UpdateSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(systemInterval)
	defer ticker.Stop()
	for {
		m.sampleSystem()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Metrics) sampleSystem() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.memoryUsage.Set(float64(memStats.Alloc))

	// zero interval compares against the previous call
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return
	}
	m.cpuUsage.Set(percents[0])
}

// IncrementWebSocketConnections increments the WebSocket connection count.
func (m *Metrics) IncrementWebSocketConnections() {
	m.webSocketConnections.Inc()
}

// DecrementWebSocketConnections decrements the WebSocket connection count.
func (m *Metrics) DecrementWebSocketConnections() {
	m.webSocketConnections.Dec()
}

// PlaybackStarted increments the playback gauge of the kind.
func (m *Metrics) PlaybackStarted(kind string) {
	m.activePlaybacks.WithLabelValues(kind).Inc()
}

// PlaybackStopped decrements the playback gauge of the kind.
func (m *Metrics) PlaybackStopped(kind string) {
	m.activePlaybacks.WithLabelValues(kind).Dec()
}

// EventPublished counts a broadcast event.
func (m *Metrics) EventPublished(topic string) {
	m.events.WithLabelValues(topic).Inc()
}

// SubscriberDropped counts a dropped subscriber.
func (m *Metrics) SubscriberDropped() {
	m.droppedSubscribers.Inc()
}

// ObserveResponse records an HTTP response.
func (m *Metrics) ObserveResponse(method string, status int, latency time.Duration) {
	m.responses.WithLabelValues(strconv.Itoa(status/100) + "xx").Inc()
	m.requestDuration.WithLabelValues(method).Observe(latency.Seconds())
}
