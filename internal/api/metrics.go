package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dkrahn/vibesync/internal/events"
	"github.com/dkrahn/vibesync/internal/version"
)

var metricsState = &MetricsState{}

// MetricsState holds runtime metrics for the /metrics endpoint.
type MetricsState struct {
	mu         sync.RWMutex
	startTime  time.Time
	engineName string
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics(engineName string) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
	metricsState.engineName = engineName
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metricsState.mu.RLock()
	startTime := metricsState.startTime
	engineName := metricsState.engineName
	metricsState.mu.RUnlock()

	uptime := time.Since(startTime).Seconds()
	eventsTotal := events.TotalCount()
	wsClients := events.SubscriberCount()

	var sent, failed, dropped int64
	if dispatcher != nil {
		s := dispatcher.Stats()
		sent, failed, dropped = s.Sent, s.Failed, s.Dropped
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		if labels != "" {
			fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
		} else {
			fmt.Fprintf(w, "%s %v\n", name, value)
		}
	}

	labels := fmt.Sprintf(`engine="%s",instance="%s",version="%s"`, engineName, hostname, version.Version)

	writeMetric("vibesync_uptime_seconds", "gauge",
		"Number of seconds since the engine started", uptime, labels)

	writeMetric("vibesync_diagnostic_events_total", "counter",
		"Total number of diagnostic events emitted since startup", eventsTotal, labels)

	writeMetric("vibesync_bridge_events_sent_total", "counter",
		"Outbound events delivered to the bridge", sent, labels)

	writeMetric("vibesync_bridge_events_failed_total", "counter",
		"Outbound events whose transport send failed", failed, labels)

	writeMetric("vibesync_bridge_events_dropped_total", "counter",
		"Outbound events dropped because the dispatch queue was full", dropped, labels)

	writeMetric("vibesync_ws_clients", "gauge",
		"Number of connected WebSocket event stream clients", wsClients, labels)
}
