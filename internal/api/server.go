// Package api exposes the engine's HTTP surface: playback telemetry input,
// script loading, tuning, status, and the live diagnostic event stream.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dkrahn/vibesync/internal/engine"
	"github.com/dkrahn/vibesync/internal/events"
	"github.com/dkrahn/vibesync/internal/protocol"
	"github.com/dkrahn/vibesync/internal/script"
)

var (
	eng           *engine.Engine
	fetcher       *script.Fetcher
	dispatcher    *protocol.Dispatcher
	transportKind string
)

// SetEngine sets the engine used by the telemetry and tuning endpoints.
func SetEngine(e *engine.Engine) {
	eng = e
}

// SetFetcher sets the script fetcher used by the load endpoint.
func SetFetcher(f *script.Fetcher) {
	fetcher = f
}

// SetDispatcher sets the dispatcher whose stats the status and metrics
// endpoints report.
func SetDispatcher(d *protocol.Dispatcher, kind string) {
	dispatcher = d
	transportKind = kind
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	resp := HealthResponse{
		Status:    "ok",
		Service:   "engine",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// StatusResponse mirrors what the on-page widget polls for.
type StatusResponse struct {
	Engine          engine.Status `json:"engine"`
	Transport       string        `json:"transport"`
	EventsSent      int64         `json:"events_sent"`
	EventsFailed    int64         `json:"events_failed"`
	EventsDropped   int64         `json:"events_dropped"`
	BridgeReachable bool          `json:"bridge_reachable"`
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := StatusResponse{Transport: transportKind}
	if eng != nil {
		resp.Engine = eng.Status()
	}
	if dispatcher != nil {
		s := dispatcher.Stats()
		resp.EventsSent = s.Sent
		resp.EventsFailed = s.Failed
		resp.EventsDropped = s.Dropped
		// Coarse signal for the widget: more sends have landed than failed.
		resp.BridgeReachable = s.Sent > s.Failed
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events.Snapshot())
}

// eventsHistoryHandler serves persisted events for post-session review.
// Available only when Postgres persistence is configured.
func eventsHistoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	client := events.GetPostgresClient()
	if client == nil {
		writeError(w, http.StatusNotFound, "event persistence not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	rows, err := client.Query(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Success: false, Error: msg})
}

// PlaybackSignal is one telemetry record from the playback source.
type PlaybackSignal struct {
	Type       string `json:"type"` // play | pause | ended | timeupdate
	PositionMs int64  `json:"position_ms"`
	Paused     bool   `json:"paused"`
}

func playbackHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not ready")
		return
	}

	var sig PlaybackSignal
	if err := json.NewDecoder(r.Body).Decode(&sig); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	switch sig.Type {
	case "play":
		eng.HandlePlay()
	case "pause":
		eng.HandlePause()
	case "ended":
		eng.HandleEnded()
	case "timeupdate":
		if sig.PositionMs < 0 {
			writeError(w, http.StatusBadRequest, "negative position_ms")
			return
		}
		eng.HandleTimeUpdate(sig.PositionMs, sig.Paused)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown signal type: %s", sig.Type))
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ScriptLoadRequest identifies the video whose script should be loaded.
type ScriptLoadRequest struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	DurationMs int64  `json:"duration_ms"`
}

// ScriptLoadResponse returns the normalized actions plus pass-through
// script fields for informational collaborators.
type ScriptLoadResponse struct {
	Success bool            `json:"success"`
	VideoID string          `json:"video_id,omitempty"`
	Actions []script.Action `json:"actions"`
	Range   int             `json:"range,omitempty"`
	Version string          `json:"version,omitempty"`
}

func scriptLoadHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if eng == nil || fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not ready")
		return
	}

	var req ScriptLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}

	videoID, ok := script.ExtractVideoID(req.URL)
	if !ok {
		writeError(w, http.StatusBadRequest, "could not extract video id from url")
		return
	}

	fs, err := fetcher.Fetch(videoID, req.Title, req.DurationMs)
	if err != nil {
		events.Emit("error", "script.error", err.Error(), map[string]interface{}{
			"video_id": videoID,
			"url":      req.URL,
		})
		if errors.Is(err, script.ErrNoInteractiveContent) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	// The whole script is applied or none of it; a failed fetch above
	// leaves the previous timeline untouched.
	eng.LoadScript(req.Title, fs.Actions)

	_ = json.NewEncoder(w).Encode(ScriptLoadResponse{
		Success: true,
		VideoID: videoID,
		Actions: fs.Actions,
		Range:   fs.Range,
		Version: fs.Version,
	})
}

func scriptClearHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not ready")
		return
	}

	eng.ClearScript()
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ScaleRequest carries the user-adjusted intensity scale.
type ScaleRequest struct {
	Percent int `json:"percent"`
}

func scaleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not ready")
		return
	}

	var req ScaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := eng.SetScalePercent(req.Percent); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// TestRequest carries the manual test level.
type TestRequest struct {
	Level float64 `json:"level"`
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not ready")
		return
	}

	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	eng.SendTest(req.Level)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// corsMiddleware lets the on-page widget call the engine from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/events", eventsHandler)
	mux.HandleFunc("/events/history", eventsHistoryHandler)
	mux.HandleFunc("/ws", wsEventsHandler)
	mux.HandleFunc("/api/status", statusHandler)
	mux.HandleFunc("/api/playback", playbackHandler)
	mux.HandleFunc("/api/script/load", scriptLoadHandler)
	mux.HandleFunc("/api/script/clear", scriptClearHandler)
	mux.HandleFunc("/api/scale", scaleHandler)
	mux.HandleFunc("/api/test", testHandler)
	return corsMiddleware(mux)
}

// ListenAndServe starts the API server on the given port.
// It blocks until the server exits.
func ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("API listening on %s\n", addr)
	return http.ListenAndServe(addr, newMux())
}

// Start starts the API server in a goroutine.
// Errors are logged but do not stop the caller.
func Start(port int) {
	go func() {
		if err := ListenAndServe(port); err != nil {
			log.Printf("api server error: %v", err)
		}
	}()
}
