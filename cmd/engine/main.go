package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkrahn/vibesync/internal/api"
	"github.com/dkrahn/vibesync/internal/bridge"
	"github.com/dkrahn/vibesync/internal/config"
	"github.com/dkrahn/vibesync/internal/engine"
	"github.com/dkrahn/vibesync/internal/events"
	"github.com/dkrahn/vibesync/internal/protocol"
	"github.com/dkrahn/vibesync/internal/script"
	"github.com/dkrahn/vibesync/internal/storage/postgres"
	"github.com/dkrahn/vibesync/internal/version"
)

func configPath() string {
	if p := os.Getenv("ENGINE_CONFIG"); p != "" {
		return p
	}
	return "engine.yaml"
}

func main() {
	cfg, err := config.LoadEngineConfig(configPath())
	if err != nil {
		log.Fatalf("failed to load engine.yaml: %v", err)
	}

	api.InitMetrics(cfg.Engine.Name)

	// Diagnostic persistence is optional; without PGHOST the ring buffer
	// and WebSocket stream still carry the full feed.
	if os.Getenv("PGHOST") != "" {
		pg, err := postgres.New(cfg.Engine.ID)
		if err != nil {
			log.Printf("postgres unavailable, events will not be persisted: %v", err)
		} else {
			events.SetPostgresClient(pg)
			defer pg.Close()
		}
	}

	var transport protocol.Transport
	switch cfg.BridgeTransport() {
	case "mqtt":
		mt := bridge.NewMQTTTransport(cfg.Engine.ID, cfg.BridgeTopic())
		if mt.ConnectWithRetry() {
			events.Emit("info", "bridge.connected", "", map[string]interface{}{
				"transport": "mqtt",
				"broker":    bridge.BrokerURL(),
				"topic":     cfg.BridgeTopic(),
			})
		}
		defer mt.Disconnect()
		transport = mt
	default:
		ht := bridge.NewHTTPTransport(cfg.BridgeURL())
		log.Printf("bridge endpoint: %s", ht.URL())
		transport = ht
	}

	dispatcher := protocol.NewDispatcher(transport)
	defer dispatcher.Close()

	eng := engine.New(dispatcher, cfg.DefaultScalePercent())
	fetcher := script.NewFetcher(cfg.LovenseAPIURL(), cfg.LovensePlatform())

	api.SetEngine(eng)
	api.SetFetcher(fetcher)
	api.SetDispatcher(dispatcher, transport.Kind())

	hostname, _ := os.Hostname()
	events.Emit("info", "system.startup", "engine starting", map[string]interface{}{
		"engine":    cfg.Engine.ID,
		"hostname":  hostname,
		"version":   version.Version,
		"transport": transport.Kind(),
		"pid":       os.Getpid(),
	})

	api.Start(cfg.APIPort())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig

	events.Emit("info", "system.shutdown", "engine stopping", map[string]interface{}{
		"engine": cfg.Engine.ID,
		"signal": s.String(),
	})
	events.CloseAllSubscribers()
}
