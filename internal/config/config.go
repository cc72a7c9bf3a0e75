package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the top-level engine.yaml structure.
type EngineConfig struct {
	Version int `yaml:"version"`
	Engine  struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"engine"`
	Network struct {
		APIPort int `yaml:"api_port"`
	} `yaml:"network"`
	Bridge struct {
		Transport string `yaml:"transport"` // "http" or "mqtt"
		URL       string `yaml:"url"`       // http transport endpoint
		Topic     string `yaml:"topic"`     // mqtt transport topic
	} `yaml:"bridge"`
	Sync struct {
		DefaultScalePercent *int `yaml:"default_scale_percent"`
	} `yaml:"sync"`
	Lovense struct {
		APIURL   string `yaml:"api_url"`
		Platform string `yaml:"platform"`
	} `yaml:"lovense"`
}

// APIPort returns the configured API port, defaulting to 8080 if not set.
func (c *EngineConfig) APIPort() int {
	if c.Network.APIPort == 0 {
		return 8080
	}
	return c.Network.APIPort
}

// BridgeTransport returns the configured transport kind, defaulting to "http".
func (c *EngineConfig) BridgeTransport() string {
	if c.Bridge.Transport == "" {
		return "http"
	}
	return c.Bridge.Transport
}

// BridgeURL returns the HTTP bridge endpoint, defaulting to the local bridge.
func (c *EngineConfig) BridgeURL() string {
	if c.Bridge.URL == "" {
		return "http://localhost:8081/api/video-event"
	}
	return c.Bridge.URL
}

// BridgeTopic returns the MQTT topic for outbound events.
func (c *EngineConfig) BridgeTopic() string {
	if c.Bridge.Topic == "" {
		return "vibesync/events"
	}
	return c.Bridge.Topic
}

// DefaultScalePercent returns the startup intensity scale, defaulting to 50.
func (c *EngineConfig) DefaultScalePercent() int {
	if c.Sync.DefaultScalePercent == nil {
		return 50
	}
	return *c.Sync.DefaultScalePercent
}

// LovenseAPIURL returns the pattern metadata endpoint.
func (c *EngineConfig) LovenseAPIURL() string {
	if c.Lovense.APIURL == "" {
		return "https://coll.lovense.com/coll-log/video-websites/get/pattern"
	}
	return c.Lovense.APIURL
}

// LovensePlatform returns the platform tag sent with pattern requests.
func (c *EngineConfig) LovensePlatform() string {
	if c.Lovense.Platform == "" {
		return "Adulttime"
	}
	return c.Lovense.Platform
}

// LoadEngineConfig reads and validates engine.yaml from the given path.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported engine.yaml version: %d", cfg.Version)
	}

	switch cfg.BridgeTransport() {
	case "http", "mqtt":
	default:
		return nil, fmt.Errorf("unknown bridge transport: %s", cfg.Bridge.Transport)
	}

	if p := cfg.Sync.DefaultScalePercent; p != nil && (*p < 0 || *p > 100) {
		return nil, fmt.Errorf("default_scale_percent out of range: %d", *p)
	}

	return &cfg, nil
}
