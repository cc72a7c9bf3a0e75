package bridge

import (
	"log"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// BrokerURL returns the MQTT broker URL from env or default.
func BrokerURL() string {
	if url := os.Getenv("MQTT_URL"); url != "" {
		return url
	}
	return "tcp://localhost:1883"
}

// MQTTTransport publishes outbound events to a broker topic, for bridges
// that subscribe over MQTT instead of exposing an HTTP endpoint.
type MQTTTransport struct {
	client paho.Client
	topic  string
	mu     sync.Mutex
}

// NewMQTTTransport creates the transport but does not connect.
func NewMQTTTransport(clientID, topic string) *MQTTTransport {
	opts := paho.NewClientOptions().
		AddBroker(BrokerURL()).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	return &MQTTTransport{
		client: paho.NewClient(opts),
		topic:  topic,
	}
}

// Connect attempts to connect to the broker.
// Returns an error if connection fails, but does not block indefinitely.
func (t *MQTTTransport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := t.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return &ConnectTimeoutError{}
	}
	return token.Error()
}

// ConnectWithRetry attempts to connect, logging failure instead of
// crashing; paho's auto-reconnect keeps trying in the background.
func (t *MQTTTransport) ConnectWithRetry() bool {
	if err := t.Connect(); err != nil {
		log.Printf("mqtt: failed to connect to %s: %v", BrokerURL(), err)
		return false
	}
	log.Printf("mqtt: connected to %s", BrokerURL())
	return true
}

// Send publishes one encoded event to the configured topic.
func (t *MQTTTransport) Send(payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := t.client.Publish(t.topic, 1, false, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return &PublishTimeoutError{Topic: t.topic}
	}
	return token.Error()
}

// Kind identifies the transport in diagnostics.
func (t *MQTTTransport) Kind() string {
	return "mqtt"
}

// IsConnected returns true if the client is connected.
func (t *MQTTTransport) IsConnected() bool {
	return t.client.IsConnected()
}

// Disconnect cleanly disconnects from the broker.
func (t *MQTTTransport) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.client.Disconnect(1000)
}

// ConnectTimeoutError indicates connection timed out.
type ConnectTimeoutError struct{}

func (e *ConnectTimeoutError) Error() string {
	return "mqtt connect timeout"
}

// PublishTimeoutError indicates a publish timed out.
type PublishTimeoutError struct {
	Topic string
}

func (e *PublishTimeoutError) Error() string {
	return "mqtt publish timeout: " + e.Topic
}
