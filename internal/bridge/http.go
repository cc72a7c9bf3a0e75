// Package bridge provides the transports that carry outbound events to the
// external device-control process.
package bridge

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPTransport POSTs each event to the bridge's video-event endpoint.
type HTTPTransport struct {
	client *http.Client
	url    string
}

// NewHTTPTransport creates a transport against the given endpoint.
func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: 5 * time.Second},
		url:    url,
	}
}

// Send delivers one encoded event. The response body is discarded; the
// engine requires nothing from the bridge beyond acceptance.
func (t *HTTPTransport) Send(payload []byte) error {
	resp, err := t.client.Post(t.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}
	return nil
}

// Kind identifies the transport in diagnostics.
func (t *HTTPTransport) Kind() string {
	return "http"
}

// URL returns the configured endpoint.
func (t *HTTPTransport) URL() string {
	return t.url
}
