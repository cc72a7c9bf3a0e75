package protocol

import (
	"encoding/json"
	"testing"
	"time"
)

func decodePayload(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	return m
}

func TestEncodeIntensityTick(t *testing.T) {
	sentAt := time.UnixMilli(1700000000000)
	e := NewIntensityTick(0.42, 1500, SourceFunscript)

	data, err := e.Encode(sentAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := decodePayload(t, data)
	if m["type"] != "audio_level" {
		t.Errorf("expected type 'audio_level', got %v", m["type"])
	}
	if m["level"] != 0.42 {
		t.Errorf("expected level 0.42, got %v", m["level"])
	}
	if m["timestamp"] != float64(1500) {
		t.Errorf("expected timestamp 1500, got %v", m["timestamp"])
	}
	if m["source"] != "funscript" {
		t.Errorf("expected source 'funscript', got %v", m["source"])
	}
	if m["sent_at"] != float64(1700000000000) {
		t.Errorf("expected sent_at 1700000000000, got %v", m["sent_at"])
	}
}

func TestEncodePlayOmitsIntensityFields(t *testing.T) {
	data, err := NewPlay().Encode(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := decodePayload(t, data)
	if m["type"] != "play" {
		t.Errorf("expected type 'play', got %v", m["type"])
	}
	if _, ok := m["level"]; ok {
		t.Error("play event must not carry a level")
	}
	if _, ok := m["source"]; ok {
		t.Error("play event must not carry a source")
	}
}

func TestEncodeZeroLevelIsKept(t *testing.T) {
	// A level of exactly 0 is a real command (stop), not an absent field.
	data, err := NewIntensityTick(0, 100, SourceEstimated).Encode(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := decodePayload(t, data)
	if v, ok := m["level"]; !ok || v != float64(0) {
		t.Errorf("expected level 0 to be present, got %v (present=%v)", v, ok)
	}
	if m["source"] != "estimated" {
		t.Errorf("expected source 'estimated', got %v", m["source"])
	}
}

func TestEncodeTest(t *testing.T) {
	data, err := NewTest(0.6).Encode(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := decodePayload(t, data)
	if m["type"] != "test" {
		t.Errorf("expected type 'test', got %v", m["type"])
	}
	if m["level"] != 0.6 {
		t.Errorf("expected level 0.6, got %v", m["level"])
	}
}
