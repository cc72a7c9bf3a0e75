// Package protocol defines the outbound event records handed to the
// external bridge and the dispatcher that delivers them.
package protocol

import (
	"encoding/json"
	"time"
)

// Type tags an outbound event variant. Wire names match what the bridge's
// /api/video-event endpoint has always accepted.
type Type string

const (
	TypePlay      Type = "play"
	TypePause     Type = "pause"
	TypeIntensity Type = "audio_level"
	TypeTest      Type = "test"
)

// Source says where an intensity value came from.
type Source string

const (
	SourceFunscript Source = "funscript"
	SourceEstimated Source = "estimated"
)

// Event is one outbound record. Only the fields belonging to the variant
// are populated; use the constructors.
type Event struct {
	Type   Type
	Level  float64
	AtMs   int64
	Source Source

	hasLevel bool
}

// NewPlay reports a transition into playback.
func NewPlay() Event {
	return Event{Type: TypePlay}
}

// NewPause reports a pause or end of stream.
func NewPause() Event {
	return Event{Type: TypePause}
}

// NewIntensityTick reports the resolved intensity at a playback position.
func NewIntensityTick(level float64, atMs int64, source Source) Event {
	return Event{Type: TypeIntensity, Level: level, AtMs: atMs, Source: source, hasLevel: true}
}

// NewTest reports a manual test command at the given level.
func NewTest(level float64) Event {
	return Event{Type: TypeTest, Level: level, hasLevel: true}
}

// wireEvent is the serialized form. SentAt is the wall-clock capture time
// added at dispatch, in Unix milliseconds.
type wireEvent struct {
	Type      string   `json:"type"`
	Level     *float64 `json:"level,omitempty"`
	Timestamp int64    `json:"timestamp"`
	Source    string   `json:"source,omitempty"`
	SentAt    int64    `json:"sent_at"`
}

// Encode serializes the event with the given capture time.
func (e Event) Encode(sentAt time.Time) ([]byte, error) {
	w := wireEvent{
		Type:      string(e.Type),
		Timestamp: e.AtMs,
		Source:    string(e.Source),
		SentAt:    sentAt.UnixMilli(),
	}
	if e.hasLevel {
		level := e.Level
		w.Level = &level
	}
	return json.Marshal(w)
}
