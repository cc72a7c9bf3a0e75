package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// playback
	"playback.play":  {},
	"playback.pause": {},
	"playback.ended": {},
	"playback.tick":  {},

	// script
	"script.loaded":  {},
	"script.cleared": {},
	"script.error":   {},

	// tuning
	"scale.changed": {},

	// bridge transport
	"bridge.connected": {},
	"bridge.sent":      {},
	"bridge.error":     {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
