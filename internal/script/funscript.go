package script

import (
	"encoding/json"
	"fmt"
)

// Metadata carries the informational funscript fields. The engine passes
// them through untouched; only Actions drives synchronization.
type Metadata struct {
	Title       string `json:"title"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description,omitempty"`
	Duration    int64  `json:"duration,omitempty"`
	License     string `json:"license,omitempty"`
	Type        string `json:"type,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Funscript is the on-the-wire script format.
type Funscript struct {
	Version  string    `json:"version,omitempty"`
	Range    int       `json:"range,omitempty"`
	Inverted bool      `json:"inverted,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Actions  []Action  `json:"actions"`
}

// ParseFunscript decodes and validates a funscript document. A script with
// a missing or malformed actions array is rejected whole; the caller keeps
// whatever timeline it had before.
func ParseFunscript(data []byte) (*Funscript, error) {
	var fs Funscript
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("invalid funscript: %w", err)
	}
	if fs.Actions == nil {
		return nil, fmt.Errorf("invalid funscript: missing actions array")
	}
	if err := ValidateActions(fs.Actions); err != nil {
		return nil, err
	}
	return &fs, nil
}

// ValidateActions checks the load-boundary invariants. Timestamps must be
// non-negative; positions outside 0..100 are tolerated here because the
// resolver clamps its output.
func ValidateActions(actions []Action) error {
	for i, a := range actions {
		if a.At < 0 {
			return fmt.Errorf("action %d: negative timestamp %d", i, a.At)
		}
	}
	return nil
}
