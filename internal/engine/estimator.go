package engine

import "math"

// Estimate returns a synthetic intensity derived from elapsed playback
// time. A slow sine keeps devices producing some signal when no script is
// loaded.
func Estimate(elapsedSeconds float64) float64 {
	return clampUnit(math.Sin(elapsedSeconds/10)*0.5 + 0.5)
}
