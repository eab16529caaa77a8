// Package optimiser compresses a tick's per-track position updates into the
// minimum-size OSC traffic: pattern addressing across tracks that share an
// identical delta, incremental "++" deltas under threshold, and per-model
// coordinate system selection.
package optimiser

import "holophonix-engine/internal/models"

// Config holds the optimiser's tunable knobs.
type Config struct {
	IncrementalThresholdXYZ     float64 // meters
	IncrementalThresholdAEDDeg  float64 // degrees, for azimuth/elevation
	IncrementalThresholdAEDDist float64 // meters, for AED distance
	SingleAxisThreshold         float64 // fraction of total delta, (0,1]
	EnableIncrementalUpdates    bool
	EnablePatternMatching       bool
	AutoSelectCoordinateSystem  bool
	// ForceCoordinateSystem overrides per-model preference when non-nil.
	ForceCoordinateSystem *models.CoordinateSystem
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		IncrementalThresholdXYZ:     0.5,
		IncrementalThresholdAEDDeg:  5.0,
		IncrementalThresholdAEDDist: 1.0,
		SingleAxisThreshold:         0.9,
		EnableIncrementalUpdates:    true,
		EnablePatternMatching:       true,
		AutoSelectCoordinateSystem:  true,
	}
}
