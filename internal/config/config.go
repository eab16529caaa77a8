// Package config manages the engine's persistent tuning knobs. Settings are
// stored as JSON at os.UserConfigDir()/holophonix-engine/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// CoordinateSystem names an override for the optimiser's coordinate choice.
// An empty string means "no override, auto-select".
type CoordinateSystem string

const (
	CoordinateSystemAuto CoordinateSystem = ""
	CoordinateSystemXYZ  CoordinateSystem = "xyz"
	CoordinateSystemAED  CoordinateSystem = "aed"
)

// Config holds every tunable knob named in the engine's external interface
// contract, with the documented defaults.
type Config struct {
	OSCHost string `json:"osc_host"`
	OSCPort int    `json:"osc_port"`
	// ListenPort is the inbound UDP port the device mirror listens on.
	ListenPort int `json:"listen_port"`

	FrameRateHz             int              `json:"frame_rate_hz"`
	MaxConcurrentPlaybacks  int              `json:"max_concurrent_playbacks"`
	DefaultConflictStrategy string           `json:"default_conflict_strategy"`
	IncrementalThresholdXYZ float64          `json:"incremental_threshold_xyz"`
	IncrementalThresholdAED float64          `json:"incremental_threshold_aed"`
	SingleAxisThreshold     float64          `json:"single_axis_threshold"`
	EnableIncrementalUpdates bool            `json:"enable_incremental_updates"`
	EnablePatternMatching   bool             `json:"enable_pattern_matching"`
	AutoSelectCoordinateSystem bool          `json:"auto_select_coordinate_system"`
	ForceCoordinateSystem   CoordinateSystem `json:"force_coordinate_system"`

	OSCSendBufferBytes  int `json:"osc_send_buffer_bytes"`
	MaxQueue            int `json:"max_queue"`
	MaxBatchSize        int `json:"max_batch_size"`
	MinThrottleMs       int `json:"min_throttle_ms"`
	MaxThrottleMs       int `json:"max_throttle_ms"`
	ConnectionTimeoutMs int `json:"connection_timeout_ms"`

	AvailabilityIntervalMs int `json:"availability_interval_ms"`
	ProbeDeadlineMs        int `json:"probe_deadline_ms"`
	DiscoveryMaxProbe      int `json:"discovery_max_probe"`

	// StatusAPIAddr is the HTTP/WebSocket listen address for the read-only
	// status surface; empty disables it.
	StatusAPIAddr string `json:"status_api_addr"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		OSCHost:    "127.0.0.1",
		OSCPort:    9000,
		ListenPort: 9001,

		FrameRateHz:                60,
		MaxConcurrentPlaybacks:     50,
		DefaultConflictStrategy:    "PriorityBased",
		IncrementalThresholdXYZ:    0.5,
		IncrementalThresholdAED:    5.0,
		SingleAxisThreshold:        0.9,
		EnableIncrementalUpdates:   true,
		EnablePatternMatching:      true,
		AutoSelectCoordinateSystem: true,
		ForceCoordinateSystem:      CoordinateSystemAuto,

		OSCSendBufferBytes:  65536,
		MaxQueue:            20,
		MaxBatchSize:        10,
		MinThrottleMs:       50,
		MaxThrottleMs:       100,
		ConnectionTimeoutMs: 5000,

		AvailabilityIntervalMs: 5000,
		ProbeDeadlineMs:        900,
		DiscoveryMaxProbe:      128,

		StatusAPIAddr: ":8090",
	}
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "holophonix-engine", "config.json"), nil
}

// Load reads the config file and returns it. If the file is missing or
// unreadable, the default config is returned — never an error.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes cfg to disk, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
