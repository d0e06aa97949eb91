package config

import "time"

// Config represents the complete configuration structure for templater
type Config struct {
	Storage Storage `mapstructure:"storage"`
	Browser Browser `mapstructure:"browser"`
	Preview Preview `mapstructure:"preview"`
	Log     Log     `mapstructure:"log"`
	Watch   Watch   `mapstructure:"watch"`
}

// Storage locates the settings document
type Storage struct {
	Path string `mapstructure:"path"`
}

// Browser selects how URLs are opened
type Browser struct {
	Mode    string `mapstructure:"mode"` // "system", "print" or "command"
	Command string `mapstructure:"command"`
}

// Preview contains options for the editor preview
type Preview struct {
	SampleText string `mapstructure:"sample_text"`
}

// Log contains file logging options
type Log struct {
	File string `mapstructure:"file"`
}

// Watch contains options for settings observation
type Watch struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Debounce returns the watch debounce as a duration
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}
