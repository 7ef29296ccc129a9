// Package config defines the target-drill configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < DRILL_* environment variables < CLI flag overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [18]string{
	"L1_COUNT",
	"R1_COUNT",
	"L2_COUNT",
	"R2_COUNT",
	"SENSOR",
	"SERIAL_PORT",
	"BAUD_RATE",
	"READ_TIMEOUT_MS",
	"OPEN_RETRIES",
	"POLL_INTERVAL_MS",
	"SEED",
	"COUNTDOWN",
	"OUTPUT",
	"SNAPSHOT_FILE",
	"VERBOSE",
	"NOTIFY_WEBHOOK",
	"NOTIFY_CHANNEL",
	"NOTIFY_CHAT_ID",
}

// Sensor kinds.
const (
	SensorDemo   = "demo"
	SensorSerial = "serial"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// ProjectConfigPath is the project-level config file, relative to the
// working directory.
const ProjectConfigPath = ".target-drill/config"

// Config holds every configuration field for the target-drill CLI.
type Config struct {
	// Repeat counts per peripheral target.
	L1Count int
	R1Count int
	L2Count int
	R2Count int

	// Sensor transport.
	Sensor         string
	SerialPort     string
	BaudRate       int
	ReadTimeoutMs  int
	OpenRetries    int
	PollIntervalMs int

	// Session.
	Seed      int64
	Countdown int

	// Output.
	Output       string
	SnapshotFile string

	// Runtime flags.
	Verbose bool

	// Notification settings.
	NotifyWebhook string
	NotifyChannel string
	NotifyChatID  string

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	Status     bool
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Sensor:         SensorDemo,
		BaudRate:       115200,
		ReadTimeoutMs:  500,
		OpenRetries:    3,
		PollIntervalMs: 20,
		Output:         OutputText,
		NotifyWebhook:  "http://127.0.0.1:18789/webhook",
		NotifyChannel:  "telegram",
	}
}

// Counts returns the configured repeat counts.
func (c *Config) Counts() target.Counts {
	return target.Counts{
		target.L1: c.L1Count,
		target.R1: c.R1Count,
		target.L2: c.L2Count,
		target.R2: c.R2Count,
	}
}

// GlobalConfigPath returns $XDG_CONFIG_HOME/target-drill/config, falling back
// to ~/.config. It returns "" when no home directory can be determined.
func GlobalConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "target-drill", "config")
}

// Validate checks the merged configuration before a session is built.
func (c *Config) Validate() error {
	switch c.Sensor {
	case SensorDemo:
	case SensorSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("sensor %q requires SERIAL_PORT (--port)", SensorSerial)
		}
		if c.BaudRate <= 0 {
			return fmt.Errorf("BAUD_RATE must be positive, got: %d", c.BaudRate)
		}
	default:
		return fmt.Errorf("SENSOR must be '%s' or '%s', got: %s", SensorDemo, SensorSerial, c.Sensor)
	}

	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("OUTPUT must be '%s', '%s' or '%s', got: %s", OutputText, OutputJSON, OutputYAML, c.Output)
	}

	if c.ReadTimeoutMs < 0 || c.OpenRetries < 0 || c.PollIntervalMs < 0 || c.Countdown < 0 {
		return fmt.Errorf("timeouts, retries and countdown must not be negative")
	}
	return nil
}
