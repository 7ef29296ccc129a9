package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envVars mirrors WhitelistedVars under the DRILL_ prefix. Values are kept as
// strings so they flow through ApplyMapToConfig with the same parsing rules
// as config files.
type envVars struct {
	L1Count        string `env:"L1_COUNT"`
	R1Count        string `env:"R1_COUNT"`
	L2Count        string `env:"L2_COUNT"`
	R2Count        string `env:"R2_COUNT"`
	Sensor         string `env:"SENSOR"`
	SerialPort     string `env:"SERIAL_PORT"`
	BaudRate       string `env:"BAUD_RATE"`
	ReadTimeoutMs  string `env:"READ_TIMEOUT_MS"`
	OpenRetries    string `env:"OPEN_RETRIES"`
	PollIntervalMs string `env:"POLL_INTERVAL_MS"`
	Seed           string `env:"SEED"`
	Countdown      string `env:"COUNTDOWN"`
	Output         string `env:"OUTPUT"`
	SnapshotFile   string `env:"SNAPSHOT_FILE"`
	Verbose        string `env:"VERBOSE"`
	NotifyWebhook  string `env:"NOTIFY_WEBHOOK"`
	NotifyChannel  string `env:"NOTIFY_CHANNEL"`
	NotifyChatID   string `env:"NOTIFY_CHAT_ID"`
}

// EnvPrefix is prepended to every whitelisted key when reading the environment.
const EnvPrefix = "DRILL_"

// LoadEnv reads DRILL_* environment variables into a whitelisted key map.
// Unset and empty variables are omitted.
func LoadEnv() (map[string]string, error) {
	var v envVars
	if err := env.ParseWithOptions(&v, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	all := map[string]string{
		"L1_COUNT":         v.L1Count,
		"R1_COUNT":         v.R1Count,
		"L2_COUNT":         v.L2Count,
		"R2_COUNT":         v.R2Count,
		"SENSOR":           v.Sensor,
		"SERIAL_PORT":      v.SerialPort,
		"BAUD_RATE":        v.BaudRate,
		"READ_TIMEOUT_MS":  v.ReadTimeoutMs,
		"OPEN_RETRIES":     v.OpenRetries,
		"POLL_INTERVAL_MS": v.PollIntervalMs,
		"SEED":             v.Seed,
		"COUNTDOWN":        v.Countdown,
		"OUTPUT":           v.Output,
		"SNAPSHOT_FILE":    v.SnapshotFile,
		"VERBOSE":          v.Verbose,
		"NOTIFY_WEBHOOK":   v.NotifyWebhook,
		"NOTIFY_CHANNEL":   v.NotifyChannel,
		"NOTIFY_CHAT_ID":   v.NotifyChatID,
	}
	out := make(map[string]string, len(all))
	for k, val := range all {
		if val != "" {
			out[k] = val
		}
	}
	return out, nil
}
