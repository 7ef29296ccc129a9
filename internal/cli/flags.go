// Package cli provides flag binding and validation for the target-drill CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/target-drill/internal/config"
)

// countFlags maps each repeat-count flag to its config key. Counts are bound
// as strings so they go through config.ParseCount like every other source.
var countFlags = map[string]string{
	"l1": "L1_COUNT",
	"r1": "R1_COUNT",
	"l2": "L2_COUNT",
	"r2": "R2_COUNT",
}

// BindFlags registers all CLI flags on the given cobra command.
// Non-count flags directly modify fields in the provided config pointer.
// Call ValidateFlags after parsing to check flag values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Repeat counts
	flags.String("l1", "", "Repetitions of target L1")
	flags.String("r1", "", "Repetitions of target R1")
	flags.String("l2", "", "Repetitions of target L2")
	flags.String("r2", "", "Repetitions of target R2")

	// Sensor
	flags.StringVar(&cfg.Sensor, "sensor", config.SensorDemo, "Sensor transport: demo or serial")
	flags.StringVar(&cfg.SerialPort, "port", "", "Serial port of the sensor controller")
	flags.IntVar(&cfg.BaudRate, "baud", 115200, "Serial baud rate")
	flags.IntVar(&cfg.ReadTimeoutMs, "read-timeout-ms", 500, "Per-query serial read timeout in milliseconds")
	flags.IntVar(&cfg.OpenRetries, "open-retries", 3, "Retries when opening the serial port")
	flags.IntVar(&cfg.PollIntervalMs, "poll-interval-ms", 20, "Minimum interval between sensor queries in milliseconds")

	// Session
	flags.Int64Var(&cfg.Seed, "seed", 0, "Shuffle seed (0 draws a random seed)")
	flags.IntVar(&cfg.Countdown, "countdown", 0, "Seconds to count down before the first target")

	// Output
	flags.StringVarP(&cfg.Output, "output", "o", config.OutputText, "Result format: text, json or yaml")
	flags.StringVar(&cfg.SnapshotFile, "snapshot-file", "", "Write a live JSON snapshot to this file")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")

	// Notifications
	flags.StringVar(&cfg.NotifyWebhook, "notify-webhook", "http://127.0.0.1:18789/webhook", "OpenClaw webhook URL")
	flags.StringVar(&cfg.NotifyChannel, "notify-channel", "telegram", "Notification channel")
	flags.StringVar(&cfg.NotifyChatID, "notify-chat-id", "", "Recipient chat ID")

	// Status
	flags.BoolVar(&cfg.Status, "status", false, "Show the live snapshot from --snapshot-file and exit")
}

// ValidateFlags checks flag values after parsing.
// Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if cmd.Flags().Changed("sensor") && cfg.Sensor != config.SensorDemo && cfg.Sensor != config.SensorSerial {
		return fmt.Errorf("--sensor must be '%s' or '%s', got: %s", config.SensorDemo, config.SensorSerial, cfg.Sensor)
	}

	if cmd.Flags().Changed("output") {
		switch cfg.Output {
		case config.OutputText, config.OutputJSON, config.OutputYAML:
		default:
			return fmt.Errorf("--output must be '%s', '%s' or '%s', got: %s",
				config.OutputText, config.OutputJSON, config.OutputYAML, cfg.Output)
		}
	}

	return nil
}

// BuildOverrides creates a map of CLI flag overrides from the config.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the user,
// ensuring config file values are not accidentally overridden by default values.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	for flag, key := range countFlags {
		if flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			overrides[key] = v
		}
	}

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"sensor":         {"SENSOR", cfg.Sensor},
		"port":           {"SERIAL_PORT", cfg.SerialPort},
		"output":         {"OUTPUT", cfg.Output},
		"snapshot-file":  {"SNAPSHOT_FILE", cfg.SnapshotFile},
		"notify-webhook": {"NOTIFY_WEBHOOK", cfg.NotifyWebhook},
		"notify-channel": {"NOTIFY_CHANNEL", cfg.NotifyChannel},
		"notify-chat-id": {"NOTIFY_CHAT_ID", cfg.NotifyChatID},
	}
	for flag, mapping := range stringFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"baud":             {"BAUD_RATE", cfg.BaudRate},
		"read-timeout-ms":  {"READ_TIMEOUT_MS", cfg.ReadTimeoutMs},
		"open-retries":     {"OPEN_RETRIES", cfg.OpenRetries},
		"poll-interval-ms": {"POLL_INTERVAL_MS", cfg.PollIntervalMs},
		"countdown":        {"COUNTDOWN", cfg.Countdown},
	}
	for flag, mapping := range intFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	if flags.Changed("seed") {
		overrides["SEED"] = strconv.FormatInt(cfg.Seed, 10)
	}
	if flags.Changed("verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}

	return overrides
}
