package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a KEY=VALUE config file at the given path.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - Keys not present in WhitelistedVars are silently ignored.
//
// Returns a map of whitelisted key-value pairs, or an error if the file
// cannot be opened.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !whitelistSet[key] {
			continue
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return result, nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. DRILL_* environment variables
//  6. CLI overrides (cliOverrides map)
//
// Any path that is empty is silently skipped. Missing global and project
// files are not an error; a missing explicit file is.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	if globalPath != "" {
		if err := applyOptionalFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := applyOptionalFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("project config: %w", err)
		}
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	envVars, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	ApplyMapToConfig(cfg, envVars)

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

func applyOptionalFile(cfg *Config, path string) error {
	m, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	ApplyMapToConfig(cfg, m)
	return nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Keys must use the WhitelistedVars naming convention (e.g., "L1_COUNT").
// Unknown keys are silently ignored. Repeat counts follow ParseCount; other
// integer fields that fail to parse keep their previous value.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "L1_COUNT":
			cfg.L1Count = ParseCount(value)
		case "R1_COUNT":
			cfg.R1Count = ParseCount(value)
		case "L2_COUNT":
			cfg.L2Count = ParseCount(value)
		case "R2_COUNT":
			cfg.R2Count = ParseCount(value)
		case "SENSOR":
			cfg.Sensor = strings.ToLower(strings.TrimSpace(value))
		case "SERIAL_PORT":
			cfg.SerialPort = value
		case "BAUD_RATE":
			setInt(&cfg.BaudRate, value)
		case "READ_TIMEOUT_MS":
			setInt(&cfg.ReadTimeoutMs, value)
		case "OPEN_RETRIES":
			setInt(&cfg.OpenRetries, value)
		case "POLL_INTERVAL_MS":
			setInt(&cfg.PollIntervalMs, value)
		case "SEED":
			if v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
				cfg.Seed = v
			}
		case "COUNTDOWN":
			setInt(&cfg.Countdown, value)
		case "OUTPUT":
			cfg.Output = strings.ToLower(strings.TrimSpace(value))
		case "SNAPSHOT_FILE":
			cfg.SnapshotFile = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "NOTIFY_WEBHOOK":
			cfg.NotifyWebhook = value
		case "NOTIFY_CHANNEL":
			cfg.NotifyChannel = value
		case "NOTIFY_CHAT_ID":
			cfg.NotifyChatID = value
		}
	}
}

func setInt(dst *int, value string) {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		*dst = v
	}
}

// ParseCount reads a repeat count the way a lenient integer parser does: the
// leading run of digits (after optional whitespace and sign) is the value, and
// anything unparseable is 0. Negative results are clamped to 0.
//
//	ParseCount("3")   => 3
//	ParseCount("3x")  => 3
//	ParseCount("abc") => 0
//	ParseCount("")    => 0
//	ParseCount("-2")  => 0
func ParseCount(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
