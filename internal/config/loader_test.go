package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/target-drill/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// clearDrillEnv blanks every DRILL_* variable for the duration of the test.
func clearDrillEnv(t *testing.T) {
	t.Helper()
	for _, k := range config.WhitelistedVars {
		t.Setenv(config.EnvPrefix+k, "")
	}
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "L1_COUNT=3\nSENSOR=serial\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "3", m["L1_COUNT"])
	assert.Equal(t, "serial", m["SENSOR"])
}

func TestLoadFileSkipsComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# counts\nR1_COUNT=2\n# Another comment\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.Equal(t, "2", m["R1_COUNT"])
}

func TestLoadFileTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "  SERIAL_PORT  =  /dev/ttyUSB0  \n  OUTPUT = json  \n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", m["SERIAL_PORT"])
	assert.Equal(t, "json", m["OUTPUT"])
}

func TestLoadFileSkipsUnknownKeysAndLinesWithoutEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "L2_COUNT=1\nUNKNOWN_KEY=value\nno equals here\nR2_COUNT=4\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"L2_COUNT": "1", "R2_COUNT": "4"}, m)
}

func TestLoadFileValueWithEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "NOTIFY_WEBHOOK=http://host:8080/path?key=val\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://host:8080/path?key=val", m["NOTIFY_WEBHOOK"])
}

func TestLoadFileReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.LoadFile("/nonexistent/path/config")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Precedence tests
// ---------------------------------------------------------------------------

func TestLoadWithPrecedenceDefaultsOnly(t *testing.T) {
	clearDrillEnv(t)

	cfg, err := config.LoadWithPrecedence("", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestLoadWithPrecedenceFullChain(t *testing.T) {
	clearDrillEnv(t)
	dir := t.TempDir()
	global := writeFile(t, dir, "global", "L1_COUNT=1\nR1_COUNT=1\nL2_COUNT=1\nR2_COUNT=1\nBAUD_RATE=9600\n")
	project := writeFile(t, dir, "project", "R1_COUNT=2\nL2_COUNT=2\nR2_COUNT=2\n")
	explicit := writeFile(t, dir, "explicit", "L2_COUNT=3\nR2_COUNT=3\n")
	t.Setenv("DRILL_R2_COUNT", "4")
	t.Setenv("DRILL_OUTPUT", "yaml")

	cfg, err := config.LoadWithPrecedence(global, project, explicit, map[string]string{"OUTPUT": "json"})
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.L1Count, "global")
	assert.Equal(t, 2, cfg.R1Count, "project")
	assert.Equal(t, 3, cfg.L2Count, "explicit")
	assert.Equal(t, 4, cfg.R2Count, "environment")
	assert.Equal(t, "json", cfg.Output, "cli")
	assert.Equal(t, 9600, cfg.BaudRate)
}

func TestLoadWithPrecedenceEnvironmentOverridesFiles(t *testing.T) {
	clearDrillEnv(t)
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit", "SENSOR=demo\nVERBOSE=false\n")
	t.Setenv("DRILL_SENSOR", "serial")
	t.Setenv("DRILL_VERBOSE", "yes")
	t.Setenv("DRILL_SEED", "42")

	cfg, err := config.LoadWithPrecedence("", "", explicit, nil)
	require.NoError(t, err)

	assert.Equal(t, config.SensorSerial, cfg.Sensor)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadWithPrecedenceMissingGlobalAndProjectAreNotErrors(t *testing.T) {
	clearDrillEnv(t)
	cfg, err := config.LoadWithPrecedence("/nonexistent/global", "/nonexistent/project", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.SensorDemo, cfg.Sensor)
}

func TestLoadWithPrecedenceMissingExplicitIsError(t *testing.T) {
	clearDrillEnv(t)
	_, err := config.LoadWithPrecedence("", "", "/nonexistent/explicit", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}

func TestLoadWithPrecedenceUnreadableGlobalIsError(t *testing.T) {
	clearDrillEnv(t)
	// A directory cannot be read as a config file.
	_, err := config.LoadWithPrecedence(t.TempDir(), "", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global config")
}

// ---------------------------------------------------------------------------
// LoadEnv tests
// ---------------------------------------------------------------------------

func TestLoadEnvOmitsUnsetVariables(t *testing.T) {
	clearDrillEnv(t)
	t.Setenv("DRILL_L1_COUNT", "5")
	t.Setenv("DRILL_NOTIFY_CHAT_ID", "1234")
	t.Setenv("L2_COUNT", "9") // unprefixed, ignored

	m, err := config.LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"L1_COUNT": "5", "NOTIFY_CHAT_ID": "1234"}, m)
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigSetsFields(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"L1_COUNT":         "1",
		"R1_COUNT":         "2",
		"L2_COUNT":         "3",
		"R2_COUNT":         "4",
		"SENSOR":           " Serial ",
		"SERIAL_PORT":      "COM3",
		"BAUD_RATE":        "57600",
		"READ_TIMEOUT_MS":  "250",
		"OPEN_RETRIES":     "5",
		"POLL_INTERVAL_MS": "50",
		"SEED":             "-7",
		"COUNTDOWN":        "3",
		"OUTPUT":           "YAML",
		"SNAPSHOT_FILE":    "/tmp/drill.json",
		"VERBOSE":          "true",
		"NOTIFY_WEBHOOK":   "http://localhost/hook",
		"NOTIFY_CHANNEL":   "slack",
		"NOTIFY_CHAT_ID":   "42",
	})

	assert.Equal(t, 1, cfg.L1Count)
	assert.Equal(t, 2, cfg.R1Count)
	assert.Equal(t, 3, cfg.L2Count)
	assert.Equal(t, 4, cfg.R2Count)
	assert.Equal(t, "serial", cfg.Sensor)
	assert.Equal(t, "COM3", cfg.SerialPort)
	assert.Equal(t, 57600, cfg.BaudRate)
	assert.Equal(t, 250, cfg.ReadTimeoutMs)
	assert.Equal(t, 5, cfg.OpenRetries)
	assert.Equal(t, 50, cfg.PollIntervalMs)
	assert.Equal(t, int64(-7), cfg.Seed)
	assert.Equal(t, 3, cfg.Countdown)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "/tmp/drill.json", cfg.SnapshotFile)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "http://localhost/hook", cfg.NotifyWebhook)
	assert.Equal(t, "slack", cfg.NotifyChannel)
	assert.Equal(t, "42", cfg.NotifyChatID)
}

func TestApplyMapToConfigIgnoresInvalidIntegers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"BAUD_RATE":        "fast",
		"POLL_INTERVAL_MS": "",
		"SEED":             "abc",
	})

	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, 20, cfg.PollIntervalMs)
	assert.Zero(t, cfg.Seed)
}

func TestApplyMapToConfigInvalidCountsBecomeZero(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.L1Count = 9
	cfg.R1Count = 9
	config.ApplyMapToConfig(cfg, map[string]string{
		"L1_COUNT": "abc",
		"R1_COUNT": "2 targets",
	})

	assert.Zero(t, cfg.L1Count)
	assert.Equal(t, 2, cfg.R1Count)
}

func TestApplyMapToConfigBooleanVariations(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" Yes ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": tt.value})
			assert.Equal(t, tt.want, cfg.Verbose)
		})
	}
}

func TestApplyMapToConfigIgnoresUnknownKeys(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{"TARGET_COLOR": "purple"})
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

// ---------------------------------------------------------------------------
// ParseCount tests
// ---------------------------------------------------------------------------

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"3x", 3},
		{"12.7", 12},
		{"  4", 4},
		{"+5", 5},
		{"abc", 0},
		{"", 0},
		{"-2", 0},
		{"-", 0},
		{"x3", 0},
		{"99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, config.ParseCount(tt.in))
		})
	}
}
