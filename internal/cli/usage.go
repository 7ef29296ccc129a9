// Package cli provides help text and usage formatting for the target-drill CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `target-drill - Randomized reaction-time drill for a center-out target board

USAGE
  target-drill [flags]
  target-drill ports

FLAGS
  Repeat Counts:
    --l1 <n>                               Repetitions of target L1 (default: 0)
    --r1 <n>                               Repetitions of target R1 (default: 0)
    --l2 <n>                               Repetitions of target L2 (default: 0)
    --r2 <n>                               Repetitions of target R2 (default: 0)
                                           Non-numeric values count as 0

  Sensor:
    --sensor <demo|serial>                 Sensor transport (default: demo)
    --port <name>                          Serial port, e.g. /dev/ttyACM0 or COM3
    --baud <int>                           Serial baud rate (default: 115200)
    --read-timeout-ms <int>                Per-query read timeout (default: 500)
    --open-retries <int>                   Retries when opening the port (default: 3)
    --poll-interval-ms <int>               Minimum interval between queries (default: 20)

  Session:
    --seed <int>                           Shuffle seed, 0 draws a random seed (default: 0)
    --countdown <seconds>                  Countdown before the first target (default: 0)

  Output:
    -o, --output <text|json|yaml>          Result format (default: text)
    --snapshot-file <path>                 Keep a live JSON snapshot of the session
    --status                               Print the snapshot from --snapshot-file and exit
    --config <path>                        Path to additional config file
    -v, --verbose                          Enable debug logging

  Notifications:
    --notify-webhook <url>                 OpenClaw webhook URL (default: http://127.0.0.1:18789/webhook)
    --notify-channel <channel>             Notification channel (default: telegram)
    --notify-chat-id <id>                  Recipient chat ID (required to enable notifications)

  Help & Version:
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

OPERATOR COMMANDS (stdin, one per line)
  c, center, <enter>                       Confirm return to center
  r, retry                                 Restart sensor polling after a read error
  ?                                        Print the current state
  s, stop, q                               Stop the session

CONFIGURATION
  Sources in increasing priority: $XDG_CONFIG_HOME/target-drill/config,
  .target-drill/config, --config, DRILL_* environment variables, flags.
  Files hold KEY=VALUE lines, e.g. L1_COUNT=3 or SENSOR=serial.

EXIT CODES
  0   Success              Every target completed
  1   Error                Invalid arguments, sensor unavailable, misconfiguration
  2   Stopped              Session stopped by the operator
  3   Defect               Session ended on an invariant violation
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Demo session, two of each target
  target-drill --l1 2 --r1 2 --l2 2 --r2 2

  # Serial sensor with a reproducible order and JSON output
  target-drill --sensor serial --port /dev/ttyACM0 --l1 3 --r2 3 --seed 7 -o json

  # List serial ports
  target-drill ports

  # Watch a running session from another terminal
  target-drill --status --snapshot-file /tmp/drill.json
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
