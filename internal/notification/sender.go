// Package notification sends a one-line session summary through the
// openclaw CLI.
package notification

import (
	"context"
	"os/exec"
	"time"

	"github.com/CodexForgeBR/target-drill/internal/logging"
)

var (
	command = "openclaw"
	timeout = 10 * time.Second
)

// SendNotification sends a notification via openclaw CLI.
// Fire-and-forget: failures are logged at debug level only.
// No-op when chatID is empty.
func SendNotification(webhook, channel, chatID, message string) {
	if chatID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, "message", "send",
		"--webhook", webhook,
		"--channel", channel,
		"--chat-id", chatID,
		"--message", message,
	)

	if err := cmd.Run(); err != nil {
		logging.Debug("Notification not sent: " + err.Error())
	}
}
