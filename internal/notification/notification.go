// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/atelier-studio/atelier/internal/logger"
)

// notifyFunc matches beeep.Notify so tests can intercept notifications.
type notifyFunc func(title, message string, icon any) error

var notifier notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Tests use this to avoid
// sending real desktop notifications.
func SetNotifier(fn notifyFunc) {
	notifier = fn
}

// ResetNotifier restores the default beeep backend.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	logger.Debug("Notification: Sending title=%q message=%q", title, message)
	err := notifier(title, message, "")
	if err != nil {
		logger.Warn("Notification: Failed to send: %v", err)
	}
	return err
}

// SaveFailed notifies that a file's autosave failed and edits are only
// local. Sent when the save pipeline reports an error, so the user hears
// about it even with the terminal in the background.
func SaveFailed(fileTitle string) error {
	return Send("Atelier", "Could not save \""+fileTitle+"\". Your edits are kept locally.")
}
