package model

import "fmt"

// NotificationConfig controls what the lifecycle notifier says about a wrapped operation.
type NotificationConfig struct {
	// Message is an optional custom line. Empty means no message.
	Message string
	// NotifyOnCompletion sends a success notification when the operation returns.
	// Failures are always reported.
	NotifyOnCompletion bool
	// IncludeDetails adds the host name and start time to the start notification.
	// Can't be false if Message is empty.
	IncludeDetails bool
}

// DefaultNotificationConfig returns the configuration used when the caller sets nothing.
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		NotifyOnCompletion: true,
		IncludeDetails:     true,
	}
}

// Validate reports ErrInvalidConfig when details are disabled without a message.
func (c NotificationConfig) Validate() error {
	if !c.IncludeDetails && c.Message == "" {
		return fmt.Errorf("%w: message cannot be empty if include details is disabled", ErrInvalidConfig)
	}
	return nil
}
