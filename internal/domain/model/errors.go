package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by a wrapped operation whose notification
// configuration cannot produce a start message.
var ErrInvalidConfig = errors.New("invalid notification config")

// DeliveryError reports that a transport could not deliver a message.
type DeliveryError struct {
	Transport string
	Err       error
}

// NewDeliveryError wraps err for the named transport. It returns nil for a nil err.
func NewDeliveryError(transport string, err error) error {
	if err == nil {
		return nil
	}
	return &DeliveryError{Transport: transport, Err: err}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Transport, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
