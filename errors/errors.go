package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrSessionClosed      = fmt.Errorf("session closed")
	ErrMissingCollection  = fmt.Errorf("collection name is required")
	ErrEmptySender        = fmt.Errorf("empty sender")
	ErrEmptyBody          = fmt.Errorf("empty body")
	ErrUnknownMessage     = fmt.Errorf("unknown message")
	ErrUnsupportedChange  = fmt.Errorf("unsupported change kind")
	ErrInvalidBodyPolicy  = fmt.Errorf("invalid empty body policy")
	ErrSubscriptionClosed = fmt.Errorf("subscription closed")
	ErrFeatureDisabled    = fmt.Errorf("feature disabled for this widget")
	ErrLogClosed          = fmt.Errorf("log closed")
)

// ConfigurationError is fatal at construction time.
type ConfigurationError struct {
	Err error
}

func (e ConfigurationError) Error() string { return fmt.Sprintf("configuration error: %v", e.Err) }
func (e ConfigurationError) Unwrap() error { return e.Err }

// ValidationError aborts a send. The session keeps running.
type ValidationError struct {
	Err error
	// Prompt is the text shown to the user, empty when nothing should be shown.
	Prompt string
}

func (e ValidationError) Error() string { return e.Err.Error() }
func (e ValidationError) Unwrap() error { return e.Err }

// SubscriptionError is reported once, the subscription is not re-established.
type SubscriptionError struct {
	Collection string
	Err        error
}

func (e SubscriptionError) Error() string {
	return fmt.Sprintf("error listening collection %s: %v", e.Collection, e.Err)
}
func (e SubscriptionError) Unwrap() error { return e.Err }

// AppendError means the outgoing message never reached the log.
type AppendError struct {
	Collection string
	Err        error
}

func (e AppendError) Error() string {
	return fmt.Sprintf("error adding a message to %s: %v", e.Collection, e.Err)
}
func (e AppendError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v ValidationError
	return stderrors.As(err, &v)
}
