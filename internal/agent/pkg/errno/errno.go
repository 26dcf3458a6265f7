package errno

import (
	"errors"
	"fmt"
)

var (
	ErrToolNotFound        = errors.New("tool not found")
	ErrInvalidArguments    = errors.New("invalid tool arguments")
	ErrMaxStepsExceeded    = errors.New("max steps exceeded")
	ErrModelNotToolCapable = errors.New("model not tool capable")
	ErrEmptyInput          = errors.New("empty input")
)

// ConfigurationError reports a missing or malformed setting detected at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

// NewMissingKeyError is the ConfigurationError for a required value that is unset.
func NewMissingKeyError(key, env string) *ConfigurationError {
	reason := "is required"
	if env != "" {
		reason = fmt.Sprintf("is required (set %s)", env)
	}
	return &ConfigurationError{Key: key, Reason: reason}
}

// RemoteServiceError wraps a failed call to the task service or the model provider.
type RemoteServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// NewRemoteServiceError returns nil when err is nil.
func NewRemoteServiceError(service, op string, err error) error {
	if err == nil {
		return nil
	}
	var rse *RemoteServiceError
	if errors.As(err, &rse) {
		return err
	}
	return &RemoteServiceError{Service: service, Op: op, Err: err}
}

// ToolNotFoundError names the unknown tool. It matches ErrToolNotFound with errors.Is.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%v: %q", ErrToolNotFound, e.Name)
}

func (e *ToolNotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// IsRemote reports whether err came from a remote collaborator.
func IsRemote(err error) bool {
	var rse *RemoteServiceError
	return errors.As(err, &rse)
}
