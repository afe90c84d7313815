package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitInvalid = 1 // a policy produced violations
	ExitError   = 2 // usage, config or I/O failure
)

// ErrInvalidPolicy marks a run that completed but found invalid policies.
var ErrInvalidPolicy = errors.New("one or more policies are invalid")

// ConfigError reports a bad configuration value. Field is the dotted YAML
// path and may be empty.
type ConfigError struct {
	Field   string
	Message string
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// CommandError attributes a failure to a subcommand.
type CommandError struct {
	Command string
	Err     error
}

func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

func (e *CommandError) Error() string { return "command " + e.Command + " failed: " + e.Err.Error() }
func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode maps the error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrInvalidPolicy) {
		return ExitInvalid
	}
	return ExitError
}
