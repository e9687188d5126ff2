package errors

import "fmt"

// Error types for the application
var (
	ErrEngineUnavailable = fmt.Errorf("ENGINE_UNAVAILABLE")
	ErrProbeFailed       = fmt.Errorf("PROBE_FAILED")
	ErrCommandFailed     = fmt.Errorf("COMMAND_FAILED")
	ErrRemoveFailed      = fmt.Errorf("REMOVE_FAILED")
	ErrBuildFailed       = fmt.Errorf("BUILD_FAILED")
	ErrCreateFailed      = fmt.Errorf("CREATE_FAILED")
	ErrStartFailed       = fmt.Errorf("START_FAILED")
	ErrStopFailed        = fmt.Errorf("STOP_FAILED")
	ErrCloneFailed       = fmt.Errorf("CLONE_FAILED")
	ErrGitConfig         = fmt.Errorf("GIT_CONFIG")
	ErrInvalidConfig     = fmt.Errorf("INVALID_CONFIG")
	ErrJournal           = fmt.Errorf("JOURNAL")
)

// ResourceError ties a failure to the container, image or directory it concerns
type ResourceError struct {
	Op       string
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// ValidationError wraps validation errors
type ValidationError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s (value: %v): %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CommandError carries the exit code and captured output of a failed external command
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Output)
}

func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}
