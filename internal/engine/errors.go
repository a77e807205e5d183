package engine

import "fmt"

// PreconditionError reports a missing input the pipeline cannot run without.
type PreconditionError struct {
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("missing required input %q", e.Field)
}

// StepError wraps a failure with the step it happened in so callers can log
// and resume precisely.
type StepError struct {
	Step int
	Name string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ConnectionError marks failures of remote services so the CLI can suggest
// checking the network instead of dumping a stack of wrapped causes.
type ConnectionError struct {
	Service string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s request failed, check your connection: %v", e.Service, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
