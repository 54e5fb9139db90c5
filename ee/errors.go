// Package ee collects the error types shared across the extreme-event
// detection pipeline, so that callers can use errors.As instead of string
// matching to decide whether a failure is a configuration mistake, a
// transient field-availability gap, or an operator-visible notification
// problem.
package ee

import "fmt"

// BadValue reports a configuration value that is syntactically fine but
// contradicts an implementation constraint, e.g. a wind field name outside
// the supported set, or a fixed-point cutout outside its representable
// range.
type BadValue struct {
	Field string
	Value interface{}
	Msg   string
}

func (e *BadValue) Error() string {
	return fmt.Sprintf("bad value for %s (%v): %s", e.Field, e.Value, e.Msg)
}

// BadParameter reports a configuration combination that cannot be acted on,
// e.g. model_levels supplied without a profile field, or a missing schema
// environment variable.
type BadParameter struct {
	Name string
	Msg  string
}

func (e *BadParameter) Error() string {
	return fmt.Sprintf("bad parameter %s: %s", e.Name, e.Msg)
}

// RegistryMiss reports that a configured event name has no registered
// factory. Callers in this codebase treat it as fatal, mirroring the
// original plugin's hard assertion on an unknown event type.
type RegistryMiss struct {
	Name string
}

func (e *RegistryMiss) Error() string {
	return fmt.Sprintf("%q is not registered as an extreme-event detector", e.Name)
}

// FieldAbsent reports that a detector's required field or parameter is not
// currently offered by the host. It is non-fatal: the orchestrator skips
// the detector for the run.
type FieldAbsent struct {
	Name string
}

func (e *FieldAbsent) Error() string {
	return fmt.Sprintf("required field or parameter %q is not offered by the host", e.Name)
}

// NotificationFailure reports that a notification POST completed with an
// HTTP status outside the accepted set. It is logged by the caller and
// never aborts the run or is retried.
type NotificationFailure struct {
	Status int
	URL    string
}

func (e *NotificationFailure) Error() string {
	return fmt.Sprintf("notification to %s failed with status %d", e.URL, e.Status)
}
