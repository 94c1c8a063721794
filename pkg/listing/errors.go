package listing

import "fmt"

// InvalidInputError reports a record or parameter that violates an input
// invariant. Callers surface it immediately; batch stages skip the offending
// record and log a diagnostic instead of silently correcting it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports an unusable configuration value. It is raised
// at pipeline construction, before any record is processed.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Option, e.Reason)
}
