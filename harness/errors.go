package harness

import "fmt"

// ConfigError reports an unreadable, malformed, or structurally invalid
// definition document. It is always surfaced to the caller, never retried.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %s", e.Reason)
	}
	return fmt.Sprintf("config error: %s (file: %s)", e.Reason, e.Path)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NoMockError reports a simulated command line that matched no registered
// handler. Simulation halts on the line that triggered it.
type NoMockError struct {
	Line string
}

func (e *NoMockError) Error() string {
	return fmt.Sprintf("no mock registered for command: %q", e.Line)
}
