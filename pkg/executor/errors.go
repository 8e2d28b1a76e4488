package executor

import (
	"fmt"
	"strings"
)

// ToolInvocationError reports a required external command that could not be
// started or exited with a nonzero status in fail-fast mode.
type ToolInvocationError struct {
	Command string
	Status  int
	Output  []string
	Err     error
}

func (e *ToolInvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to execute command %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("failed to execute command %q. Status code: %d Process output: %s",
		e.Command, e.Status, strings.Join(e.Output, "\n"))
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}
