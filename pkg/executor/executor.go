package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Executor runs external commands on behalf of the comparison pipeline.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

type Command struct {
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// FailFast turns a nonzero exit status into a *ToolInvocationError.
	FailFast bool
	// OutputFile, when set, receives the captured output lines joined by "\n".
	// The file must not exist yet.
	OutputFile string
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

type Result struct {
	Status int
	Output []string
}

type OSExecutor struct{}

func NewOSExecutor() *OSExecutor {
	return &OSExecutor{}
}

func (e *OSExecutor) Run(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	out, runErr := c.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", cmd, ctxErr)
	}
	result := &Result{Output: splitLines(out)}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &ToolInvocationError{Command: cmd.String(), Status: -1, Output: result.Output, Err: runErr}
		}
		result.Status = exitErr.ExitCode()
	}

	if cmd.OutputFile != "" {
		if err := writeOutputFile(cmd.OutputFile, result.Output); err != nil {
			return nil, err
		}
	}

	if cmd.FailFast && result.Status != 0 {
		return nil, &ToolInvocationError{Command: cmd.String(), Status: result.Status, Output: result.Output}
	}

	return result, nil
}

func writeOutputFile(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("could not create output file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// splitLines breaks output into lines of any length. A trailing "\r" is
// dropped and a final line without a newline is kept.
func splitLines(out []byte) []string {
	lines := []string{}
	r := bufio.NewReader(bytes.NewReader(out))
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			lines = append(lines, line)
		}
		if err != nil {
			return lines
		}
	}
}
