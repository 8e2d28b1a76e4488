package comparator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/executor"
)

// mockExecutor is a mock implementation of executor.Executor for testing
type mockExecutor struct {
	runFunc func(ctx context.Context, cmd executor.Command) (*executor.Result, error)
	calls   []executor.Command
}

func (m *mockExecutor) Run(ctx context.Context, cmd executor.Command) (*executor.Result, error) {
	m.calls = append(m.calls, cmd)
	if m.runFunc != nil {
		return m.runFunc(ctx, cmd)
	}
	return nil, fmt.Errorf("Run not implemented")
}

func (m *mockExecutor) commands(tool string) []executor.Command {
	var out []executor.Command
	for _, c := range m.calls {
		if len(c.Args) > 0 && c.Args[0] == tool {
			out = append(out, c)
		}
	}
	return out
}

// fakeToolchain answers javap with canned disassembly keyed by the class path
// and diff by comparing the two files' contents.
type fakeToolchain struct {
	disassembly map[string]string
	javapStatus int
}

func (f *fakeToolchain) run(_ context.Context, cmd executor.Command) (*executor.Result, error) {
	switch cmd.Args[0] {
	case "javap":
		target := cmd.Args[len(cmd.Args)-1]
		if f.javapStatus != 0 {
			return nil, &executor.ToolInvocationError{Command: cmd.String(), Status: f.javapStatus}
		}
		text := f.disassembly[target]
		if cmd.OutputFile != "" {
			if err := os.WriteFile(cmd.OutputFile, []byte(text), 0644); err != nil {
				return nil, err
			}
		}
		return &executor.Result{Output: strings.Split(text, "\n")}, nil
	case "diff":
		a, err := os.ReadFile(cmd.Args[1])
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(cmd.Args[2])
		if err != nil {
			return nil, err
		}
		if string(a) == string(b) {
			return &executor.Result{}, nil
		}
		return &executor.Result{Status: 1, Output: []string{"< " + string(a), "---", "> " + string(b)}}, nil
	}
	return nil, fmt.Errorf("unexpected command %v", cmd.Args)
}
