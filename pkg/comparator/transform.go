package comparator

import (
	"context"
	"strings"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/executor"
)

// Transform converts a file into a comparable representation and returns the
// path of the converted file.
type Transform interface {
	Apply(ctx context.Context, path string) (string, error)
}

var DefaultDisassembleCommand = []string{"javap", "-c"}

// Disassembler writes the textual disassembly of a compiled class next to it,
// replacing the source suffix with Extension.
type Disassembler struct {
	Executor  executor.Executor
	Command   []string
	Suffix    string
	Extension string
}

func NewDisassembler(exec executor.Executor) *Disassembler {
	return &Disassembler{
		Executor:  exec,
		Command:   DefaultDisassembleCommand,
		Suffix:    ".class",
		Extension: ".bytecode",
	}
}

func (d *Disassembler) Apply(ctx context.Context, path string) (string, error) {
	out := strings.TrimSuffix(path, d.Suffix) + d.Extension

	args := append(append([]string{}, d.Command...), path)
	_, err := d.Executor.Run(ctx, executor.Command{
		Args:       args,
		FailFast:   true,
		OutputFile: out,
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
