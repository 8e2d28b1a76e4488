// Package comparator decides whether a path common to two expanded trees has
// the same content on both sides.
package comparator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuya-takeyama/strict-jar-diff/internal/checksum"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/executor"
)

var DefaultDiffCommand = []string{"diff"}

type Options struct {
	// Transforms maps a filename suffix to the transform applied to both
	// sides before comparison.
	Transforms map[string]Transform
	// DiffCommand is invoked as DiffCommand... <a> <b>; a nonzero exit
	// status means the files diverge.
	DiffCommand []string
	// ChecksumShortcut skips the diff invocation when both files have the
	// same digest.
	ChecksumShortcut bool
}

type Result struct {
	Path      string
	PathA     string
	PathB     string
	Identical bool
	// Diff holds the output of the diff command for divergent entries.
	Diff []string
}

type Comparator struct {
	executor executor.Executor
	opts     Options
}

func New(exec executor.Executor, opts Options) *Comparator {
	if len(opts.DiffCommand) == 0 {
		opts.DiffCommand = DefaultDiffCommand
	}
	return &Comparator{
		executor: exec,
		opts:     opts,
	}
}

// DefaultOptions compares classes on their javap disassembly and everything
// else byte for byte.
func DefaultOptions(exec executor.Executor) Options {
	return Options{
		Transforms: map[string]Transform{
			".class": NewDisassembler(exec),
		},
		DiffCommand:      DefaultDiffCommand,
		ChecksumShortcut: true,
	}
}

func (c *Comparator) Compare(ctx context.Context, relPath, treeA, treeB string) (*Result, error) {
	pathA, err := filepath.Abs(filepath.Join(treeA, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	pathB, err := filepath.Abs(filepath.Join(treeB, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}

	result := &Result{Path: relPath, PathA: pathA, PathB: pathB}

	toCompareA, toCompareB := pathA, pathB
	if t := c.transformFor(relPath); t != nil {
		if toCompareA, err = t.Apply(ctx, pathA); err != nil {
			return nil, fmt.Errorf("failed to transform %s: %w", pathA, err)
		}
		if toCompareB, err = t.Apply(ctx, pathB); err != nil {
			return nil, fmt.Errorf("failed to transform %s: %w", pathB, err)
		}
	}

	if c.opts.ChecksumShortcut {
		equal, err := checksum.FilesEqual(toCompareA, toCompareB)
		if err != nil {
			return nil, err
		}
		if equal {
			result.Identical = true
			return result, nil
		}
	}

	args := append(append([]string{}, c.opts.DiffCommand...), toCompareA, toCompareB)
	res, err := c.executor.Run(ctx, executor.Command{Args: args})
	if err != nil {
		return nil, err
	}

	result.Identical = res.Status == 0
	if !result.Identical {
		result.Diff = res.Output
	}
	return result, nil
}

// transformFor picks the transform with the longest matching suffix.
func (c *Comparator) transformFor(path string) Transform {
	var (
		best    Transform
		bestLen = -1
	)
	for suffix, t := range c.opts.Transforms {
		if strings.HasSuffix(path, suffix) && len(suffix) > bestLen {
			best, bestLen = t, len(suffix)
		}
	}
	return best
}
