package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/treediff"
)

const separator = "==============================================="

// StreamReporter writes the human readable report. Pair sections go to Out,
// diagnostics go to Err.
type StreamReporter struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
	// Labels names each side in diagnostics, e.g. maven and gradle.
	Labels map[artifact.Side]string
}

func (s *StreamReporter) BeginPair(left, right artifact.Ref) {
	fmt.Fprintln(s.Out, separator)
	fmt.Fprintf(s.Out, "%s vs %s\n", left, right)
	fmt.Fprintln(s.Out, separator)
}

func (s *StreamReporter) Entry(e treediff.Entry) {
	switch e.Kind {
	case treediff.KindAdded, treediff.KindRemoved:
		fmt.Fprintln(s.Out, e.String())
	}
}

func (s *StreamReporter) Divergent(res *comparator.Result) {
	fmt.Fprintf(s.Out, "* %s X %s\n", res.PathA, res.PathB)
	if s.Verbose && len(res.Diff) > 0 {
		fmt.Fprintln(s.Out, strings.Join(res.Diff, "\n"))
	}
}

func (s *StreamReporter) EndPair() {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out)
}

func (s *StreamReporter) PairFailed(left, right artifact.Ref, err error) {
	fmt.Fprintf(s.Err, "FAILED %s vs %s: %v\n", left, right, err)
}

// Unmatched names the side that lacks the counterpart, so leftovers of the
// right side are reported as missing left artifacts.
func (s *StreamReporter) Unmatched(side artifact.Side, refs []artifact.Ref) {
	if len(refs) == 0 {
		return
	}
	missing := artifact.Right
	if side == artifact.Right {
		missing = artifact.Left
	}

	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.String())
	}
	fmt.Fprintf(s.Err, "MISSING %s ARTIFACTS: [%s]\n", strings.ToUpper(s.label(missing)), strings.Join(names, ", "))
}

func (s *StreamReporter) label(side artifact.Side) string {
	if l, ok := s.Labels[side]; ok && l != "" {
		return l
	}
	return side.String()
}
