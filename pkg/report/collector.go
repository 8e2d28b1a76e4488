package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/treediff"
)

// Result is the machine readable form of a run
type Result struct {
	Pairs     []PairResult    `json:"pairs"`
	Unmatched UnmatchedResult `json:"unmatched"`
	Summary   Summary         `json:"summary"`
}

type PairResult struct {
	Left      string          `json:"left"`
	Right     string          `json:"right"`
	Added     []string        `json:"added"`
	Removed   []string        `json:"removed"`
	Divergent []DivergentFile `json:"divergent"`
	Error     string          `json:"error,omitempty"`
}

type DivergentFile struct {
	Path  string   `json:"path"`
	Left  string   `json:"left"`
	Right string   `json:"right"`
	Diff  []string `json:"diff,omitempty"`
}

type UnmatchedResult struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

type Summary struct {
	Pairs          int `json:"pairs"`
	Added          int `json:"added"`
	Removed        int `json:"removed"`
	Divergent      int `json:"divergent"`
	Failed         int `json:"failed"`
	UnmatchedLeft  int `json:"unmatched_left"`
	UnmatchedRight int `json:"unmatched_right"`
}

// Collector accumulates a Result. Diff bodies are kept only when
// KeepDiff is set.
type Collector struct {
	KeepDiff bool

	result  Result
	current *PairResult
}

func NewCollector(keepDiff bool) *Collector {
	return &Collector{
		KeepDiff: keepDiff,
		result: Result{
			Pairs:     []PairResult{},
			Unmatched: UnmatchedResult{Left: []string{}, Right: []string{}},
		},
	}
}

func (c *Collector) BeginPair(left, right artifact.Ref) {
	c.result.Pairs = append(c.result.Pairs, PairResult{
		Left:      left.String(),
		Right:     right.String(),
		Added:     []string{},
		Removed:   []string{},
		Divergent: []DivergentFile{},
	})
	c.current = &c.result.Pairs[len(c.result.Pairs)-1]
	c.result.Summary.Pairs++
}

func (c *Collector) Entry(e treediff.Entry) {
	if c.current == nil {
		return
	}
	switch e.Kind {
	case treediff.KindAdded:
		c.current.Added = append(c.current.Added, e.Path)
		c.result.Summary.Added++
	case treediff.KindRemoved:
		c.current.Removed = append(c.current.Removed, e.Path)
		c.result.Summary.Removed++
	}
}

func (c *Collector) Divergent(res *comparator.Result) {
	if c.current == nil {
		return
	}
	file := DivergentFile{Path: res.Path, Left: res.PathA, Right: res.PathB}
	if c.KeepDiff {
		file.Diff = res.Diff
	}
	c.current.Divergent = append(c.current.Divergent, file)
	c.result.Summary.Divergent++
}

func (c *Collector) EndPair() {
	c.current = nil
}

func (c *Collector) PairFailed(left, right artifact.Ref, err error) {
	if c.current == nil || c.current.Left != left.String() || c.current.Right != right.String() {
		c.BeginPair(left, right)
	}
	c.current.Error = err.Error()
	c.result.Summary.Failed++
}

func (c *Collector) Unmatched(side artifact.Side, refs []artifact.Ref) {
	for _, r := range refs {
		switch side {
		case artifact.Left:
			c.result.Unmatched.Left = append(c.result.Unmatched.Left, r.String())
			c.result.Summary.UnmatchedLeft++
		case artifact.Right:
			c.result.Unmatched.Right = append(c.result.Unmatched.Right, r.String())
			c.result.Summary.UnmatchedRight++
		}
	}
}

func (c *Collector) Result() Result {
	return c.result
}

func (c *Collector) WriteFile(path string) error {
	data, err := json.MarshalIndent(c.result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
