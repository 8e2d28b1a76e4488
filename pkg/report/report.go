package report

import (
	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/treediff"
)

// Reporter receives comparison outcomes in the order they are produced.
type Reporter interface {
	BeginPair(left, right artifact.Ref)
	// Entry is called for Added and Removed entries.
	Entry(e treediff.Entry)
	Divergent(res *comparator.Result)
	EndPair()
	PairFailed(left, right artifact.Ref, err error)
	// Unmatched lists artifacts of side that have no counterpart.
	Unmatched(side artifact.Side, refs []artifact.Ref)
}

type multiReporter []Reporter

// Multi fans every call out to all reporters.
func Multi(reporters ...Reporter) Reporter {
	return multiReporter(reporters)
}

func (m multiReporter) BeginPair(left, right artifact.Ref) {
	for _, r := range m {
		r.BeginPair(left, right)
	}
}

func (m multiReporter) Entry(e treediff.Entry) {
	for _, r := range m {
		r.Entry(e)
	}
}

func (m multiReporter) Divergent(res *comparator.Result) {
	for _, r := range m {
		r.Divergent(res)
	}
}

func (m multiReporter) EndPair() {
	for _, r := range m {
		r.EndPair()
	}
}

func (m multiReporter) PairFailed(left, right artifact.Ref, err error) {
	for _, r := range m {
		r.PairFailed(left, right, err)
	}
}

func (m multiReporter) Unmatched(side artifact.Side, refs []artifact.Ref) {
	for _, r := range m {
		r.Unmatched(side, refs)
	}
}
