package matcher

import (
	"strings"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
)

// Match pairs each left artifact with the first unconsumed right artifact
// named like its version-substituted name. Excluded artifacts are dropped
// from both sides first.
func Match(left, right []artifact.Ref, opts Options) *Pairing {
	left = Filter(left, opts.Excludes)
	right = Filter(right, opts.Excludes)

	result := &Pairing{
		Pairs:          []Pair{},
		UnmatchedLeft:  []artifact.Ref{},
		UnmatchedRight: []artifact.Ref{},
	}

	consumed := make([]bool, len(right))
	for _, l := range left {
		want := TransformName(l.Name(), opts.LeftVersion, opts.RightVersion)

		idx := -1
		for i, r := range right {
			if !consumed[i] && r.Name() == want {
				idx = i
				break
			}
		}

		if idx < 0 {
			result.UnmatchedLeft = append(result.UnmatchedLeft, l)
			continue
		}
		consumed[idx] = true
		result.Pairs = append(result.Pairs, Pair{Left: l, Right: right[idx]})
	}

	for i, r := range right {
		if !consumed[i] {
			result.UnmatchedRight = append(result.UnmatchedRight, r)
		}
	}

	return result
}

// TransformName substitutes every literal occurrence of from with to.
func TransformName(name, from, to string) string {
	if from == "" {
		return name
	}
	return strings.ReplaceAll(name, from, to)
}

func Filter(refs []artifact.Ref, excludes []string) []artifact.Ref {
	kept := make([]artifact.Ref, 0, len(refs))
	for _, r := range refs {
		if !IsExcluded(r.Name(), excludes) {
			kept = append(kept, r)
		}
	}
	return kept
}

func IsExcluded(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
