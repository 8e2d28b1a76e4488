package matcher

import "github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"

// DefaultExcludes lists the suffixes of secondary jars that are never compared
var DefaultExcludes = []string{"-tests.jar", "-sources.jar", "-javadoc.jar", "-benchmarks.jar"}

// Default version tokens of the left (Maven) and right (Gradle) builds
const (
	DefaultLeftVersion  = "-0.4.9"
	DefaultRightVersion = "-0.1.0-SNAPSHOT"
)

// Options controls how left artifacts are paired with right artifacts
type Options struct {
	// Excludes are filename suffixes dropped from both sides before matching.
	Excludes []string
	// LeftVersion is replaced by RightVersion in a left artifact's name to
	// obtain the expected right artifact name.
	LeftVersion  string
	RightVersion string
}

// Pair is a left artifact and the right artifact it was matched with
type Pair struct {
	Left  artifact.Ref
	Right artifact.Ref
}

// Pairing is the outcome of one Match call. Unmatched refs are diagnostics,
// never errors.
type Pairing struct {
	Pairs          []Pair
	UnmatchedLeft  []artifact.Ref
	UnmatchedRight []artifact.Ref
}
