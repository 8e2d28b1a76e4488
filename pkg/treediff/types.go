package treediff

import "fmt"

// Kind classifies a path in the merge of two listings
type Kind string

const (
	// KindAdded marks a path present only in tree A.
	KindAdded Kind = "added"
	// KindRemoved marks a path present only in tree B.
	KindRemoved Kind = "removed"
	// KindCommon marks a path present in both trees.
	KindCommon Kind = "common"
)

// Entry is one path of a tree diff
type Entry struct {
	Kind Kind
	Path string
}

// String renders the entry in report form: "+path", "-path" or " path".
func (e Entry) String() string {
	switch e.Kind {
	case KindAdded:
		return "+" + e.Path
	case KindRemoved:
		return "-" + e.Path
	default:
		return " " + e.Path
	}
}

// Listing is a sequence of slash-separated paths relative to a tree root,
// sorted by the Order it was produced with.
type Listing []string

// EmptyArtifactError signals that one expanded tree of a pair holds no files.
type EmptyArtifactError struct {
	TreeA  string
	TreeB  string
	EmptyA bool
	EmptyB bool
}

func (e *EmptyArtifactError) Error() string {
	var which string
	switch {
	case e.EmptyA && e.EmptyB:
		which = e.TreeA + ", " + e.TreeB
	case e.EmptyA:
		which = e.TreeA
	default:
		which = e.TreeB
	}
	return fmt.Sprintf("one of the artifacts is empty: %s", which)
}
