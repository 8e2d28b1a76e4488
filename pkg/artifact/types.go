package artifact

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
)

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Ref points at a single build artifact. Path is a local file path, or the
// object key when Bucket is set.
type Ref struct {
	Side   Side
	Path   string
	Bucket string
}

// Name is the artifact's file name, the only part used for matching.
func (r Ref) Name() string {
	return path.Base(filepath.ToSlash(r.Path))
}

func (r Ref) Remote() bool {
	return r.Bucket != ""
}

func (r Ref) String() string {
	if r.Remote() {
		return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Path)
	}
	return r.Path
}

// Source discovers the artifacts of one side and makes them available locally.
type Source interface {
	Discover(ctx context.Context) ([]Ref, error)
	// Fetch returns a local path for ref, downloading it into dir if needed.
	Fetch(ctx context.Context, ref Ref, dir string) (string, error)
}
