package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LocalSource finds artifacts below Root whose slash-separated relative path
// matches Pattern.
type LocalSource struct {
	Side    Side
	Root    string
	Pattern string
	// SkipDirs lists root-relative directories that are never searched.
	SkipDirs []string
}

func NewLocalSource(side Side, root, pattern string, skipDirs ...string) *LocalSource {
	return &LocalSource{
		Side:     side,
		Root:     root,
		Pattern:  pattern,
		SkipDirs: skipDirs,
	}
}

func (s *LocalSource) Discover(ctx context.Context) ([]Ref, error) {
	if !doublestar.ValidatePattern(s.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q", s.Pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(s.Root), s.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q in %s: %w", s.Pattern, s.Root, err)
	}
	sort.Strings(matches)

	refs := []Ref{}
	for _, m := range matches {
		if s.skipped(m) {
			continue
		}
		refs = append(refs, Ref{
			Side: s.Side,
			Path: filepath.Join(s.Root, filepath.FromSlash(m)),
		})
	}
	return refs, nil
}

func (s *LocalSource) Fetch(ctx context.Context, ref Ref, dir string) (string, error) {
	return ref.Path, nil
}

func (s *LocalSource) skipped(rel string) bool {
	for _, dir := range s.SkipDirs {
		dir = strings.Trim(filepath.ToSlash(filepath.Clean(dir)), "/")
		if dir == "" || dir == "." {
			continue
		}
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}
