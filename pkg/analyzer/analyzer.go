// Package analyzer drives a full comparison run: discovery, matching, and,
// pair by pair, expansion, tree diff and content comparison.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuya-takeyama/strict-jar-diff/internal/progress"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/expander"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/matcher"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/report"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/treediff"
)

const DefaultWorkDir = ".jardif"

// Comparer decides content equality of a path common to two trees.
type Comparer interface {
	Compare(ctx context.Context, relPath, treeA, treeB string) (*comparator.Result, error)
}

// Config holds the run settings. Zero values fall back to the defaults.
type Config struct {
	WorkDir string
	// Root is the local discovery root. Reset refuses a work dir containing it.
	Root       string
	LeftLabel  string
	RightLabel string
	Order      treediff.Order
	Match      matcher.Options
}

type Analyzer struct {
	Left     artifact.Source
	Right    artifact.Source
	Expander expander.Expander
	Comparer Comparer
	Reporter report.Reporter
	Logger   *slog.Logger
	// NewProgress is called once the number of pairs is known.
	NewProgress func(total int) progress.Tracker

	Config Config
}

// Summary counts the outcome of a run
type Summary struct {
	Pairs          int
	Failed         int
	Added          int
	Removed        int
	Divergent      int
	UnmatchedLeft  int
	UnmatchedRight int
}

// Run compares every matched pair. Only an empty artifact fails a single
// pair; any other error stops the run.
func (a *Analyzer) Run(ctx context.Context) (*Summary, error) {
	cfg := a.config()
	summary := &Summary{}

	var protected []string
	if cfg.Root != "" {
		protected = append(protected, cfg.Root)
	}
	if err := Reset(cfg.WorkDir, protected...); err != nil {
		return summary, err
	}

	leftRefs, err := a.Left.Discover(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to discover %s artifacts: %w", cfg.LeftLabel, err)
	}
	rightRefs, err := a.Right.Discover(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to discover %s artifacts: %w", cfg.RightLabel, err)
	}
	a.logger().Info("discovered artifacts", cfg.LeftLabel, len(leftRefs), cfg.RightLabel, len(rightRefs))

	pairing := matcher.Match(leftRefs, rightRefs, cfg.Match)
	summary.UnmatchedLeft = len(pairing.UnmatchedLeft)
	summary.UnmatchedRight = len(pairing.UnmatchedRight)
	a.logger().Info("matched artifacts", "pairs", len(pairing.Pairs),
		"unmatched_"+cfg.LeftLabel, summary.UnmatchedLeft, "unmatched_"+cfg.RightLabel, summary.UnmatchedRight)

	tracker := a.progress(len(pairing.Pairs))
	defer tracker.Close()

	dirs := newDirNamer(cfg)
	for _, pair := range pairing.Pairs {
		tracker.Describe(pair.Left.Name())
		summary.Pairs++

		err := a.comparePair(ctx, pair, dirs, summary)

		var emptyErr *treediff.EmptyArtifactError
		if errors.As(err, &emptyErr) {
			summary.Failed++
			a.logger().Warn("skipping pair", "left", pair.Left.String(), "right", pair.Right.String(), "error", err)
			a.Reporter.PairFailed(pair.Left, pair.Right, err)
			a.Reporter.EndPair()
			tracker.Advance()
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("failed to compare %s with %s: %w", pair.Left, pair.Right, err)
		}
		tracker.Advance()
	}

	a.Reporter.Unmatched(artifact.Right, pairing.UnmatchedRight)
	a.Reporter.Unmatched(artifact.Left, pairing.UnmatchedLeft)

	return summary, nil
}

func (a *Analyzer) comparePair(ctx context.Context, pair matcher.Pair, dirs *dirNamer, summary *Summary) error {
	cfg := a.config()
	a.Reporter.BeginPair(pair.Left, pair.Right)

	treeA, err := a.materialize(ctx, a.Left, pair.Left, cfg.LeftLabel, dirs)
	if err != nil {
		return err
	}
	treeB, err := a.materialize(ctx, a.Right, pair.Right, cfg.RightLabel, dirs)
	if err != nil {
		return err
	}

	entries, err := treediff.Diff(treeA, treeB, cfg.Order)
	if err != nil {
		return err
	}

	for e := range entries {
		switch e.Kind {
		case treediff.KindAdded:
			summary.Added++
			a.Reporter.Entry(e)
		case treediff.KindRemoved:
			summary.Removed++
			a.Reporter.Entry(e)
		case treediff.KindCommon:
			res, err := a.Comparer.Compare(ctx, e.Path, treeA, treeB)
			if err != nil {
				return err
			}
			if !res.Identical {
				summary.Divergent++
				a.Reporter.Divergent(res)
			}
		}
	}

	a.Reporter.EndPair()
	return nil
}

func (a *Analyzer) materialize(ctx context.Context, src artifact.Source, ref artifact.Ref, label string, dirs *dirNamer) (string, error) {
	cfg := a.config()

	archive, err := src.Fetch(ctx, ref, filepath.Join(cfg.WorkDir, "downloads", label))
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", ref, err)
	}

	dest := dirs.next(label, ref.Name())
	a.logger().Debug("expanding artifact", "archive", archive, "dest", dest)
	if err := a.Expander.Expand(archive, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (a *Analyzer) config() Config {
	cfg := a.Config
	if cfg.WorkDir == "" {
		cfg.WorkDir = DefaultWorkDir
	}
	if cfg.LeftLabel == "" {
		cfg.LeftLabel = artifact.Left.String()
	}
	if cfg.RightLabel == "" {
		cfg.RightLabel = artifact.Right.String()
	}
	if cfg.Order == nil {
		cfg.Order = treediff.Lexical
	}
	return cfg
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *Analyzer) progress(total int) progress.Tracker {
	if a.NewProgress == nil {
		return progress.Nop{}
	}
	return a.NewProgress(total)
}

// Reset deletes and recreates the scratch root. It refuses a work dir that is
// or contains the current directory, a filesystem root, or any of protected.
func Reset(workDir string, protected ...string) error {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve work directory: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	for _, p := range append([]string{cwd}, protected...) {
		pAbs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		if contains(abs, pAbs) {
			return fmt.Errorf("refusing to use %q as work directory: it contains %s", workDir, pAbs)
		}
	}
	if filepath.Dir(abs) == abs {
		return fmt.Errorf("refusing to use %q as work directory", workDir)
	}

	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("failed to clean work directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	return nil
}

// contains reports whether path equals dir or lies below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// dirNamer hands out <label>-<artifact name> directories below the work dir,
// adding a numeric suffix when two artifacts share a name.
type dirNamer struct {
	root string
	used map[string]int
}

func newDirNamer(cfg Config) *dirNamer {
	return &dirNamer{root: cfg.WorkDir, used: map[string]int{}}
}

func (d *dirNamer) next(label, name string) string {
	base := label + "-" + name
	d.used[base]++
	if n := d.used[base]; n > 1 {
		base = fmt.Sprintf("%s-%d", base, n)
	}
	return filepath.Join(d.root, base)
}
