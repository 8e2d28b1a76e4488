package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yuya-takeyama/strict-jar-diff/internal/logging"
	"github.com/yuya-takeyama/strict-jar-diff/internal/progress"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/analyzer"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/executor"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/expander"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/matcher"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/report"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/s3client"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/treediff"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

const (
	envPrefix = "STRICT_JAR_DIFF_"

	defaultLeftPattern  = "**/target/**/*.jar"
	defaultRightPattern = "**/build/**/*.jar"
	// defaultS3Pattern replaces a default local pattern for a side read from S3.
	defaultS3Pattern = "**/*.jar"
)

type options struct {
	root           string
	leftVersion    string
	rightVersion   string
	leftLabel      string
	rightLabel     string
	leftPattern    string
	rightPattern   string
	leftSource     string
	rightSource    string
	excludes       []string
	workDir        string
	order          string
	disassembler   string
	diffCommand    string
	resultJSONFile string
	verbose        bool
	progress       bool
	quiet          bool
	debug          bool
	profile        string
	region         string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.LookupEnv).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "strict-jar-diff",
		Short: "Compare the jars of two builds of the same project",
		Long: `strict-jar-diff pairs the jars produced by two builds of one project
(Maven under target/, Gradle under build/ by default), expands each pair and
reports entries present on one side only and entries whose content differs.
Class files are compared on their javap disassembly.`,
		Version: fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:    cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.root, "root", ".", "Project root to search for local artifacts")
	flags.StringVar(&opts.leftVersion, "left-version", matcher.DefaultLeftVersion, "Version token in left artifact names")
	flags.StringVar(&opts.rightVersion, "right-version", matcher.DefaultRightVersion, "Version token in right artifact names")
	flags.StringVar(&opts.leftLabel, "left-label", "maven", "Name of the left side")
	flags.StringVar(&opts.rightLabel, "right-label", "gradle", "Name of the right side")
	flags.StringVar(&opts.leftPattern, "left-pattern", defaultLeftPattern, "Glob selecting left artifacts")
	flags.StringVar(&opts.rightPattern, "right-pattern", defaultRightPattern, "Glob selecting right artifacts")
	flags.StringVar(&opts.leftSource, "left-source", "", "Read left artifacts from s3://bucket/prefix instead of the project root")
	flags.StringVar(&opts.rightSource, "right-source", "", "Read right artifacts from s3://bucket/prefix instead of the project root")
	flags.StringSliceVar(&opts.excludes, "exclude", matcher.DefaultExcludes, "Artifact filename suffixes to ignore (multiple allowed)")
	flags.StringVar(&opts.workDir, "work-dir", analyzer.DefaultWorkDir, "Scratch directory, recreated on every run")
	flags.StringVar(&opts.order, "order", treediff.Lexical.Name(), "Entry order: lexical or java-hash")
	flags.StringVar(&opts.disassembler, "disassembler", strings.Join(comparator.DefaultDisassembleCommand, " "), "Command producing class disassembly")
	flags.StringVar(&opts.diffCommand, "diff-command", strings.Join(comparator.DefaultDiffCommand, " "), "Command comparing two files")
	flags.StringVar(&opts.resultJSONFile, "result-json-file", "", "Path to output result as JSON file")
	flags.BoolVar(&opts.verbose, "verbose", false, "Print diff output for divergent entries")
	flags.BoolVar(&opts.progress, "progress", false, "Show a progress bar when stderr is a terminal")
	flags.BoolVar(&opts.quiet, "quiet", false, "Suppress non-error logging")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.profile, "profile", "", "AWS profile to use for S3 sources")
	flags.StringVar(&opts.region, "region", "", "AWS region (uses default if not specified)")

	envErr := applyEnvDefaults(flags, lookupEnv)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if envErr != nil {
			return envErr
		}
		cmd.SilenceUsage = true
		return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
	}

	return cmd
}

// applyEnvDefaults turns STRICT_JAR_DIFF_<FLAG> variables into flag defaults.
// Values given on the command line still win.
func applyEnvDefaults(flags *pflag.FlagSet, lookupEnv func(string) (string, bool)) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		name := envName(f.Name)
		v, ok := lookupEnv(name)
		if !ok {
			return
		}

		var err error
		if sv, isSlice := f.Value.(pflag.SliceValue); isSlice {
			err = sv.Replace(splitList(v))
		} else {
			err = f.Value.Set(v)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid value %q for %s: %w", v, name, err))
			return
		}
		f.DefValue = f.Value.String()
	})
	return errors.Join(errs...)
}

func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func splitList(v string) []string {
	items := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func run(ctx context.Context, stdout, stderr io.Writer, opts *options) error {
	logger := logging.New(stderr, logging.Options{Quiet: opts.quiet, Debug: opts.debug})

	order, err := treediff.ParseOrder(opts.order)
	if err != nil {
		return err
	}

	disassembleCmd := strings.Fields(opts.disassembler)
	if len(disassembleCmd) == 0 {
		return fmt.Errorf("--disassembler must not be empty")
	}
	diffCmd := strings.Fields(opts.diffCommand)
	if len(diffCmd) == 0 {
		return fmt.Errorf("--diff-command must not be empty")
	}

	clients := &lazyS3Client{profile: opts.profile, region: opts.region}

	left, err := newSource(ctx, artifact.Left, opts.root, opts.leftSource, sourcePattern(opts.leftSource, opts.leftPattern, defaultLeftPattern), opts.workDir, clients)
	if err != nil {
		return err
	}
	right, err := newSource(ctx, artifact.Right, opts.root, opts.rightSource, sourcePattern(opts.rightSource, opts.rightPattern, defaultRightPattern), opts.workDir, clients)
	if err != nil {
		return err
	}

	exec := executor.NewOSExecutor()
	cmp := comparator.New(exec, comparatorOptions(exec, disassembleCmd, diffCmd))

	reporter := report.Reporter(&report.StreamReporter{
		Out:     stdout,
		Err:     stderr,
		Verbose: opts.verbose,
		Labels: map[artifact.Side]string{
			artifact.Left:  opts.leftLabel,
			artifact.Right: opts.rightLabel,
		},
	})
	var collector *report.Collector
	if opts.resultJSONFile != "" {
		collector = report.NewCollector(opts.verbose)
		reporter = report.Multi(reporter, collector)
	}

	a := &analyzer.Analyzer{
		Left:     left,
		Right:    right,
		Expander: expander.NewZipExpander(),
		Comparer: cmp,
		Reporter: reporter,
		Logger:   logger,
		Config: analyzer.Config{
			WorkDir:    opts.workDir,
			Root:       opts.root,
			LeftLabel:  opts.leftLabel,
			RightLabel: opts.rightLabel,
			Order:      order,
			Match: matcher.Options{
				Excludes:     opts.excludes,
				LeftVersion:  opts.leftVersion,
				RightVersion: opts.rightVersion,
			},
		},
	}
	if opts.progress && !opts.quiet && logging.IsTerminal(stderr) {
		a.NewProgress = func(total int) progress.Tracker {
			return progress.New(stderr, total)
		}
	}

	summary, runErr := a.Run(ctx)

	if collector != nil {
		if err := collector.WriteFile(opts.resultJSONFile); err != nil {
			return fmt.Errorf("failed to write result JSON: %w", err)
		}
	}

	if runErr != nil {
		logger.Error("comparison aborted", "error", runErr)
		return runErr
	}

	logger.Info("comparison finished",
		"pairs", summary.Pairs,
		"added", summary.Added,
		"removed", summary.Removed,
		"divergent", summary.Divergent,
		"failed", summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d artifact pairs failed", summary.Failed)
	}

	return nil
}

// comparatorOptions starts from the comparator defaults and swaps in the
// configured tool commands.
func comparatorOptions(exec executor.Executor, disassembleCmd, diffCmd []string) comparator.Options {
	opts := comparator.DefaultOptions(exec)
	opts.DiffCommand = diffCmd
	for _, t := range opts.Transforms {
		if d, ok := t.(*comparator.Disassembler); ok {
			d.Command = disassembleCmd
		}
	}
	return opts
}

// sourcePattern swaps an untouched local default for one that fits S3 keys,
// which carry no target/ or build/ directory.
func sourcePattern(source, pattern, localDefault string) string {
	if s3client.IsS3URI(source) && pattern == localDefault {
		return defaultS3Pattern
	}
	return pattern
}

func newSource(ctx context.Context, side artifact.Side, root, source, pattern, workDir string, clients *lazyS3Client) (artifact.Source, error) {
	if source == "" {
		return artifact.NewLocalSource(side, root, pattern, relativeTo(root, workDir)), nil
	}
	if !s3client.IsS3URI(source) {
		return nil, fmt.Errorf("--%s-source must be an S3 URI (s3://bucket/prefix)", side)
	}

	client, err := clients.get(ctx)
	if err != nil {
		return nil, err
	}
	return artifact.NewS3Source(side, client, source, pattern)
}

// relativeTo expresses dir relative to root so discovery can skip it. A dir
// outside root is returned unchanged.
func relativeTo(root, dir string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return dir
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}
	return rel
}

// lazyS3Client loads the AWS configuration only when a side reads from S3.
type lazyS3Client struct {
	profile string
	region  string
	client  s3client.Client
}

func (l *lazyS3Client) get(ctx context.Context) (s3client.Client, error) {
	if l.client != nil {
		return l.client, nil
	}

	var configOpts []func(*config.LoadOptions) error
	if l.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(l.profile))
	}
	if l.region != "" {
		configOpts = append(configOpts, config.WithRegion(l.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	l.client = s3client.NewAWSClient(cfg)
	return l.client, nil
}
