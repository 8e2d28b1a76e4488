package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/executor"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/report"
)

func mapEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeJar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"verbose", "STRICT_JAR_DIFF_VERBOSE"},
		{"left-version", "STRICT_JAR_DIFF_LEFT_VERSION"},
		{"result-json-file", "STRICT_JAR_DIFF_RESULT_JSON_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, envName(tt.flag))
		})
	}
}

func TestEnvironmentDefaults(t *testing.T) {
	cmd := newRootCmd(mapEnv(map[string]string{
		"STRICT_JAR_DIFF_LEFT_VERSION": "-1.0",
		"STRICT_JAR_DIFF_VERBOSE":      "true",
		"STRICT_JAR_DIFF_EXCLUDE":      "-tests.jar, -all.jar",
	}))
	flags := cmd.Flags()

	v, err := flags.GetString("left-version")
	require.NoError(t, err)
	assert.Equal(t, "-1.0", v)

	verbose, err := flags.GetBool("verbose")
	require.NoError(t, err)
	assert.True(t, verbose)

	excludes, err := flags.GetStringSlice("exclude")
	require.NoError(t, err)
	assert.Equal(t, []string{"-tests.jar", "-all.jar"}, excludes)

	right, err := flags.GetString("right-version")
	require.NoError(t, err)
	assert.Equal(t, "-0.1.0-SNAPSHOT", right)
}

func TestCommandLineOverridesEnvironment(t *testing.T) {
	cmd := newRootCmd(mapEnv(map[string]string{
		"STRICT_JAR_DIFF_EXCLUDE": "-tests.jar",
	}))
	require.NoError(t, cmd.Flags().Parse([]string{"--exclude", "-shaded.jar"}))

	excludes, err := cmd.Flags().GetStringSlice("exclude")
	require.NoError(t, err)
	assert.Equal(t, []string{"-shaded.jar"}, excludes)
}

func TestInvalidEnvironmentValue(t *testing.T) {
	cmd := newRootCmd(mapEnv(map[string]string{
		"STRICT_JAR_DIFF_VERBOSE": "sometimes",
	}))
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRICT_JAR_DIFF_VERBOSE")
}

func TestRejectsPositionalArguments(t *testing.T) {
	cmd := newRootCmd(mapEnv(nil))
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestSourcePattern(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		pattern string
		want    string
	}{
		{"local keeps default", "", defaultLeftPattern, defaultLeftPattern},
		{"s3 replaces default", "s3://bucket/release", defaultLeftPattern, defaultS3Pattern},
		{"s3 keeps explicit", "s3://bucket/release", "libs/*.jar", "libs/*.jar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sourcePattern(tt.source, tt.pattern, defaultLeftPattern))
		})
	}
}

func TestComparatorOptions(t *testing.T) {
	exec := executor.NewOSExecutor()
	defaults := comparator.DefaultOptions(exec)

	opts := comparatorOptions(exec, []string{"javap", "-c", "-p"}, []string{"diff", "-u"})

	assert.Equal(t, []string{"diff", "-u"}, opts.DiffCommand)
	assert.Equal(t, defaults.ChecksumShortcut, opts.ChecksumShortcut)
	require.Len(t, opts.Transforms, len(defaults.Transforms))

	d, ok := opts.Transforms[".class"].(*comparator.Disassembler)
	require.True(t, ok)
	assert.Equal(t, []string{"javap", "-c", "-p"}, d.Command)
	assert.Equal(t, ".bytecode", d.Extension)
	assert.Equal(t, []string{"javap", "-c"}, comparator.DefaultDisassembleCommand)
}

func TestRunRefusesWorkDirHoldingRoot(t *testing.T) {
	root := t.TempDir()
	jar := filepath.Join(root, "target", "core-0.4.9.jar")
	writeJar(t, jar, map[string]string{"a": "1"})

	cmd := newRootCmd(mapEnv(nil))
	cmd.SetArgs([]string{"--root", root, "--work-dir", root, "--quiet"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to use")
	assert.FileExists(t, jar)
}

func TestRelativeTo(t *testing.T) {
	root := t.TempDir()

	assert.Equal(t, ".jardif", relativeTo(root, filepath.Join(root, ".jardif")))
	assert.Equal(t, filepath.Join("out", "scratch"), relativeTo(root, filepath.Join(root, "out", "scratch")))

	outside := filepath.Join(filepath.Dir(root), "elsewhere")
	assert.Equal(t, outside, relativeTo(root, outside))
}

func TestRejectsNonS3Source(t *testing.T) {
	root := t.TempDir()
	cmd := newRootCmd(mapEnv(nil))
	cmd.SetArgs([]string{"--root", root, "--left-source", "/tmp/jars", "--quiet"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--left-source must be an S3 URI")
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeJar(t, filepath.Join(root, "core", "target", "core-0.4.9.jar"), map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n",
		"only-maven.txt":       "x",
	})
	writeJar(t, filepath.Join(root, "core", "build", "libs", "core-0.1.0-SNAPSHOT.jar"), map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n",
	})
	resultFile := filepath.Join(root, "result.json")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(mapEnv(nil))
	cmd.SetArgs([]string{
		"--root", root,
		"--work-dir", filepath.Join(root, ".jardif"),
		"--result-json-file", resultFile,
		"--quiet",
	})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	require.NoError(t, cmd.Execute())

	want := strings.Join([]string{
		"===============================================",
		filepath.Join(root, "core", "target", "core-0.4.9.jar") + " vs " +
			filepath.Join(root, "core", "build", "libs", "core-0.1.0-SNAPSHOT.jar"),
		"===============================================",
		"+only-maven.txt",
		"",
		"",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout.String())
	assert.Empty(t, stderr.String())

	data, err := os.ReadFile(resultFile)
	require.NoError(t, err)
	var result report.Result
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 1, result.Summary.Pairs)
	assert.Equal(t, 1, result.Summary.Added)
	assert.Zero(t, result.Summary.Divergent)
}

func TestRunFailsOnEmptyArtifact(t *testing.T) {
	root := t.TempDir()
	writeJar(t, filepath.Join(root, "target", "api-0.4.9.jar"), map[string]string{})
	writeJar(t, filepath.Join(root, "build", "api-0.1.0-SNAPSHOT.jar"), map[string]string{"a": "1"})

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(mapEnv(nil))
	cmd.SetArgs([]string{"--root", root, "--work-dir", filepath.Join(root, ".jardif"), "--quiet"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, "1 artifact pairs failed", err.Error())
	assert.Contains(t, stderr.String(), "FAILED ")
	assert.Contains(t, stderr.String(), "one of the artifacts is empty")
}
