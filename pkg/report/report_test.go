package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/artifact"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/comparator"
	"github.com/yuya-takeyama/strict-jar-diff/pkg/treediff"
)

var (
	leftRef   = artifact.Ref{Side: artifact.Left, Path: "target/app-0.4.9.jar"}
	rightRef  = artifact.Ref{Side: artifact.Right, Path: "build/libs/app-0.1.0-SNAPSHOT.jar"}
	divergent = &comparator.Result{
		Path:  "App.class",
		PathA: "/w/maven-app-0.4.9.jar/App.class",
		PathB: "/w/gradle-app-0.1.0-SNAPSHOT.jar/App.class",
		Diff:  []string{"1c1", "< 0: aload_0", "---", "> 0: aload_1"},
	}
)

func emitPair(r Reporter) {
	r.BeginPair(leftRef, rightRef)
	r.Entry(treediff.Entry{Kind: treediff.KindCommon, Path: "META-INF/MANIFEST.MF"})
	r.Entry(treediff.Entry{Kind: treediff.KindAdded, Path: "only-maven.txt"})
	r.Entry(treediff.Entry{Kind: treediff.KindRemoved, Path: "only-gradle.txt"})
	r.Divergent(divergent)
	r.EndPair()
}

func TestStreamReporter(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{
			name:    "quiet diff body",
			verbose: false,
			want: separator + "\n" +
				"target/app-0.4.9.jar vs build/libs/app-0.1.0-SNAPSHOT.jar\n" +
				separator + "\n" +
				"+only-maven.txt\n" +
				"-only-gradle.txt\n" +
				"* /w/maven-app-0.4.9.jar/App.class X /w/gradle-app-0.1.0-SNAPSHOT.jar/App.class\n" +
				"\n\n",
		},
		{
			name:    "verbose diff body",
			verbose: true,
			want: separator + "\n" +
				"target/app-0.4.9.jar vs build/libs/app-0.1.0-SNAPSHOT.jar\n" +
				separator + "\n" +
				"+only-maven.txt\n" +
				"-only-gradle.txt\n" +
				"* /w/maven-app-0.4.9.jar/App.class X /w/gradle-app-0.1.0-SNAPSHOT.jar/App.class\n" +
				"1c1\n< 0: aload_0\n---\n> 0: aload_1\n" +
				"\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			r := &StreamReporter{Out: &out, Err: &errOut, Verbose: tt.verbose}
			emitPair(r)

			assert.Equal(t, tt.want, out.String())
			assert.Empty(t, errOut.String())
		})
	}
}

func TestStreamReporterDiagnostics(t *testing.T) {
	var out, errOut bytes.Buffer
	r := &StreamReporter{
		Out:    &out,
		Err:    &errOut,
		Labels: map[artifact.Side]string{artifact.Left: "maven", artifact.Right: "gradle"},
	}

	r.Unmatched(artifact.Right, []artifact.Ref{rightRef})
	r.Unmatched(artifact.Left, []artifact.Ref{leftRef})
	r.Unmatched(artifact.Left, nil)
	r.PairFailed(leftRef, rightRef, errors.New("one of the artifacts is empty"))

	assert.Empty(t, out.String())
	assert.Equal(t,
		"MISSING MAVEN ARTIFACTS: [build/libs/app-0.1.0-SNAPSHOT.jar]\n"+
			"MISSING GRADLE ARTIFACTS: [target/app-0.4.9.jar]\n"+
			"FAILED target/app-0.4.9.jar vs build/libs/app-0.1.0-SNAPSHOT.jar: one of the artifacts is empty\n",
		errOut.String())
}

func TestStreamReporterDefaultLabels(t *testing.T) {
	var errOut bytes.Buffer
	r := &StreamReporter{Out: &bytes.Buffer{}, Err: &errOut}
	r.Unmatched(artifact.Right, []artifact.Ref{rightRef})
	assert.Equal(t, "MISSING LEFT ARTIFACTS: [build/libs/app-0.1.0-SNAPSHOT.jar]\n", errOut.String())
}

func TestCollector(t *testing.T) {
	c := NewCollector(false)
	emitPair(c)
	c.BeginPair(leftRef, rightRef)
	c.PairFailed(leftRef, rightRef, errors.New("boom"))
	c.EndPair()
	c.Unmatched(artifact.Right, []artifact.Ref{rightRef})

	got := c.Result()
	require.Len(t, got.Pairs, 2)
	assert.Equal(t, []string{"only-maven.txt"}, got.Pairs[0].Added)
	assert.Equal(t, []string{"only-gradle.txt"}, got.Pairs[0].Removed)
	assert.Equal(t, []DivergentFile{{Path: "App.class", Left: divergent.PathA, Right: divergent.PathB}}, got.Pairs[0].Divergent)
	assert.Equal(t, "boom", got.Pairs[1].Error)
	assert.Equal(t, Summary{Pairs: 2, Added: 1, Removed: 1, Divergent: 1, Failed: 1, UnmatchedRight: 1}, got.Summary)
	assert.Equal(t, []string{"build/libs/app-0.1.0-SNAPSHOT.jar"}, got.Unmatched.Right)
	assert.Empty(t, got.Unmatched.Left)
}

func TestCollectorFailureWithoutBegin(t *testing.T) {
	c := NewCollector(true)
	c.PairFailed(leftRef, rightRef, errors.New("boom"))

	got := c.Result()
	require.Len(t, got.Pairs, 1)
	assert.Equal(t, "boom", got.Pairs[0].Error)
	assert.Equal(t, 1, got.Summary.Failed)
}

func TestCollectorWriteFile(t *testing.T) {
	c := NewCollector(true)
	emitPair(c)

	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, c.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Result
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Pairs, 1)
	assert.Equal(t, divergent.Diff, got.Pairs[0].Divergent[0].Diff)
}

func TestMulti(t *testing.T) {
	var out bytes.Buffer
	c := NewCollector(false)
	r := Multi(&StreamReporter{Out: &out, Err: &bytes.Buffer{}}, c)
	emitPair(r)

	assert.Contains(t, out.String(), "+only-maven.txt")
	assert.Equal(t, 1, c.Result().Summary.Added)
}
