package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel, root, pattern string
		want               string
	}{
		{"a/b/c.wav", "out", DefaultOutputPattern, "out/a/b/c_aug.wav"},
		{"c.wav", "out", DefaultOutputPattern, "out/c_aug.wav"},
		{"a/c.tar.wav", "out", "{name}.{ext}", "out/c.tar.wav"},
		{"a/c.wav", "out", "{relpath}", "out/a/c.wav"},
		{"a/c.wav", "out", "{reldir}/x/{name}.flac", "out/a/x/c.flac"},
		{"a/noext", "out", "{name}_{ext}", "out/noext_"},
		{"c.wav", "", "{name}.{ext}", "c.wav"},
	}

	for _, tc := range tests {
		got := ResolveOutput(tc.rel, tc.root, tc.pattern)
		assert.Equal(t, filepath.FromSlash(tc.want), got, "%s with %s", tc.rel, tc.pattern)
	}
}

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()

	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(rel), 0o644))
	}
}

func rels(files []inputFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.rel
	}
	return out
}

func TestInputFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root,
		"top.wav", "top.mp3",
		"a/one.wav", "a/b/two.wav", "a/b/notes.txt",
		"c/one.wav", "c/d/deep/three.wav",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.wav"), 0o755))

	tests := []struct {
		pattern string
		want    []string
	}{
		{"*.wav", []string{"a/b/two.wav", "a/one.wav", "c/d/deep/three.wav", "c/one.wav", "top.wav"}},
		{"one.wav", []string{"a/one.wav", "c/one.wav"}},
		{"b/*.wav", []string{"a/b/two.wav"}},
		{"c/**/*.wav", []string{"c/d/deep/three.wav", "c/one.wav"}},
		{"*.mp3", []string{"top.mp3"}},
		{"*.flac", []string{}},
	}

	for _, tc := range tests {
		files, err := inputFiles(root, tc.pattern)
		require.NoError(t, err)
		assert.Equal(t, tc.want, rels(files), tc.pattern)
	}
}

func TestInputFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := inputFiles(filepath.Join(t.TempDir(), "missing"), "*.wav")
	assert.Error(t, err)
}

func TestCollectStats(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "x.wav", "y/z.wav", "skip.txt")

	stats, err := CollectStats(&TaskSpec{InputRoot: root, InputPattern: "*.wav"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, int64(len("x.wav")+len("y/z.wav")), stats.TotalBytes)
}
