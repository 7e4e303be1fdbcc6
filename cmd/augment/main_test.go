package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepan-anokhin/audio-processor/audiofile"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
	"github.com/stepan-anokhin/audio-processor/internal/testutil"
	"github.com/stepan-anokhin/audio-processor/task"
)

// runCLI executes the command tree with args against an isolated home
// directory and returns what was written to stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUGMENT_LOG_LEVEL", "")

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeWAV(t *testing.T, path string, s signal.Signal) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	w, err := audiofile.Create(path, s.Rate)
	require.NoError(t, err)
	_, err = w.Write(s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readWAV(t *testing.T, path string) signal.Signal {
	t.Helper()

	r, err := audiofile.Open(path)
	require.NoError(t, err)
	defer r.Close()

	block, err := r.Next()
	require.NoError(t, err)
	return block
}

func TestListCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "list", "--format", "json")
	require.NoError(t, err)

	var previews []transformPreview
	require.NoError(t, json.Unmarshal([]byte(stdout), &previews))
	require.Len(t, previews, len(task.DefaultRegistry().Names()))
	assert.Equal(t, "BandPass", previews[0].Name)
	assert.NotEmpty(t, previews[0].Description)

	stdout, _, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SpeedPerturbation")
	assert.Contains(t, stdout, "DESCRIPTION")

	_, _, err = runCLI(t, "list", "--format", "yaml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestParamsCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "params", "LowPass")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cutoff_freq")
	assert.Contains(t, stdout, "roll_off")

	stdout, _, err = runCLI(t, "params", "HighPass", "-f", "json")
	require.NoError(t, err)

	var params []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &params))
	require.NotEmpty(t, params)
	assert.Equal(t, "cutoff_freq", params[0]["name"])
	assert.Equal(t, "float", params[0]["kind"])

	stdout, _, err = runCLI(t, "params", "Inversion")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no parameters")

	_, _, err = runCLI(t, "params", "Reverb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BandPass, BandStop")
}

func TestFileCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "nested", "out.wav")

	probe := testutil.Noise(1, 8000, 1, 2000, 0.5)
	writeWAV(t, in, probe)

	stdout, _, err := runCLI(t, "file", in, out, "--type", "Inversion")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Done!")

	got := readWAV(t, out)
	require.Equal(t, probe.Samples(), got.Samples())
	assert.InDelta(t, -probe.Data[0][10], got.Data[0][10], 1e-3)

	_, _, err = runCLI(t, "file", in, out, "--type", "LowPass", "--param", "cutoff_freq=1000", "-p", "roll_off=12")
	require.NoError(t, err)
	assert.Equal(t, probe.Samples(), readWAV(t, out).Samples())
}

func TestFileCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeWAV(t, in, testutil.Noise(1, 8000, 1, 100, 0.5))

	specPath := filepath.Join(dir, "task.yaml")
	require.NoError(t, (&task.TaskSpec{Transforms: []task.TransformSpec{{Type: "Inversion"}}}).Save(specPath))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no transform", args: []string{"file", in, "out.wav"}, want: "must be specified"},
		{name: "ambiguous", args: []string{"file", in, "out.wav", "-t", "Inversion", "-c", specPath}, want: "ambiguous"},
		{name: "unknown type", args: []string{"file", in, "out.wav", "-t", "Reverb"}, want: "cannot initialize Reverb transform"},
		{name: "missing param", args: []string{"file", in, "out.wav", "-t", "LowPass"}, want: "cutoff_freq"},
		{name: "bad param", args: []string{"file", in, "out.wav", "-t", "LowPass", "-p", "cutoff_freq"}, want: "key=value"},
		{name: "unwritable output", args: []string{"file", in, "out.mp3", "-t", "Inversion"}, want: "unsupported"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFilesCommand(t *testing.T) {
	dir := t.TempDir()
	inRoot := filepath.Join(dir, "in")
	outRoot := filepath.Join(dir, "out")

	probe := testutil.Noise(2, 8000, 2, 1000, 0.5)
	writeWAV(t, filepath.Join(inRoot, "a.wav"), probe)
	writeWAV(t, filepath.Join(inRoot, "sub", "b.wav"), probe)

	specPath := filepath.Join(dir, "task.yaml")

	stdout, _, err := runCLI(t, "files",
		"--input-root", inRoot,
		"--input-pattern", "*.wav",
		"--output-root", outRoot,
		"--output-pattern", "{reldir}/{name}_inv.{ext}",
		"--type", "Inversion",
		"--save", specPath,
		"--dry-run",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 2 files")
	assert.Contains(t, stdout, filepath.Join(outRoot, "sub", "b_inv.wav"))
	assert.NoFileExists(t, filepath.Join(outRoot, "a_inv.wav"))

	saved, err := task.Load(specPath)
	require.NoError(t, err)
	assert.Equal(t, "*.wav", saved.InputPattern)
	assert.Equal(t, "Inversion", saved.Transforms[0].Type)

	stdout, _, err = runCLI(t, "files", "--config", specPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Done!")

	got := readWAV(t, filepath.Join(outRoot, "sub", "b_inv.wav"))
	assert.InDelta(t, -probe.Data[1][5], got.Data[1][5], 1e-3)
	assert.FileExists(t, filepath.Join(outRoot, "a_inv.wav"))
	assert.NoFileExists(t, filepath.Join(outRoot, lockFileName))
}

func TestFilesCommandToleratesFailures(t *testing.T) {
	dir := t.TempDir()
	inRoot := filepath.Join(dir, "in")
	writeWAV(t, filepath.Join(inRoot, "good.wav"), testutil.Noise(3, 8000, 1, 500, 0.5))
	require.NoError(t, os.WriteFile(filepath.Join(inRoot, "bad.wav"), []byte("not audio"), 0o644))

	settings := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(settings, []byte("[execution]\ntolerate_errors = 0\n"), 0o644))

	_, stderr, err := runCLI(t, "--settings", settings, "files",
		"--input-root", inRoot, "--input-pattern", "*.wav",
		"--output-root", filepath.Join(dir, "out"), "--type", "Inversion")

	var te *task.TaskExecutionError
	require.ErrorAs(t, err, &te)
	assert.Len(t, te.Failed, 1)
	assert.Contains(t, stderr, "subtask failed")

	_, _, err = runCLI(t, "files",
		"--input-root", inRoot, "--input-pattern", "*.wav",
		"--output-root", filepath.Join(dir, "out"), "--type", "Inversion")
	assert.NoError(t, err, "the default tolerance accepts one failure")
}

func TestFilesCommandRequiresPattern(t *testing.T) {
	_, _, err := runCLI(t, "files", "--type", "Inversion")
	assert.ErrorIs(t, err, task.ErrInvalidSpec)
}

func TestSettingsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "augment.toml")

	stdout, _, err := runCLI(t, "settings", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, _, err = runCLI(t, "settings", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	stdout, _, err = runCLI(t, "--settings", path, "--log-level", "debug", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[execution]")
	assert.Contains(t, stdout, "level = 'debug'")

	_, _, err = runCLI(t, "--log-level", "chatty", "settings", "show")
	assert.ErrorContains(t, err, "log.level")
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"cutoff_freq=4000", "shift=-0.5", "name=hello", "flag=true", "empty="})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"cutoff_freq": 4000,
		"shift":       -0.5,
		"name":        "hello",
		"flag":        true,
		"empty":       nil,
	}, params)

	_, err = parseParams([]string{"=3"})
	assert.Error(t, err)

	_, err = parseParams([]string{"list=[1, 2]"})
	assert.ErrorContains(t, err, "scalar")
}

func TestProbeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.wav")
	writeWAV(t, path, testutil.Sinusoid(8000, 0.5, 440))

	stdout, _, err := runCLI(t, "probe", path, "--levels", "-f", "json")
	require.NoError(t, err)

	var report probeReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 8000, report.Rate)
	assert.Equal(t, 1, report.Channels)
	assert.Equal(t, 4000, report.Samples)
	require.Len(t, report.Levels, 1)
	assert.InDelta(t, 0, report.Levels[0].PeakDB, 0.1)
	assert.InDelta(t, -3.01, report.Levels[0].RMSDB, 0.1)

	stdout, _, err = runCLI(t, "probe", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "8000")
	assert.NotContains(t, stdout, "Peak dBFS")
}
