package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/stepan-anokhin/audio-processor/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "")

	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}

	want := config.Default()
	if *cfg != want {
		t.Fatalf("config = %+v, want %+v", *cfg, want)
	}
	if cfg.Execution.BlockDuration != 60 || cfg.Execution.TolerateErrors != 10 {
		t.Fatalf("unexpected execution defaults: %+v", cfg.Execution)
	}
}

func TestLoadFromHomeDirectory(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	path := filepath.Join(home, ".config", "augment", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q (exists %v), want %q", resolved, exists, path)
	}
	if *cfg != config.Default() {
		t.Fatalf("sample config differs from defaults: %+v", *cfg)
	}
}

func TestLoadParsesSections(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "")
	dir := t.TempDir()

	path := filepath.Join(dir, "augment.toml")
	content := `
[log]
level = "DEBUG"
format = "json"
file = "logs/augment.log"

[execution]
block_duration = 2.5
tolerate_errors = 0
workers = 3
strict_uniform = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}

	if cfg.Log.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Log.Format)
	}
	if !filepath.IsAbs(cfg.Log.File) || !strings.HasSuffix(cfg.Log.File, filepath.Join("logs", "augment.log")) {
		t.Fatalf("log file not expanded: %q", cfg.Log.File)
	}

	want := config.Execution{BlockDuration: 2.5, TolerateErrors: 0, Workers: 3, StrictUniform: true}
	if cfg.Execution != want {
		t.Fatalf("execution = %+v, want %+v", cfg.Execution, want)
	}
}

func TestLoadEnvOverridesLevel(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "warn")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown key", content: "[execution]\nthreads = 2\n", wantErr: "parse config"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n", wantErr: "log.level"},
		{name: "bad format", content: "[log]\nformat = \"xml\"\n", wantErr: "log.format"},
		{name: "zero block", content: "[execution]\nblock_duration = 0.0\n", wantErr: "block_duration"},
		{name: "negative tolerance", content: "[execution]\ntolerate_errors = -1\n", wantErr: "tolerate_errors"},
		{name: "negative workers", content: "[execution]\nworkers = -2\n", wantErr: "workers"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "augment.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Execution.Workers = 7

	text, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got config.Config
	if err := toml.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}
