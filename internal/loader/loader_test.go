package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/xtxerr/fioreport/config"
	"github.com/xtxerr/fioreport/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fioreport.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Workers != config.DefaultRunWorkers {
		t.Errorf("expected %d workers, got %d", config.DefaultRunWorkers, cfg.Workers)
	}
	if cfg.Export.Compression != config.DefaultCompression {
		t.Errorf("expected %s compression, got %s", config.DefaultCompression, cfg.Export.Compression)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Log.Level)
	}

	levels, err := cfg.ParsedStackLevels()
	if err != nil {
		t.Fatalf("ParsedStackLevels: %v", err)
	}
	if len(levels) != len(types.StackLevels) {
		t.Errorf("expected all %d levels, got %d", len(types.StackLevels), len(levels))
	}

	stats, err := cfg.ParsedStats()
	if err != nil {
		t.Fatalf("ParsedStats: %v", err)
	}
	if len(stats) != len(types.Statistics) {
		t.Errorf("expected all %d statistics, got %d", len(types.Statistics), len(stats))
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
before_dir: /data/snapshots/2024-01-02_15-04-05
after_dir: /data/snapshots/2024-03-04_09-30-00
stack_levels:
  - vm_disk
stats:
  - latency
  - bandwidth
workers: 4
export:
  dir: /tmp/export
  compression: snappy
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BeforeDir != "/data/snapshots/2024-01-02_15-04-05" {
		t.Errorf("unexpected before_dir %s", cfg.BeforeDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Export.Compression != "snappy" {
		t.Errorf("expected snappy, got %s", cfg.Export.Compression)
	}

	levels, err := cfg.ParsedStackLevels()
	if err != nil {
		t.Fatalf("ParsedStackLevels: %v", err)
	}
	if len(levels) != 1 || levels[0] != types.LevelVMDisk {
		t.Errorf("unexpected levels %v", levels)
	}

	stats, err := cfg.ParsedStats()
	if err != nil {
		t.Fatalf("ParsedStats: %v", err)
	}
	if len(stats) != 2 || stats[0] != types.StatLatency || stats[1] != types.StatBandwidth {
		t.Errorf("unexpected stats %v", stats)
	}

	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel())
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SNAPDIR", "/mnt/bench")
	path := writeConfig(t, `
before_dir: ${SNAPDIR}/before
after_dir: ${SNAPDIR}/after
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BeforeDir != "/mnt/bench/before" {
		t.Errorf("env not expanded: %s", cfg.BeforeDir)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.BeforeDir = "/a"
		cfg.AfterDir = "/b"
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing before_dir", func(c *Config) { c.BeforeDir = "" }},
		{"missing after_dir", func(c *Config) { c.AfterDir = "" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown stack level", func(c *Config) { c.StackLevels = []string{"nvme_disk"} }},
		{"unknown statistic", func(c *Config) { c.Stats = []string{"jitter"} }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
