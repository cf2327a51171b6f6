package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Store.Backend != nil || cfg.Chart.MyGrade != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[store]
backend = "bolt"

[stats]
curve-window = 5

[chart]
my-grade = 14.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store.Backend == nil || *cfg.Store.Backend != "bolt" {
		t.Fatalf("unexpected backend: %+v", cfg.Store)
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 5 {
		t.Fatalf("unexpected curve window: %+v", cfg.Stats)
	}
	if cfg.Chart.MyGrade == nil || *cfg.Chart.MyGrade != 14.5 {
		t.Fatalf("unexpected my-grade: %+v", cfg.Chart)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackedn = \"bolt\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "gradeplan.env")
	if err := os.WriteFile(envPath, []byte(EnvStorePath+"="+filepath.Join(dir, "x.db")+"\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvStoreBackend, "bolt")
	t.Setenv(EnvStorePath, "")
	if err := os.Unsetenv(EnvStorePath); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	if err := LoadEnv(envPath); err != nil {
		t.Fatalf("load env: %v", err)
	}
	backend := "sqlite"
	cfg := FileConfig{Store: StoreConfig{Backend: &backend}}
	ApplyEnv(&cfg)
	if *cfg.Store.Backend != "bolt" {
		t.Fatalf("expected env backend to win, got %s", *cfg.Store.Backend)
	}
	if cfg.Store.Path == nil || *cfg.Store.Path != filepath.Join(dir, "x.db") {
		t.Fatalf("expected path from env file, got %v", cfg.Store.Path)
	}
	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	if got := DefaultStorePath("bolt"); got != filepath.Join("/data", "gradeplan", "gradeplan.bolt") {
		t.Fatalf("unexpected store path %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "gradeplan", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
}
