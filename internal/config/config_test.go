package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Duration != nil || cfg.History.Window != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[practice]
duration = 30
source = "words"
wordlist = "/tmp/words.txt"
words = 40
caps = 0.25
seed = 7
no-save = true

[history]
window = 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.Practice
	if p.Duration == nil || *p.Duration != 30 {
		t.Fatalf("unexpected duration %v", p.Duration)
	}
	if p.Source == nil || *p.Source != "words" {
		t.Fatalf("unexpected source %v", p.Source)
	}
	if p.Words == nil || *p.Words != 40 || p.CapsPct == nil || *p.CapsPct != 0.25 {
		t.Fatalf("unexpected word options %+v", p)
	}
	if p.Seed == nil || *p.Seed != 7 || p.NoSave == nil || !*p.NoSave {
		t.Fatalf("unexpected seed/no-save %+v", p)
	}
	if p.PunctPct != nil || p.PassagesFile != nil {
		t.Fatalf("unset keys must stay nil")
	}
	if cfg.History.Window == nil || *cfg.History.Window != 10 {
		t.Fatalf("unexpected window %v", cfg.History.Window)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typesprint", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "typesprint", "typesprint.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultPassagesPath(); got != filepath.Join("/cfg", "typesprint", "passages.txt") {
		t.Fatalf("unexpected passages path %q", got)
	}
}
