package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StringEncodingPrimary != "windows-1252" || cfg.StringEncodingFallback != "utf-8" {
		t.Fatalf("got %+v", cfg)
	}
	if !cfg.ReadOnly {
		t.Fatal("got ReadOnly = false, want true (spec.md §6 default)")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "data_dir: /srv/tables\nread_only: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/tables" || !cfg.ReadOnly {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadYAMLCanOptOutOfReadOnlyDefault(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("read_only: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReadOnly {
		t.Fatal("yaml read_only: false must survive since -read-only was not passed on the command line")
	}
}

func TestLoadEnvironmentOverridesYAML(t *testing.T) {
	clearEnv(t)
	os.Setenv("FICENGINE_DATA_DIR", "/from/env")
	t.Cleanup(func() { os.Unsetenv("FICENGINE_DATA_DIR") })

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("data_dir: /from/yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/from/env" {
		t.Fatalf("got %q, want env to win over yaml", cfg.DataDir)
	}
}

func TestLoadMissingYAMLFileIsNotAnError(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FICENGINE_DATA_DIR", "FICENGINE_READ_ONLY", "FICENGINE_STRING_ENCODING_PRIMARY",
		"FICENGINE_STRING_ENCODING_FALLBACK", "FICENGINE_SCHEMA_SOURCE",
		"FICENGINE_ACTIVITY_ADDRESS", "FICENGINE_ACTIVITY_ENABLED",
	} {
		os.Unsetenv(k)
	}
}
