package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.yaml")
	data := []byte("generator:\n  out_dir: ./gen\n  languages: [c]\n  crc_enabled: true\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	LoadConfig(path)
	if AppConfig.Generator.OutDir != "./gen" {
		t.Fatalf("unexpected out_dir: %s", AppConfig.Generator.OutDir)
	}
	if !AppConfig.Generator.CRCEnabled {
		t.Fatalf("expected crc_enabled true")
	}
}

func TestLoadConfigPanicsOnMissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected LoadConfig to panic for a missing file")
		}
	}()
	LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
}
