package main

import (
	"os"
	"path/filepath"
	"testing"

	"erpc/internal/testutil"
)

const sampleIDL = `
program Blink;

interface Led {
	oneway void toggle();
	int32 status();
}
`

func writeInput(t *testing.T) string {
	t.Helper()
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	t.Cleanup(func() { sb.Cleanup() })
	if err := sb.WriteFile("blink.erpc", []byte(sampleIDL), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return sb.Path("blink.erpc")
}

func TestGenerateWritesOutputFile(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	code := generate(input, outDir, []string{"c"}, nil, "basic", "")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "Blink.h"))
	if err != nil {
		t.Fatalf("reading generated output: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty generated output")
	}
}

func TestGenerateRejectsUnknownCodec(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	code := generate(input, outDir, []string{"c"}, nil, "fancy", "")
	if code != exitSemantic {
		t.Fatalf("expected exit %d for an unsupported codec, got %d", exitSemantic, code)
	}
}

func TestGenerateRejectsUnknownLanguage(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	code := generate(input, outDir, []string{"cobol"}, nil, "basic", "")
	if code != exitSemantic {
		t.Fatalf("expected exit %d for an unsupported language, got %d", exitSemantic, code)
	}
}

func TestGenerateReturnsIOErrorForMissingInput(t *testing.T) {
	outDir := t.TempDir()
	code := generate(filepath.Join(outDir, "missing.erpc"), outDir, []string{"c"}, nil, "basic", "")
	if code != exitIO {
		t.Fatalf("expected exit %d for a missing input file, got %d", exitIO, code)
	}
}

func TestGenerateUsesConfigDefaults(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "erpcgen.yaml")
	cfgBody := "generator:\n  out_dir: " + outDir + "\n  languages: [rust]\n  crc_enabled: true\n"
	if err := os.WriteFile(configPath, []byte(cfgBody), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	code := generate(input, ".", nil, nil, "basic", configPath)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Blink.rs")); err != nil {
		t.Fatalf("expected config-driven output file: %v", err)
	}
}
