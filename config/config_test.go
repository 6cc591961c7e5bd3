package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults for a missing file, got %+v", cfg)
	}
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults for an empty path, got %+v", cfg)
	}
}

func TestLoadOverridesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".snekc.yaml")
	contents := "assembler: \"nasm -f macho64\"\nverbose: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Assembler != "nasm -f macho64" {
		t.Errorf("expected assembler override, got %q", cfg.Assembler)
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose override to be true")
	}
	if cfg.Linker != Default().Linker {
		t.Errorf("expected unset fields to retain their default, got %q", cfg.Linker)
	}
}
