package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gris.yaml")
	data := "tick: 0.1\nworkers: 8\nproject: show.gris\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tick != 0.1 || cfg.Workers != 8 || cfg.ProjectPath != "show.gris" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.DPI != Default().DPI {
		t.Errorf("unset field lost its default: DPI = %d", cfg.DPI)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tick: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestClampTick(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.05, 0.05},
		{0, MinTick},
		{-1, MinTick},
		{2, MaxTick},
		{MinTick, MinTick},
		{MaxTick, MaxTick},
	}
	for _, c := range cases {
		if got := ClampTick(c.in); got != c.want {
			t.Errorf("ClampTick(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
