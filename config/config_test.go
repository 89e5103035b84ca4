package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Movement.Stages) != 3 {
		t.Errorf("stages = %d, want 3", len(cfg.Movement.Stages))
	}
	if cfg.Derived.MassScale != cfg.World.MassMult*cfg.World.AtomMult {
		t.Errorf("MassScale = %v", cfg.Derived.MassScale)
	}
	wantGuardians := 0
	for _, row := range cfg.Guardians.Rows {
		wantGuardians += row.Count
	}
	if len(cfg.Derived.GuardianIDs) != wantGuardians {
		t.Errorf("GuardianIDs = %d, want %d", len(cfg.Derived.GuardianIDs), wantGuardians)
	}
	if cfg.Derived.GuardianIDs[0] != cfg.Guardians.FirstID {
		t.Errorf("first guardian id = %d, want %d", cfg.Derived.GuardianIDs[0], cfg.Guardians.FirstID)
	}
}

func TestStageSelection(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		energy float64
		want   string
	}{
		{0.05, "stage1"},
		{0.12, "stage1"},
		{0.15, "stage2"},
		{0.5, "stage3"},
	}
	for _, tt := range tests {
		_, p := cfg.Stage(tt.energy)
		if p.Name != tt.want {
			t.Errorf("Stage(%v) = %s, want %s", tt.energy, p.Name, tt.want)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "override.yaml", "world:\n  width: 1234\nsensing:\n  max_sensed: 7\n"},
		{"toml", "override.toml", "[world]\nwidth = 1234.0\n\n[sensing]\nmax_sensed = 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.World.Width != 1234 {
				t.Errorf("width = %v, want 1234", cfg.World.Width)
			}
			if cfg.Sensing.MaxSensed != 7 {
				t.Errorf("max_sensed = %d, want 7", cfg.Sensing.MaxSensed)
			}
			// Untouched fields keep their defaults.
			if cfg.World.Height != 7000 {
				t.Errorf("height = %v, want default 7000", cfg.World.Height)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero width", "world:\n  width: 0\n", "world size"},
		{"zero dt", "world:\n  dt: 0\n", "dt must be positive"},
		{"negative dt", "world:\n  dt: -0.01\n", "dt must be positive"},
		{"bad thresholds", "movement:\n  stage_energy: [0.1]\n", "stage_energy"},
		{"bad boost", "boost:\n  rise_fraction: 1.0\n", "boost"},
		{"missing file", "", "reading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Food.Count = 42
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Food.Count != 42 {
		t.Errorf("food count = %d, want 42", back.Food.Count)
	}
}
