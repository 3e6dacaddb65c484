package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Names) != len(DefaultNames) {
		t.Errorf("expected %d default names, got %d", len(DefaultNames), len(cfg.Names))
	}
	if cfg.ScreenLength != 1024 {
		t.Errorf("expected screen length 1024, got %d", cfg.ScreenLength)
	}
	if cfg.LengthPolicy != LengthWarn {
		t.Errorf("expected warn policy, got %s", cfg.LengthPolicy)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/export.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if !cfg.NameSet()["Scarfman"] {
		t.Error("expected default names for missing file")
	}
}

func TestLoad_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	in := Config{
		Names:        []string{"Breakdown"},
		ScreenLength: 1024,
		LengthPolicy: LengthStrict,
		Logos: []LogoConfig{
			{Name: "Breakdown", Symbol: "BREAKDOWN_LOGO", FirstRow: 2, Rows: 6},
		},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("failed to encode config: %v", err)
	}
	path := filepath.Join(tmpDir, "export.json")
	writeTestFile(t, path, data)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Names) != 1 || cfg.Names[0] != "Breakdown" {
		t.Errorf("unexpected names: %v", cfg.Names)
	}
	if cfg.LengthPolicy != LengthStrict {
		t.Errorf("expected strict policy, got %s", cfg.LengthPolicy)
	}
	if len(cfg.Logos) != 1 || cfg.Logos[0].Rows != 6 {
		t.Errorf("unexpected logos: %+v", cfg.Logos)
	}
}

func TestLoad_JSONKeepsUnsetDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "export.json")
	writeTestFile(t, path, []byte(`{"names": ["Scarfman"]}`))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScreenLength != DefaultScreenLength || cfg.LengthPolicy != LengthWarn {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "export.yaml")
	writeTestFile(t, path, []byte(`
names:
  - Sea Dragon
  - Scarfman
length_policy: ignore
ignore_mode_flag: true
logos:
  - name: Sea Dragon
    index: 1
    symbol: SEA_DRAGON_LOGO
    first_row: 4
    rows: 8
`))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Names) != 2 || !cfg.NameSet()["Sea Dragon"] {
		t.Errorf("unexpected names: %v", cfg.Names)
	}
	if cfg.LengthPolicy != LengthIgnore || !cfg.IgnoreModeFlag {
		t.Errorf("unexpected settings: %+v", cfg)
	}
	want := LogoConfig{Name: "Sea Dragon", Index: 1, Symbol: "SEA_DRAGON_LOGO", FirstRow: 4, Rows: 8}
	if len(cfg.Logos) != 1 || cfg.Logos[0] != want {
		t.Errorf("unexpected logos: %+v", cfg.Logos)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "export.json")
	writeTestFile(t, path, []byte("not json"))

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad policy", func(c *Config) { c.LengthPolicy = "sometimes" }, "unknown length policy"},
		{"zero length", func(c *Config) { c.ScreenLength = 0 }, "screen_length"},
		{"bad symbol", func(c *Config) {
			c.Logos = []LogoConfig{{Name: "A", Symbol: "9LIVES", Rows: 1}}
		}, "invalid symbol"},
		{"duplicate symbol", func(c *Config) {
			c.Logos = []LogoConfig{{Name: "A", Symbol: "X", Rows: 1}, {Name: "B", Symbol: "X", Rows: 1}}
		}, "duplicate symbol"},
		{"no rows", func(c *Config) {
			c.Logos = []LogoConfig{{Name: "A", Symbol: "X"}}
		}, "invalid row range"},
		{"missing name", func(c *Config) {
			c.Logos = []LogoConfig{{Symbol: "X", Rows: 1}}
		}, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseLengthPolicy(t *testing.T) {
	p, err := ParseLengthPolicy(" Strict ")
	if err != nil || p != LengthStrict {
		t.Errorf("got %q, %v", p, err)
	}
	if _, err := ParseLengthPolicy("lax"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func writeTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
