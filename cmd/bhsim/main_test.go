package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/bhsim/internal/config"
	"github.com/san-kum/bhsim/internal/dynamo"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return resolveConfig(cmd.Flags())
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != *config.DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := []byte("particles: 300\ntheta: 0.9\nsteps: 42\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := parse(t, "--preset", "rings", "--config", path, "--theta", "0.3", "-n", "50", "--width", "400", "--no-validate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"generator from preset", cfg.Generator, "rings"},
		{"dt from preset", cfg.Dt, 0.0001},
		{"steps from file", cfg.Steps, 42},
		{"particles from flag", cfg.Particles, 50},
		{"theta from flag", cfg.Theta, 0.3},
		{"width from flag", cfg.Bounds.W, 400.0},
		{"height from preset", cfg.Bounds.H, 600.0},
		{"validation off", cfg.ValidateState, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestResolveConfig_UnchangedFlagsKeepPreset(t *testing.T) {
	cfg, err := parse(t, "--preset", "twobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.G != 1 || cfg.Theta != 0 || cfg.Damping != 0 {
		t.Errorf("flag defaults overrode the preset: %+v", cfg)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	if _, err := parse(t, "--preset", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
	if _, err := parse(t, "--dt=-1"); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
