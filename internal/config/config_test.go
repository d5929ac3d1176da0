package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Schedules.Cosine.MaxLR != 3e-4 {
		t.Errorf("Expected cosine max_lr 3e-4, got %g", cfg.Schedules.Cosine.MaxLR)
	}

	if cfg.Schedules.Cosine.WarmupIters != 1000 {
		t.Errorf("Expected cosine warmup_iters 1000, got %d", cfg.Schedules.Cosine.WarmupIters)
	}

	if cfg.Experiment.MaxSteps <= 0 {
		t.Error("Default max_steps not set")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()

	// Test invalid batch size
	cfg.Model.BatchSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid batch size")
	}
	cfg.Model.BatchSize = 8

	// Test invalid step count
	cfg.Experiment.MaxSteps = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid max_steps")
	}
	cfg.Experiment.MaxSteps = 200

	// Schedule hyperparameters are validated through construction
	cfg.Schedules.Cosine.WarmupIters = 200000
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for warmup_iters beyond max_iters")
	}
	cfg.Schedules.Cosine.WarmupIters = 1000

	// Unknown schedule names are rejected
	cfg.Experiment.Schedules = []string{"plateau"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown schedule name")
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()

	for _, name := range ScheduleNames() {
		s, err := cfg.Schedules.Build(name)
		if err != nil {
			t.Errorf("Build(%q) returned error: %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("Build(%q) returned schedule named %q", name, s.Name())
		}
	}

	if _, err := cfg.Schedules.Build("unknown"); err == nil {
		t.Error("Expected error for unknown schedule")
	}
}

func TestBuildAll(t *testing.T) {
	cfg := DefaultConfig()

	all, err := cfg.Schedules.BuildAll(nil)
	if err != nil {
		t.Fatalf("BuildAll(nil) returned error: %v", err)
	}
	if len(all) != len(ScheduleNames()) {
		t.Errorf("Expected %d schedules, got %d", len(ScheduleNames()), len(all))
	}

	subset, err := cfg.Schedules.BuildAll([]string{"cosine", "linear"})
	if err != nil {
		t.Fatalf("BuildAll(subset) returned error: %v", err)
	}
	if len(subset) != 2 {
		t.Errorf("Expected 2 schedules, got %d", len(subset))
	}
}

func TestLoadSave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Experiment.MaxSteps = 50
	cfg.Schedules.Cosine.MaxLR = 6e-4

	path := filepath.Join(t.TempDir(), "config.json")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if loaded.Experiment.MaxSteps != 50 {
		t.Errorf("Expected max_steps 50, got %d", loaded.Experiment.MaxSteps)
	}
	if loaded.Schedules.Cosine.MaxLR != 6e-4 {
		t.Errorf("Expected cosine max_lr 6e-4, got %g", loaded.Schedules.Cosine.MaxLR)
	}
	// Untouched sections keep their defaults.
	if loaded.Schedules.Step.Gamma != 0.1 {
		t.Errorf("Expected step gamma 0.1, got %g", loaded.Schedules.Step.Gamma)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
