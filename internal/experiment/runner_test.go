package experiment

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/thyrook/annealer/internal/schedule"
)

func testConfig() Config {
	return Config{
		MaxSteps:             5,
		ConvergenceThreshold: 0.001,
		InputSize:            4,
		HiddenSize:           8,
		OutputSize:           1,
		BatchSize:            2,
	}
}

func TestGenerateSynthetic(t *testing.T) {
	data := GenerateSynthetic(42, 3, 2, 4, 1)

	if len(data.Inputs) != 3 || len(data.Targets) != 3 {
		t.Fatalf("Expected 3 batches, got %d inputs and %d targets", len(data.Inputs), len(data.Targets))
	}
	if len(data.Inputs[0]) != 2*4 {
		t.Errorf("Expected input batch length 8, got %d", len(data.Inputs[0]))
	}
	if len(data.Targets[0]) != 2*1 {
		t.Errorf("Expected target batch length 2, got %d", len(data.Targets[0]))
	}

	t.Run("Deterministic", func(t *testing.T) {
		other := GenerateSynthetic(42, 3, 2, 4, 1)
		for b := range data.Inputs {
			for i := range data.Inputs[b] {
				if data.Inputs[b][i] != other.Inputs[b][i] {
					t.Fatalf("batch %d element %d differs between same-seed datasets", b, i)
				}
			}
		}
	})

	t.Run("BatchCycles", func(t *testing.T) {
		in0, _ := data.Batch(0)
		in3, _ := data.Batch(3)
		for i := range in0 {
			if in0[i] != in3[i] {
				t.Fatal("Batch(3) should wrap around to batch 0")
			}
		}
	})
}

func TestConvergedAt(t *testing.T) {
	tests := []struct {
		name      string
		losses    []float64
		threshold float64
		want      int
	}{
		{"Empty", nil, 0.01, -1},
		{"NeverConverges", []float64{1.0, 0.5, 0.25}, 0.01, -1},
		{"ConvergesAtTwo", []float64{1.0, 0.5, 0.4999}, 0.01, 2},
		{"FlatConvergesImmediately", []float64{1.0, 1.0, 1.0}, 0.01, 1},
		{"ZeroPrevSkipped", []float64{0.0, 0.0, 1.0}, 0.01, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convergedAt(tt.losses, tt.threshold); got != tt.want {
				t.Errorf("convergedAt(%v, %g) = %d; want %d", tt.losses, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestNewRunnerValidation(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSteps = 0
	if _, err := NewRunner(cfg, nil); err == nil {
		t.Error("Expected error for zero max steps")
	}

	cfg = testConfig()
	cfg.ConvergenceThreshold = 0
	if _, err := NewRunner(cfg, nil); err == nil {
		t.Error("Expected error for zero threshold")
	}
}

func TestRun(t *testing.T) {
	runner, err := NewRunner(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	s, err := schedule.NewConstant(schedule.ConstantConfig{MaxLR: 0.01})
	if err != nil {
		t.Fatalf("NewConstant returned error: %v", err)
	}

	data := GenerateSynthetic(42, 3, 2, 4, 1)
	result, err := runner.Run(s, data)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Schedule != "constant" {
		t.Errorf("Expected schedule name constant, got %q", result.Schedule)
	}
	if len(result.Losses) != 5 || len(result.Rates) != 5 || len(result.StepMillis) != 5 {
		t.Errorf("Expected 5 entries per series, got %d/%d/%d",
			len(result.Losses), len(result.Rates), len(result.StepMillis))
	}
	for i, lr := range result.Rates {
		if lr != 0.01 {
			t.Errorf("Rate at step %d = %g; want 0.01", i, lr)
		}
	}
}

func TestRunAll(t *testing.T) {
	runner, err := NewRunner(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	constant, err := schedule.NewConstant(schedule.ConstantConfig{MaxLR: 0.01})
	if err != nil {
		t.Fatalf("NewConstant returned error: %v", err)
	}
	cosine, err := schedule.NewCosine(schedule.CosineConfig{MaxLR: 0.01, MinLR: 0.001, WarmupIters: 2, MaxIters: 5})
	if err != nil {
		t.Fatalf("NewCosine returned error: %v", err)
	}

	data := GenerateSynthetic(42, 3, 2, 4, 1)
	results := runner.RunAll([]schedule.Schedule{constant, cosine}, data)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if _, ok := results["constant"]; !ok {
		t.Error("Missing constant result")
	}
	if _, ok := results["cosine"]; !ok {
		t.Error("Missing cosine result")
	}
}

func TestResultsWriteFile(t *testing.T) {
	results := Results{
		"constant": {
			Schedule:      "constant",
			Losses:        []float64{1.0, 0.9},
			Rates:         []float64{0.01, 0.01},
			StepMillis:    []float64{0.5, 0.4},
			ConvergedStep: -1,
		},
	}

	path := filepath.Join(t.TempDir(), "results.json")
	if err := results.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read results file: %v", err)
	}

	var decoded Results
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Results file is not valid JSON: %v", err)
	}
	if decoded["constant"].ConvergedStep != -1 {
		t.Errorf("Expected converged_step -1, got %d", decoded["constant"].ConvergedStep)
	}
}
