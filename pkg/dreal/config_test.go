package dreal

import (
	"errors"
	"testing"
)

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg, err := NewConfig(WithPrecision(0.01), WithBrancher(BrancherPreferredFirst), WithMctsIterations(50))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Precision != 0.01 || cfg.Brancher != BrancherPreferredFirst || cfg.MctsIterations != 50 {
		t.Fatalf("expected options to apply, got %+v", cfg)
	}
}

func TestNewConfigRejectsNonPositivePrecision(t *testing.T) {
	_, err := NewConfig(WithPrecision(0))
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestNewConfigRejectsZeroMctsIterations(t *testing.T) {
	_, err := NewConfig(WithMctsIterations(0))
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestNewConfigRejectsNegativePreferredPrecision(t *testing.T) {
	_, err := NewConfig(WithPreferredPrecision(-1))
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected DefaultConfig to be valid, got %v", err)
	}
}

func TestWithPreferredVariablesReplacesSet(t *testing.T) {
	cfg, err := NewConfig(WithPreferredVariables("x", "y"))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if !cfg.PreferredVariables["x"] || !cfg.PreferredVariables["y"] || len(cfg.PreferredVariables) != 2 {
		t.Fatalf("expected exactly {x,y} preferred, got %v", cfg.PreferredVariables)
	}
}
