package config

import "testing"

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration should validate: %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AUTOSTAT_HORIZON", "12")
	t.Setenv("AUTOSTAT_ALPHA", "0.10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Horizon != 12 {
		t.Errorf("expected horizon 12, got %d", cfg.Horizon)
	}
	if cfg.Alpha != 0.10 {
		t.Errorf("expected alpha 0.10, got %.2f", cfg.Alpha)
	}
}

func TestLoad_IndependenceThresholdOverrides(t *testing.T) {
	t.Setenv("AUTOSTAT_DW_LOWER", "1.2")
	t.Setenv("AUTOSTAT_DW_UPPER", "2.8")
	t.Setenv("AUTOSTAT_MAX_AUTOCORR", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DWLower != 1.2 || cfg.DWUpper != 2.8 {
		t.Errorf("expected durbin-watson band [1.2, 2.8], got [%.1f, %.1f]", cfg.DWLower, cfg.DWUpper)
	}
	if cfg.MaxAutocorr != 0.5 {
		t.Errorf("expected max autocorrelation 0.5, got %.2f", cfg.MaxAutocorr)
	}
}

func TestLoad_RejectsBadAlpha(t *testing.T) {
	t.Setenv("AUTOSTAT_ALPHA", "1.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation to reject alpha outside (0,1)")
	}
}

func TestValidate_InvertedDWBand(t *testing.T) {
	cfg := Default()
	cfg.DWLower, cfg.DWUpper = 2.5, 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation to reject an inverted durbin-watson band")
	}
}
