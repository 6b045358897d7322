package config

import (
	"os"
	"strconv"

	"autostat/internal/errors"
)

// Config holds every threshold the analysis stages consult. It is threaded
// into each constructor so concurrent runs can carry different settings;
// nothing reads thresholds from package-level state.
type Config struct {
	// Alpha is the significance level shared by all p-value gates.
	Alpha float64
	// LargeRowCutoff splits Small from Large datasets.
	LargeRowCutoff int
	// LinearityTolerance is the agreement fraction between Pearson and
	// Spearman correlation above which relationships count as linear.
	LinearityTolerance float64
	// PanelVarianceCutoff is the between/within variance ratio above which
	// panel group effects count as fixed.
	PanelVarianceCutoff float64
	// MinSampleSize is the smallest usable row count for the sampling
	// adequacy test.
	MinSampleSize int
	// DWLower and DWUpper bound the acceptable Durbin-Watson band around 2.
	DWLower float64
	DWUpper float64
	// MaxAutocorr is the lag-1 autocorrelation magnitude above which the
	// independence test fails for time-indexed data.
	MaxAutocorr float64
	// Horizon is the default number of forecast periods.
	Horizon int
	// MaxLag bounds lag order in Granger and stationarity regressions.
	MaxLag int
	// FitConcurrency bounds simultaneous candidate fits.
	FitConcurrency int64
	// Seed feeds the tree-ensemble samplers so repeated runs are identical.
	Seed int64
}

// Default returns the thresholds the analysis ships with.
func Default() Config {
	return Config{
		Alpha:               0.05,
		LargeRowCutoff:      5000,
		LinearityTolerance:  0.85,
		PanelVarianceCutoff: 2.0,
		MinSampleSize:       20,
		DWLower:             1.5,
		DWUpper:             2.5,
		MaxAutocorr:         0.3,
		Horizon:             30,
		MaxLag:              4,
		FitConcurrency:      4,
		Seed:                42,
	}
}

// Load reads configuration from environment variables over the defaults
// and validates it.
func Load() (Config, error) {
	cfg := Default()

	cfg.Alpha = getEnvFloatOrDefault("AUTOSTAT_ALPHA", cfg.Alpha)
	cfg.LargeRowCutoff = getEnvIntOrDefault("AUTOSTAT_LARGE_CUTOFF", cfg.LargeRowCutoff)
	cfg.LinearityTolerance = getEnvFloatOrDefault("AUTOSTAT_LINEARITY_TOL", cfg.LinearityTolerance)
	cfg.PanelVarianceCutoff = getEnvFloatOrDefault("AUTOSTAT_PANEL_CUTOFF", cfg.PanelVarianceCutoff)
	cfg.MinSampleSize = getEnvIntOrDefault("AUTOSTAT_MIN_SAMPLE", cfg.MinSampleSize)
	cfg.DWLower = getEnvFloatOrDefault("AUTOSTAT_DW_LOWER", cfg.DWLower)
	cfg.DWUpper = getEnvFloatOrDefault("AUTOSTAT_DW_UPPER", cfg.DWUpper)
	cfg.MaxAutocorr = getEnvFloatOrDefault("AUTOSTAT_MAX_AUTOCORR", cfg.MaxAutocorr)
	cfg.Horizon = getEnvIntOrDefault("AUTOSTAT_HORIZON", cfg.Horizon)
	cfg.MaxLag = getEnvIntOrDefault("AUTOSTAT_MAX_LAG", cfg.MaxLag)
	cfg.FitConcurrency = int64(getEnvIntOrDefault("AUTOSTAT_FIT_CONCURRENCY", int(cfg.FitConcurrency)))
	cfg.Seed = int64(getEnvIntOrDefault("AUTOSTAT_SEED", int(cfg.Seed)))

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate rejects settings the stages cannot operate under.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0,1)")
	}
	if c.LargeRowCutoff < 1 {
		return errors.ConfigInvalid("large row cutoff must be positive")
	}
	if c.LinearityTolerance <= 0 || c.LinearityTolerance > 1 {
		return errors.ConfigInvalid("linearity tolerance must be in (0,1]")
	}
	if c.PanelVarianceCutoff <= 0 {
		return errors.ConfigInvalid("panel variance cutoff must be positive")
	}
	if c.MinSampleSize < 3 {
		return errors.ConfigInvalid("minimum sample size must be at least 3")
	}
	if c.DWLower >= c.DWUpper {
		return errors.ConfigInvalid("durbin-watson band is inverted")
	}
	if c.Horizon < 1 {
		return errors.ConfigInvalid("forecast horizon must be positive")
	}
	if c.MaxLag < 1 {
		return errors.ConfigInvalid("max lag must be positive")
	}
	if c.FitConcurrency < 1 {
		return errors.ConfigInvalid("fit concurrency must be positive")
	}
	return nil
}

func getEnvIntOrDefault(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
