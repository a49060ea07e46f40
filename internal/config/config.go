// Package config loads analysis parameters from the environment. Every
// tunable that the notebook hardcoded (cluster counts, chain counts, the
// significance level) is a parameter here, with the original values as
// defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Paths    PathConfig
}

// AnalysisConfig holds every knob of the statistical pipeline
type AnalysisConfig struct {
	// Seed drives imputation chain RNGs and k-means restarts.
	Seed int64

	// Missingness bucket cutoffs, in percent. low < Low <= moderate < High <= high.
	LowMissingCutoff  float64
	HighMissingCutoff float64

	// Multiple imputation by chained equations.
	ImputeIterations int
	ImputeChains     int
	ImputeDonors     int
	// ImputePoolMean averages completed chains per missing cell instead of
	// taking the first chain. Off by default to match the documented
	// first-chain pick.
	ImputePoolMean bool

	// Hypothesis testing.
	SignificanceLevel float64

	// Clustering.
	HierClusters   int
	KMeansClusters int
	KMeansRestarts int
}

// PathConfig holds file system paths for the surrounding glue
type PathConfig struct {
	InputFile string
	OutputDir string
}

// Defaults returns the configuration matching the original analysis.
func Defaults() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Seed:              1,
			LowMissingCutoff:  5,
			HighMissingCutoff: 30,
			ImputeIterations:  50,
			ImputeChains:      5,
			ImputeDonors:      5,
			SignificanceLevel: 0.05,
			HierClusters:      3,
			KMeansClusters:    4,
			KMeansRestarts:    25,
		},
		Paths: PathConfig{OutputDir: "."},
	}
}

// Load reads configuration from environment variables on top of defaults.
func Load() (*Config, error) {
	config := Defaults()

	var err error
	if config.Analysis.Seed, err = envInt64("DIAQUANT_SEED", config.Analysis.Seed); err != nil {
		return nil, err
	}
	if config.Analysis.LowMissingCutoff, err = envFloat("DIAQUANT_LOW_MISSING_CUTOFF", config.Analysis.LowMissingCutoff); err != nil {
		return nil, err
	}
	if config.Analysis.HighMissingCutoff, err = envFloat("DIAQUANT_HIGH_MISSING_CUTOFF", config.Analysis.HighMissingCutoff); err != nil {
		return nil, err
	}
	if config.Analysis.ImputeIterations, err = envInt("DIAQUANT_IMPUTE_ITERATIONS", config.Analysis.ImputeIterations); err != nil {
		return nil, err
	}
	if config.Analysis.ImputeChains, err = envInt("DIAQUANT_IMPUTE_CHAINS", config.Analysis.ImputeChains); err != nil {
		return nil, err
	}
	if config.Analysis.ImputeDonors, err = envInt("DIAQUANT_IMPUTE_DONORS", config.Analysis.ImputeDonors); err != nil {
		return nil, err
	}
	config.Analysis.ImputePoolMean = os.Getenv("DIAQUANT_IMPUTE_POOL_MEAN") == "true"
	if config.Analysis.SignificanceLevel, err = envFloat("DIAQUANT_SIGNIFICANCE_LEVEL", config.Analysis.SignificanceLevel); err != nil {
		return nil, err
	}
	if config.Analysis.HierClusters, err = envInt("DIAQUANT_HIER_CLUSTERS", config.Analysis.HierClusters); err != nil {
		return nil, err
	}
	if config.Analysis.KMeansClusters, err = envInt("DIAQUANT_KMEANS_CLUSTERS", config.Analysis.KMeansClusters); err != nil {
		return nil, err
	}
	if config.Analysis.KMeansRestarts, err = envInt("DIAQUANT_KMEANS_RESTARTS", config.Analysis.KMeansRestarts); err != nil {
		return nil, err
	}

	if v := os.Getenv("DIAQUANT_INPUT_FILE"); v != "" {
		config.Paths.InputFile = v
	}
	if v := os.Getenv("DIAQUANT_OUTPUT_DIR"); v != "" {
		config.Paths.OutputDir = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configurations no stage can run with.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.LowMissingCutoff <= 0 || a.HighMissingCutoff <= a.LowMissingCutoff {
		return fmt.Errorf("missingness cutoffs must satisfy 0 < low < high, got %.2f and %.2f", a.LowMissingCutoff, a.HighMissingCutoff)
	}
	if a.ImputeIterations < 1 {
		return fmt.Errorf("impute iterations must be >= 1, got %d", a.ImputeIterations)
	}
	if a.ImputeChains < 1 {
		return fmt.Errorf("impute chains must be >= 1, got %d", a.ImputeChains)
	}
	if a.ImputeDonors < 1 {
		return fmt.Errorf("impute donors must be >= 1, got %d", a.ImputeDonors)
	}
	if a.SignificanceLevel <= 0 || a.SignificanceLevel >= 1 {
		return fmt.Errorf("significance level must be in (0, 1), got %.3f", a.SignificanceLevel)
	}
	if a.HierClusters < 1 || a.KMeansClusters < 1 {
		return fmt.Errorf("cluster counts must be >= 1, got %d and %d", a.HierClusters, a.KMeansClusters)
	}
	if a.KMeansRestarts < 1 {
		return fmt.Errorf("k-means restarts must be >= 1, got %d", a.KMeansRestarts)
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
