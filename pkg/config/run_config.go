package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/openevo/archipelago/internal/errors"
)

// RunConfig describes one optimization run of the demo CLI: which problem
// to solve, how the archipelago is shaped and how the algorithm is tuned.
type RunConfig struct {
	Problem    string // "sphere" or "rosenbrock"
	Dimension  int
	Islands    int
	PopSize    int
	Rounds     int // evolve calls per island
	Seed       int64
	OutputFile string // optional .xlsx export path

	// algorithm parameters
	Generations int
	Variant     int
	Adaptive    int
	Ftol        float64
	Xtol        float64

	// migration parameters
	MigrationProbability float64
	MigrationRate        int
}

// Default returns the configuration the CLI starts from before flags and
// environment overrides are applied.
func Default() RunConfig {
	return RunConfig{
		Problem:              "sphere",
		Dimension:            10,
		Islands:              4,
		PopSize:              20,
		Rounds:               10,
		Seed:                 1,
		Generations:          100,
		Variant:              2,
		Adaptive:             0,
		Ftol:                 1e-6,
		Xtol:                 1e-6,
		MigrationProbability: 0.2,
		MigrationRate:        1,
	}
}

// Validate checks the configuration for internal consistency.
func (c *RunConfig) Validate() error {
	switch c.Problem {
	case "sphere", "rosenbrock":
	default:
		return errors.NewConfigError("config", "validate", fmt.Sprintf("unknown problem %q", c.Problem))
	}
	if c.Dimension < 1 {
		return errors.NewConfigError("config", "validate", "dimension must be positive")
	}
	if c.Islands < 1 {
		return errors.NewConfigError("config", "validate", "at least one island is required")
	}
	if c.PopSize < 8 {
		return errors.NewConfigError("config", "validate", "population size must be at least 8")
	}
	if c.Rounds < 0 {
		return errors.NewConfigError("config", "validate", "rounds must be nonnegative")
	}
	if c.Generations < 0 {
		return errors.NewConfigError("config", "validate", "generations must be nonnegative")
	}
	if c.Variant < 1 || c.Variant > 18 {
		return errors.NewConfigError("config", "validate", "variant must be one of 1 ... 18")
	}
	if c.Adaptive < 0 || c.Adaptive > 1 {
		return errors.NewConfigError("config", "validate", "adaptive scheme must be 0 or 1")
	}
	if c.MigrationProbability < 0 || c.MigrationProbability > 1 {
		return errors.NewConfigError("config", "validate", "migration probability must be within [0, 1]")
	}
	if c.MigrationRate < 0 {
		return errors.NewConfigError("config", "validate", "migration rate must be nonnegative")
	}
	return nil
}

// ApplyEnv overlays EVOLVE_* environment variables on the configuration.
// Unset variables leave the current values untouched.
func (c *RunConfig) ApplyEnv() {
	if v := os.Getenv("EVOLVE_PROBLEM"); v != "" {
		c.Problem = v
	}
	if v, ok := envInt("EVOLVE_DIMENSION"); ok {
		c.Dimension = v
	}
	if v, ok := envInt("EVOLVE_ISLANDS"); ok {
		c.Islands = v
	}
	if v, ok := envInt("EVOLVE_POP_SIZE"); ok {
		c.PopSize = v
	}
	if v, ok := envInt("EVOLVE_ROUNDS"); ok {
		c.Rounds = v
	}
	if v, ok := envInt("EVOLVE_SEED"); ok {
		c.Seed = int64(v)
	}
	if v, ok := envInt("EVOLVE_GENERATIONS"); ok {
		c.Generations = v
	}
	if v, ok := envInt("EVOLVE_VARIANT"); ok {
		c.Variant = v
	}
	if v, ok := envInt("EVOLVE_ADAPTIVE"); ok {
		c.Adaptive = v
	}
	if v, ok := envFloat("EVOLVE_MIGRATION_PROBABILITY"); ok {
		c.MigrationProbability = v
	}
	if v, ok := envInt("EVOLVE_MIGRATION_RATE"); ok {
		c.MigrationRate = v
	}
	if v := os.Getenv("EVOLVE_OUTPUT_FILE"); v != "" {
		c.OutputFile = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
