package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault_IsValid tests that the starting configuration validates
func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

// TestValidate_Rejections tests each validation rule
func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{name: "unknown problem", mutate: func(c *RunConfig) { c.Problem = "ackley" }},
		{name: "zero dimension", mutate: func(c *RunConfig) { c.Dimension = 0 }},
		{name: "no islands", mutate: func(c *RunConfig) { c.Islands = 0 }},
		{name: "tiny population", mutate: func(c *RunConfig) { c.PopSize = 7 }},
		{name: "negative rounds", mutate: func(c *RunConfig) { c.Rounds = -1 }},
		{name: "negative generations", mutate: func(c *RunConfig) { c.Generations = -1 }},
		{name: "variant out of range", mutate: func(c *RunConfig) { c.Variant = 19 }},
		{name: "bad adaptive scheme", mutate: func(c *RunConfig) { c.Adaptive = 2 }},
		{name: "migration probability above one", mutate: func(c *RunConfig) { c.MigrationProbability = 1.5 }},
		{name: "negative migration rate", mutate: func(c *RunConfig) { c.MigrationRate = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestApplyEnv tests environment overrides
func TestApplyEnv(t *testing.T) {
	t.Setenv("EVOLVE_PROBLEM", "rosenbrock")
	t.Setenv("EVOLVE_ISLANDS", "8")
	t.Setenv("EVOLVE_MIGRATION_PROBABILITY", "0.75")
	t.Setenv("EVOLVE_VARIANT", "not-a-number")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "rosenbrock", cfg.Problem)
	assert.Equal(t, 8, cfg.Islands)
	assert.Equal(t, 0.75, cfg.MigrationProbability)
	assert.Equal(t, Default().Variant, cfg.Variant, "unparseable values are ignored")

	require.NoError(t, cfg.Validate())
}
