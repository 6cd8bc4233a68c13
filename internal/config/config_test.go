package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

func reset() {
	mu.Lock()
	cfg = nil
	v = nil
	mu.Unlock()
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
bot:
  policy: scripted
  stage_order: [C, A]
  thresholds:
    b: 3
grid:
  weights:
    protein: 5
arena:
  width: 24
  seed: 99
`)
	reset()

	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, "scripted", c.Bot.Policy)
	assert.Equal(t, []string{"C", "A"}, c.Bot.StageOrder)
	assert.Equal(t, 3, c.Bot.Thresholds.B)
	assert.Equal(t, 1, c.Bot.Thresholds.A, "unset keys keep their default")
	assert.Equal(t, 5, c.Grid.Weights.Protein)
	assert.Equal(t, 24, c.Arena.Width)
	assert.Equal(t, int64(99), c.Arena.Seed)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	reset()

	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, "threshold", c.Bot.Policy)
	assert.Equal(t, []string{"A", "C", "D", "B"}, c.Bot.StageOrder)
	assert.Equal(t, [4]int{1, 2, 1, 2}, c.Bot.ThresholdMultipliers())
	assert.Equal(t, core.DefaultWeights(), c.Grid.CoreWeights())
	assert.Equal(t, core.DefaultGrowthCosts(), c.Bot.GrowthCosts())
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, core.NewStock(10, 0, 5, 0), c.Arena.Stock())
}

func TestEnvironmentVariables(t *testing.T) {
	reset()
	t.Setenv("UTG_BOT_POLICY", "scripted")
	t.Setenv("UTG_GRID_WEIGHTS_WALL", "5000")

	require.NoError(t, Init("/non/existent/config.yaml"))

	c := Get()
	assert.Equal(t, "scripted", c.Bot.Policy)
	assert.Equal(t, 5000, c.Grid.Weights.Wall)
}

func TestInitRejectsInvalidFile(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
bot:
  policy: greedy
`)
	reset()

	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot.policy")
}

func TestSet(t *testing.T) {
	reset()
	require.NoError(t, Init("/non/existent/config.yaml"))

	require.NoError(t, Set("bot.thresholds.c", 4))
	require.NoError(t, Set("arena.max_turns", 20))

	c := Get()
	assert.Equal(t, 4, c.Bot.Thresholds.C)
	assert.Equal(t, 20, c.Arena.MaxTurns)

	assert.Error(t, Set("grid.weights.empty", 0))
	assert.Equal(t, 1, Get().Grid.Weights.Empty, "invalid update keeps the previous config")
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	baseConfig := writeConfig(t, tmpDir, "config.yaml", `
bot:
  policy: threshold
arena:
  max_turns: 50
`)
	writeConfig(t, tmpDir, "config.prod.yaml", `
bot:
  policy: scripted
logging:
  level: warn
`)
	reset()

	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, "scripted", c.Bot.Policy)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, 50, c.Arena.MaxTurns)
	assert.Equal(t, baseConfig, ConfigFilePath())

	assert.NoError(t, LoadEnvironmentConfig("staging"), "missing overlay is ignored")
	assert.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	reset()
	require.NoError(t, Init("/non/existent/config.yaml"))
	base := *Get()

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown policy", func(c *Config) { c.Bot.Policy = "random" }, "bot.policy"},
		{"bad stage protein", func(c *Config) { c.Bot.StageOrder = []string{"A", "E"} }, "bot.stage_order"},
		{"negative threshold", func(c *Config) { c.Bot.Thresholds.D = -1 }, "bot.thresholds.d"},
		{"short cost", func(c *Config) { c.Bot.Costs.Harvester = []int{1, 0} }, "bot.costs.harvester"},
		{"negative cost", func(c *Config) { c.Bot.Costs.Basic = []int{-1, 0, 0, 0} }, "bot.costs.basic"},
		{"zero weight", func(c *Config) { c.Grid.Weights.Empty = 0 }, "grid.weights"},
		{"huge weight", func(c *Config) { c.Grid.Weights.Wall = core.MaxWeight }, "grid.weights"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"tiny arena", func(c *Config) { c.Arena.Width = 2 }, "arena dimensions"},
		{"no turns", func(c *Config) { c.Arena.MaxTurns = 0 }, "arena.max_turns"},
		{"crowded arena", func(c *Config) { c.Arena.WallRatio, c.Arena.ProteinRatio = 0.6, 0.5 }, "arena.protein_ratio"},
		{"short start stock", func(c *Config) { c.Arena.StartStock = []int{1} }, "arena.start_stock"},
	}

	assert.NoError(t, Validate(&base))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.Bot.StageOrder = append([]string(nil), base.Bot.StageOrder...)
			c.Bot.Costs.Basic = append([]int(nil), base.Bot.Costs.Basic...)
			c.Bot.Costs.Harvester = append([]int(nil), base.Bot.Costs.Harvester...)
			c.Arena.StartStock = append([]int(nil), base.Arena.StartStock...)
			tt.mutate(&c)

			err := Validate(&c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStageProteinsIsCaseInsensitive(t *testing.T) {
	b := BotConfig{StageOrder: []string{"a", " d "}}

	got, err := b.StageProteins()
	require.NoError(t, err)
	assert.Equal(t, []core.ProteinType{core.ProteinA, core.ProteinD}, got)
}
