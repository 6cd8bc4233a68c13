package arena_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/maximepeter/utg-2024/internal/arena"
	"github.com/maximepeter/utg-2024/internal/config"
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/policy"
	"github.com/maximepeter/utg-2024/internal/testutil"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	require.NoError(t, config.Init(""))
	cfg := *config.Get()
	cfg.Arena.MaxTurns = 30
	return &cfg
}

func play(t *testing.T, cfg *config.Config) (game.Result, *game.Engine) {
	t.Helper()
	engine, err := game.NewEngine(context.Background(), arena.GameConfig(cfg, testutil.NopLogger(), events.NewEventBus()))
	require.NoError(t, err)

	self := policy.NewThreshold(policy.DefaultOptions())
	opp := policy.NewScripted(policy.DefaultOptions())
	r, err := arena.NewMatch(engine, self, opp, testutil.NopLogger()).Run(context.Background())
	require.NoError(t, err)
	return r, engine
}

func TestMatch_RunsToCompletion(t *testing.T) {
	cfg := defaultConfig(t)

	r, engine := play(t, cfg)

	assert.True(t, engine.IsGameOver())
	assert.LessOrEqual(t, r.Turns, cfg.Arena.MaxTurns)
	assert.NotEmpty(t, r.Reason)
	assert.Greater(t, r.Organs[core.OwnerSelf]+r.Organs[core.OwnerOpponent], 2, "policies grew something")
}

func TestMatch_DeterministicBySeed(t *testing.T) {
	cfg := defaultConfig(t)

	a, _ := play(t, cfg)
	b, _ := play(t, cfg)

	assert.Equal(t, a.Turns, b.Turns)
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Organs, b.Organs)
	assert.Equal(t, a.Stocks, b.Stocks)
}

func TestReport_WriteYAML(t *testing.T) {
	r := game.Result{
		GameID: "m-1",
		Turns:  12,
		Winner: core.OwnerOpponent,
		Reason: "turn limit",
		Organs: map[core.Owner]int{core.OwnerSelf: 4, core.OwnerOpponent: 6},
		Stocks: map[core.Owner]core.Stock{
			core.OwnerSelf:     core.NewStock(1, 2, 3, 4),
			core.OwnerOpponent: core.NewStock(0, 0, 0, 1),
		},
	}
	rep := arena.NewReport(r, 42, map[core.Owner]string{core.OwnerSelf: "threshold", core.OwnerOpponent: "scripted"})

	var buf bytes.Buffer
	require.NoError(t, rep.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "winner: opponent")
	assert.Contains(t, buf.String(), "stock: [1, 2, 3, 4]")

	var back arena.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, rep, back)
}

func TestSideName(t *testing.T) {
	assert.Equal(t, "self", arena.SideName(core.OwnerSelf))
	assert.Equal(t, "opponent", arena.SideName(core.OwnerOpponent))
	assert.Equal(t, "draw", arena.SideName(core.OwnerNone))
}
