package game_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
	"github.com/maximepeter/utg-2024/internal/game/rules"
	"github.com/maximepeter/utg-2024/internal/game/states"
	"github.com/maximepeter/utg-2024/internal/testutil"
)

// newEngine starts a match on a fixed board. Our root gets id 1 and the
// opponent's root id 2 when both appear in raster order.
func newEngine(t *testing.T, stock core.Stock, maxTurns int, rows ...string) (*game.Engine, *events.EventBus) {
	t.Helper()
	f := testutil.ParseRows(rows...)
	bus := events.NewEventBus()
	e, err := game.NewEngine(context.Background(), game.GameConfig{
		Width:      f.Width,
		Height:     f.Height,
		MaxTurns:   maxTurns,
		StartStock: stock,
		Logger:     zerolog.Nop(),
		GameID:     "test-match",
		EventBus:   bus,
		Entities:   f.Entities,
	})
	require.NoError(t, err)
	return e, bus
}

func grow(parent, x, y int, organ core.OrganType) *core.GrowAction {
	return core.NewGrow(parent, core.Coordinate{X: x, Y: y}, organ)
}

func TestNewEngine_GeneratedMap(t *testing.T) {
	e, err := game.NewEngine(context.Background(), game.GameConfig{
		Width:        18,
		Height:       9,
		MaxTurns:     100,
		WallRatio:    0.15,
		ProteinRatio: 0.08,
		StartStock:   core.NewStock(10, 0, 5, 0),
		Rng:          rand.New(rand.NewSource(3)),
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.False(t, e.IsGameOver())
	assert.Equal(t, states.PhaseRunning, e.CurrentPhase())
	assert.NotEmpty(t, e.GameID())
	assert.Equal(t, 0, e.Turn())
	for _, p := range game.Players {
		assert.Equal(t, 1, e.RequiredActions(p))
		assert.Equal(t, core.NewStock(10, 0, 5, 0), e.Stock(p))
	}

	ws := e.View(core.OwnerSelf)
	require.Len(t, ws.MyOrgans, 1)
	assert.Equal(t, 1, ws.MyOrgans[0].ID)
	require.Len(t, ws.OppOrgans, 1)
	assert.Equal(t, 2, ws.OppOrgans[0].ID)
}

func TestNewEngine_RejectsBadConfig(t *testing.T) {
	_, err := game.NewEngine(context.Background(), game.GameConfig{Width: 0, Height: 5, Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates)

	_, err = game.NewEngine(context.Background(), game.GameConfig{
		Width:    2,
		Height:   1,
		Logger:   zerolog.Nop(),
		Entities: []core.Entity{core.WallEntity(core.Coordinate{X: 5, Y: 0})},
	})
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = game.NewEngine(ctx, game.GameConfig{Width: 5, Height: 5, Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_View_FlipsOwnershipForOpponent(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(1, 0, 0, 0), 10,
		"RA...",
		".....",
		"....r",
	)

	mine := e.View(core.OwnerSelf)
	require.Len(t, mine.MyOrgans, 1)
	assert.Equal(t, 1, mine.MyOrgans[0].ID)
	assert.Len(t, mine.Proteins, 1)

	theirs := e.View(core.OwnerOpponent)
	require.Len(t, theirs.MyOrgans, 1)
	assert.Equal(t, 2, theirs.MyOrgans[0].ID)
	assert.Equal(t, core.OwnerSelf, theirs.MyOrgans[0].Owner)
	require.Len(t, theirs.OppOrgans, 1)
	assert.Equal(t, 1, theirs.OppOrgans[0].ID)
	assert.Equal(t, 1, theirs.RequiredActions)
	assert.Equal(t, mine.Render(), e.Render())
}

func TestEngine_Step_GrowOntoProteinAbsorbsIt(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(1, 0, 0, 0), 10,
		"RA...",
		".....",
		"....r",
	)

	err := e.Step(context.Background(), map[core.Owner][]core.Action{
		core.OwnerSelf: {grow(1, 1, 0, core.OrganBasic)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, core.NewStock(game.AbsorbYield, 0, 0, 0), e.Stock(core.OwnerSelf))
	assert.Equal(t, core.NewStock(1, 0, 0, 0), e.Stock(core.OwnerOpponent))

	o, ok := e.Organ(3)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 1, Y: 0}, o.Pos)
	assert.Equal(t, 1, o.ParentID)
	assert.Equal(t, 1, o.RootID)
	assert.Empty(t, e.View(core.OwnerSelf).Proteins)
	assert.Equal(t, 1, e.RequiredActions(core.OwnerSelf), "still one organism")
}

func TestEngine_Step_DistantTargetGrowsOneStep(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(1, 0, 0, 0), 10, "R...r")

	require.NoError(t, e.Step(context.Background(), map[core.Owner][]core.Action{
		core.OwnerSelf: {grow(1, 3, 0, core.OrganBasic)},
	}))

	o, ok := e.Organ(3)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 1, Y: 0}, o.Pos)
}

func TestEngine_Step_HarvesterIncome(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(1, 0, 1, 0), 10,
		"R.A",
		"...",
		"r..",
	)

	require.NoError(t, e.Step(context.Background(), map[core.Owner][]core.Action{
		core.OwnerSelf: {core.NewDirectedGrow(1, core.Coordinate{X: 1, Y: 0}, core.OrganHarvester, core.East)},
	}))
	assert.Equal(t, core.NewStock(1, 0, 0, 0), e.Stock(core.OwnerSelf), "paid 1A 1C, earned 1A")

	require.NoError(t, e.Step(context.Background(), nil))
	assert.Equal(t, core.NewStock(2, 0, 0, 0), e.Stock(core.OwnerSelf))
	assert.Equal(t, core.NewStock(1, 0, 1, 0), e.Stock(core.OwnerOpponent))
}

func TestEngine_Step_RejectedCommandsAreNotFatal(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(1, 0, 0, 0), 10, "R...r")

	err := e.Step(context.Background(), map[core.Owner][]core.Action{
		core.OwnerSelf: {grow(2, 3, 0, core.OrganBasic)},
	})
	require.NoError(t, err)

	out := e.LastOutcome()
	require.Len(t, out.Rejected, 1)
	assert.ErrorIs(t, out.Rejected[0].Err, core.ErrUnknownParent)
	assert.Equal(t, core.NewStock(1, 0, 0, 0), e.Stock(core.OwnerSelf))
}

func TestEngine_Step_CollisionLeavesAWall(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(1, 0, 0, 0), 10, "R.r")

	require.NoError(t, e.Step(context.Background(), map[core.Owner][]core.Action{
		core.OwnerSelf:     {grow(1, 1, 0, core.OrganBasic)},
		core.OwnerOpponent: {grow(2, 1, 0, core.OrganBasic)},
	}))

	c, ok := e.View(core.OwnerSelf).Grid.Get(core.Coordinate{X: 1, Y: 0})
	require.True(t, ok)
	assert.True(t, c.IsWall())
	assert.Equal(t, core.Stock{}, e.Stock(core.OwnerSelf))
	assert.Equal(t, core.Stock{}, e.Stock(core.OwnerOpponent))
	assert.Len(t, e.LastOutcome().Collisions, 1)
}

func TestEngine_TurnLimit(t *testing.T) {
	e, bus := newEngine(t, core.NewStock(5, 0, 0, 0), 2, "R...r")
	var ended []*events.MatchEndedEvent
	bus.SubscribeFunc(events.TypeMatchEnded, func(ev events.Event) {
		ended = append(ended, ev.(*events.MatchEndedEvent))
	})

	require.NoError(t, e.Step(context.Background(), nil))
	assert.False(t, e.IsGameOver())
	require.NoError(t, e.Step(context.Background(), nil))
	assert.True(t, e.IsGameOver())
	assert.Equal(t, states.PhaseEnded, e.CurrentPhase())

	r := e.Result()
	assert.Equal(t, "test-match", r.GameID)
	assert.Equal(t, 2, r.Turns)
	assert.Equal(t, rules.ReasonTurnLimit, r.Reason)
	assert.Equal(t, core.OwnerNone, r.Winner, "one organ each")
	assert.Equal(t, 1, r.Organs[core.OwnerSelf])

	err := e.Step(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrGameOver)

	require.Len(t, ended, 1)
	assert.Equal(t, rules.ReasonTurnLimit, ended[0].Reason)
}

func TestEngine_MostOrgansWins(t *testing.T) {
	e, _ := newEngine(t, core.NewStock(5, 0, 0, 0), 1, "R...r")

	require.NoError(t, e.Step(context.Background(), map[core.Owner][]core.Action{
		core.OwnerSelf: {grow(1, 1, 0, core.OrganBasic)},
	}))

	require.True(t, e.IsGameOver())
	r := e.Result()
	assert.Equal(t, core.OwnerSelf, r.Winner)
	assert.Equal(t, 2, r.Organs[core.OwnerSelf])
	assert.Equal(t, core.NewStock(4, 0, 0, 0), r.Stocks[core.OwnerSelf])
}

func TestEngine_EndsImmediately(t *testing.T) {
	t.Run("nobody can pay", func(t *testing.T) {
		e, _ := newEngine(t, core.Stock{}, 10, "R...r")
		assert.True(t, e.IsGameOver())
		assert.Equal(t, rules.ReasonStalemate, e.Result().Reason)
		assert.Equal(t, core.OwnerNone, e.Result().Winner)
	})

	t.Run("opponent has no organs", func(t *testing.T) {
		e, _ := newEngine(t, core.NewStock(1, 0, 0, 0), 10, "R..")
		assert.True(t, e.IsGameOver())
		assert.Equal(t, rules.ReasonEliminated, e.Result().Reason)
		assert.Equal(t, core.OwnerSelf, e.Result().Winner)
	})
}

func TestEngine_PublishesPhaseChanges(t *testing.T) {
	bus := events.NewEventBus()
	var phases []string
	bus.SubscribeFunc(events.TypePhaseChanged, func(ev events.Event) {
		phases = append(phases, ev.(*events.PhaseChangedEvent).To)
	})
	f := testutil.ParseRows("R...r")

	e, err := game.NewEngine(context.Background(), game.GameConfig{
		Width:      f.Width,
		Height:     f.Height,
		MaxTurns:   1,
		StartStock: core.NewStock(1, 0, 0, 0),
		Logger:     zerolog.Nop(),
		EventBus:   bus,
		Entities:   f.Entities,
	})
	require.NoError(t, err)
	require.NoError(t, e.Step(context.Background(), nil))

	assert.Equal(t, []string{"Running", "Ended"}, phases)
}
