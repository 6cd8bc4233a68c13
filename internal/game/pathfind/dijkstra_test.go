package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/pathfind"
	"github.com/maximepeter/utg-2024/internal/testutil"
)

func unitWeights() core.Weights {
	return core.Weights{Empty: 1, Protein: 1, Organ: 1, Wall: 1}
}

func TestShortestPath_UniformGridIsManhattan(t *testing.T) {
	g := core.NewGrid(6, 4, unitWeights())

	for s := 0; s < g.Len(); s++ {
		for e := 0; e < g.Len(); e++ {
			start, goal := core.FromIndex(s, g.W), core.FromIndex(e, g.W)
			cost, path := pathfind.ShortestPath(g, start, goal)
			require.Equal(t, start.DistanceTo(goal), cost, "%s -> %s", start, goal)
			assert.Len(t, path, cost)
		}
	}
}

func TestShortestPath_SelfPathIsEmpty(t *testing.T) {
	g := testutil.ParseRows("R.#", "A..").Grid(core.DefaultWeights())

	for i := 0; i < g.Len(); i++ {
		p := core.FromIndex(i, g.W)
		cost, path := pathfind.ShortestPath(g, p, p)
		assert.Equal(t, 0, cost, "%s", p)
		assert.Empty(t, path, "%s", p)
	}
}

func TestShortestPath_WallGoalChargedOnce(t *testing.T) {
	w := core.DefaultWeights()
	g := testutil.ParseRows("...#").Grid(w)

	cost, path := pathfind.ShortestPath(g, core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 3, Y: 0})
	assert.Equal(t, 2+w.Wall, cost)
	require.Len(t, path, 3)
	assert.Equal(t, core.Coordinate{X: 3, Y: 0}, path[2])
}

func TestShortestPath_NeverContainsStart(t *testing.T) {
	g := testutil.ParseRows(
		"R..B..",
		".##...",
		"..O.#.",
		"A.....",
	).Grid(core.DefaultWeights())
	start := core.Coordinate{X: 0, Y: 0}

	for i := 0; i < g.Len(); i++ {
		goal := core.FromIndex(i, g.W)
		_, path := pathfind.ShortestPath(g, start, goal)
		assert.NotContains(t, path, start)
	}
}

func TestShortestPath_PathIsContiguousAndCostMatches(t *testing.T) {
	g := testutil.ParseRows(
		"R.....",
		"####..",
		"......",
		"..A...",
	).Grid(core.DefaultWeights())
	start, goal := core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 0, Y: 3}

	cost, path := pathfind.ShortestPath(g, start, goal)
	require.NotEmpty(t, path)
	assert.Equal(t, goal, path[len(path)-1])

	prev, sum := start, 0
	for _, step := range path {
		require.True(t, prev.IsAdjacentTo(step), "%s -> %s", prev, step)
		c, ok := g.Get(step)
		require.True(t, ok)
		assert.False(t, c.IsWall(), "path must not cross walls")
		sum += c.Weight
		prev = step
	}
	assert.Equal(t, cost, sum)
	assert.Equal(t, 11, cost)
}

func TestShortestPath_WallSeparationIsUnreachable(t *testing.T) {
	g := testutil.ParseRows(
		"R.#..",
		"..#.A",
		"..#..",
	).Grid(core.DefaultWeights())

	cost, path := pathfind.ShortestPath(g, core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 3, Y: 1})
	assert.Equal(t, pathfind.Unreachable, cost)
	assert.Empty(t, path)
}

func TestShortestPath_OutOfBounds(t *testing.T) {
	g := core.NewGrid(3, 3, core.DefaultWeights())

	cost, path := pathfind.ShortestPath(g, core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 5, Y: 0})
	assert.Equal(t, pathfind.Unreachable, cost)
	assert.Empty(t, path)

	cost, path = pathfind.ShortestPath(g, core.Coordinate{X: -1, Y: 0}, core.Coordinate{X: 1, Y: 1})
	assert.Equal(t, pathfind.Unreachable, cost)
	assert.Empty(t, path)
}

func TestShortestPath_ExpensiveTerrainIsAvoidedButUsable(t *testing.T) {
	w := core.DefaultWeights()

	// A detour around the organ is cheaper than stepping onto it.
	g := testutil.ParseRows(
		"R.o.",
		"....",
	).Grid(w)
	cost, path := pathfind.ShortestPath(g, core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 3, Y: 0})
	assert.Equal(t, 5, cost)
	assert.NotContains(t, path, core.Coordinate{X: 2, Y: 0})

	// With no detour the organ is crossed as a last resort.
	g = testutil.ParseRows("R.o.").Grid(w)
	cost, path = pathfind.ShortestPath(g, core.Coordinate{X: 0, Y: 0}, core.Coordinate{X: 3, Y: 0})
	assert.Equal(t, 2+w.Organ, cost)
	assert.Contains(t, path, core.Coordinate{X: 2, Y: 0})
}

func TestTree_AnswersEveryTarget(t *testing.T) {
	g := testutil.ParseRows(
		"R...",
		".#..",
		"...B",
	).Grid(core.DefaultWeights())
	src := core.Coordinate{X: 0, Y: 0}
	tree := pathfind.FromSource(g, src)

	assert.Equal(t, src, tree.Source())
	for i := 0; i < g.Len(); i++ {
		goal := core.FromIndex(i, g.W)
		cost, path := pathfind.ShortestPath(g, src, goal)
		assert.Equal(t, cost, tree.Cost(goal), "%s", goal)
		assert.Equal(t, len(path), len(tree.PathTo(goal)), "%s", goal)
	}

	step, ok := tree.FirstStep(core.Coordinate{X: 3, Y: 0})
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 1, Y: 0}, step)

	_, ok = tree.FirstStep(src)
	assert.False(t, ok)
}

func TestCache_RunsOncePerOrigin(t *testing.T) {
	g := core.NewGrid(5, 5, core.DefaultWeights())
	c := pathfind.NewCache(g)

	a := c.From(core.Coordinate{X: 0, Y: 0})
	b := c.From(core.Coordinate{X: 0, Y: 0})
	c.From(core.Coordinate{X: 4, Y: 4})

	assert.Same(t, a, b)
	assert.Equal(t, 2, c.Runs())
	assert.Same(t, g, c.Grid())
}

func BenchmarkFromSource(b *testing.B) {
	rng := testutil.NewTestRNG(42)
	g := core.NewGrid(24, 12, core.DefaultWeights())
	for i := 0; i < g.Len()/6; i++ {
		p := core.FromIndex(rng.Intn(g.Len()), g.W)
		g.Set(p, g.WallCell(p))
	}
	src := core.Coordinate{X: 0, Y: 0}
	g.Set(src, g.EmptyCell(src))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pathfind.FromSource(g, src)
	}
	b.ReportMetric(float64(g.Len()), "cells")
}
