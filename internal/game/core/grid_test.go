package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"small grid", 5, 5},
		{"contest grid", 24, 12},
		{"minimum grid", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.width, tt.height, DefaultWeights())

			assert.Equal(t, tt.width, g.W)
			assert.Equal(t, tt.height, g.H)
			assert.Equal(t, tt.width*tt.height, g.Len())

			for i := 0; i < g.Len(); i++ {
				c := g.At(i)
				assert.True(t, c.IsEmpty(), "cell %d should be empty", i)
				assert.Equal(t, 1, c.Weight, "cell %d should have unit weight", i)
				assert.Equal(t, FromIndex(i, tt.width), c.Pos)
			}
		})
	}
}

func TestGrid_Get(t *testing.T) {
	g := NewGrid(5, 4, DefaultWeights())
	g.Set(Coordinate{1, 1}, g.WallCell(Coordinate{1, 1}))

	c, ok := g.Get(Coordinate{1, 1})
	require.True(t, ok)
	assert.True(t, c.IsWall())
	assert.Equal(t, 1000, c.Weight)

	for _, pos := range []Coordinate{{-1, 0}, {0, -1}, {5, 0}, {0, 4}} {
		_, ok := g.Get(pos)
		assert.False(t, ok, "%s should be out of bounds", pos)
	}
}

func TestGrid_SetOutOfBoundsPanics(t *testing.T) {
	g := NewGrid(3, 3, DefaultWeights())
	assert.Panics(t, func() {
		g.Set(Coordinate{3, 0}, g.EmptyCell(Coordinate{3, 0}))
	})
}

func TestGrid_WeightsFollowOccupancy(t *testing.T) {
	w := Weights{Empty: 1, Protein: 4, Organ: 900, Wall: 800}
	g := NewGrid(4, 1, w)
	g.Set(Coordinate{1, 0}, g.WallCell(Coordinate{1, 0}))
	g.Set(Coordinate{2, 0}, g.ProteinCell(Coordinate{2, 0}, ProteinC))
	g.Set(Coordinate{3, 0}, g.OrganCell(Organ{ID: 7, Owner: OwnerSelf, Pos: Coordinate{3, 0}}))

	expected := []int{1, 800, 4, 900}
	for x, weight := range expected {
		c, _ := g.Get(Coordinate{x, 0})
		assert.Equal(t, weight, c.Weight, "x=%d", x)
	}

	organ, _ := g.Get(Coordinate{3, 0})
	assert.Equal(t, 7, organ.OrganID)
	assert.Equal(t, OwnerSelf, organ.Owner)
}

func TestGrid_ResetIsIdempotent(t *testing.T) {
	g := NewGrid(6, 3, DefaultWeights())
	g.Set(Coordinate{0, 0}, g.WallCell(Coordinate{0, 0}))
	g.Set(Coordinate{2, 1}, g.ProteinCell(Coordinate{2, 1}, ProteinA))

	g.Reset()
	once := g.Clone()
	g.Reset()

	for i := 0; i < g.Len(); i++ {
		assert.Equal(t, once.At(i), g.At(i))
		assert.True(t, g.At(i).IsEmpty())
	}
}

func TestGrid_Clone(t *testing.T) {
	g := NewGrid(2, 2, DefaultWeights())
	c := g.Clone()
	c.Set(Coordinate{0, 0}, c.WallCell(Coordinate{0, 0}))

	orig, _ := g.Get(Coordinate{0, 0})
	assert.True(t, orig.IsEmpty(), "clone must not alias the original")
}

func TestGrid_Render(t *testing.T) {
	g := NewGrid(4, 2, DefaultWeights())
	g.Set(Coordinate{0, 0}, g.WallCell(Coordinate{0, 0}))
	g.Set(Coordinate{1, 0}, g.ProteinCell(Coordinate{1, 0}, ProteinB))
	g.Set(Coordinate{2, 1}, g.OrganCell(Organ{ID: 1, Owner: OwnerSelf, Pos: Coordinate{2, 1}}))
	g.Set(Coordinate{3, 1}, g.OrganCell(Organ{ID: 2, Owner: OwnerOpponent, Pos: Coordinate{3, 1}}))

	kinds := map[int]OrganType{1: OrganRoot, 2: OrganHarvester}
	out := g.Render(func(id int) OrganType { return kinds[id] })
	assert.Equal(t, "#B..\n..Rh\n", out)
	assert.Equal(t, "#B..\n..Oo\n", g.String())
}

func TestStock(t *testing.T) {
	s := NewStock(2, 0, 1, 0)
	costs := DefaultGrowthCosts()

	assert.True(t, costs.Affordable(s, OrganBasic))
	assert.True(t, costs.Affordable(s, OrganHarvester))
	assert.False(t, costs.Affordable(s, OrganSporer))
	assert.False(t, GrowthCosts{}.Affordable(s, OrganBasic), "unknown price must fail closed")

	after := s.Sub(costs[OrganHarvester])
	assert.Equal(t, NewStock(1, 0, 0, 0), after)
	assert.Equal(t, NewStock(2, 0, 1, 0), s, "Sub must not mutate the receiver")
	assert.Equal(t, 4, s.Add(ProteinD, 4).Get(ProteinD))
}

func TestGrowAction_Validate(t *testing.T) {
	g := NewGrid(3, 3, DefaultWeights())
	g.Set(Coordinate{1, 0}, g.WallCell(Coordinate{1, 0}))
	g.Set(Coordinate{2, 0}, g.OrganCell(Organ{ID: 1, Owner: OwnerSelf, Pos: Coordinate{2, 0}}))

	tests := []struct {
		name   string
		action *GrowAction
		err    error
	}{
		{"basic on empty", NewGrow(1, Coordinate{1, 1}, OrganBasic), nil},
		{"harvester with direction", NewDirectedGrow(1, Coordinate{1, 1}, OrganHarvester, East), nil},
		{"harvester without direction", NewGrow(1, Coordinate{1, 1}, OrganHarvester), ErrMissingDirection},
		{"onto wall", NewGrow(1, Coordinate{1, 0}, OrganBasic), ErrTargetBlocked},
		{"onto organ", NewGrow(1, Coordinate{2, 0}, OrganBasic), ErrTargetBlocked},
		{"out of bounds", NewGrow(1, Coordinate{3, 3}, OrganBasic), ErrInvalidCoordinates},
		{"root", NewGrow(1, Coordinate{1, 1}, OrganRoot), ErrNotGrowable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate(g)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}

	assert.NoError(t, WaitAction{}.Validate(g))
}

func TestParseEnums(t *testing.T) {
	for _, code := range []string{"ROOT", "BASIC", "HARVESTER", "TENTACLE", "SPORER"} {
		ot, ok := ParseOrganType(code)
		require.True(t, ok, code)
		assert.Equal(t, code, ot.String())
	}
	_, ok := ParseOrganType("WALL")
	assert.False(t, ok)

	p, ok := ParseProteinType("C")
	require.True(t, ok)
	assert.Equal(t, ProteinC, p)

	_, err := ParseOwner(3)
	assert.ErrorIs(t, err, ErrUnknownOwner)
	assert.Equal(t, OwnerSelf, OwnerOpponent.Opponent())
}
