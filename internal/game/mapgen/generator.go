package mapgen

import (
	"math/rand"

	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/pathfind"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width          int
	Height         int
	WallRatio      float64 // share of cells turned into walls
	ProteinRatio   float64 // share of cells holding a protein
	MinRootSpacing int
	MaxAttempts    int // layouts tried before walls are dropped
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h int) MapConfig {
	return MapConfig{
		Width:          w,
		Height:         h,
		WallRatio:      0.15,
		ProteinRatio:   0.08,
		MinRootSpacing: w / 2,
		MaxAttempts:    20,
	}
}

// Map is a generated arena. Entities are listed in raster order, organs last.
type Map struct {
	Width, Height int
	Entities      []core.Entity
	Roots         [2]core.Organ // ours, then the opponent's
}

// Generator handles map generation with deterministic RNG. Layouts are point
// symmetric so neither player starts with an advantage.
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap creates a map whose two roots are connected by a wall-free path
func (g *Generator) GenerateMap() Map {
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		m := g.generate(true)
		if connected(m) {
			return m
		}
	}
	return g.generate(false)
}

func (g *Generator) mirror(c core.Coordinate) core.Coordinate {
	return core.Coordinate{X: g.config.Width - 1 - c.X, Y: g.config.Height - 1 - c.Y}
}

func (g *Generator) generate(walls bool) Map {
	w, h := g.config.Width, g.config.Height
	grid := core.NewGrid(w, h, core.DefaultWeights())

	self := g.placeRoot()
	opp := g.mirror(self)

	protected := make(map[core.Coordinate]bool)
	for _, r := range []core.Coordinate{self, opp} {
		protected[r] = true
		for _, n := range r.ValidNeighbors(w, h) {
			protected[n] = true
		}
	}

	n := w * h
	for idx := 0; idx < n/2; idx++ {
		pos := core.FromIndex(idx, w)
		twin := g.mirror(pos)
		if protected[pos] || protected[twin] {
			continue
		}

		r := g.rng.Float64()
		switch {
		case walls && r < g.config.WallRatio:
			grid.Set(pos, grid.WallCell(pos))
			grid.Set(twin, grid.WallCell(twin))
		case r < g.config.WallRatio+g.config.ProteinRatio:
			p := core.ProteinTypes[g.rng.Intn(len(core.ProteinTypes))]
			grid.Set(pos, grid.ProteinCell(pos, p))
			grid.Set(twin, grid.ProteinCell(twin, p))
		}
	}

	m := Map{Width: w, Height: h}
	for idx := 0; idx < n; idx++ {
		c := grid.At(idx)
		switch c.Kind {
		case core.CellWall:
			m.Entities = append(m.Entities, core.WallEntity(c.Pos))
		case core.CellProtein:
			m.Entities = append(m.Entities, core.ProteinEntity(c.Pos, c.Protein))
		}
	}

	m.Roots[0] = core.Organ{ID: 1, Owner: core.OwnerSelf, RootID: 1, Pos: self, Type: core.OrganRoot, Dir: core.North}
	m.Roots[1] = core.Organ{ID: 2, Owner: core.OwnerOpponent, RootID: 2, Pos: opp, Type: core.OrganRoot, Dir: core.North}
	m.Entities = append(m.Entities, core.OrganEntity(m.Roots[0]), core.OrganEntity(m.Roots[1]))
	return m
}

// placeRoot picks our root in the left third of the map, far enough from its mirror
func (g *Generator) placeRoot() core.Coordinate {
	w, h := g.config.Width, g.config.Height
	span := w / 3
	if span < 1 {
		span = 1
	}

	var best core.Coordinate
	bestDist := -1
	for attempt := 0; attempt < w*h; attempt++ {
		c := core.Coordinate{X: g.rng.Intn(span), Y: g.rng.Intn(h)}
		d := c.DistanceTo(g.mirror(c))
		if d >= g.config.MinRootSpacing && d > 0 {
			return c
		}
		if d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func connected(m Map) bool {
	grid := core.NewGrid(m.Width, m.Height, core.DefaultWeights())
	for _, e := range m.Entities {
		switch e.Kind {
		case core.EntityWall:
			grid.Set(e.Pos, grid.WallCell(e.Pos))
		case core.EntityProtein:
			grid.Set(e.Pos, grid.ProteinCell(e.Pos, e.Protein))
		}
	}
	cost, _ := pathfind.ShortestPath(grid, m.Roots[0].Pos, m.Roots[1].Pos)
	return cost != pathfind.Unreachable
}
