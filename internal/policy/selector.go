package policy

import (
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/pathfind"
)

// Route is a way for one of our organs to reach a cell
type Route struct {
	Organ core.Organ
	Cell  core.Coordinate
	Cost  int
	Path  []core.Coordinate // excludes the organ, ends on Cell
}

// Adjacent reports whether Cell touches the organ, i.e. the organ can grow there directly
func (r Route) Adjacent() bool { return len(r.Path) == 1 }

// Approach is a route to a cell from which Protein can be harvested
type Approach struct {
	Route
	Protein core.ProteinUnit
}

// TargetSelector ranks candidate targets by shortest-path cost. It owns the
// per-turn search cache and the cells already claimed by earlier action slots.
type TargetSelector struct {
	grid     *core.Grid
	cache    *pathfind.Cache
	reserved map[core.Coordinate]bool
}

// NewTargetSelector creates a selector for one turn
func NewTargetSelector(g *core.Grid) *TargetSelector {
	return &TargetSelector{
		grid:     g,
		cache:    pathfind.NewCache(g),
		reserved: make(map[core.Coordinate]bool),
	}
}

// Reserve marks c as claimed for the rest of the turn
func (s *TargetSelector) Reserve(c core.Coordinate) { s.reserved[c] = true }

// Reserved reports whether an earlier slot claimed c
func (s *TargetSelector) Reserved(c core.Coordinate) bool { return s.reserved[c] }

// Searches returns how many single-source searches ran this turn
func (s *TargetSelector) Searches() int { return s.cache.Runs() }

// GoodNeighbors returns the cells around p an organ could be grown on:
// in bounds, empty, and not reserved. N, E, S, W order.
func (s *TargetSelector) GoodNeighbors(p core.Coordinate) []core.Coordinate {
	out := make([]core.Coordinate, 0, 4)
	for _, n := range p.Neighbors() {
		c, ok := s.grid.Get(n)
		if !ok || !c.IsEmpty() || s.reserved[n] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ClosestApproach finds the globally cheapest (organ, approach cell, protein)
// triple. The first pair reaching the strict minimum wins, organs in the outer
// loop. It reports false when no approach cell is reachable at all.
func (s *TargetSelector) ClosestApproach(organs []core.Organ, proteins []core.ProteinUnit) (Approach, bool) {
	best := Approach{Route: Route{Cost: pathfind.Unreachable}}
	var bestTree *pathfind.Tree

	for _, o := range organs {
		tree := s.cache.From(o.Pos)
		for _, p := range proteins {
			if s.reserved[p.Pos] {
				continue
			}
			for _, n := range s.GoodNeighbors(p.Pos) {
				cost := tree.Cost(n)
				if cost >= best.Cost {
					continue
				}
				best = Approach{Route: Route{Organ: o, Cell: n, Cost: cost}, Protein: p}
				bestTree = tree
			}
		}
	}

	if bestTree == nil {
		return best, false
	}
	best.Path = bestTree.PathTo(best.Cell)
	return best, true
}

// Expansion scans the grid in raster order and returns the first empty,
// unreserved cell some organ can reach, together with the organ that reaches
// it most cheaply.
func (s *TargetSelector) Expansion(organs []core.Organ) (Route, bool) {
	for i := 0; i < s.grid.Len(); i++ {
		c := s.grid.At(i)
		if !c.IsEmpty() || s.reserved[c.Pos] {
			continue
		}

		best := Route{Cell: c.Pos, Cost: pathfind.Unreachable}
		var bestTree *pathfind.Tree
		for _, o := range organs {
			tree := s.cache.From(o.Pos)
			if cost := tree.Cost(c.Pos); cost < best.Cost {
				best.Organ, best.Cost = o, cost
				bestTree = tree
			}
		}
		if bestTree != nil {
			best.Path = bestTree.PathTo(c.Pos)
			return best, true
		}
	}
	return Route{Cost: pathfind.Unreachable}, false
}
