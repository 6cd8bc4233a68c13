package rules

import (
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/pathfind"
)

// growable lists the organ types a player may pay for with a GROW command
var growable = []core.OrganType{core.OrganBasic, core.OrganHarvester, core.OrganTentacle, core.OrganSporer}

// LegalMoveCalculator computes legal grow targets for players
type LegalMoveCalculator struct{}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator() *LegalMoveCalculator {
	return &LegalMoveCalculator{}
}

// GrowTargets returns the cells orthogonally adjacent to one of organs that a
// new organ could occupy, in raster order without duplicates.
func (lmc *LegalMoveCalculator) GrowTargets(g *core.Grid, organs []core.Organ) []core.Coordinate {
	mask := lmc.GetLegalGrowMask(g, organs)
	var out []core.Coordinate
	for idx, ok := range mask {
		if ok {
			out = append(out, core.FromIndex(idx, g.W))
		}
	}
	return out
}

// GetLegalGrowMask returns a flattened W*H mask where true marks a cell an
// organ can be grown onto this turn. Index = y*W + x.
func (lmc *LegalMoveCalculator) GetLegalGrowMask(g *core.Grid, organs []core.Organ) []bool {
	mask := make([]bool, g.Len())
	for _, o := range organs {
		for _, n := range o.Pos.ValidNeighbors(g.W, g.H) {
			c, _ := g.Get(n)
			if c.IsEmpty() || c.HasProtein() {
				mask[g.Idx(n)] = true
			}
		}
	}
	return mask
}

// CanAct reports whether a player owning organs has somewhere to grow and
// can pay for at least one organ type.
func (lmc *LegalMoveCalculator) CanAct(g *core.Grid, organs []core.Organ, stock core.Stock, costs core.GrowthCosts) bool {
	affordable := false
	for _, t := range growable {
		if costs.Affordable(stock, t) {
			affordable = true
			break
		}
	}
	if !affordable {
		return false
	}
	for _, ok := range lmc.GetLegalGrowMask(g, organs) {
		if ok {
			return true
		}
	}
	return false
}

// Placement resolves where a grow command lands. A target next to the parent
// is used as is; a distant target is approached by one cell along the
// cheapest path, and that cell must be free.
func (lmc *LegalMoveCalculator) Placement(g *core.Grid, parent core.Organ, target core.Coordinate) (core.Coordinate, error) {
	if parent.Pos.IsAdjacentTo(target) {
		return target, nil
	}

	cost, path := pathfind.ShortestPath(g, parent.Pos, target)
	if cost == pathfind.Unreachable || len(path) == 0 {
		return target, core.ErrTargetBlocked
	}
	step := path[0]
	c, _ := g.Get(step)
	if c.IsWall() || c.HasOrgan() {
		return step, core.ErrTargetBlocked
	}
	return step, nil
}
