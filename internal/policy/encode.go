package policy

import "github.com/maximepeter/utg-2024/internal/game/core"

// encodeHarvest turns an approach into a grow action. A harvester facing the
// protein is grown when the approach cell touches the organ and the price is
// covered; otherwise a basic organ heads for the approach cell. The boolean
// reports whether a harvester was emitted. A nil action means nothing is
// affordable.
func encodeHarvest(a Approach, stock core.Stock, costs core.GrowthCosts) (*core.GrowAction, bool) {
	dir := a.Cell.DirectionTo(a.Protein.Pos)
	if a.Adjacent() && dir != core.NoDirection && costs.Affordable(stock, core.OrganHarvester) {
		return core.NewDirectedGrow(a.Organ.ID, a.Cell, core.OrganHarvester, dir), true
	}
	if costs.Affordable(stock, core.OrganBasic) {
		return core.NewGrow(a.Organ.ID, a.Cell, core.OrganBasic), false
	}
	return nil, false
}
