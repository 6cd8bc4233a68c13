package game

import (
	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

// ProductionManager credits harvester income at the end of each turn
type ProductionManager struct {
	logger zerolog.Logger
}

// NewProductionManager creates a new production manager
func NewProductionManager(logger zerolog.Logger) *ProductionManager {
	return &ProductionManager{
		logger: logger.With().Str("component", "ProductionManager").Logger(),
	}
}

// Income returns what owner's harvesters yield this turn: HarvestYield per
// distinct protein cell faced, however many harvesters face it.
func (pm *ProductionManager) Income(grid *core.Grid, organs []core.Organ) core.Stock {
	faced := make(map[core.Coordinate]bool)
	var income core.Stock
	for _, o := range organs {
		if o.Type != core.OrganHarvester {
			continue
		}
		target, ok := o.Faces()
		if !ok || faced[target] {
			continue
		}
		if c, inBounds := grid.Get(target); inBounds && c.HasProtein() {
			faced[target] = true
			income = income.Add(c.Protein, HarvestYield)
		}
	}
	return income
}

// ProcessTurnProduction applies harvester income for every player
func (pm *ProductionManager) ProcessTurnProduction(e *Engine, turn int) {
	for _, p := range Players {
		income := pm.Income(e.grid, e.OrgansOf(p))
		for _, t := range core.ProteinTypes {
			e.stocks[p] = e.stocks[p].Add(t, income.Get(t))
		}
		pm.logger.Debug().
			Int("turn", turn).
			Int("player", int(p)).
			Str("income", income.String()).
			Str("stock", e.stocks[p].String()).
			Msg("Turn production complete")
	}
}
