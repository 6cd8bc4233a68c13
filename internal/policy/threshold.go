package policy

import (
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
)

// Threshold harvests whichever protein our stock is short of. Needs are
// evaluated in A, B, C, D order and a higher need always preempts a lower
// one, whatever the path costs.
type Threshold struct {
	base
}

// NewThreshold creates a threshold policy
func NewThreshold(opts Options) *Threshold {
	return &Threshold{base: newBase(KindThreshold, opts)}
}

func (p *Threshold) Name() string { return KindThreshold }

// Needs reports, per protein, whether the stock is below its multiple of the required action count
func (p *Threshold) Needs(ws *game.WorldState) [4]bool {
	var needs [4]bool
	for _, pt := range core.ProteinTypes {
		needs[pt] = ws.MyStock.Get(pt) < p.opts.Thresholds[pt]*ws.RequiredActions
	}
	return needs
}

func (p *Threshold) Decide(ws *game.WorldState, st State) ([]core.Action, State) {
	needs := p.Needs(ws)
	p.logger.Debug().
		Int("turn", ws.Turn).
		Bools("needs", needs[:]).
		Str("stock", ws.MyStock.String()).
		Msg("Needs computed")

	actions := p.run(ws, func(t *turn) decision {
		for _, pt := range core.ProteinTypes {
			if !needs[pt] {
				continue
			}
			if d, _, ok := p.harvest(t, pt); ok {
				return d
			}
		}
		return p.expand(t, "no satisfiable need")
	})
	return actions, st
}
