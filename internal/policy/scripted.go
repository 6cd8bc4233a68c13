package policy

import (
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
)

// Scripted walks a fixed protein order, one harvester per stage. The stage
// only advances once a harvester for it has actually been grown.
type Scripted struct {
	base
}

// NewScripted creates a scripted policy
func NewScripted(opts Options) *Scripted {
	return &Scripted{base: newBase(KindScripted, opts)}
}

func (p *Scripted) Name() string { return KindScripted }

// Order returns the protein order of the stages
func (p *Scripted) Order() []core.ProteinType { return p.opts.StageOrder }

func (p *Scripted) Decide(ws *game.WorldState, st State) ([]core.Action, State) {
	actions := p.run(ws, func(t *turn) decision {
		if st.Stage >= len(p.opts.StageOrder) {
			return p.expand(t, "stages exhausted")
		}

		protein := p.opts.StageOrder[st.Stage]
		d, harvester, ok := p.harvest(t, protein)
		if !ok {
			return p.expand(t, "no reachable free "+protein.String())
		}
		if harvester {
			p.publish(events.NewStageAdvancedEvent(p.opts.MatchID, ws.Turn, st.Stage, st.Stage+1))
			p.logger.Info().Int("turn", ws.Turn).Int("stage", st.Stage+1).Msg("Stage advanced")
			st.Stage++
		}
		return d
	})
	return actions, st
}
