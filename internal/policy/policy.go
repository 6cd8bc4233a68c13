// Package policy turns a WorldState into one grow or wait command per
// required action. Policies are single-turn greedy: every decision is made
// from the current snapshot plus the small State value threaded between turns.
package policy

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/config"
	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/events"
)

const (
	KindThreshold = "threshold"
	KindScripted  = "scripted"
)

var ErrUnknownPolicy = errors.New("unknown policy")

// Policy decides the actions of one turn
type Policy interface {
	Name() string
	// Decide returns exactly ws.RequiredActions actions and the state for the next turn
	Decide(ws *game.WorldState, st State) ([]core.Action, State)
	// Searches returns how many shortest-path searches the last Decide ran
	Searches() int
}

// Options configures a policy
type Options struct {
	Costs      core.GrowthCosts
	StageOrder []core.ProteinType
	Thresholds [4]int // multipliers of the required action count, A..D
	Logger     zerolog.Logger
	Publisher  events.Publisher // optional
	MatchID    string
}

// DefaultOptions returns the reference tuning
func DefaultOptions() Options {
	return Options{
		Costs:      core.DefaultGrowthCosts(),
		StageOrder: []core.ProteinType{core.ProteinA, core.ProteinC, core.ProteinD, core.ProteinB},
		Thresholds: [4]int{1, 2, 1, 2},
		Logger:     zerolog.Nop(),
	}
}

// OptionsFromConfig builds options from a validated bot configuration
func OptionsFromConfig(c config.BotConfig) (Options, error) {
	order, err := c.StageProteins()
	if err != nil {
		return Options{}, err
	}
	opts := DefaultOptions()
	opts.Costs = c.GrowthCosts()
	opts.StageOrder = order
	opts.Thresholds = c.ThresholdMultipliers()
	return opts, nil
}

// New creates the policy named kind
func New(kind string, opts Options) (Policy, error) {
	switch kind {
	case KindThreshold:
		return NewThreshold(opts), nil
	case KindScripted:
		return NewScripted(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, kind)
}

// decision is what one action slot settled on
type decision struct {
	action core.Action
	reason string
	cost   int
}

// turn is the scratch state shared by the action slots of one turn
type turn struct {
	ws        *game.WorldState
	sel       *TargetSelector
	stock     core.Stock
	slot      int
	organisms [][]core.Organ
}

func newTurn(ws *game.WorldState) *turn {
	return &turn{
		ws:        ws,
		sel:       NewTargetSelector(ws.Grid),
		stock:     ws.MyStock,
		organisms: ws.Organisms(core.OwnerSelf),
	}
}

// organs returns the organs allowed to act for the current slot: the matching
// organism when there is one, every organ we own otherwise.
func (t *turn) organs() []core.Organ {
	if t.slot < len(t.organisms) {
		return t.organisms[t.slot]
	}
	return t.ws.MyOrgans
}

// free returns the unharvested, unreserved proteins of type p
func (t *turn) free(p core.ProteinType) []core.ProteinUnit {
	var out []core.ProteinUnit
	for _, u := range t.ws.FreeProteins(p) {
		if !t.sel.Reserved(u.Pos) {
			out = append(out, u)
		}
	}
	return out
}

// commit pays for a grow action and reserves the cells it claims
func (t *turn) commit(a core.Action, costs core.GrowthCosts) {
	grow, ok := a.(*core.GrowAction)
	if !ok {
		return
	}
	t.stock = t.stock.Sub(costs[grow.Organ])
	t.sel.Reserve(grow.Target)
	if grow.Organ == core.OrganHarvester {
		t.sel.Reserve(grow.Target.Move(grow.Dir))
	}
}

// base holds what both policies share: the slot loop, expansion and reporting
type base struct {
	opts     Options
	logger   zerolog.Logger
	searches int
}

func newBase(name string, opts Options) base {
	if opts.Costs == nil {
		opts.Costs = core.DefaultGrowthCosts()
	}
	return base{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "policy").Str("policy", name).Logger(),
	}
}

func (b *base) Searches() int { return b.searches }

func (b *base) publish(e events.Event) {
	if b.opts.Publisher != nil {
		b.opts.Publisher.Publish(e)
	}
}

// run asks slot for one decision per required action
func (b *base) run(ws *game.WorldState, slot func(t *turn) decision) []core.Action {
	t := newTurn(ws)
	actions := make([]core.Action, 0, ws.RequiredActions)

	for i := 0; i < ws.RequiredActions; i++ {
		t.slot = i
		d := slot(t)
		t.commit(d.action, b.opts.Costs)
		actions = append(actions, d.action)

		b.logger.Debug().
			Int("turn", ws.Turn).
			Int("slot", i).
			Str("reason", d.reason).
			Int("cost", d.cost).
			Str("stock_left", t.stock.String()).
			Msg("Action chosen")
		b.publish(events.NewActionChosenEvent(b.opts.MatchID, ws.Turn, i, d.action, d.reason, d.cost))
	}

	b.searches = t.sel.Searches()
	return actions
}

// expand is the default action: grow a basic organ on the first reachable
// empty cell in raster order, or WAIT when that is impossible.
func (b *base) expand(t *turn, why string) decision {
	b.logger.Info().Int("turn", t.ws.Turn).Int("slot", t.slot).Str("why", why).Msg("Falling back to expansion")
	b.publish(events.NewFallbackUsedEvent(b.opts.MatchID, t.ws.Turn, t.slot, why))

	organs := t.organs()
	if len(organs) == 0 {
		return decision{action: core.WaitAction{}, reason: "no organs"}
	}
	if !b.opts.Costs.Affordable(t.stock, core.OrganBasic) {
		return decision{action: core.WaitAction{}, reason: "basic organ unaffordable"}
	}
	r, ok := t.sel.Expansion(organs)
	if !ok {
		return decision{action: core.WaitAction{}, reason: "no reachable empty cell"}
	}
	return decision{
		action: core.NewGrow(r.Organ.ID, r.Cell, core.OrganBasic),
		reason: "expand",
		cost:   r.Cost,
	}
}

// harvest tries to grow towards the closest free protein of type p. The last
// result is false when there is no candidate, no reachable approach or
// nothing affordable; the middle one reports a harvester.
func (b *base) harvest(t *turn, p core.ProteinType) (decision, bool, bool) {
	organs := t.organs()
	free := t.free(p)
	if len(organs) == 0 || len(free) == 0 {
		return decision{}, false, false
	}
	a, found := t.sel.ClosestApproach(organs, free)
	if !found {
		return decision{}, false, false
	}
	grow, harvester := encodeHarvest(a, t.stock, b.opts.Costs)
	if grow == nil {
		return decision{}, false, false
	}

	reason := "approach " + p.String()
	if harvester {
		reason = "harvest " + p.String()
	}
	return decision{action: grow, reason: reason, cost: a.Cost}, harvester, true
}
