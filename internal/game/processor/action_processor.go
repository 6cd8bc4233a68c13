package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maximepeter/utg-2024/internal/game/core"
	"github.com/maximepeter/utg-2024/internal/game/rules"
)

// Players are resolved in this order; a stock is always debited before the
// next player's commands are looked at.
var resolveOrder = []core.Owner{core.OwnerSelf, core.OwnerOpponent}

// OrganLookup resolves organ ids. It avoids importing the game package.
type OrganLookup interface {
	Organ(id int) (core.Organ, bool)
}

// Grow is a validated command that will place an organ at Cell
type Grow struct {
	Owner  core.Owner
	Parent core.Organ
	Action *core.GrowAction
	Cell   core.Coordinate
}

// Rejection is a command that was dropped, with the reason
type Rejection struct {
	Owner  core.Owner
	Action core.Action
	Err    error
}

// Outcome is the result of resolving one turn of commands
type Outcome struct {
	Grows      []Grow
	Collisions []core.Coordinate // cells both players grew onto
	Rejected   []Rejection
	Stocks     map[core.Owner]core.Stock
}

// ActionProcessor validates grow commands, debits their cost and settles
// conflicts between players
type ActionProcessor struct {
	logger zerolog.Logger
	costs  core.GrowthCosts
	moves  *rules.LegalMoveCalculator
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger, costs core.GrowthCosts) *ActionProcessor {
	return &ActionProcessor{
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
		costs:  costs,
		moves:  rules.NewLegalMoveCalculator(),
	}
}

// ProcessActions resolves the commands of both players against grid.
// Each organism acts at most once. When both players land on the same cell
// neither organ is placed and the proteins stay spent.
func (ap *ActionProcessor) ProcessActions(ctx context.Context, grid *core.Grid, organs OrganLookup, stocks map[core.Owner]core.Stock, actions map[core.Owner][]core.Action) (Outcome, error) {
	out := Outcome{Stocks: make(map[core.Owner]core.Stock, len(stocks))}
	for owner, s := range stocks {
		out.Stocks[owner] = s
	}

	claimedBy := make(map[core.Coordinate]core.Owner)
	var accepted []Grow

	for _, owner := range resolveOrder {
		select {
		case <-ctx.Done():
			ap.logger.Warn().Err(ctx.Err()).Msg("Action processing interrupted by context cancellation")
			return out, ctx.Err()
		default:
		}

		acted := make(map[int]bool)
		for _, action := range actions[owner] {
			grow, ok := action.(*core.GrowAction)
			if !ok {
				continue
			}

			g, err := ap.resolve(grid, organs, owner, grow, acted, claimedBy, out.Stocks[owner])
			if err != nil {
				err = fmt.Errorf("player %d grow from %d to %s: %w", owner, grow.ParentID, grow.Target, err)
				ap.logger.Debug().Err(err).Msg("Rejected grow command")
				out.Rejected = append(out.Rejected, Rejection{Owner: owner, Action: action, Err: err})
				continue
			}

			out.Stocks[owner] = out.Stocks[owner].Sub(ap.costs[grow.Organ])
			acted[g.Parent.RootID] = true
			accepted = append(accepted, g)
			if prev, taken := claimedBy[g.Cell]; taken && prev != owner {
				out.Collisions = append(out.Collisions, g.Cell)
			}
			claimedBy[g.Cell] = owner
		}
	}

	collided := make(map[core.Coordinate]bool, len(out.Collisions))
	for _, c := range out.Collisions {
		collided[c] = true
	}
	for _, g := range accepted {
		if !collided[g.Cell] {
			out.Grows = append(out.Grows, g)
		}
	}

	ap.logger.Debug().
		Int("grows", len(out.Grows)).
		Int("collisions", len(out.Collisions)).
		Int("rejected", len(out.Rejected)).
		Msg("Actions processed")
	return out, nil
}

func (ap *ActionProcessor) resolve(grid *core.Grid, organs OrganLookup, owner core.Owner, grow *core.GrowAction,
	acted map[int]bool, claimedBy map[core.Coordinate]core.Owner, stock core.Stock) (Grow, error) {
	parent, ok := organs.Organ(grow.ParentID)
	if !ok || parent.Owner != owner {
		return Grow{}, core.ErrUnknownParent
	}
	if acted[parent.RootID] {
		return Grow{}, core.ErrOrganismActed
	}
	if err := grow.Validate(grid); err != nil {
		return Grow{}, err
	}

	cell, err := ap.moves.Placement(grid, parent, grow.Target)
	if err != nil {
		return Grow{}, err
	}
	if prev, taken := claimedBy[cell]; taken && prev == owner {
		return Grow{}, core.ErrTargetBlocked
	}
	if !ap.costs.Affordable(stock, grow.Organ) {
		return Grow{}, core.ErrInsufficientStock
	}
	return Grow{Owner: owner, Parent: parent, Action: grow, Cell: cell}, nil
}
