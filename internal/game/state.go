package game

import (
	"fmt"
	"sort"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

// WorldState is the snapshot of one turn, seen from our side of the board.
// It is rebuilt from scratch every turn; nothing in it survives to the next.
type WorldState struct {
	Turn            int
	Grid            *core.Grid
	MyOrgans        []core.Organ
	OppOrgans       []core.Organ
	Proteins        []core.ProteinUnit
	MyStock         core.Stock
	OppStock        core.Stock
	RequiredActions int

	organs map[int]core.Organ
}

// NewWorldState allocates an empty snapshot for a w×h grid
func NewWorldState(w, h int, weights core.Weights) *WorldState {
	return &WorldState{
		Grid:   core.NewGrid(w, h, weights),
		organs: make(map[int]core.Organ),
	}
}

// Reset clears everything parsed from the previous turn. Turn is kept.
func (ws *WorldState) Reset() {
	ws.Grid.Reset()
	ws.MyOrgans = ws.MyOrgans[:0]
	ws.OppOrgans = ws.OppOrgans[:0]
	ws.Proteins = ws.Proteins[:0]
	ws.MyStock = core.Stock{}
	ws.OppStock = core.Stock{}
	ws.RequiredActions = 0
	ws.organs = make(map[int]core.Organ)
}

// Apply records one entity of the snapshot
func (ws *WorldState) Apply(e core.Entity) error {
	if !ws.Grid.InBounds(e.Pos) {
		return fmt.Errorf("entity at %s: %w", e.Pos, core.ErrInvalidCoordinates)
	}

	switch e.Kind {
	case core.EntityWall:
		ws.Grid.Set(e.Pos, ws.Grid.WallCell(e.Pos))
	case core.EntityProtein:
		ws.Grid.Set(e.Pos, ws.Grid.ProteinCell(e.Pos, e.Protein))
		ws.Proteins = append(ws.Proteins, core.ProteinUnit{Pos: e.Pos, Type: e.Protein})
	case core.EntityOrgan:
		o := e.Organ
		o.Pos = e.Pos
		switch o.Owner {
		case core.OwnerSelf:
			ws.MyOrgans = append(ws.MyOrgans, o)
		case core.OwnerOpponent:
			ws.OppOrgans = append(ws.OppOrgans, o)
		default:
			return fmt.Errorf("organ %d: %w", o.ID, core.ErrUnknownOwner)
		}
		ws.organs[o.ID] = o
		ws.Grid.Set(e.Pos, ws.Grid.OrganCell(o))
	default:
		return fmt.Errorf("entity kind %d: %w", e.Kind, core.ErrUnknownEntityType)
	}
	return nil
}

// Organ looks up any organ on the board by id
func (ws *WorldState) Organ(id int) (core.Organ, bool) {
	o, ok := ws.organs[id]
	return o, ok
}

// KindOf returns the type of organ id, BASIC when unknown
func (ws *WorldState) KindOf(id int) core.OrganType {
	if o, ok := ws.organs[id]; ok {
		return o.Type
	}
	return core.OrganBasic
}

// OrgansOf returns the organs of one player
func (ws *WorldState) OrgansOf(owner core.Owner) []core.Organ {
	if owner == core.OwnerSelf {
		return ws.MyOrgans
	}
	return ws.OppOrgans
}

// Organisms groups a player's organs by root, ordered by root id, organs by id
func (ws *WorldState) Organisms(owner core.Owner) [][]core.Organ {
	byRoot := make(map[int][]core.Organ)
	for _, o := range ws.OrgansOf(owner) {
		byRoot[o.RootID] = append(byRoot[o.RootID], o)
	}

	roots := make([]int, 0, len(byRoot))
	for id := range byRoot {
		roots = append(roots, id)
	}
	sort.Ints(roots)

	out := make([][]core.Organ, 0, len(roots))
	for _, id := range roots {
		organs := byRoot[id]
		sort.Slice(organs, func(i, j int) bool { return organs[i].ID < organs[j].ID })
		out = append(out, organs)
	}
	return out
}

// Harvested returns the protein cells a player's harvesters already face
func (ws *WorldState) Harvested(owner core.Owner) map[core.Coordinate]bool {
	out := make(map[core.Coordinate]bool)
	for _, o := range ws.OrgansOf(owner) {
		if o.Type != core.OrganHarvester {
			continue
		}
		if target, ok := o.Faces(); ok {
			if c, ok := ws.Grid.Get(target); ok && c.HasProtein() {
				out[target] = true
			}
		}
	}
	return out
}

// FreeProteins lists the proteins of type p that none of our harvesters face yet
func (ws *WorldState) FreeProteins(p core.ProteinType) []core.ProteinUnit {
	claimed := ws.Harvested(core.OwnerSelf)
	var out []core.ProteinUnit
	for _, u := range ws.Proteins {
		if u.Type == p && !claimed[u.Pos] {
			out = append(out, u)
		}
	}
	return out
}

// Income returns the proteins a player's harvesters yield each turn
func (ws *WorldState) Income(owner core.Owner) core.Stock {
	var income core.Stock
	for pos := range ws.Harvested(owner) {
		c, _ := ws.Grid.Get(pos)
		income = income.Add(c.Protein, 1)
	}
	return income
}

// Render draws the grid with organ types resolved
func (ws *WorldState) Render() string {
	return ws.Grid.Render(ws.KindOf)
}
