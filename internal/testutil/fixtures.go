package testutil

import (
	"fmt"

	"github.com/maximepeter/utg-2024/internal/game"
	"github.com/maximepeter/utg-2024/internal/game/core"
)

// Fixture is a board drawn as ASCII rows:
//
//	'.' empty, '#' wall, 'A'-'D' proteins,
//	'R' root, 'O' basic, 'H' harvester, 'T' tentacle, 'S' sporer.
//
// Organ letters are ours in upper case and the opponent's in lower case.
// Ids are handed out in raster order starting at 1. Every non-root organ
// hangs off the first root of its owner; harvesters face their first
// neighbouring protein (North when there is none).
type Fixture struct {
	Width, Height int
	Entities      []core.Entity
}

var organLetters = map[byte]core.OrganType{
	'R': core.OrganRoot,
	'O': core.OrganBasic,
	'H': core.OrganHarvester,
	'T': core.OrganTentacle,
	'S': core.OrganSporer,
}

// ParseRows builds a fixture. It panics on malformed input since fixtures are test code.
func ParseRows(rows ...string) Fixture {
	if len(rows) == 0 {
		panic("testutil: empty fixture")
	}
	f := Fixture{Width: len(rows[0]), Height: len(rows)}
	for y, row := range rows {
		if len(row) != f.Width {
			panic(fmt.Sprintf("testutil: row %d has width %d, want %d", y, len(row), f.Width))
		}
	}

	at := func(c core.Coordinate) byte {
		if !c.IsValid(f.Width, f.Height) {
			return '.'
		}
		return rows[c.Y][c.X]
	}

	type pending struct {
		pos   core.Coordinate
		kind  core.OrganType
		owner core.Owner
	}
	var organs []pending
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			pos := core.Coordinate{X: x, Y: y}
			ch := row[x]
			switch {
			case ch == '.':
			case ch == '#':
				f.Entities = append(f.Entities, core.WallEntity(pos))
			case ch >= 'A' && ch <= 'D':
				p, _ := core.ParseProteinType(string(ch))
				f.Entities = append(f.Entities, core.ProteinEntity(pos, p))
			default:
				owner := core.OwnerSelf
				upper := ch
				if ch >= 'a' && ch <= 'z' {
					owner = core.OwnerOpponent
					upper = ch - ('a' - 'A')
				}
				kind, ok := organLetters[upper]
				if !ok {
					panic(fmt.Sprintf("testutil: unknown symbol %q at %s", ch, pos))
				}
				organs = append(organs, pending{pos: pos, kind: kind, owner: owner})
			}
		}
	}

	firstRoot := map[core.Owner]int{}
	for i, p := range organs {
		if _, seen := firstRoot[p.owner]; !seen && p.kind == core.OrganRoot {
			firstRoot[p.owner] = i + 1
		}
	}

	for i, p := range organs {
		id := i + 1
		o := core.Organ{ID: id, Owner: p.owner, Pos: p.pos, Type: p.kind, Dir: core.NoDirection}
		if p.kind == core.OrganRoot {
			o.RootID = id
		} else {
			o.RootID = firstRoot[p.owner]
			o.ParentID = firstRoot[p.owner]
			if o.RootID == 0 {
				o.RootID = id
			}
		}
		if p.kind == core.OrganHarvester {
			o.Dir = core.North
			for _, d := range []core.Direction{core.North, core.East, core.South, core.West} {
				if ch := at(p.pos.Move(d)); ch >= 'A' && ch <= 'D' {
					o.Dir = d
					break
				}
			}
		}
		f.Entities = append(f.Entities, core.OrganEntity(o))
	}
	return f
}

// Grid builds a grid holding the fixture
func (f Fixture) Grid(weights core.Weights) *core.Grid {
	return f.World(weights, core.Stock{}, core.Stock{}, 1).Grid
}

// World builds a WorldState holding the fixture
func (f Fixture) World(weights core.Weights, my, opp core.Stock, required int) *game.WorldState {
	ws := game.NewWorldState(f.Width, f.Height, weights)
	for _, e := range f.Entities {
		if err := ws.Apply(e); err != nil {
			panic(err)
		}
	}
	ws.MyStock = my
	ws.OppStock = opp
	ws.RequiredActions = required
	return ws
}

// OrganAt returns the fixture organ placed at pos
func (f Fixture) OrganAt(pos core.Coordinate) core.Organ {
	for _, e := range f.Entities {
		if e.Kind == core.EntityOrgan && e.Pos == pos {
			return e.Organ
		}
	}
	panic(fmt.Sprintf("testutil: no organ at %s", pos))
}
