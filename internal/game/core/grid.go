package core

import (
	"fmt"
	"math"
	"strings"
)

// MaxWeight is the cost reported for unreachable targets. It is larger than
// any real path cost on a contest-sized grid.
const MaxWeight = math.MaxInt32

// CellKind describes what occupies a cell
type CellKind int

const (
	CellEmpty CellKind = iota
	CellWall
	CellProtein
	CellOrgan
)

// Cell is a per-turn value describing one grid square.
// Protein is meaningful for CellProtein, OrganID and Owner for CellOrgan.
type Cell struct {
	Pos     Coordinate
	Kind    CellKind
	Protein ProteinType
	OrganID int
	Owner   Owner
	Weight  int
}

func (c Cell) IsWall() bool     { return c.Kind == CellWall }
func (c Cell) HasProtein() bool { return c.Kind == CellProtein }
func (c Cell) HasOrgan() bool   { return c.Kind == CellOrgan }
func (c Cell) IsEmpty() bool    { return c.Kind == CellEmpty }

// Blocks reports whether a search may not continue through this cell.
// A blocking cell can still be the goal of a search.
func (c Cell) Blocks() bool { return c.Kind == CellWall }

// Weights is the cost of entering a cell of each kind
type Weights struct {
	Empty   int
	Protein int
	Organ   int
	Wall    int
}

// DefaultWeights keeps walls and organs far above any open path length
func DefaultWeights() Weights {
	return Weights{
		Empty:   1,
		Protein: 3,
		Organ:   1000,
		Wall:    1000,
	}
}

// Of returns the weight for a cell kind
func (w Weights) Of(kind CellKind) int {
	switch kind {
	case CellWall:
		return w.Wall
	case CellProtein:
		return w.Protein
	case CellOrgan:
		return w.Organ
	default:
		return w.Empty
	}
}

// Grid is a fixed-size row-major array of cells
type Grid struct {
	W, H    int
	weights Weights
	cells   []Cell
}

// NewGrid allocates an empty grid
func NewGrid(w, h int, weights Weights) *Grid {
	g := &Grid{W: w, H: h, weights: weights, cells: make([]Cell, w*h)}
	g.Reset()
	return g
}

// Reset turns every cell back into an empty unit-weight cell
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = g.EmptyCell(FromIndex(i, g.W))
	}
}

func (g *Grid) Weights() Weights { return g.weights }

func (g *Grid) Idx(c Coordinate) int { return c.ToIndex(g.W) }

// InBounds checks if the coordinate is within grid boundaries
func (g *Grid) InBounds(c Coordinate) bool {
	return c.IsValid(g.W, g.H)
}

// Get returns the cell at c, or false when c is outside the grid
func (g *Grid) Get(c Coordinate) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[g.Idx(c)], true
}

// At returns the cell at a raw index
func (g *Grid) At(idx int) Cell { return g.cells[idx] }

// Len returns the number of cells
func (g *Grid) Len() int { return len(g.cells) }

// Set replaces the cell at c. Writing outside the grid is a programming error.
func (g *Grid) Set(c Coordinate, cell Cell) {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("grid: set %s outside %dx%d", c, g.W, g.H))
	}
	cell.Pos = c
	g.cells[g.Idx(c)] = cell
}

func (g *Grid) EmptyCell(c Coordinate) Cell {
	return Cell{Pos: c, Kind: CellEmpty, Owner: OwnerNone, Weight: g.weights.Empty}
}

func (g *Grid) WallCell(c Coordinate) Cell {
	return Cell{Pos: c, Kind: CellWall, Owner: OwnerNone, Weight: g.weights.Wall}
}

func (g *Grid) ProteinCell(c Coordinate, p ProteinType) Cell {
	return Cell{Pos: c, Kind: CellProtein, Protein: p, Owner: OwnerNone, Weight: g.weights.Protein}
}

func (g *Grid) OrganCell(o Organ) Cell {
	return Cell{Pos: o.Pos, Kind: CellOrgan, OrganID: o.ID, Owner: o.Owner, Weight: g.weights.Organ}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, weights: g.weights, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

var organSymbols = map[OrganType]byte{
	OrganRoot:      'R',
	OrganBasic:     'O',
	OrganHarvester: 'H',
	OrganTentacle:  'T',
	OrganSporer:    'S',
}

// OrganSymbol returns the rendering symbol for an organ: upper case for our
// own organs, lower case for the opponent's.
func OrganSymbol(t OrganType, owner Owner) byte {
	s, ok := organSymbols[t]
	if !ok {
		s = '?'
	}
	if owner == OwnerOpponent {
		s += 'a' - 'A'
	}
	return s
}

// Render draws the grid as ASCII rows. Organ types are looked up with kindOf;
// a nil kindOf renders every organ as a basic organ.
func (g *Grid) Render(kindOf func(organID int) OrganType) string {
	var sb strings.Builder
	sb.Grow((g.W + 1) * g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.cells[y*g.W+x]
			switch c.Kind {
			case CellWall:
				sb.WriteByte('#')
			case CellProtein:
				sb.WriteString(c.Protein.String())
			case CellOrgan:
				t := OrganBasic
				if kindOf != nil {
					t = kindOf(c.OrganID)
				}
				sb.WriteByte(OrganSymbol(t, c.Owner))
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grid) String() string { return g.Render(nil) }
