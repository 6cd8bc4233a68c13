package core

import "fmt"

// OrganType is the kind of an organ
type OrganType int

const (
	OrganRoot OrganType = iota
	OrganBasic
	OrganHarvester
	OrganTentacle
	OrganSporer
)

var organCodes = map[OrganType]string{
	OrganRoot:      "ROOT",
	OrganBasic:     "BASIC",
	OrganHarvester: "HARVESTER",
	OrganTentacle:  "TENTACLE",
	OrganSporer:    "SPORER",
}

func (t OrganType) String() string {
	if code, ok := organCodes[t]; ok {
		return code
	}
	return fmt.Sprintf("OrganType(%d)", int(t))
}

// ParseOrganType converts a protocol code into an OrganType
func ParseOrganType(code string) (OrganType, bool) {
	for t, c := range organCodes {
		if c == code {
			return t, true
		}
	}
	return 0, false
}

// Directional reports whether growing this organ requires a facing direction
func (t OrganType) Directional() bool {
	return t == OrganHarvester || t == OrganTentacle || t == OrganSporer
}

// Owner identifies which player an organ belongs to
type Owner int

const (
	OwnerNone     Owner = -1
	OwnerOpponent Owner = 0
	OwnerSelf     Owner = 1
)

// ParseOwner validates a protocol owner field
func ParseOwner(v int) (Owner, error) {
	switch Owner(v) {
	case OwnerNone, OwnerOpponent, OwnerSelf:
		return Owner(v), nil
	}
	return OwnerNone, fmt.Errorf("%w: %d", ErrUnknownOwner, v)
}

// Opponent returns the other player
func (o Owner) Opponent() Owner {
	switch o {
	case OwnerSelf:
		return OwnerOpponent
	case OwnerOpponent:
		return OwnerSelf
	}
	return OwnerNone
}

// Organ is an immobile unit occupying one cell. Organs are snapshotted every
// turn and never mutated.
type Organ struct {
	ID       int
	Owner    Owner
	ParentID int // 0 for roots
	RootID   int
	Pos      Coordinate
	Type     OrganType
	Dir      Direction
}

// IsRoot reports whether the organ founded its organism
func (o Organ) IsRoot() bool { return o.ParentID == 0 }

// Faces returns the cell the organ points at, if it has a direction
func (o Organ) Faces() (Coordinate, bool) {
	if o.Dir == NoDirection {
		return o.Pos, false
	}
	return o.Pos.Move(o.Dir), true
}

// GrowthCosts maps organ types to their protein price
type GrowthCosts map[OrganType]Stock

// DefaultGrowthCosts returns the stock prices used when no configuration overrides them
func DefaultGrowthCosts() GrowthCosts {
	return GrowthCosts{
		OrganBasic:     NewStock(1, 0, 0, 0),
		OrganHarvester: NewStock(1, 0, 1, 0),
		OrganTentacle:  NewStock(0, 1, 1, 0),
		OrganSporer:    NewStock(0, 1, 0, 1),
		OrganRoot:      NewStock(1, 1, 1, 1),
	}
}

// Affordable reports whether stock covers the price of t. Unknown types are never affordable.
func (gc GrowthCosts) Affordable(stock Stock, t OrganType) bool {
	cost, ok := gc[t]
	if !ok {
		return false
	}
	return stock.Covers(cost)
}
