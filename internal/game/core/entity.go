package core

// EntityKind is the closed set of things the referee reports on a cell
type EntityKind int

const (
	EntityWall EntityKind = iota
	EntityProtein
	EntityOrgan
)

// Entity is one parsed line of the turn snapshot
type Entity struct {
	Pos     Coordinate
	Kind    EntityKind
	Protein ProteinType // EntityProtein only
	Organ   Organ       // EntityOrgan only
}

// WallEntity builds a wall entity
func WallEntity(pos Coordinate) Entity {
	return Entity{Pos: pos, Kind: EntityWall}
}

// ProteinEntity builds a protein entity
func ProteinEntity(pos Coordinate, p ProteinType) Entity {
	return Entity{Pos: pos, Kind: EntityProtein, Protein: p}
}

// OrganEntity builds an organ entity. The organ position is authoritative.
func OrganEntity(o Organ) Entity {
	return Entity{Pos: o.Pos, Kind: EntityOrgan, Organ: o}
}
