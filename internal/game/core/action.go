package core

// ActionType represents the type of action
type ActionType int

const (
	ActionWait ActionType = iota
	ActionGrow
)

// Action is the single command emitted for one action slot
type Action interface {
	GetType() ActionType
	Validate(g *Grid) error
}

// GrowAction grows a new organ of type Organ from ParentID towards Target.
// Dir is NoDirection for non-directional organs.
type GrowAction struct {
	ParentID int
	Target   Coordinate
	Organ    OrganType
	Dir      Direction
}

func (a *GrowAction) GetType() ActionType { return ActionGrow }

// Validate checks the parts of the action that only depend on the grid
func (a *GrowAction) Validate(g *Grid) error {
	cell, ok := g.Get(a.Target)
	if !ok {
		return ErrInvalidCoordinates
	}
	if cell.IsWall() || cell.HasOrgan() {
		return ErrTargetBlocked
	}
	if a.Organ == OrganRoot {
		return ErrNotGrowable
	}
	if a.Organ.Directional() && a.Dir == NoDirection {
		return ErrMissingDirection
	}
	return nil
}

// WaitAction is the explicit no-op
type WaitAction struct{}

func (WaitAction) GetType() ActionType  { return ActionWait }
func (WaitAction) Validate(*Grid) error { return nil }

// NewGrow builds a grow action without direction
func NewGrow(parentID int, target Coordinate, organ OrganType) *GrowAction {
	return &GrowAction{ParentID: parentID, Target: target, Organ: organ, Dir: NoDirection}
}

// NewDirectedGrow builds a grow action for a directional organ
func NewDirectedGrow(parentID int, target Coordinate, organ OrganType, dir Direction) *GrowAction {
	return &GrowAction{ParentID: parentID, Target: target, Organ: organ, Dir: dir}
}
