package core

import "errors"

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrUnknownDirection   = errors.New("unknown direction")
	ErrUnknownEntityType  = errors.New("unknown entity type")
	ErrUnknownOwner       = errors.New("unknown owner")
	ErrUnknownParent      = errors.New("parent organ not owned by player")
	ErrTargetBlocked      = errors.New("target cell is a wall or already occupied")
	ErrMissingDirection   = errors.New("organ type requires a facing direction")
	ErrNotGrowable        = errors.New("organ type cannot be grown")
	ErrInsufficientStock  = errors.New("insufficient proteins")
	ErrOrganismActed      = errors.New("organism already acted this turn")
	ErrGameOver           = errors.New("game is over")
)
