package game

import "github.com/maximepeter/utg-2024/internal/game/core"

// Proteins credited when an organ is grown onto a protein cell
const AbsorbYield = 3

// Proteins credited per turn for each protein cell a player's harvesters face
const HarvestYield = 1

// Players lists the two sides of an arena match in resolution order
var Players = []core.Owner{core.OwnerSelf, core.OwnerOpponent}
