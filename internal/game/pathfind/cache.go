package pathfind

import "github.com/maximepeter/utg-2024/internal/game/core"

// Cache memoizes one full search per origin for the lifetime of a turn, so
// every target evaluated that turn reuses the same tree.
type Cache struct {
	grid  *core.Grid
	trees map[core.Coordinate]*Tree
	runs  int
}

// NewCache creates an empty cache bound to the grid of the current turn
func NewCache(g *core.Grid) *Cache {
	return &Cache{grid: g, trees: make(map[core.Coordinate]*Tree)}
}

// From returns the search tree rooted at src, running it on first use
func (c *Cache) From(src core.Coordinate) *Tree {
	if t, ok := c.trees[src]; ok {
		return t
	}
	t := FromSource(c.grid, src)
	c.trees[src] = t
	c.runs++
	return t
}

// Runs returns how many searches were actually executed
func (c *Cache) Runs() int { return c.runs }

// Grid returns the grid the cache was built for
func (c *Cache) Grid() *core.Grid { return c.grid }
