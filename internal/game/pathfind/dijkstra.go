// Package pathfind computes weighted shortest paths over a 4-connected grid.
//
// Entering a cell costs that cell's weight; the source cell is never charged.
// Blocking cells (walls) can be reached as the goal of a search but are never
// expanded, so a wall line separates the grid. Every other kind of cell is
// traversable, however expensive.
//
// Complexity is O(E log V) with V = width*height and E = 4V, using a lazy
// decrease-key binary heap.
package pathfind

import (
	"container/heap"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

// Unreachable is the cost reported for goals no search finalized
const Unreachable = core.MaxWeight

const noPredecessor = -1

// Tree holds the result of one single-source search. A tree built by
// FromSource answers cost and path queries for every cell of the grid.
type Tree struct {
	grid   *core.Grid
	source core.Coordinate
	dist   []int
	prev   []int
	done   []bool
}

// FromSource runs a full single-source search from src
func FromSource(g *core.Grid, src core.Coordinate) *Tree {
	return search(g, src, -1)
}

// ShortestPath returns the cost and the steps from start to goal. The path
// excludes start and includes goal. An unreachable or out-of-bounds goal
// yields Unreachable and an empty path.
func ShortestPath(g *core.Grid, start, goal core.Coordinate) (int, []core.Coordinate) {
	if !g.InBounds(goal) {
		return Unreachable, nil
	}
	t := search(g, start, g.Idx(goal))
	return t.Cost(goal), t.PathTo(goal)
}

func search(g *core.Grid, src core.Coordinate, goalIdx int) *Tree {
	n := g.Len()
	t := &Tree{
		grid:   g,
		source: src,
		dist:   make([]int, n),
		prev:   make([]int, n),
		done:   make([]bool, n),
	}
	for i := range t.dist {
		t.dist[i] = Unreachable
		t.prev[i] = noPredecessor
	}
	if !g.InBounds(src) {
		return t
	}

	srcIdx := g.Idx(src)
	t.dist[srcIdx] = 0

	pq := make(frontier, 0, n)
	seq := 0
	heap.Push(&pq, frontierItem{idx: srcIdx, cost: 0, seq: seq})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(frontierItem)
		u := item.idx
		if t.done[u] {
			continue
		}
		t.done[u] = true
		if u == goalIdx {
			break
		}

		cell := g.At(u)
		if u != srcIdx && cell.Blocks() {
			continue
		}

		for _, next := range cell.Pos.Neighbors() {
			nc, ok := g.Get(next)
			if !ok {
				continue
			}
			v := g.Idx(next)
			if t.done[v] {
				continue
			}
			nd := t.dist[u] + nc.Weight
			if nd >= t.dist[v] {
				continue
			}
			t.dist[v] = nd
			t.prev[v] = u
			seq++
			heap.Push(&pq, frontierItem{idx: v, cost: nd, seq: seq})
		}
	}
	return t
}

// Source returns the origin of the search
func (t *Tree) Source() core.Coordinate { return t.source }

// Cost returns the finalized cost to goal, or Unreachable
func (t *Tree) Cost(goal core.Coordinate) int {
	if !t.grid.InBounds(goal) {
		return Unreachable
	}
	idx := t.grid.Idx(goal)
	if !t.done[idx] {
		return Unreachable
	}
	return t.dist[idx]
}

// Reached reports whether goal was finalized by the search
func (t *Tree) Reached(goal core.Coordinate) bool {
	return t.Cost(goal) != Unreachable
}

// PathTo reconstructs the steps from the source to goal, source excluded.
func (t *Tree) PathTo(goal core.Coordinate) []core.Coordinate {
	if !t.Reached(goal) || goal == t.source {
		return nil
	}

	var path []core.Coordinate
	for idx := t.grid.Idx(goal); idx != noPredecessor; idx = t.prev[idx] {
		pos := core.FromIndex(idx, t.grid.W)
		if pos == t.source {
			break
		}
		path = append(path, pos)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FirstStep returns the first cell on the way to goal
func (t *Tree) FirstStep(goal core.Coordinate) (core.Coordinate, bool) {
	path := t.PathTo(goal)
	if len(path) == 0 {
		return t.source, false
	}
	return path[0], true
}
