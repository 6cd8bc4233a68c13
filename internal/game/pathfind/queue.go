package pathfind

// frontierItem is a lazily-decreased queue entry. Stale entries are skipped
// when popped because their cell is already finalized.
type frontierItem struct {
	idx  int
	cost int
	seq  int // insertion order, breaks cost ties
}

// frontier is a min-heap ordered by cost then insertion order
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
