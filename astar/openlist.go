package astar

// openEntry is one slot of the priority queue: which arena node it points
// to, its cached f value, and an insertion sequence number used as the
// tie-break ahead of any heap-order instability (spec §5: "earlier
// insertion into open set" is tie-break #2). pos mirrors the teacher's
// dijkstraItem.index field (lib/rules_engine.go) - the heap slot the item
// currently occupies, kept in sync by Swap so a node can be located and
// fixed/removed by identity in O(log n) instead of a linear FindIndex scan.
type openEntry struct {
	node int32
	f    int64
	seq  int64
	pos  int
}

// openHeap implements heap.Interface ordered by (f, seq) - the same shape
// as the teacher's dijkstraHeap, generalised from a bare cost to f = g+h
// and extended with the sequence tie-break spec §5 requires for
// determinism.
type openHeap []*openEntry

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}

func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *openHeap) Push(x any) {
	e := x.(*openEntry)
	e.pos = len(*h)
	*h = append(*h, e)
}

func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.pos = -1
	*h = old[:n-1]
	return e
}
