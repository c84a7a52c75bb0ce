// Package astar implements the generic A*-style search skeleton of spec
// §4.2: hash-indexed open/closed sets, a binary min-heap ordered by f,
// best-node retention, and the termination/pruning rules. It is generic
// over the node key K and a caller-supplied payload P (spec §9 Design
// Notes explicitly allows "independent monomorphisations of the same
// engine skeleton sharing the open/closed set structure by generics" -
// this is that skeleton), the same way the teacher's
// lib/rules_engine.go dijkstraHeap/dijkstraItem pair is a heap.Interface
// specialised to one coordinate type, generalised here to any comparable
// key and parametrised further by an admissible heuristic.
package astar

import "container/heap"

// Successor is one candidate next node produced by the caller's expansion
// function.
type Successor[K comparable, P any] struct {
	Key      K
	G        int64
	H        int64
	IsChoice bool
	Payload  P
}

// node is the arena-stored search tree node (spec §9: "dense arena
// indexed by u32; parent pointers are arena indices").
type node[K comparable, P any] struct {
	Key      K
	Parent   int32
	G        int64
	H        int64
	IsChoice bool
	Payload  P
	closed   bool
}

const noParent int32 = -1

// F returns g+h for the node at arena index i.
func (e *Engine[K, P]) F(i int32) int64 { return e.nodes[i].G + e.nodes[i].H }

// Expand, when non-nil, produces the successors of the node at idx. It is
// the bridge to a follower + cost model for one specific transport.
type Expand[K comparable, P any] func(e *Engine[K, P], idx int32) []Successor[K, P]

// Destination reports whether the node at idx satisfies the query's
// destination predicate (spec §4.7).
type Destination[K comparable, P any] func(e *Engine[K, P], idx int32) bool

// Engine runs one query. Construct with New, seed with AddOrigin one or
// more times (spec §4.7 "two-end origin" seeds two), then call Run.
type Engine[K comparable, P any] struct {
	nodes []node[K, P]

	openIdx map[K]int32 // key -> arena index, only while open
	heapPos map[int32]*openEntry
	pq      openHeap
	seq     int64

	closedIdx map[K]int32

	MaxSearchNodes int   // 0 = no limit (spec §6 constants)
	MaxCost        int64 // 0 = no limit

	Expand      Expand[K, P]
	Destination Destination[K, P]

	bestIntermediate int32 // arena index of lowest-H node seen, -1 if none
	bestDestination  int32 // arena index of a destination node, -1 if none

	closedCount int
	limitHit    bool
}

// New constructs an empty engine ready to be seeded.
func New[K comparable, P any](expand Expand[K, P], dest Destination[K, P]) *Engine[K, P] {
	return &Engine[K, P]{
		openIdx:          make(map[K]int32),
		heapPos:          make(map[int32]*openEntry),
		closedIdx:        make(map[K]int32),
		Expand:           expand,
		Destination:      dest,
		bestIntermediate: -1,
		bestDestination:  -1,
	}
}

// AddOrigin seeds the open set with one starting node (SetOrigin in spec
// §4.2; called twice by two-end-origin queries, spec §4.7 kind 4).
func (e *Engine[K, P]) AddOrigin(key K, h int64, payload P) {
	e.AddOriginG(key, 0, h, payload)
}

// AddOriginG is AddOrigin with an explicit starting cost. Rail queries need
// this: the origin's own track segment is costed before the search ever
// expands it (spec §4.3 "PfCalcCost is called for the start node too"), so
// its g is not zero by the time it is seeded.
func (e *Engine[K, P]) AddOriginG(key K, g, h int64, payload P) {
	idx := int32(len(e.nodes))
	e.nodes = append(e.nodes, node[K, P]{Key: key, Parent: noParent, G: g, H: h, Payload: payload})
	e.pushOpen(idx)
	e.updateBestIntermediate(idx)
}

func (e *Engine[K, P]) pushOpen(idx int32) {
	e.openIdx[e.nodes[idx].Key] = idx
	entry := &openEntry{node: idx, f: e.F(idx), seq: e.seq}
	e.seq++
	heap.Push(&e.pq, entry)
	e.heapPos[idx] = entry
}

func (e *Engine[K, P]) removeOpen(idx int32) {
	entry, ok := e.heapPos[idx]
	if !ok {
		return
	}
	heap.Remove(&e.pq, entry.pos)
	delete(e.heapPos, idx)
	delete(e.openIdx, e.nodes[idx].Key)
}

func (e *Engine[K, P]) updateBestIntermediate(idx int32) {
	if e.bestIntermediate == -1 || e.nodes[idx].H < e.nodes[e.bestIntermediate].H {
		e.bestIntermediate = idx
	}
}

// Run executes the main loop of spec §4.2 and reports whether a
// destination node was found.
func (e *Engine[K, P]) Run() bool {
	for e.pq.Len() > 0 {
		top := e.pq[0].node

		// Early pruning: a destination already found beats continuing.
		if e.bestDestination != -1 && e.F(e.bestDestination) < e.F(top) {
			break
		}

		entry := heap.Pop(&e.pq).(*openEntry)
		idx := entry.node
		delete(e.heapPos, idx)
		delete(e.openIdx, e.nodes[idx].Key)

		if e.Destination(e, idx) {
			if e.bestDestination == -1 || e.F(idx) < e.F(e.bestDestination) {
				e.bestDestination = idx
			}
			break
		}

		if e.MaxSearchNodes > 0 && e.closedCount >= e.MaxSearchNodes {
			e.limitHit = true
			break
		}

		for _, succ := range e.Expand(e, idx) {
			if e.MaxCost > 0 && succ.G > e.MaxCost {
				continue
			}
			if _, isClosed := e.closedIdx[succ.Key]; isClosed {
				continue
			}
			if existing, isOpen := e.openIdx[succ.Key]; isOpen {
				if succ.G+succ.H < e.F(existing) {
					e.nodes[existing].G = succ.G
					e.nodes[existing].H = succ.H
					e.nodes[existing].Parent = idx
					e.nodes[existing].IsChoice = succ.IsChoice
					e.nodes[existing].Payload = succ.Payload
					oe := e.heapPos[existing]
					oe.f = e.F(existing)
					heap.Fix(&e.pq, oe.pos)
				}
				continue
			}
			newIdx := int32(len(e.nodes))
			e.nodes = append(e.nodes, node[K, P]{
				Key: succ.Key, Parent: idx, G: succ.G, H: succ.H,
				IsChoice: succ.IsChoice, Payload: succ.Payload,
			})
			e.pushOpen(newIdx)
			e.updateBestIntermediate(newIdx)
		}

		e.nodes[idx].closed = true
		e.closedIdx[e.nodes[idx].Key] = idx
		e.closedCount++
	}
	return e.bestDestination != -1
}

// BestNode returns the destination node if one was found, otherwise the
// best intermediate node (spec §4.2 best_node()).
func (e *Engine[K, P]) BestNode() int32 {
	if e.bestDestination != -1 {
		return e.bestDestination
	}
	return e.bestIntermediate
}

// LimitHit reports whether the search stopped because MaxSearchNodes was
// reached (spec §7 "distinct internal telemetry code").
func (e *Engine[K, P]) LimitHit() bool { return e.limitHit }

// ClosedCount returns the number of nodes moved to the closed set.
func (e *Engine[K, P]) ClosedCount() int { return e.closedCount }

// Node accessors, kept narrow so callers can't mutate engine internals.
func (e *Engine[K, P]) Key(idx int32) K        { return e.nodes[idx].Key }
func (e *Engine[K, P]) G(idx int32) int64      { return e.nodes[idx].G }
func (e *Engine[K, P]) H(idx int32) int64      { return e.nodes[idx].H }
func (e *Engine[K, P]) Parent(idx int32) int32 { return e.nodes[idx].Parent }
func (e *Engine[K, P]) Payload(idx int32) P    { return e.nodes[idx].Payload }
func (e *Engine[K, P]) IsChoice(idx int32) bool { return e.nodes[idx].IsChoice }
func (e *Engine[K, P]) HasParent(idx int32) bool { return e.nodes[idx].Parent != noParent }

// Path walks the parent chain from idx back to the origin, returning keys
// in origin-to-idx order.
func (e *Engine[K, P]) Path(idx int32) []K {
	var rev []K
	for i := idx; i != noParent; i = e.nodes[i].Parent {
		rev = append(rev, e.nodes[i].Key)
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}
