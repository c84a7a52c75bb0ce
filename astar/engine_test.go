package astar

import "testing"

// A simple 1-D line graph: keys are ints, moving either +1 or -1 costs 1.
// Heuristic is Manhattan distance to a fixed goal.

func lineExpand(goal int) Expand[int, struct{}] {
	return func(e *Engine[int, struct{}], idx int32) []Successor[int, struct{}] {
		k := e.Key(idx)
		g := e.G(idx)
		abs := func(x int) int64 {
			if x < 0 {
				return int64(-x)
			}
			return int64(x)
		}
		mk := func(nk int) Successor[int, struct{}] {
			return Successor[int, struct{}]{Key: nk, G: g + 1, H: abs(goal - nk), IsChoice: true}
		}
		return []Successor[int, struct{}]{mk(k + 1), mk(k - 1)}
	}
}

func destAt(goal int) Destination[int, struct{}] {
	return func(e *Engine[int, struct{}], idx int32) bool { return e.Key(idx) == goal }
}

func TestEngineFindsShortestPath(t *testing.T) {
	e := New(lineExpand(5), destAt(5))
	e.MaxSearchNodes = 1000
	e.AddOrigin(0, 5, struct{}{})
	if !e.Run() {
		t.Fatal("expected to find the destination")
	}
	best := e.BestNode()
	if e.G(best) != 5 {
		t.Errorf("expected optimal cost 5, got %d", e.G(best))
	}
	path := e.Path(best)
	if path[0] != 0 || path[len(path)-1] != 5 {
		t.Errorf("unexpected path %v", path)
	}
}

func TestEngineOpenClosedDisjoint(t *testing.T) {
	e := New(lineExpand(5), destAt(5))
	e.AddOrigin(0, 5, struct{}{})
	e.Run()
	for k, idx := range e.closedIdx {
		if _, stillOpen := e.openIdx[k]; stillOpen {
			t.Errorf("key %v present in both open and closed (idx %d)", k, idx)
		}
	}
}

func TestEngineOriginEqualsDestination(t *testing.T) {
	e := New(lineExpand(0), destAt(0))
	e.AddOrigin(0, 0, struct{}{})
	if !e.Run() {
		t.Fatal("origin==destination must report success")
	}
	if e.G(e.BestNode()) != 0 {
		t.Error("origin==destination must have zero cost")
	}
}

func TestEngineMaxSearchNodesLimitsExploration(t *testing.T) {
	// A goal far enough away that a tiny node budget cannot reach it.
	e := New(lineExpand(10000), destAt(10000))
	e.MaxSearchNodes = 5
	e.AddOrigin(0, 10000, struct{}{})
	found := e.Run()
	if found {
		t.Fatal("should not find the distant destination with a tiny budget")
	}
	if !e.LimitHit() {
		t.Error("expected LimitHit to be true")
	}
	if e.BestNode() == -1 {
		t.Error("best intermediate node should still be retained on limit hit")
	}
}

func TestEngineReplacesOpenNodeWithBetterCost(t *testing.T) {
	// Two paths of different cost (10 direct, 2 via key 2) converge on the
	// same key; the engine must
	// keep the cheaper one without leaving the heap in an invalid state.
	var e *Engine[int, struct{}]
	expand := func(eng *Engine[int, struct{}], idx int32) []Successor[int, struct{}] {
		k := eng.Key(idx)
		switch k {
		case 0:
			return []Successor[int, struct{}]{
				{Key: 1, G: 10, H: 0},
				{Key: 2, G: 1, H: 0},
			}
		case 2:
			return []Successor[int, struct{}]{{Key: 1, G: 2, H: 0}}
		}
		return nil
	}
	e = New(expand, destAt(1))
	e.AddOrigin(0, 0, struct{}{})
	if !e.Run() {
		t.Fatal("expected success")
	}
	if e.G(e.BestNode()) != 2 {
		t.Errorf("expected the cheaper 0->2->1 path cost 2, got %d", e.G(e.BestNode()))
	}
}
