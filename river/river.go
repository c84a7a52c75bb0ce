// Package river implements the river-building search of spec §4.10,
// ported from original_source's yapf_river_builder.cpp: an A* search
// (cost = 1 + a small random jitter per tile, Manhattan estimate to the
// endpoint) over "flows downhill"
// successors from a spring to an endpoint, followed by a width-widening
// pass along the path for designated main rivers.
package river

import (
	"github.com/turnforge/ttdpf/astar"
	"github.com/turnforge/ttdpf/tile"
)

// FlowsDown reports whether water may flow from 'from' to 'to' - terrain
// height/slope knowledge the civil-engineering subsystem owns, injected so
// this package stays a pure search over an abstract successor predicate
// (spec §4.10 "flow-down successor predicate (external/injected)").
type FlowsDown func(from, to tile.Index) bool

// RandomRange draws a value in [0, n) for the cost jitter. Injected rather
// than using a package-level RNG so callers can seed determinism the same
// way original_source's RandomRange draws from the game's seeded PRNG.
type RandomRange func(n int) int

// Engine is the astar instantiation a river search runs: a plain tile key,
// no payload, A* with PfCalcEstimate = Manhattan distance to the river's
// endpoint (spec §4.10).
type Engine = astar.Engine[tile.Index, struct{}]

// NewEngine wires the flow-down expansion and a single-tile destination
// predicate (spec §4.10: end_tile).
func NewEngine(size tile.Size, flowsDown FlowsDown, rnd RandomRange, routeRandom int, endTile tile.Index) *Engine {
	expand := func(e *Engine, idx int32) []astar.Successor[tile.Index, struct{}] {
		cur := e.Key(idx)
		var out []astar.Successor[tile.Index, struct{}]
		for d := tile.DiagDirNE; d < tile.NumDiagDirs; d++ {
			next, ok := size.AddByDiagDir(cur, d)
			if !ok || !flowsDown(cur, next) {
				continue
			}
			jitter := 0
			if routeRandom > 0 {
				jitter = rnd(routeRandom)
			}
			dx := size.X(next) - size.X(endTile)
			dy := size.Y(next) - size.Y(endTile)
			h := manhattan(dx, dy)
			out = append(out, astar.Successor[tile.Index, struct{}]{
				Key: next,
				G:   e.G(idx) + 1 + int64(jitter),
				H:   h,
			})
		}
		return out
	}
	dest := func(e *Engine, idx int32) bool { return e.Key(idx) == endTile }
	return astar.New(expand, dest)
}

func manhattan(dx, dy int) int64 {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return int64(dx + dy)
}

// Seed adds startTile with h = Manhattan distance to endTile.
func Seed(e *Engine, size tile.Size, startTile, endTile tile.Index) {
	dx := size.X(startTile) - size.X(endTile)
	dy := size.Y(startTile) - size.Y(endTile)
	e.AddOrigin(startTile, manhattan(dx, dy), struct{}{})
}

// WidenRadius computes the diameter (capped at 3 tiles) that a main river
// should be widened to at a path tile currentRiverLength tiles from its
// spring, growing with distance (spec §4.10 "delta-widening capped at 3
// tiles growing with spring distance", ported from yapf_river_builder.cpp's
// BuildRiver: min(3, current_river_length/(long_river_length/3) + 1)).
func WidenRadius(currentRiverLength, longRiverLength int) int {
	if longRiverLength <= 0 {
		return 1
	}
	step := longRiverLength / 3
	if step <= 0 {
		step = 1
	}
	d := currentRiverLength/step + 1
	if d > 3 {
		d = 3
	}
	return d
}

// SpiralTiles returns every tile within Chebyshev-radius (diameter-1)/2 of
// center, in a deterministic order (rows by ascending dy, each row by
// ascending dx) - the square-grid
// substitute for original_source's SpiralTileSequence, which widening uses
// to place extra river tiles around a path tile.
func SpiralTiles(size tile.Size, center tile.Index, diameter int) []tile.Index {
	if diameter <= 1 {
		return []tile.Index{center}
	}
	radius := diameter / 2
	cx, cy := size.X(center), size.Y(center)
	var out []tile.Index
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= size.Width() || y >= size.Height() {
				continue
			}
			out = append(out, size.TileXY(x, y))
		}
	}
	return out
}
