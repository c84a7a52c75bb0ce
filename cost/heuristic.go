package cost

import (
	"github.com/turnforge/ttdpf/tile"
)

func abs(x int) int64 {
	if x < 0 {
		return int64(-x)
	}
	return int64(x)
}

// ManhattanTiles returns the Manhattan tile distance between a and b scaled
// to cost units, the admissible heuristic spec §4.6 prescribes for rail and
// road queries targeting a tile or the nearest tile of a station.
func ManhattanTiles(s tile.Size, a, b tile.Index) int64 {
	dx := abs(s.X(a) - s.X(b))
	dy := abs(s.Y(a) - s.Y(b))
	return (dx + dy) * tileLength
}

// OctileTiles is the admissible heuristic for queries that allow 45-degree
// diagonal movement at no extra cost over an axis-aligned step (water
// top-level search, spec §4.6).
func OctileTiles(s tile.Size, a, b tile.Index) int64 {
	dx := abs(s.X(a) - s.X(b))
	dy := abs(s.Y(a) - s.Y(b))
	diag := dx
	if dy < diag {
		diag = dy
	}
	straight := dx + dy - 2*diag
	return diag*tileLength + straight*tileLength
}

// ZeroHeuristic turns the search into plain Dijkstra (spec §4.6: depot
// search and safe-tile search use this, since there is no single target
// tile to estimate distance to).
func ZeroHeuristic(tile.Index, tile.Trackdir) int64 { return 0 }

// NearestOf returns the minimum heuristic value across a set of candidate
// target tiles (spec §4.6 "...or nearest station tile").
func NearestOf(s tile.Size, from tile.Index, targets []tile.Index, estimate func(tile.Size, tile.Index, tile.Index) int64) int64 {
	if len(targets) == 0 {
		return 0
	}
	best := estimate(s, from, targets[0])
	for _, t := range targets[1:] {
		if v := estimate(s, from, t); v < best {
			best = v
		}
	}
	return best
}

// DirectNeighbourCost is the per-region-hop cost the hierarchical water
// search uses (spec §4.9), and AntiStraightLinePenalty the +1 added when a
// hop continues the previous hop's direction, so ties between otherwise
// equal-cost routes favor the one that zig-zags rather than runs straight
// through a region (spec §4.6/§4.9).
const DirectNeighbourCost = 100
const AntiStraightLinePenalty = 1

// RegionHeuristic estimates the remaining region-hop cost with Manhattan
// distance over region coordinates scaled by DirectNeighbourCost (spec
// §4.9 "Manhattan x DIRECT_NEIGHBOUR_COST").
func RegionHeuristic(fromX, fromY, toX, toY int) int64 {
	dx := abs(fromX - toX)
	dy := abs(fromY - toY)
	return (dx + dy) * DirectNeighbourCost
}
