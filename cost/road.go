package cost

import (
	"github.com/turnforge/ttdpf/astar"
	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfnode"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// RoadPayload carries the per-node state a road query needs beyond its key:
// road queries have no segment cache (spec §4.4), so the node's position is
// its ExitdirKey and the payload holds only whether a choice was passed.
type RoadPayload struct {
	ChoiceSeen bool
}

// RoadEngine is the astar instantiation a road query runs. Road merges
// paths reaching the same tile from the same direction regardless of exact
// track geometry (spec §4.4), so its key is the coarser ExitdirKey.
type RoadEngine = astar.Engine[pfnode.ExitdirKey, RoadPayload]

// RoadContext owns one road query's state.
type RoadContext struct {
	Map      *worldmap.Map
	Settings config.Settings
	Opts     follower.Options
}

func NewRoadContext(m *worldmap.Map, s config.Settings, opts follower.Options) *RoadContext {
	return &RoadContext{Map: m, Settings: s, Opts: opts}
}

// canonicalTrackdirForExit picks the lowest-numbered trackdir that leaves a
// tile via exit (there may be more than one geometry doing so, e.g. a
// straight and a curve sharing an exit side); re-deriving one representative
// is enough to call the follower, since ExitdirKey deliberately discards the
// distinction between them (spec §4.4).
func canonicalTrackdirForExit(exit tile.DiagDir) tile.Trackdir {
	for td := tile.Trackdir(0); td < tile.NumTrackdirs; td++ {
		if tile.TrackdirToExitdir(td) == exit {
			return td
		}
	}
	return tile.InvalidTrackdir
}

// stopPenalty returns the per-tile road-stop penalty, accounting for
// occupancy (spec §4.4 "drive-through/bay stop occupancy penalties").
func (c *RoadContext) stopPenalty(t tile.Index) int64 {
	data := c.Map.TileAt(t)
	if data == nil || data.Type != worldmap.TileStation {
		return 0
	}
	cost := c.Settings.RoadStopPenalty
	if data.SingleDirectionOnly {
		if data.StationPlatformReserved {
			cost += c.Settings.RoadStopBayOccupiedPenalty
		}
	} else if data.StationPlatformReserved {
		cost += c.Settings.RoadStopOccupiedPenalty
	}
	return cost
}

// speedPenalty applies the bridge/rail-type speed-limit formula of spec
// §4.4: YAPF_TILE_LENGTH x (max_veh_speed - segment_speed) x (4 +
// tiles_skipped) / max_veh_speed, clamped to zero when the segment isn't
// the bottleneck.
func speedPenalty(maxVehSpeed, segmentSpeed, tilesSkipped int64) int64 {
	if maxVehSpeed <= 0 || segmentSpeed >= maxVehSpeed {
		return 0
	}
	return tileLength * (maxVehSpeed - segmentSpeed) * (4 + tilesSkipped) / maxVehSpeed
}

// oneTileRoadCost computes the per-tile cost component of spec §4.4: base
// length, slope, level-crossing-equivalent, and stop penalties, mirroring
// OneTileCost/SlopeCost/StopPenalty from yapf_costrail.hpp's road sibling.
func (c *RoadContext) oneTileRoadCost(t tile.Index, td tile.Trackdir) int64 {
	cost := oneTileCost(c.Map, t, td)
	cost += slopeCost(c.Settings, c.Map, t)
	if data := c.Map.TileAt(t); data != nil && data.Type == worldmap.TileTunnelBridgeHead {
		cost += c.Settings.RoadCrossingPenalty
	}
	cost += c.stopPenalty(t)
	return cost
}

// NewEngine wires Expand/Destination. Road queries walk one tile per
// expansion (no cached segments): the node key is the coarse exit-direction
// key, successors come straight from the follower, and the search stops
// only when a node satisfies the destination predicate.
func (c *RoadContext) NewEngine(h Heuristic, hit TargetHit) *RoadEngine {
	expand := func(e *RoadEngine, idx int32) []astar.Successor[pfnode.ExitdirKey, RoadPayload] {
		k := e.Key(idx)
		curPayload := e.Payload(idx)
		td := canonicalTrackdirForExit(k.Exit)
		step, res := follower.Follow(c.Map, c.Opts, k.Tile, td)
		if res != follower.OK {
			return nil
		}
		isChoice := len(step.Trackdirs) > 1
		var out []astar.Successor[pfnode.ExitdirKey, RoadPayload]
		for _, ntd := range step.Trackdirs {
			exit := tile.TrackdirToExitdir(ntd)
			cost := c.oneTileRoadCost(step.NewTile, ntd)
			if step.TilesSkipped > 0 {
				cost += tileLength * int64(step.TilesSkipped)
			}
			out = append(out, astar.Successor[pfnode.ExitdirKey, RoadPayload]{
				Key:      pfnode.ExitdirKey{Tile: step.NewTile, Exit: exit},
				G:        e.G(idx) + cost,
				H:        h(step.NewTile, ntd),
				IsChoice: isChoice,
				Payload:  RoadPayload{ChoiceSeen: curPayload.ChoiceSeen || isChoice},
			})
		}
		return out
	}
	dest := func(e *RoadEngine, idx int32) bool {
		k := e.Key(idx)
		for _, td := range tile.DiagdirReachesTrackdirs(tile.ReverseDiagDir(k.Exit)) {
			if hit(k.Tile, td) {
				return true
			}
		}
		return false
	}
	return astar.New(expand, dest)
}

// Seed adds the query's starting tile/exit-direction to e.
func (c *RoadContext) Seed(e *RoadEngine, origin tile.Index, exit tile.DiagDir, h Heuristic) {
	e.AddOrigin(pfnode.ExitdirKey{Tile: origin, Exit: exit}, h(origin, 0), RoadPayload{})
}
