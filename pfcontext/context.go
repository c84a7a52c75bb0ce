// Package pfcontext is the pathfinder's external-facing facade (spec §6
// "External Interfaces" / §9 "Pathfinder Context"): it owns the
// long-lived, query-spanning state (one rail segment cache per owner and
// the water-region table) and exposes the handful of operations callers
// actually invoke, each wiring one cost/destination/heuristic combination
// into a fresh search.
package pfcontext

import (
	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/cost"
	"github.com/turnforge/ttdpf/destination"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/reservation"
	"github.com/turnforge/ttdpf/river"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/water"
	"github.com/turnforge/ttdpf/worldmap"
)

// Context is one long-lived pathfinder session over a single Map.
type Context struct {
	Map      *worldmap.Map
	Settings config.Settings

	WaterTable *water.Table

	// railCaches holds one RailContext per owner so a query's cached
	// segments persist across calls, each entry individually checked
	// against the map's track-layout counter on lookup (spec §5) rather
	// than flushed wholesale here.
	railCaches map[int32]*cost.RailContext
}

// New constructs a Context over m, initializing the water-region table and
// an empty per-owner rail cache set.
func New(m *worldmap.Map, s config.Settings) *Context {
	return &Context{
		Map:        m,
		Settings:   s,
		WaterTable: water.NewTable(m),
		railCaches: make(map[int32]*cost.RailContext),
	}
}

func (c *Context) railContext(opts follower.Options) *cost.RailContext {
	rc, ok := c.railCaches[opts.Owner]
	if !ok {
		rc = cost.NewRailContext(c.Map, c.Settings, opts)
		c.railCaches[opts.Owner] = rc
		return rc
	}
	rc.Opts = opts
	return rc
}

// NotifyTrackLayoutChange forwards to the map's counter (spec §6 external
// interface); existing cached rail segments go stale lazily, on their next
// lookup.
func (c *Context) NotifyTrackLayoutChange(t tile.Index, bits tile.TrackBits) {
	c.Map.NotifyTrackLayoutChange(t, bits)
}

// InvalidateWaterRegion forwards to the map's dirty-flag bookkeeping (spec
// §6 external interface).
func (c *Context) InvalidateWaterRegion(t tile.Index) {
	c.Map.InvalidateWaterRegion(t, water.RegionEdge)
}

// ChooseNextTrack runs a rail search from (origin, originTd) toward target
// (a tile, or any tile of its station) and returns the trackdir of the
// first step the vehicle should take (spec §6 "ChooseNextTrack").
func (c *Context) ChooseNextTrack(opts follower.Options, origin tile.Index, originTd tile.Trackdir, target tile.Index) (tile.Trackdir, bool) {
	rc := c.railContext(opts)
	hit := destination.TileOrStation(c.Map, target)
	h := func(t tile.Index, _ tile.Trackdir) int64 { return cost.ManhattanTiles(c.Map.Size, t, target) }

	e := rc.NewEngine(h, hit)
	if !rc.Seed(e, origin, originTd, h, hit) {
		return tile.InvalidTrackdir, false
	}
	if !e.Run() {
		return tile.InvalidTrackdir, false
	}
	path := e.Path(e.BestNode())
	if len(path) < 2 {
		return originTd, true
	}
	return path[1].Trackdir, true
}

// FindNearestDepot searches for the closest depot of opts.Transport
// reachable from (origin, originTd) using plain Dijkstra (spec §6 "find
// nearest depot", §4.6 "heuristic=0").
func (c *Context) FindNearestDepot(opts follower.Options, origin tile.Index, originTd tile.Trackdir, maxCost int64) (tile.Index, bool) {
	rc := c.railContext(opts)
	rc.MaxCost = maxCost
	hit := destination.AnyDepot(c.Map, opts.Transport)

	e := rc.NewEngine(cost.ZeroHeuristic, hit)
	if !rc.Seed(e, origin, originTd, cost.ZeroHeuristic, hit) {
		return 0, false
	}
	if !e.Run() {
		return 0, false
	}
	return e.Payload(e.BestNode()).LastTile, true
}

// FindNearestSafeTile searches for the nearest PBS-safe waiting position
// (spec §6/§4.7 kind 3), used when a reservation attempt needs to fall back
// to an earlier stopping point, and reserves the path to it on success
// (spec §6: this entry point has a reservation side-effect, unlike
// ChooseNextTrack or FindNearestDepot). dontReserve skips that side-effect
// for callers that only want to know where the tile is.
func (c *Context) FindNearestSafeTile(opts follower.Options, origin tile.Index, originTd tile.Trackdir, dontReserve bool) (tile.Index, tile.Trackdir, bool) {
	rc := c.railContext(opts)
	hit := destination.AnySafeTile(c.Map, opts.Forbid90)

	e := rc.NewEngine(cost.ZeroHeuristic, hit)
	if !rc.Seed(e, origin, originTd, cost.ZeroHeuristic, hit) {
		return 0, 0, false
	}
	if !e.Run() {
		return 0, 0, false
	}
	p := e.Payload(e.BestNode())
	if !dontReserve {
		steps := expandRailPath(c.Map, opts, e)
		if !reservation.Reserve(c.Map, steps) {
			return 0, 0, false
		}
	}
	return p.LastTile, p.LastTrackdir, true
}

// CheckReverse runs the two-end-origin search of spec §4.7 kind 4: seeds
// both the vehicle's current facing and its reversed facing (penalized by
// RailDepotReversePenalty as the reverse origin's g-offset) against the
// same target, and reports whether the winning path started at the
// reversed origin.
func (c *Context) CheckReverse(opts follower.Options, origin tile.Index, forwardTd, reverseTd tile.Trackdir, target tile.Index) bool {
	rc := c.railContext(opts)
	hit := destination.TileOrStation(c.Map, target)
	h := func(t tile.Index, _ tile.Trackdir) int64 { return cost.ManhattanTiles(c.Map.Size, t, target) }

	e := rc.NewEngine(h, hit)
	rc.Seed(e, origin, forwardTd, h, hit)
	rc.SeedWithPenalty(e, origin, reverseTd, c.Settings.RailDepotReversePenalty, h, hit)

	if !e.Run() {
		return false
	}
	path := e.Path(e.BestNode())
	return len(path) > 0 && path[0].Trackdir == reverseTd
}

// RegionPatch is one hop of a ShipFindWaterRegionPath result.
type RegionPatch struct {
	RegionX, RegionY int
	Patch            uint8
}

// ShipFindWaterRegionPath runs the region-graph search of spec §4.9 from
// originTile toward the region containing destTile, returning the chain of
// region/patch hops a tile-level ship search should then be restricted to,
// truncated to at most maxReturnedPathLength hops starting from the origin
// patch (spec §6 "max_returned_path_length", 0 = no limit).
func (c *Context) ShipFindWaterRegionPath(originTile, destTile tile.Index, maxReturnedPathLength int) ([]RegionPatch, bool) {
	destRX := c.Map.Size.X(destTile) / water.RegionEdge
	destRY := c.Map.Size.Y(destTile) / water.RegionEdge

	e := c.WaterTable.NewEngine(destRX, destRY, 0)
	e.MaxSearchNodes = water.NodeLimit(c.Map.Size.Width() * c.Map.Size.Height())
	if !c.WaterTable.SeedOrigin(e, originTile, destRX, destRY) {
		return nil, false
	}
	if !e.Run() {
		return nil, false
	}
	path := e.Path(e.BestNode())
	if maxReturnedPathLength > 0 && len(path) > maxReturnedPathLength {
		path = path[:maxReturnedPathLength]
	}
	out := make([]RegionPatch, len(path))
	for i, k := range path {
		out[i] = RegionPatch{RegionX: k.RegionX, RegionY: k.RegionY, Patch: k.Patch}
	}
	return out, true
}

// BuildRiver runs the river search of spec §4.10 from startTile to
// endTile and returns the resulting path. Widening for designated main
// rivers is the caller's job via river.WidenRadius/river.SpiralTiles,
// since laying extra tiles mutates terrain this package has no write
// access to.
func (c *Context) BuildRiver(startTile, endTile tile.Index, flowsDown river.FlowsDown, rnd river.RandomRange) ([]tile.Index, bool) {
	e := river.NewEngine(c.Map.Size, flowsDown, rnd, c.Settings.RiverRouteRandom, endTile)
	river.Seed(e, c.Map.Size, startTile, endTile)
	if !e.Run() {
		return nil, false
	}
	return e.Path(e.BestNode()), true
}

// Reserve claims the given path's track for PBS (spec §4.8), re-exported
// off Context so callers that already hold a found path don't need a
// separate import.
func (c *Context) Reserve(path []reservation.Step) bool { return reservation.Reserve(c.Map, path) }

// Release undoes a Reserve call.
func (c *Context) Release(path []reservation.Step) { reservation.Release(c.Map, path) }

// FindAndReservePath runs the same rail search as ChooseNextTrack to
// completion and, on success, reserves the winning path from its first
// safe waiting position onward (spec §4.8 steps 1-2), returning the full
// trackdir sequence only if the reservation pass also succeeded.
func (c *Context) FindAndReservePath(opts follower.Options, origin tile.Index, originTd tile.Trackdir, target tile.Index) ([]tile.Trackdir, bool) {
	rc := c.railContext(opts)
	hit := destination.TileOrStation(c.Map, target)
	h := func(t tile.Index, _ tile.Trackdir) int64 { return cost.ManhattanTiles(c.Map.Size, t, target) }

	e := rc.NewEngine(h, hit)
	if !rc.Seed(e, origin, originTd, h, hit) {
		return nil, false
	}
	if !e.Run() {
		return nil, false
	}
	steps := expandRailPath(c.Map, opts, e)
	if _, ok := reservation.ReserveFromSafeWaitingPosition(c.Map, steps, opts.Forbid90); !ok {
		return nil, false
	}
	tds := make([]tile.Trackdir, len(steps))
	for i, s := range steps {
		tds[i] = s.Trackdir
	}
	return tds, true
}

// expandRailPath walks every tile of the rail engine's winning node chain.
// Each node's key only records its segment's entry (tile, trackdir) (spec
// §4.3's segment cache keys on (first_tile, first_trackdir), not every
// tile in between); its payload's LastTile/LastTrackdir records where that
// segment actually ends, so re-running the follower from entry to that
// recorded end reconstructs the full tile-by-tile sequence the PBS
// reservation pass needs (spec §4.8 claims track per tile, not per
// segment).
func expandRailPath(m *worldmap.Map, opts follower.Options, e *cost.RailEngine) []reservation.Step {
	best := e.BestNode()
	if best == -1 {
		return nil
	}
	var chain []int32
	for idx := best; ; idx = e.Parent(idx) {
		chain = append(chain, idx)
		if !e.HasParent(idx) {
			break
		}
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}

	var out []reservation.Step
	for _, idx := range chain {
		k := e.Key(idx)
		p := e.Payload(idx)
		cur, curTd := k.Tile, k.Trackdir
		segment := []reservation.Step{{Tile: cur, Trackdir: curTd}}
		for cur != p.LastTile || curTd != p.LastTrackdir {
			step, res := follower.Follow(m, opts, cur, curTd)
			if res != follower.OK {
				break
			}
			nextTd := step.Trackdirs[0]
			if step.NewTile == p.LastTile {
				nextTd = p.LastTrackdir
			}
			cur, curTd = step.NewTile, nextTd
			segment = append(segment, reservation.Step{Tile: cur, Trackdir: curTd})
		}
		if len(out) > 0 && out[len(out)-1].Tile == k.Tile {
			// The previous segment ended on this same tile (a forced
			// reverse keeps the vehicle where it is); this segment's own
			// key is the trackdir it leaves with, so it overrides rather
			// than duplicates that entry.
			out[len(out)-1] = segment[0]
			segment = segment[1:]
		}
		out = append(out, segment...)
	}
	return out
}
