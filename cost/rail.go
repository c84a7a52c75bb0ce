// Package cost implements the per-transport cost models of spec §4.3-§4.5:
// pure functions from a track-follower step (plus accumulated segment
// state) to an incremental A* cost, grounded on
// original_source/src/pathfinder/yapf/yapf_costrail.hpp,
// yapf_costcache.hpp, yapf_costroad.hpp and yapf_costship.hpp. The teacher
// repo has no direct analogue (turnforge-weewar's combat.go computes a
// flat hex-adjacency cost); the shape below instead follows the teacher's
// general style of small pure functions operating on plain structs
// (lib/rules_engine.go's edge-weight helpers) applied to the domain this
// module actually ports.
package cost

import (
	"github.com/turnforge/ttdpf/astar"
	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfnode"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// RailEngine is the astar instantiation a rail query runs.
type RailEngine = astar.Engine[pfnode.TrackdirKey, RailPayload]

// Heuristic estimates the remaining cost from standing on (tile, trackdir).
type Heuristic func(t tile.Index, td tile.Trackdir) int64

// TargetHit reports whether (tile, trackdir) satisfies the query's
// destination predicate (spec §4.7); only consulted once a segment ends on
// a depot, waypoint, station or safe tile (ESRPossibleTarget).
type TargetHit func(t tile.Index, td tile.Trackdir) bool

// NewEngine wires this context's Expand/Destination functions into a fresh
// astar engine.
func (c *RailContext) NewEngine(h Heuristic, hit TargetHit) *RailEngine {
	expand := func(e *RailEngine, idx int32) []astar.Successor[pfnode.TrackdirKey, RailPayload] {
		p := e.Payload(idx)
		step, res := follower.Follow(c.Map, c.Opts, p.LastTile, p.LastTrackdir)
		if res != follower.OK {
			return nil
		}
		isChoice := len(step.Trackdirs) > 1
		var out []astar.Successor[pfnode.TrackdirKey, RailPayload]
		for _, td := range step.Trackdirs {
			seeded := p
			seeded.ChoiceSeen = seeded.ChoiceSeen || isChoice
			transitionCost, segCost, extraCost, newPayload, ok := c.walkSegment(true, p.LastTile, p.LastTrackdir, step.NewTile, td, seeded, hit)
			if !ok {
				continue
			}
			out = append(out, astar.Successor[pfnode.TrackdirKey, RailPayload]{
				Key:      pfnode.TrackdirKey{Tile: step.NewTile, Trackdir: td},
				G:        e.G(idx) + transitionCost + segCost + extraCost,
				H:        h(newPayload.LastTile, newPayload.LastTrackdir),
				IsChoice: isChoice,
				Payload:  newPayload,
			})
		}
		return out
	}
	dest := func(e *RailEngine, idx int32) bool {
		return e.Payload(idx).TargetSeen
	}
	return astar.New(expand, dest)
}

// Seed walks the origin's own initial segment and adds it to e, matching
// yapf_costrail.hpp calling PfCalcCost on the start node before the search
// loop ever looks at it.
func (c *RailContext) Seed(e *RailEngine, origin tile.Index, originTd tile.Trackdir, h Heuristic, hit TargetHit) bool {
	return c.SeedWithPenalty(e, origin, originTd, 0, h, hit)
}

// SeedWithPenalty is Seed with an extra fixed g-offset added on top of the
// walked segment cost, the mechanism the two-end-origin query (spec §4.7
// kind 4) uses to seed a vehicle's reversed facing alongside its forward
// one, penalized by RailDepotReversePenalty.
func (c *RailContext) SeedWithPenalty(e *RailEngine, origin tile.Index, originTd tile.Trackdir, penalty int64, h Heuristic, hit TargetHit) bool {
	_, segCost, extraCost, payload, ok := c.walkSegment(false, 0, 0, origin, originTd, RailPayload{}, hit)
	if !ok {
		return false
	}
	e.AddOriginG(pfnode.TrackdirKey{Tile: origin, Trackdir: originTd}, segCost+extraCost+penalty, h(payload.LastTile, payload.LastTrackdir), payload)
	return true
}

// EndSegmentReason is the bitset of reasons a rail segment walk stopped
// (spec §4.3 "segment termination reasons").
type EndSegmentReason uint16

const (
	ESRNone EndSegmentReason = 0
	ESRDeadEnd EndSegmentReason = 1 << iota
	ESRRailType
	ESRChoiceFollows
	ESRDepot
	ESRWaypoint
	ESRStation
	ESRSafeTile
	ESRInfiniteLoop
	ESRSegmentTooLong
	ESRPathTooLong
)

const ESRPossibleTarget = ESRDepot | ESRWaypoint | ESRStation | ESRSafeTile

// ESRAbortMask lists the reasons that prune a branch outright. ESRRailType
// and ESRSegmentTooLong end a segment but still leave a usable node behind
// them (the search may continue from there, e.g. a safe tile sitting right
// at a rail-type boundary); first-two-way-red pruning is instead handled by
// signalCost's early false return, so it never needs a bit here.
const ESRAbortMask = ESRDeadEnd | ESRInfiniteLoop | ESRPathTooLong
const ESRCachedMask = ESRDeadEnd | ESRRailType | ESRDepot | ESRWaypoint | ESRStation | ESRSafeTile | ESRChoiceFollows | ESRInfiniteLoop | ESRSegmentTooLong

const maxSegmentCost = 10000
const tileLength = 100
const tileCornerLength = 71

// RailPayload is the per-node state the astar engine carries for a rail
// query: where this node's segment ends (successors are generated from
// there, not from the node's own key/entry point) plus the signal
// look-ahead bookkeeping spec §4.3 needs across segment boundaries.
type RailPayload struct {
	LastTile     tile.Index
	LastTrackdir tile.Trackdir

	NumSignalsPassed int
	LastSignalIsPBS  bool
	LastSignalWasRed bool
	LastRedIsPBS     bool
	LastRedIsExit    bool
	ChoiceSeen       bool

	TargetSeen bool
	Reason     EndSegmentReason
}

// segmentCacheEntry is one cached rail segment, keyed by its entry
// (tile, trackdir) (spec §4.3 "segment cost cache").
type segmentCacheEntry struct {
	cost          int64
	reason        EndSegmentReason
	lastTile      tile.Index
	lastTrackdir  tile.Trackdir
	layoutCounter uint64
}

// RailContext owns one query's rail cost state: the map, settings, the
// follower options the query runs with, the precomputed look-ahead penalty
// table, and the segment cache (spec §4.3/§5).
type RailContext struct {
	Map      *worldmap.Map
	Settings config.Settings
	Opts     follower.Options

	lookAhead []int64
	cache     map[pfnode.TrackdirKey]*segmentCacheEntry

	DisableCache bool
	MaxCost      int64

	// WantedPlatformLength is the querying vehicle's length in tiles,
	// used to penalize stopping at a too-short or unnecessarily long
	// platform (spec §4.3 "target-hit bonuses").
	WantedPlatformLength int

	StoppedOnFirstTwoWay bool
}

// NewRailContext precomputes the look-ahead penalty array (spec §4.3: the
// polynomial p0 + i*(p1 + i*p2), ported verbatim from
// yapf_costrail.hpp's constructor).
func NewRailContext(m *worldmap.Map, s config.Settings, opts follower.Options) *RailContext {
	n := s.RailLookAheadMaxSignals
	la := make([]int64, n)
	for i := 0; i < n; i++ {
		fi := float64(i)
		la[i] = int64(s.RailLookAheadSignalP0 + fi*(s.RailLookAheadSignalP1+fi*s.RailLookAheadSignalP2))
	}
	return &RailContext{
		Map:       m,
		Settings:  s,
		Opts:      opts,
		lookAhead: la,
		cache:     make(map[pfnode.TrackdirKey]*segmentCacheEntry),
	}
}

// InvalidateCache drops every cached segment; callers reconcile against
// worldmap.Map.TrackLayoutChangeCounter themselves (segmentCacheEntry carries its
// own counter snapshot so stale entries also get skipped individually).
func (c *RailContext) InvalidateCache() {
	c.cache = make(map[pfnode.TrackdirKey]*segmentCacheEntry)
}

func curveCost(s config.Settings, forbid90 bool, td1, td2 tile.Trackdir) int64 {
	if !forbid90 && tile.TrackdirCrossesTrackdirs(td1, td2) {
		return s.RailCurve90Penalty
	}
	if td2 != tile.NextTrackdir(td1) {
		return s.RailCurve45Penalty
	}
	return 0
}

func switchCost(s config.Settings, m *worldmap.Map, tile1, tile2 tile.Index, exitdir tile.DiagDir) int64 {
	t1 := m.TileAt(tile1)
	t2 := m.TileAt(tile2)
	if t1 == nil || t2 == nil || t1.Type != worldmap.TileRail || t2.Type != worldmap.TileRail {
		return 0
	}
	reachBack := tile.DiagdirReachesTrackdirs(tile.ReverseDiagDir(exitdir))
	reachFwd := tile.DiagdirReachesTrackdirs(exitdir)
	branch1 := countTracks(t1.RailTracks, reachBack) > 1
	branch2 := countTracks(t2.RailTracks, reachFwd) > 1
	if branch1 && branch2 {
		return s.RailDoubleslipPenalty
	}
	return 0
}

func countTracks(bits tile.TrackBits, reach []tile.Trackdir) int {
	n := 0
	for _, td := range reach {
		if tile.TrackdirToTrack(td)&bits != 0 {
			n++
		}
	}
	return n
}

func oneTileCost(m *worldmap.Map, t tile.Index, td tile.Trackdir) int64 {
	if tile.IsDiagonalTrackdir(td) {
		cost := int64(tileLength)
		data := m.TileAt(t)
		if data != nil && data.Type == worldmap.TileTunnelBridgeHead {
			// level-crossing equivalent: TileData has no road-crossing
			// flag, so no crossing penalty is added here or by
			// walkSegment; the branch is kept only as an extension point.
			_ = data
		}
		return cost
	}
	return tileCornerLength
}

func slopeCost(s config.Settings, m *worldmap.Map, t tile.Index) int64 {
	data := m.TileAt(t)
	if data == nil || data.Slope != worldmap.SlopeUp {
		return 0
	}
	return s.RailSlopePenalty
}

// SignalCost mirrors yapf_costrail.hpp's SignalCost: it mutates the running
// payload (signal bookkeeping) and returns the cost delta, or ok=false if
// this branch must be pruned outright (first two-way red pruning).
func signalCost(c *RailContext, p *RailPayload, t tile.Index, td tile.Trackdir) (cost int64, ok bool) {
	data := c.Map.TileAt(t)
	if data == nil || data.Type != worldmap.TileRail {
		return 0, true
	}
	sigAlong, hasAlong := c.Map.SignalAt(t, td)
	sigAgainst, hasAgainst := c.Map.SignalAt(t, tile.ReverseTrackdir(td))

	if hasAgainst && !hasAlong && !sigAgainst.TwoWay {
		// one-way signal facing against us: dead end for this direction.
		p.Reason |= ESRDeadEnd
		return 0, true
	}

	if hasAlong {
		lookAheadCost := int64(0)
		if p.NumSignalsPassed < len(c.lookAhead) {
			lookAheadCost = c.lookAhead[p.NumSignalsPassed]
		}
		p.LastSignalIsPBS = sigAlong.PBS

		if !sigAlong.Red {
			p.LastSignalWasRed = false
			if lookAheadCost < 0 {
				cost -= lookAheadCost
			}
		} else {
			if !sigAlong.PBS && c.Settings.TreatFirstRedTwoWayAsEOL && p.ChoiceSeen && hasAgainst && p.NumSignalsPassed == 0 {
				p.Reason |= ESRDeadEnd
				c.StoppedOnFirstTwoWay = true
				return 0, false
			}
			p.LastSignalWasRed = true
			p.LastRedIsPBS = sigAlong.PBS
			p.LastRedIsExit = sigAlong.Presignal

			if !sigAlong.PBS && lookAheadCost > 0 {
				cost += lookAheadCost
			}
			if p.NumSignalsPassed == 0 {
				if sigAlong.Presignal {
					cost += c.Settings.RailFirstRedExitPenalty
				} else {
					cost += c.Settings.RailFirstRedPenalty
				}
			}
		}
		p.NumSignalsPassed++
	}

	if hasAgainst && sigAgainst.PBS {
		if p.NumSignalsPassed < c.Settings.RailLookAheadMaxSignals {
			cost += c.Settings.RailPBSSignalBackPenalty
		}
	}
	return cost, true
}

func reservationCost(c *RailContext, p *RailPayload, t tile.Index, td tile.Trackdir, skipped int) int64 {
	if p.NumSignalsPassed >= len(c.lookAhead)/2 {
		return 0
	}
	if !p.LastSignalIsPBS {
		return 0
	}
	data := c.Map.TileAt(t)
	if data == nil {
		return 0
	}
	if data.Type == worldmap.TileStation {
		if data.StationPlatformReserved {
			return c.Settings.RailPBSStationPenalty * int64(skipped+1)
		}
		return 0
	}
	if c.Map.IsReserved(t, tile.TrackdirToTrack(td)) {
		cost := c.Settings.RailPBSCrossPenalty
		if !tile.IsDiagonalTrackdir(td) {
			cost = cost * tileCornerLength / tileLength
		}
		return cost * int64(skipped+1)
	}
	return 0
}

func platformLengthPenalty(s config.Settings, wanted, actual int) int64 {
	missing := wanted - actual
	if missing < 0 {
		return s.RailLongerPlatformPenalty + s.RailLongerPlatformPerTilePenalty*int64(-missing)
	}
	if missing > 0 {
		return s.RailShorterPlatformPenalty + s.RailShorterPlatformPerTilePenalty*int64(missing)
	}
	return 0
}

// walkSegment follows track from (startTile, startTrackdir) - a choice
// point, or the query's origin - until the segment ends (a junction, a
// possible target, a rail-type mismatch, or a dead end), accumulating cost
// and signal state. hasParent distinguishes the query's first node (whose
// entry transition cost is skipped, matching yapf_costrail.hpp's `goto
// no_entry_cost`).
func (c *RailContext) walkSegment(hasParent bool, prevTile tile.Index, prevTrackdir tile.Trackdir, startTile tile.Index, startTrackdir tile.Trackdir, inherited RailPayload, targetHit func(tile.Index, tile.Trackdir) bool) (transitionCost, segmentCost, extraCost int64, payload RailPayload, ok bool) {
	payload = inherited
	payload.Reason = ESRNone

	cacheKey := pfnode.TrackdirKey{Tile: startTile, Trackdir: startTrackdir}
	var cached *segmentCacheEntry
	if e, found := c.cache[cacheKey]; found && e.layoutCounter == c.Map.TrackLayoutChangeCounter() {
		cached = e
	}

	cur, curTd := startTile, startTrackdir
	first := true

	for {
		if first {
			if hasParent {
				transitionCost = curveCost(c.Settings, c.Opts.Forbid90, prevTrackdir, curTd)
				transitionCost += switchCost(c.Settings, c.Map, prevTile, cur, tile.TrackdirToExitdir(prevTrackdir))
			}
			if cached != nil {
				segmentCost = cached.cost
				payload.Reason = cached.reason
				cur, curTd = cached.lastTile, cached.lastTrackdir
				break
			}
		} else {
			transitionCost2 := curveCost(c.Settings, c.Opts.Forbid90, prevTrackdir, curTd)
			transitionCost2 += switchCost(c.Settings, c.Map, prevTile, cur, tile.TrackdirToExitdir(prevTrackdir))
			segmentCost += transitionCost2
		}
		first = false

		step, res := follower.Follow(c.Map, c.Opts, cur, curTd)

		segmentCost += oneTileCost(c.Map, cur, curTd)
		segmentCost += slopeCost(c.Settings, c.Map, cur)

		sc, sigOK := signalCost(c, &payload, cur, curTd)
		if !sigOK {
			return transitionCost, segmentCost, extraCost, payload, false
		}
		segmentCost += sc
		segmentCost += reservationCost(c, &payload, cur, curTd, 0)

		data := c.Map.TileAt(cur)

		switch {
		case data != nil && data.Type == worldmap.TileDepot:
			payload.Reason |= ESRDepot
		case data != nil && data.Type == worldmap.TileWaypoint:
			payload.Reason |= ESRWaypoint
		case data != nil && data.Type == worldmap.TileStation:
			segmentCost += c.Settings.RailStationPenalty
			payload.Reason |= ESRStation
		}

		if sigAlong, hasAlong := c.Map.SignalAt(cur, curTd); hasAlong && sigAlong.PBS {
			// A tile sitting right behind a PBS signal is itself a valid
			// place to stop and wait, so it ends the segment the same way a
			// depot/waypoint/station does.
			payload.Reason |= ESRSafeTile
		}

		if c.MaxCost > 0 && segmentCost > c.MaxCost {
			payload.Reason |= ESRPathTooLong
		}

		if res != follower.OK {
			payload.Reason |= ESRDeadEnd
			// Running out of track (as opposed to being turned back by a
			// one-way signal, handled earlier in signalCost) always leaves a
			// safe place to stop - nothing can run past the end of the line.
			payload.Reason |= ESRSafeTile
			break
		}
		if len(step.Trackdirs) > 1 {
			// The segment ends on this tile; Expand follows from here again
			// and turns each of the next tile's trackdirs into a successor.
			payload.Reason |= ESRChoiceFollows
			break
		}

		next := step.NewTile
		nextTd := step.Trackdirs[0]
		nextData := c.Map.TileAt(next)
		if nextData == nil || (data != nil && nextData.RailType != data.RailType) {
			payload.Reason |= ESRRailType
			break
		}
		if next == startTile && nextTd == startTrackdir {
			payload.Reason |= ESRInfiniteLoop
			break
		}
		if segmentCost > maxSegmentCost && nextData.Type == worldmap.TileRail {
			payload.Reason |= ESRSegmentTooLong
			break
		}
		if payload.Reason != ESRNone {
			break
		}

		prevTile, prevTrackdir = cur, curTd
		cur, curTd = next, nextTd
	}

	if payload.Reason&ESRPathTooLong != 0 {
		return transitionCost, segmentCost, extraCost, payload, false
	}

	payload.LastTile, payload.LastTrackdir = cur, curTd

	if !c.DisableCache && cached == nil && payload.NumSignalsPassed <= len(c.lookAhead) {
		c.cache[cacheKey] = &segmentCacheEntry{
			cost:          segmentCost,
			reason:        payload.Reason & ESRCachedMask,
			lastTile:      cur,
			lastTrackdir:  curTd,
			layoutCounter: c.Map.TrackLayoutChangeCounter(),
		}
	}

	targetSeen := payload.Reason&ESRPossibleTarget != 0 && targetHit != nil && targetHit(cur, curTd)
	if !targetSeen && payload.Reason&ESRAbortMask != 0 {
		return transitionCost, segmentCost, extraCost, payload, false
	}

	payload.TargetSeen = targetSeen
	if targetSeen {
		if payload.LastSignalWasRed {
			switch {
			case payload.LastRedIsExit:
				extraCost += c.Settings.RailLastRedExitPenalty
			case !payload.LastRedIsPBS:
				extraCost += c.Settings.RailLastRedPenalty
			}
		}
		if payload.Reason&ESRStation != 0 {
			actual := 1
			if d := c.Map.TileAt(cur); d != nil && d.PlatformLength > 0 {
				actual = d.PlatformLength
			}
			extraCost -= c.Settings.RailStationPenalty * int64(actual)
			extraCost += platformLengthPenalty(c.Settings, c.WantedPlatformLength, actual)
		}
	}

	return transitionCost, segmentCost, extraCost, payload, true
}

