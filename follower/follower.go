// Package follower implements the one-tile move abstraction (spec §4.1):
// given a vehicle sitting on (tile, trackdir), compute the set of
// (tile, trackdir) pairs it can be in one step later, or a typed reason it
// cannot move at all. It is pure over the map snapshot - no side effects,
// matching spec §4.1 "Side effects: none".
package follower

import (
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// Result is the typed follower outcome of spec §4.1.
type Result uint8

const (
	OK Result = iota
	ErrOwner
	ErrRailType
	ErrForbid90
	ErrNoWay
	ErrReserved
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case ErrOwner:
		return "OWNER"
	case ErrRailType:
		return "RAIL_TYPE"
	case ErrForbid90:
		return "FORBID_90"
	case ErrNoWay:
		return "NO_WAY"
	case ErrReserved:
		return "RESERVED"
	default:
		return "UNKNOWN"
	}
}

// Options parametrizes one follower call: which transport/subtypes a
// vehicle is compatible with and which query-time filters (90-degree
// turns, reservation-awareness) apply.
type Options struct {
	Transport worldmap.Transport
	Owner     int32

	// CompatibleRailTypes/CompatibleRoadTypes: nil means "accept any type
	// present on the tile" (used by non-rail/road queries); a non-nil,
	// non-empty set restricts to those ids.
	CompatibleRailTypes map[int32]bool
	CompatibleRoadTypes map[int32]bool

	Forbid90         bool
	ReservationAware bool

	// AllowDeadEndReverse enables step 8 (non-tram road dead-end reverse).
	AllowDeadEndReverse bool
}

// Step is one follower result: the tile reached and the trackdir(s) the
// vehicle may be travelling with upon arrival, in ascending bit-index
// order (spec §9 determinism).
type Step struct {
	NewTile      tile.Index
	Trackdirs    []tile.Trackdir
	TilesSkipped int
	IsStation    bool
	IsTunnel     bool
	IsBridge     bool
}

// trackBitsFor returns the relevant TrackBits mask of td's transport on td,
// plus whether the tile participates in that transport at all.
func trackBitsFor(td *worldmap.TileData, transport worldmap.Transport) (tile.TrackBits, bool) {
	if td == nil {
		return 0, false
	}
	switch transport {
	case worldmap.TransportRail:
		return td.RailTracks, td.Type == worldmap.TileRail || td.Type == worldmap.TileStation || td.Type == worldmap.TileWaypoint || td.Type == worldmap.TileTunnelBridgeHead || td.Type == worldmap.TileDepot
	case worldmap.TransportRoad:
		return td.RoadTracks, td.Type == worldmap.TileRoad || td.Type == worldmap.TileStation || td.Type == worldmap.TileTunnelBridgeHead || td.Type == worldmap.TileDepot
	case worldmap.TransportWater:
		return td.WaterTracks, td.Type == worldmap.TileWater || td.Type == worldmap.TileTunnelBridgeHead
	}
	return 0, false
}

// Follow computes the successor(s) of standing on oldTile travelling
// oldTrackdir, implementing the 11-step contract of spec §4.1 in order.
func Follow(m *worldmap.Map, opts Options, oldTile tile.Index, oldTrackdir tile.Trackdir) (Step, Result) {
	oldData := m.TileAt(oldTile)
	if oldData == nil {
		return Step{}, ErrNoWay
	}

	// Step 1: compute exit direction.
	exitdir := tile.TrackdirToExitdir(oldTrackdir)

	// Step 2: forced reverse on depot / mismatched single tram bit (a
	// single-direction road stop is left to step 3).
	isDepot := oldData.Type == worldmap.TileDepot
	if (isDepot || (oldData.SingleDirectionOnly && oldData.Type != worldmap.TileStation)) && oldData.ForcedDir != exitdir {
		return Step{NewTile: oldTile, Trackdirs: []tile.Trackdir{tile.ReverseTrackdir(oldTrackdir)}}, OK
	}

	// Step 3: can-exit check - road stops / single tram bits / depots
	// constrain the exit direction.
	if oldData.SingleDirectionOnly && oldData.ForcedDir != exitdir {
		return Step{}, ErrNoWay
	}

	var step Step

	// Step 4: tile exit, following tunnels/bridges.
	if oldData.IsTunnel || oldData.IsBridge {
		step.NewTile = oldData.Wormhole.Tile
		step.TilesSkipped = oldData.Wormhole.Length
		step.IsTunnel = oldData.IsTunnel
		step.IsBridge = oldData.IsBridge
	} else {
		next, ok := m.Size.AddByDiagDir(oldTile, exitdir)
		if !ok {
			return Step{}, ErrNoWay
		}
		step.NewTile = next
	}

	newData := m.TileAt(step.NewTile)
	if newData == nil {
		return Step{}, ErrNoWay
	}

	// Step 5: query successor track bits restricted to transport/subtype.
	newTracks, participates := trackBitsFor(newData, opts.Transport)
	if !participates {
		return Step{}, ErrNoWay
	}
	if opts.Transport == worldmap.TransportRail && opts.CompatibleRailTypes != nil {
		if !opts.CompatibleRailTypes[newData.RailType] {
			return Step{}, ErrRailType
		}
	}
	if opts.Transport == worldmap.TransportRoad && opts.CompatibleRoadTypes != nil {
		if !opts.CompatibleRoadTypes[newData.RoadType] {
			return Step{}, ErrRailType
		}
	}
	if newData.SingleDirectionOnly && opts.Transport != worldmap.TransportWater {
		// Synthesize a single bidirectional pair for the one lane present.
		newTracks = trackForDir(newData.ForcedDir)
	}

	// Step 6: can-enter check - ownership and single-direction constraints.
	if opts.Transport == worldmap.TransportRail && newData.Owner != opts.Owner {
		return Step{}, ErrOwner
	}

	// Step 7: mask to trackdirs reachable when moving in exitdir.
	reach := tile.DiagdirReachesTrackdirs(exitdir)
	var candidates []tile.Trackdir
	for _, td := range reach {
		if tile.TrackdirToTrack(td)&newTracks != 0 {
			candidates = append(candidates, td)
		}
	}

	// Step 8: dead-end fallback for non-tram road vehicles.
	if len(candidates) == 0 && opts.Transport == worldmap.TransportRoad && opts.AllowDeadEndReverse {
		candidates = []tile.Trackdir{tile.ReverseTrackdir(oldTrackdir)}
		step.NewTile = oldTile
	}

	if len(candidates) == 0 {
		return Step{}, ErrNoWay
	}

	// Step 9: 90-degree-turn filter.
	if opts.Forbid90 {
		filtered := candidates[:0:0]
		for _, td := range candidates {
			if !tile.TrackdirCrossesTrackdirs(oldTrackdir, td) {
				filtered = append(filtered, td)
			}
		}
		if len(filtered) == 0 {
			return Step{}, ErrForbid90
		}
		candidates = filtered
	}

	// Step 10: rail platform skip on entering a station - jump straight to
	// the platform's far end, the way a train passes through every
	// intermediate platform tile in a single follower step (spec §4.1 step
	// 10, §4.3 "target-hit bonuses" keys off the tile actually arrived at).
	if newData.Type == worldmap.TileStation {
		step.IsStation = true
		cur, curData := step.NewTile, newData
		for i := 1; i < curData.PlatformLength; i++ {
			next, ok := m.Size.AddByDiagDir(cur, exitdir)
			if !ok {
				break
			}
			nd := m.TileAt(next)
			if nd == nil || nd.Type != worldmap.TileStation || nd.Station != curData.Station {
				break
			}
			cur = next
			step.TilesSkipped++
		}
		step.NewTile = cur
	}

	// Step 11: reservation-awareness strips conflicting trackdirs.
	if opts.ReservationAware {
		filtered := candidates[:0:0]
		for _, td := range candidates {
			track := tile.TrackdirToTrack(td)
			if !m.IsReserved(step.NewTile, track) {
				filtered = append(filtered, td)
			}
		}
		if len(filtered) == 0 {
			return Step{}, ErrReserved
		}
		candidates = filtered
	}

	step.Trackdirs = candidates
	return step, OK
}

// trackForDir synthesizes the undirected track piece aligned with d (the
// two-direction pair a single tram bit or bay stop presents).
func trackForDir(d tile.DiagDir) tile.TrackBits {
	if d == tile.DiagDirNE || d == tile.DiagDirSW {
		return tile.TrackX
	}
	return tile.TrackY
}
