// Package destination implements the four destination-predicate kinds of
// spec §4.7, each a small closure factory over worldmap state - mirroring
// the teacher's style of building Destination/Expand closures rather than
// an interface hierarchy (see astar.Destination's doc comment).
package destination

import (
	"github.com/turnforge/ttdpf/reservation"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// TileOrStation returns a predicate matching target exactly, or - when
// target is a station tile - any tile belonging to the same station (spec
// §4.7 kind 1).
func TileOrStation(m *worldmap.Map, target tile.Index) func(tile.Index, tile.Trackdir) bool {
	targetData := m.TileAt(target)
	var station worldmap.StationID = worldmap.NoStation
	if targetData != nil && targetData.Type == worldmap.TileStation {
		station = targetData.Station
	}
	return func(t tile.Index, _ tile.Trackdir) bool {
		if t == target {
			return true
		}
		if station == worldmap.NoStation {
			return false
		}
		data := m.TileAt(t)
		return data != nil && data.Station == station
	}
}

// AnyDepot matches any depot tile belonging to the given transport (spec
// §4.7 kind 2, "find nearest depot").
func AnyDepot(m *worldmap.Map, transport worldmap.Transport) func(tile.Index, tile.Trackdir) bool {
	return func(t tile.Index, _ tile.Trackdir) bool {
		data := m.TileAt(t)
		return data != nil && data.Type == worldmap.TileDepot && data.DepotOf == transport
	}
}

// AnySafeTile matches any tile satisfying the PBS safe-waiting-position
// rule (spec §4.7 kind 3, used for "find nearest safe tile" rerouting).
func AnySafeTile(m *worldmap.Map, forbid90 bool) func(tile.Index, tile.Trackdir) bool {
	return func(t tile.Index, td tile.Trackdir) bool {
		return reservation.IsSafeWaitingPosition(m, t, td, forbid90)
	}
}

// TwoEndResult is filled in by callers seeding a two-end-origin query (spec
// §4.7 kind 4: one origin at the vehicle's front, one at its reversed
// position with a g-offset penalty) once the search completes, recording
// which origin's path actually won.
type TwoEndResult struct {
	ReverseWon bool
}
