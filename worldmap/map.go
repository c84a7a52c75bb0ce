// Package worldmap is the out-of-scope map collaborator: the pathfinder
// only reads it (plus writes reservation bits and the two invalidation
// counters). Mirrors the role of the teacher's World container
// (lib/world.go) - a plain data holder with accessor methods, no
// rendering/UI/save-load concerns - but addressed by tile.Index instead of
// hex AxialCoord, and carrying the track layout and water-region
// invalidation bookkeeping §5 describes as process-wide shared state.
package worldmap

import (
	"github.com/turnforge/ttdpf/tile"
)

// TileType classifies a cell's base terrain/usage.
type TileType uint8

const (
	TileVoid TileType = iota
	TileClear
	TileRail
	TileRoad
	TileWater
	TileStation
	TileWaypoint
	TileTunnelBridgeHead
	TileDepot
)

// Transport identifies which of the three mode families a query concerns.
type Transport uint8

const (
	TransportRail Transport = iota
	TransportRoad
	TransportWater
)

// Slope is a coarse per-tile gradient flag; only "is this tile sloped
// upward along the direction of travel" matters to the cost models.
type Slope uint8

const (
	SlopeFlat Slope = iota
	SlopeUp
)

// StationID / DepotID index into the map's station/depot tables.
type StationID int32
type DepotID int32

const (
	NoStation StationID = -1
	NoDepot   DepotID = -1
)

// WormholeEnd describes the far end of a tunnel or bridge.
type WormholeEnd struct {
	Tile   tile.Index
	Length int
}

// TileData is everything the pathfinder needs about one cell.
type TileData struct {
	Type  TileType
	Owner int32

	RailTracks tile.TrackBits // valid only when Type == TileRail/TileTunnelBridgeHead/TileStation/TileWaypoint/TileDepot
	RailType   int32

	RoadTracks tile.TrackBits
	RoadType   int32
	// SingleDirectionOnly marks a single tram bit or a bay road stop: the
	// tile only connects in ForcedDir, so entry/exit must match it exactly
	// (follower §4.1 steps 3/6).
	SingleDirectionOnly bool
	ForcedDir           tile.DiagDir

	WaterTracks tile.TrackBits // ship-navigable track bits, for water tiles
	IsAqueduct  bool

	Station StationID
	Depot   DepotID
	DepotOf Transport
	// PlatformLength is set by the civil-engineering layer for station
	// tiles: the total length, in tiles, of the platform this tile
	// belongs to (spec §4.3 "target-hit bonuses").
	PlatformLength int

	Slope Slope

	IsBridge bool
	IsTunnel bool
	Wormhole WormholeEnd // valid when IsBridge || IsTunnel

	// Reservation bits, per undirected track, rail only.
	Reserved tile.TrackBits
	// StationPlatformReserved is set when any vehicle holds the whole
	// platform this tile belongs to.
	StationPlatformReserved bool
}

// Signal describes one rail signal on one end of one track of a tile.
type Signal struct {
	Present   bool
	Track     tile.TrackBits
	Direction tile.DiagDir // facing direction of the signal (which Trackdir it protects)
	Red       bool
	TwoWay    bool
	PBS       bool // path-based (no "last red" bookkeeping)
	Presignal bool // exit/combo signal, heavier first-red penalty
}

// Map is the read-mostly tile store the pathfinder queries. All mutation
// happens through the handful of methods documented as pathfinder-owned
// writes (reservations, the two invalidation counters); everything else is
// the civil-engineering subsystem's job and out of scope here.
type Map struct {
	Size tile.Size

	tiles   []TileData
	signals map[tile.Index]map[tile.Trackdir]Signal

	// trackLayoutChangeCounter increments whenever track layout changes;
	// each rail segment cache entry records the value it was written under
	// and is ignored (then overwritten) once the two differ (spec §5).
	trackLayoutChangeCounter uint64

	// regionDirty marks 16x16 water regions (keyed by region coordinate)
	// that need rebuilding before their cached data may be trusted.
	regionDirty map[[2]int]bool
}

// New allocates a Map of the given tile size, all tiles starting void.
func New(size tile.Size) *Map {
	n := size.Width() * size.Height()
	m := &Map{
		Size:        size,
		tiles:       make([]TileData, n),
		signals:     make(map[tile.Index]map[tile.Trackdir]Signal),
		regionDirty: make(map[[2]int]bool),
	}
	return m
}

// SetTile installs td at idx (test/fixture helper - the real civil
// engineering commands live outside this module's scope).
func (m *Map) SetTile(idx tile.Index, td TileData) {
	m.tiles[idx] = td
}

// TileAt returns a pointer to the stored tile data, or nil if idx is out of
// range or void.
func (m *Map) TileAt(idx tile.Index) *TileData {
	if !m.Size.IsValidTile(idx) || int(idx) >= len(m.tiles) {
		return nil
	}
	td := &m.tiles[idx]
	if td.Type == TileVoid {
		return nil
	}
	return td
}

// SignalAt returns the signal on tile idx protecting trackdir td, if any.
func (m *Map) SignalAt(idx tile.Index, td tile.Trackdir) (Signal, bool) {
	bytd, ok := m.signals[idx]
	if !ok {
		return Signal{}, false
	}
	sig, ok := bytd[td]
	return sig, ok
}

// SetSignal installs (or clears, when sig.Present is false) a signal. This
// is the one write external signal-state subsystems make (spec §1 - signal
// *state* updates are out of scope, but the pathfinder must be able to
// observe them in tests without a real signalling subsystem).
func (m *Map) SetSignal(idx tile.Index, td tile.Trackdir, sig Signal) {
	if m.signals[idx] == nil {
		m.signals[idx] = make(map[tile.Trackdir]Signal)
	}
	m.signals[idx][td] = sig
}

// NotifyTrackLayoutChange bumps the global track-change counter (spec §6
// external interface). Rail segment cache entries written under an older
// value are no longer used.
func (m *Map) NotifyTrackLayoutChange(idx tile.Index, _ tile.TrackBits) {
	m.trackLayoutChangeCounter++
}

// TrackLayoutChangeCounter returns the current counter value.
func (m *Map) TrackLayoutChangeCounter() uint64 { return m.trackLayoutChangeCounter }

// regionCoord maps a tile to its owning 16x16 water region coordinate.
func regionCoord(idx tile.Index, s tile.Size, edge int) [2]int {
	x, y := s.X(idx), s.Y(idx)
	return [2]int{x / edge, y / edge}
}

// InvalidateWaterRegion marks the region containing idx - and its four
// neighbours, since their edge masks depend on this region's boundary
// tiles (spec §4.9 Invalidation) - dirty.
func (m *Map) InvalidateWaterRegion(idx tile.Index, edgeLength int) {
	rc := regionCoord(idx, m.Size, edgeLength)
	m.regionDirty[rc] = true
	for _, d := range []tile.DiagDir{tile.DiagDirNE, tile.DiagDirSE, tile.DiagDirSW, tile.DiagDirNW} {
		dx, dy := d.Delta()
		m.regionDirty[[2]int{rc[0] + dx, rc[1] + dy}] = true
	}
}

// IsRegionDirty reports whether the region at rc needs rebuilding.
func (m *Map) IsRegionDirty(rc [2]int) bool { return m.regionDirty[rc] }

// MarkRegionClean clears the dirty flag for rc after a rebuild.
func (m *Map) MarkRegionClean(rc [2]int) { delete(m.regionDirty, rc) }

// TryReserve attempts to claim track bit(s) on idx (or, for a station tile,
// that tile's StationPlatformReserved flag; the platform's other tiles are
// left as they are). Returns false, leaving state unchanged, if already
// reserved by someone else.
func (m *Map) TryReserve(idx tile.Index, track tile.TrackBits) bool {
	td := m.TileAt(idx)
	if td == nil {
		return false
	}
	if td.Type == TileStation {
		if td.StationPlatformReserved {
			return false
		}
		td.StationPlatformReserved = true
		return true
	}
	if td.Reserved&track != 0 {
		return false
	}
	td.Reserved |= track
	return true
}

// Unreserve releases a previously claimed reservation; a no-op if it was
// never held (keeps the reservation-pass unwind idempotent).
func (m *Map) Unreserve(idx tile.Index, track tile.TrackBits) {
	td := m.TileAt(idx)
	if td == nil {
		return
	}
	if td.Type == TileStation {
		td.StationPlatformReserved = false
		return
	}
	td.Reserved &^= track
}

// IsReserved reports whether any bit of track is already claimed on idx.
func (m *Map) IsReserved(idx tile.Index, track tile.TrackBits) bool {
	td := m.TileAt(idx)
	if td == nil {
		return false
	}
	if td.Type == TileStation {
		return td.StationPlatformReserved
	}
	return td.Reserved&track != 0
}

// Neighbors yields the up-to-four adjacent, in-map tiles of idx together
// with the direction taken to reach them - the square-grid analogue of the
// teacher's World.Neighbors hex iterator (lib/world.go), in ascending
// DiagDir order per the determinism rule of spec §9.
func (m *Map) Neighbors(idx tile.Index) func(yield func(tile.DiagDir, tile.Index) bool) {
	return func(yield func(tile.DiagDir, tile.Index) bool) {
		for d := tile.DiagDirNE; d < tile.NumDiagDirs; d++ {
			next, ok := m.Size.AddByDiagDir(idx, d)
			if !ok {
				continue
			}
			if m.TileAt(next) == nil {
				continue
			}
			if !yield(d, next) {
				return
			}
		}
	}
}
