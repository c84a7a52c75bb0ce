package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

func twoTileMap() (*worldmap.Map, tile.Index, tile.Index) {
	sz := tile.NewSize(16, 16)
	m := worldmap.New(sz)
	a := sz.TileXY(0, 0)
	b := sz.TileXY(1, 0)
	m.SetTile(a, worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackX})
	m.SetTile(b, worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackX})
	return m, a, b
}

func TestReserveUnwindsOnConflict(t *testing.T) {
	m, a, b := twoTileMap()
	path := []Step{{a, tile.TrackdirXNE}, {b, tile.TrackdirXNE}}

	require.True(t, m.TryReserve(b, tile.TrackX)) // pre-claim the second tile

	ok := Reserve(m, path)
	assert.False(t, ok)
	assert.False(t, m.IsReserved(a, tile.TrackX), "first claim must be unwound on later conflict")
}

func TestReserveThenReleaseRoundTrips(t *testing.T) {
	m, a, b := twoTileMap()
	path := []Step{{a, tile.TrackdirXNE}, {b, tile.TrackdirXNE}}
	require.True(t, Reserve(m, path))
	assert.True(t, m.IsReserved(a, tile.TrackX))
	assert.True(t, m.IsReserved(b, tile.TrackX))
	Release(m, path)
	assert.False(t, m.IsReserved(a, tile.TrackX))
	assert.False(t, m.IsReserved(b, tile.TrackX))
}

func TestIsSafeWaitingPositionDepotAlwaysSafe(t *testing.T) {
	sz := tile.NewSize(16, 16)
	m := worldmap.New(sz)
	d := sz.TileXY(0, 0)
	m.SetTile(d, worldmap.TileData{Type: worldmap.TileDepot, RailTracks: tile.TrackX})
	assert.True(t, IsSafeWaitingPosition(m, d, tile.TrackdirXNE, false))
}

func TestIsSafeWaitingPositionBehindPBSSignal(t *testing.T) {
	m, a, _ := twoTileMap()
	m.SetSignal(a, tile.TrackdirXNE, worldmap.Signal{Present: true, PBS: true})
	assert.True(t, IsSafeWaitingPosition(m, a, tile.TrackdirXNE, false))
}

func TestIsSafeWaitingPositionBehindBlockSignalIsUnsafe(t *testing.T) {
	m, a, _ := twoTileMap()
	m.SetSignal(a, tile.TrackdirXNE, worldmap.Signal{Present: true, PBS: false})
	assert.False(t, IsSafeWaitingPosition(m, a, tile.TrackdirXNE, false))
}

func TestFindFirstSafeWaitingPositionPicksEarliestMatch(t *testing.T) {
	m, a, b := twoTileMap()
	m.SetSignal(a, tile.TrackdirXNE, worldmap.Signal{Present: true, PBS: true})
	path := []Step{{a, tile.TrackdirXNE}, {b, tile.TrackdirXNE}}
	idx := FindFirstSafeWaitingPosition(m, path, false)
	assert.Equal(t, 0, idx, "origin itself is behind a PBS signal and should win over the later tile")
}

func TestReserveFromSafeWaitingPositionReservesPrefixAndUnwindsOnConflict(t *testing.T) {
	sz := tile.NewSize(16, 16)
	m := worldmap.New(sz)
	tiles := make([]tile.Index, 5)
	for i := range tiles {
		tiles[i] = sz.TileXY(i, 0)
		m.SetTile(tiles[i], worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackX})
	}
	path := make([]Step, 5)
	for i, t := range tiles {
		path[i] = Step{Tile: t, Trackdir: tile.TrackdirXNE}
	}
	// Block signals on the first four tiles keep them from counting as safe
	// waiting positions on their own; the fifth is a dead end (no tile past
	// it), the only safe waiting position on the path.
	for i := 0; i < 4; i++ {
		m.SetSignal(tiles[i], tile.TrackdirXNE, worldmap.Signal{Present: true, PBS: false})
	}

	// Tile 3 (0-indexed 2) is already reserved by another train, so the pass
	// targets all five tiles but stops at tile 3 and rolls back tiles 1-2.
	require.True(t, m.TryReserve(tiles[2], tile.TrackX))

	_, ok := ReserveFromSafeWaitingPosition(m, path, false)
	assert.False(t, ok)
	assert.False(t, m.IsReserved(tiles[0], tile.TrackX), "tile 1 must be unwound")
	assert.False(t, m.IsReserved(tiles[1], tile.TrackX), "tile 2 must be unwound")
	assert.False(t, m.IsReserved(tiles[3], tile.TrackX), "tile 4 must never have been reserved")
	assert.False(t, m.IsReserved(tiles[4], tile.TrackX), "tile 5 must never have been reserved")
}
