package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfnode"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

func straightRailMap(t *testing.T, length int) *worldmap.Map {
	t.Helper()
	sz := tile.NewSize(16, 16)
	m := worldmap.New(sz)
	for x := 0; x < length; x++ {
		m.SetTile(sz.TileXY(x, 0), worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackX, RailType: 0})
	}
	return m
}

func TestLookAheadPenaltyFormula(t *testing.T) {
	s := config.Default()
	s.RailLookAheadMaxSignals = 4
	s.RailLookAheadSignalP0 = 10
	s.RailLookAheadSignalP1 = -2
	s.RailLookAheadSignalP2 = 1
	ctx := NewRailContext(nil, s, follower.Options{})
	require.Len(t, ctx.lookAhead, 4)
	for i, got := range ctx.lookAhead {
		fi := float64(i)
		want := int64(10 + fi*(-2+fi*1))
		assert.Equal(t, want, got, "index %d", i)
	}
}

func TestWalkSegmentStopsAtDeadEnd(t *testing.T) {
	m := straightRailMap(t, 3)
	s := config.Default()
	ctx := NewRailContext(m, s, follower.Options{Transport: worldmap.TransportRail, Owner: 1})
	for x := 0; x < 3; x++ {
		m.TileAt(m.Size.TileXY(x, 0)).Owner = 1
	}
	_, segCost, _, payload, ok := ctx.walkSegment(false, 0, 0, m.Size.TileXY(0, 0), tile.TrackdirXNE, RailPayload{}, nil)
	// A dead end with no target in it is in ESRAbortMask: the branch is pruned.
	require.False(t, ok)
	assert.True(t, payload.Reason&ESRDeadEnd != 0)
	assert.Positive(t, segCost)
}

func TestSegmentCacheReusedUntilLayoutChange(t *testing.T) {
	m := straightRailMap(t, 3)
	for x := 0; x < 3; x++ {
		m.TileAt(m.Size.TileXY(x, 0)).Owner = 1
	}
	s := config.Default()
	ctx := NewRailContext(m, s, follower.Options{Transport: worldmap.TransportRail, Owner: 1})

	origin := m.Size.TileXY(0, 0)
	originTd := tile.TrackdirXNE
	cacheKey := pfnode.TrackdirKey{Tile: origin, Trackdir: originTd}

	// The segment dead-ends (so ok is false), but it is cached before the
	// branch is pruned.
	_, cost1, _, _, ok := ctx.walkSegment(false, 0, 0, origin, originTd, RailPayload{}, nil)
	require.False(t, ok)
	assert.Len(t, ctx.cache, 1)

	_, cost2, _, _, ok := ctx.walkSegment(false, 0, 0, origin, originTd, RailPayload{}, nil)
	require.False(t, ok)
	assert.Equal(t, cost1, cost2)

	m.NotifyTrackLayoutChange(origin, tile.TrackX)
	// Stale entry remains in the map but must not be reused: a lookup with
	// the new counter value misses and overwrites it.
	_, _, _, _, ok = ctx.walkSegment(false, 0, 0, origin, originTd, RailPayload{}, nil)
	require.False(t, ok)
	assert.Equal(t, m.TrackLayoutChangeCounter(), ctx.cache[cacheKey].layoutCounter)
}

func TestFirstRedSignalPenaltyAppliesOnce(t *testing.T) {
	m := straightRailMap(t, 3)
	for x := 0; x < 3; x++ {
		m.TileAt(m.Size.TileXY(x, 0)).Owner = 1
	}
	m.SetSignal(m.Size.TileXY(1, 0), tile.TrackdirXNE, worldmap.Signal{Present: true, Red: true, TwoWay: false})
	s := config.Default()
	ctx := NewRailContext(m, s, follower.Options{Transport: worldmap.TransportRail, Owner: 1})

	_, segCost, _, payload, ok := ctx.walkSegment(false, 0, 0, m.Size.TileXY(0, 0), tile.TrackdirXNE, RailPayload{}, nil)
	require.False(t, ok) // the line dead-ends at (2,0)
	assert.True(t, payload.LastSignalWasRed)
	assert.GreaterOrEqual(t, segCost, s.RailFirstRedPenalty)
	assert.Equal(t, 3*int64(tileLength)+ctx.lookAhead[0]+s.RailFirstRedPenalty, segCost)
}

func TestPlatformLengthPenaltySymmetry(t *testing.T) {
	s := config.Default()
	assert.Equal(t, s.RailShorterPlatformPenalty, platformLengthPenalty(s, 3, 2))
	assert.Equal(t, s.RailLongerPlatformPenalty, platformLengthPenalty(s, 2, 3))
	assert.Zero(t, platformLengthPenalty(s, 2, 2))
}
