package worldmap

import (
	"testing"

	"github.com/turnforge/ttdpf/tile"
)

func newTestRailMap() (*Map, tile.Size) {
	sz := tile.NewSize(32, 32)
	m := New(sz)
	for y := 0; y < 20; y++ {
		idx := sz.TileXY(10, y)
		m.SetTile(idx, TileData{Type: TileRail, RailTracks: tile.TrackX | tile.TrackY, RailType: 1})
	}
	return m, sz
}

func TestTileAtVoidIsNil(t *testing.T) {
	m, sz := newTestRailMap()
	voidIdx := sz.TileXY(sz.Width()-1, 5)
	if m.TileAt(voidIdx) != nil {
		t.Error("void tile should report nil")
	}
}

func TestReservationAtomicity(t *testing.T) {
	m, sz := newTestRailMap()
	idx := sz.TileXY(10, 5)

	if !m.TryReserve(idx, tile.TrackY) {
		t.Fatal("first reservation should succeed")
	}
	before := m.TileAt(idx).Reserved

	if m.TryReserve(idx, tile.TrackY) {
		t.Fatal("second reservation of the same track must fail")
	}
	if m.TileAt(idx).Reserved != before {
		t.Error("failed reservation attempt must not mutate state")
	}

	m.Unreserve(idx, tile.TrackY)
	if m.IsReserved(idx, tile.TrackY) {
		t.Error("unreserve must clear the claim")
	}
}

func TestNotifyTrackLayoutChangeIncrements(t *testing.T) {
	m, sz := newTestRailMap()
	before := m.TrackLayoutChangeCounter()
	m.NotifyTrackLayoutChange(sz.TileXY(10, 5), tile.TrackX)
	if m.TrackLayoutChangeCounter() != before+1 {
		t.Error("counter must increment by exactly one per notification")
	}
}

func TestInvalidateWaterRegionMarksNeighbours(t *testing.T) {
	m, sz := newTestRailMap()
	idx := sz.TileXY(16, 16)
	m.InvalidateWaterRegion(idx, 16)
	rc := regionCoord(idx, sz, 16)
	if !m.IsRegionDirty(rc) {
		t.Error("own region must be dirty")
	}
	if !m.IsRegionDirty([2]int{rc[0] + 1, rc[1]}) {
		t.Error("neighbouring region must be dirty")
	}
	m.MarkRegionClean(rc)
	if m.IsRegionDirty(rc) {
		t.Error("MarkRegionClean must clear the flag")
	}
}

func TestNeighborsAscendingDiagDirOrder(t *testing.T) {
	m, sz := newTestRailMap()
	idx := sz.TileXY(10, 10)
	var seen []tile.DiagDir
	for d := range m.Neighbors(idx) {
		seen = append(seen, d)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Errorf("Neighbors must yield ascending DiagDir order, got %v", seen)
		}
	}
}
