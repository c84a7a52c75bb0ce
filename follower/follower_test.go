package follower

import (
	"testing"

	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

func straightRailMap() (*worldmap.Map, tile.Size) {
	sz := tile.NewSize(32, 32)
	m := worldmap.New(sz)
	for y := 0; y < 20; y++ {
		m.SetTile(sz.TileXY(10, y), worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackY, RailType: 1})
	}
	return m, sz
}

func TestFollowStraightRail(t *testing.T) {
	m, sz := straightRailMap()
	opts := Options{Transport: worldmap.TransportRail, CompatibleRailTypes: map[int32]bool{1: true}}

	step, res := Follow(m, opts, sz.TileXY(10, 10), tile.TrackdirYSE)
	if res != OK {
		t.Fatalf("expected OK, got %v", res)
	}
	if step.NewTile != sz.TileXY(10, 11) {
		t.Errorf("expected to advance to (10,11), got tile %d", step.NewTile)
	}
	if len(step.Trackdirs) != 1 || step.Trackdirs[0] != tile.TrackdirYSE {
		t.Errorf("expected continuing YSE, got %v", step.Trackdirs)
	}
}

func TestFollowPastRailEndIsNoWay(t *testing.T) {
	m, sz := straightRailMap()
	opts := Options{Transport: worldmap.TransportRail}
	_, res := Follow(m, opts, sz.TileXY(10, 19), tile.TrackdirYSE)
	// (10,20) is a void tile just past the last rail tile; owners are 0 on
	// both sides, so only the missing track can stop the move.
	if res != ErrNoWay {
		t.Errorf("expected NO_WAY past the end of the rail, got %v", res)
	}
}

func TestFollowRailTypeMismatch(t *testing.T) {
	m, sz := straightRailMap()
	opts := Options{Transport: worldmap.TransportRail, CompatibleRailTypes: map[int32]bool{99: true}}
	_, res := Follow(m, opts, sz.TileXY(10, 10), tile.TrackdirYSE)
	if res != ErrRailType {
		t.Errorf("expected ErrRailType, got %v", res)
	}
}

func TestFollowReservationAware(t *testing.T) {
	m, sz := straightRailMap()
	next := sz.TileXY(10, 11)
	m.TryReserve(next, tile.TrackY)

	opts := Options{Transport: worldmap.TransportRail, CompatibleRailTypes: map[int32]bool{1: true}, ReservationAware: true}
	_, res := Follow(m, opts, sz.TileXY(10, 10), tile.TrackdirYSE)
	if res != ErrReserved {
		t.Errorf("expected ErrReserved, got %v", res)
	}
}

func TestFollowDepotForcedReverse(t *testing.T) {
	sz := tile.NewSize(32, 32)
	m := worldmap.New(sz)
	depotIdx := sz.TileXY(5, 5)
	m.SetTile(depotIdx, worldmap.TileData{
		Type: worldmap.TileDepot, RailTracks: tile.TrackY, RailType: 1,
		Depot: 0, ForcedDir: tile.DiagDirSE,
	})
	opts := Options{Transport: worldmap.TransportRail, CompatibleRailTypes: map[int32]bool{1: true}}
	step, res := Follow(m, opts, depotIdx, tile.TrackdirYNW)
	if res != OK {
		t.Fatalf("expected OK forced reverse, got %v", res)
	}
	if step.NewTile != depotIdx {
		t.Error("forced reverse must stay on the same tile")
	}
	if step.Trackdirs[0] != tile.ReverseTrackdir(tile.TrackdirYNW) {
		t.Error("forced reverse must emit the reversed trackdir")
	}
}

func TestFollowSkipsToPlatformFarEnd(t *testing.T) {
	sz := tile.NewSize(32, 32)
	m := worldmap.New(sz)
	m.SetTile(sz.TileXY(10, 9), worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackY, RailType: 1})
	for y := 10; y < 13; y++ {
		m.SetTile(sz.TileXY(10, y), worldmap.TileData{
			Type: worldmap.TileStation, RailTracks: tile.TrackY, RailType: 1,
			Station: 0, PlatformLength: 3,
		})
	}
	opts := Options{Transport: worldmap.TransportRail, CompatibleRailTypes: map[int32]bool{1: true}}

	step, res := Follow(m, opts, sz.TileXY(10, 9), tile.TrackdirYSE)
	if res != OK {
		t.Fatalf("expected OK, got %v", res)
	}
	if !step.IsStation {
		t.Error("expected IsStation")
	}
	if step.NewTile != sz.TileXY(10, 12) {
		t.Errorf("expected to land on the platform's far end (10,12), got tile %d", step.NewTile)
	}
	if step.TilesSkipped != 2 {
		t.Errorf("expected 2 tiles skipped crossing a 3-tile platform, got %d", step.TilesSkipped)
	}
}
