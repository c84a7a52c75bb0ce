package tile

import "testing"

func TestReverseTrackdirInvolution(t *testing.T) {
	for td := Trackdir(0); td < 16; td++ {
		if td == trackdirRsvd0 || td == trackdirRsvd1 {
			continue
		}
		rev := ReverseTrackdir(td)
		if rev == InvalidTrackdir {
			continue
		}
		if got := ReverseTrackdir(rev); got != td {
			t.Errorf("ReverseTrackdir(ReverseTrackdir(%v)) = %v, want %v", td, got, td)
		}
	}
}

func TestTrackdirToExitdirKnownValues(t *testing.T) {
	cases := map[Trackdir]DiagDir{
		TrackdirXNE: DiagDirNE,
		TrackdirXSW: DiagDirSW,
		TrackdirYSE: DiagDirSE,
		TrackdirYNW: DiagDirNW,
	}
	for td, want := range cases {
		if got := TrackdirToExitdir(td); got != want {
			t.Errorf("TrackdirToExitdir(%v) = %v, want %v", td, got, want)
		}
	}
}

func TestTrackdirCrossesTrackdirs(t *testing.T) {
	if TrackdirCrossesTrackdirs(TrackdirXNE, TrackdirXNE) {
		t.Error("a trackdir must not cross itself")
	}
	if TrackdirCrossesTrackdirs(TrackdirXNE, ReverseTrackdir(TrackdirXNE)) {
		t.Error("a trackdir must not cross its own reverse")
	}
	if !TrackdirCrossesTrackdirs(TrackdirXNE, TrackdirUpperE) {
		t.Error("a diagonal crossing a corner piece at 90 degrees should report true")
	}
}

func TestSizeTileXYRoundTrip(t *testing.T) {
	s := NewSize(64, 64)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			idx := s.TileXY(x, y)
			if gx, gy := s.X(idx), s.Y(idx); gx != x || gy != y {
				t.Errorf("TileXY/X/Y round trip failed for (%d,%d): got (%d,%d)", x, y, gx, gy)
			}
		}
	}
}

func TestIsValidTileVoidEdges(t *testing.T) {
	s := NewSize(8, 8)
	if s.IsValidTile(s.TileXY(s.Width()-1, 3)) {
		t.Error("eastern edge tile must be void")
	}
	if s.IsValidTile(s.TileXY(3, s.Height()-1)) {
		t.Error("southern edge tile must be void")
	}
	if !s.IsValidTile(s.TileXY(3, 3)) {
		t.Error("interior tile must be valid")
	}
}

func TestFindFirstBit(t *testing.T) {
	if FindFirstBit(0) != -1 {
		t.Error("FindFirstBit(0) should be -1")
	}
	if FindFirstBit(0b1010) != 1 {
		t.Errorf("FindFirstBit(0b1010) = %d, want 1", FindFirstBit(0b1010))
	}
}

func TestDiagdirReachesTrackdirsAscending(t *testing.T) {
	for d := DiagDirNE; d < NumDiagDirs; d++ {
		tds := DiagdirReachesTrackdirs(d)
		if len(tds) == 0 {
			t.Errorf("diagdir %v should reach at least one trackdir", d)
		}
		for i := 1; i < len(tds); i++ {
			if tds[i] <= tds[i-1] {
				t.Errorf("diagdir %v trackdirs not ascending: %v", d, tds)
			}
		}
	}
}
