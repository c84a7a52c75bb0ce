// Package reservation implements the PBS (path-based signalling)
// reservation pass of spec §4.8: claiming track along a found path so no
// other train can be routed across it, with an all-or-nothing unwind on
// conflict. Grounded on original_source/src/pbs.h's GetReservedTrackbits
// contract (reservation is a per-tile TrackBits set) and spec §4.8's
// textual description of the pass, since OpenTTD's actual reservation walk
// (train_cmd.cpp's TryPathReserve) was not part of the retrieved source
// set.
package reservation

import (
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// Step is one (tile, trackdir) pair of a path to be reserved or released.
type Step struct {
	Tile     tile.Index
	Trackdir tile.Trackdir
}

// IsSafeWaitingPosition reports whether a train may legally come to rest on
// (t, td): behind a PBS signal, in a depot, or on a tile whose track
// continues without an unprotected fork (spec §4.7 kind 3 / §4.8). Outside
// a depot, a track that is already reserved is never safe.
func IsSafeWaitingPosition(m *worldmap.Map, t tile.Index, td tile.Trackdir, forbid90 bool) bool {
	data := m.TileAt(t)
	if data == nil {
		return false
	}
	if data.Type == worldmap.TileDepot {
		return true
	}
	if m.IsReserved(t, tile.TrackdirToTrack(td)) {
		return false
	}
	if sig, has := m.SignalAt(t, td); has {
		return sig.PBS
	}
	opts := follower.Options{Transport: worldmap.TransportRail, Owner: data.Owner, Forbid90: forbid90}
	step, res := follower.Follow(m, opts, t, td)
	if res != follower.OK {
		return true
	}
	return len(step.Trackdirs) <= 1
}

// FindFirstSafeWaitingPosition walks path from its start (the query's
// origin) forward, returning the index of the first step that is itself a
// safe waiting position - "the first tile on or after which a safe
// waiting position exists" of spec §4.8 step 1, the reservation target -
// or -1 if none exists anywhere along the path.
func FindFirstSafeWaitingPosition(m *worldmap.Map, path []Step, forbid90 bool) int {
	for i := 0; i < len(path); i++ {
		if IsSafeWaitingPosition(m, path[i].Tile, path[i].Trackdir, forbid90) {
			return i
		}
	}
	return -1
}

// Reserve claims track for every step of path in order. On the first
// conflict it releases everything already claimed by this call and returns
// false, leaving the map exactly as it found it (spec §4.8 "unwind-on-
// failure"). A station tile is claimed through its own platform flag by
// worldmap.Map.TryReserve; the other tiles of that platform are claimed
// only if they are steps of path themselves.
func Reserve(m *worldmap.Map, path []Step) bool {
	claimed := make([]Step, 0, len(path))
	for _, s := range path {
		if !m.TryReserve(s.Tile, tile.TrackdirToTrack(s.Trackdir)) {
			Release(m, claimed)
			return false
		}
		claimed = append(claimed, s)
	}
	return true
}

// Release undoes a successful Reserve call (or a partial claim, during
// unwind).
func Release(m *worldmap.Map, path []Step) {
	for _, s := range path {
		m.Unreserve(s.Tile, tile.TrackdirToTrack(s.Trackdir))
	}
}

// ReserveFromSafeWaitingPosition finds the first safe waiting position in
// path (spec §4.8 step 1) and reserves from the origin up to and
// including it, walking forward the same way Reserve does, reporting
// whether the whole pass succeeded (res_okay) together with the claimed
// prefix so a caller that needs to invalidate a cache on success, or
// release on a later failure, has it in hand.
func ReserveFromSafeWaitingPosition(m *worldmap.Map, path []Step, forbid90 bool) (claimed []Step, ok bool) {
	target := FindFirstSafeWaitingPosition(m, path, forbid90)
	if target < 0 {
		return nil, false
	}
	prefix := path[:target+1]
	if !Reserve(m, prefix) {
		return nil, false
	}
	return prefix, true
}
