// Package pfnode holds the node-key and payload shapes shared by the
// rail/road/ship search instantiations of the astar engine (spec §3 "Node
// key: two variants chosen per query").
package pfnode

import (
	"github.com/turnforge/ttdpf/tile"
)

// TrackdirKey is the fine-grained node key: required whenever signal state
// or exact track geometry matters (all rail, and ship with the 90-degree
// prohibition).
type TrackdirKey struct {
	Tile     tile.Index
	Trackdir tile.Trackdir
}

// CalcHash mirrors the source's node-key hashing hook (spec §3); our
// engine keys its open/closed tables off Go's native comparable-key
// hashing instead (see DESIGN.md), but the method is kept so callers that
// want a stable numeric key (telemetry, dedup sets) have one.
func (k TrackdirKey) CalcHash() uint64 {
	return uint64(k.Tile)*16 + uint64(k.Trackdir)
}

// ExitdirKey is the coarser node key: merges paths that reach a tile going
// the same way regardless of track shape. Used when track masking is not
// needed (many road/ship queries without the 90-degree prohibition).
type ExitdirKey struct {
	Tile tile.Index
	Exit tile.DiagDir
}

func (k ExitdirKey) CalcHash() uint64 {
	return uint64(k.Tile)*4 + uint64(k.Exit)
}

// RegionPatchKey addresses one connected patch of one water region (spec
// §4.9 region-graph A*).
type RegionPatchKey struct {
	RegionX, RegionY int
	Patch            uint8
}
