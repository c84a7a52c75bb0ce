package water

import (
	"github.com/turnforge/ttdpf/astar"
	"github.com/turnforge/ttdpf/cost"
	"github.com/turnforge/ttdpf/pfnode"
	"github.com/turnforge/ttdpf/tile"
)

// HopPayload carries the DiagDir of the edge used to reach a region-graph
// node, or HasDir false for hops (aqueduct crossings) that don't have one,
// so expand can tell whether a new hop continues the previous one's
// direction (spec §4.6/§4.9 zig-zag bias).
type HopPayload struct {
	FromDiagDir tile.DiagDir
	HasDir      bool
}

// HierarchicalEngine is the region-graph A* instantiation of spec §4.9:
// nodes are (region, patch) triples, far coarser than the tile-level ship
// search, used to prune which regions the expensive tile-level search ever
// has to enter.
type HierarchicalEngine = astar.Engine[pfnode.RegionPatchKey, HopPayload]

// regionNeighbour pairs a candidate hop with the DiagDir it crossed, so
// expand can compare it against the incoming node's own HopPayload.
type regionNeighbour struct {
	Key    pfnode.RegionPatchKey
	Dir    tile.DiagDir
	HasDir bool
}

// NodeLimit bounds the region-graph search (spec §4.9):
// min(map_size/256*4, 65536).
func NodeLimit(mapTiles int) int {
	limit := mapTiles / 256 * 4
	if limit <= 0 || limit > 65536 {
		limit = 65536
	}
	return limit
}

var diagDirs = []tile.DiagDir{tile.DiagDirNE, tile.DiagDirSE, tile.DiagDirSW, tile.DiagDirNW}

// neighbours yields the patches bordering (regionX, regionY, patch) across
// a plain region edge (edge-mask AND-matching) plus any cross-region
// aqueduct patches (spec §4.9).
func (t *Table) neighbours(regionX, regionY int, patch uint8) []regionNeighbour {
	region := t.Get(regionX, regionY)
	myMasks, ok := region.PatchEdgeMask[patch]
	if !ok {
		return nil
	}
	var out []regionNeighbour
	for _, d := range diagDirs {
		if myMasks[d] == 0 {
			continue
		}
		dx, dy := d.Delta()
		nx, ny := regionX+dx, regionY+dy
		if nx < 0 || ny < 0 {
			continue
		}
		if nx*RegionEdge >= t.m.Size.Width() || ny*RegionEdge >= t.m.Size.Height() {
			continue
		}
		neighbourRegion := t.Get(nx, ny)
		opp := tile.ReverseDiagDir(d)
		for p, masks := range neighbourRegion.PatchEdgeMask {
			if masks[opp]&myMasks[d] != 0 {
				out = append(out, regionNeighbour{
					Key:    pfnode.RegionPatchKey{RegionX: nx, RegionY: ny, Patch: p},
					Dir:    d,
					HasDir: true,
				})
			}
		}
	}
	if region.HasCrossRegionAqueducts {
		for _, k := range t.aqueductCrossings(regionX, regionY, patch) {
			out = append(out, regionNeighbour{Key: k})
		}
	}
	return out
}

// aqueductCrossings finds patches reachable by an aqueduct whose far end
// lands in any region other than this one, adjacent or not (spec §4.9
// "aqueduct cross-region edges").
func (t *Table) aqueductCrossings(regionX, regionY int, patch uint8) []pfnode.RegionPatchKey {
	var out []pfnode.RegionPatchKey
	for ly := 0; ly < RegionEdge; ly++ {
		for lx := 0; lx < RegionEdge; lx++ {
			gx, gy := regionX*RegionEdge+lx, regionY*RegionEdge+ly
			if gx >= t.m.Size.Width() || gy >= t.m.Size.Height() {
				continue
			}
			idx := t.m.Size.TileXY(gx, gy)
			data := t.m.TileAt(idx)
			if data == nil || !data.IsAqueduct || !data.IsBridge {
				continue
			}
			region := t.Get(regionX, regionY)
			if region.PatchAt(t.m, lx, ly) != patch {
				continue
			}
			farX, farY := t.m.Size.X(data.Wormhole.Tile), t.m.Size.Y(data.Wormhole.Tile)
			farRegionX, farRegionY := farX/RegionEdge, farY/RegionEdge
			if farRegionX == regionX && farRegionY == regionY {
				continue
			}
			farRegion := t.Get(farRegionX, farRegionY)
			farPatch := farRegion.PatchAt(t.m, farX%RegionEdge, farY%RegionEdge)
			if farPatch != 0 {
				out = append(out, pfnode.RegionPatchKey{RegionX: farRegionX, RegionY: farRegionY, Patch: farPatch})
			}
		}
	}
	return out
}

// NewEngine wires the region-graph search toward destRegionX/destRegionY;
// destPatch == 0 matches any patch of that region (spec §4.9 "or all
// docking tiles for stations" - callers pass 0 when the station spans
// patches they haven't disambiguated yet).
func (t *Table) NewEngine(destRegionX, destRegionY int, destPatch uint8) *HierarchicalEngine {
	expand := func(e *HierarchicalEngine, idx int32) []astar.Successor[pfnode.RegionPatchKey, HopPayload] {
		k := e.Key(idx)
		incoming := e.Payload(idx)
		var out []astar.Successor[pfnode.RegionPatchKey, HopPayload]
		for _, nb := range t.neighbours(k.RegionX, k.RegionY, k.Patch) {
			h := RegionHeuristic(nb.Key.RegionX, nb.Key.RegionY, destRegionX, destRegionY)
			g := e.G(idx) + DirectNeighbourCost
			if incoming.HasDir && nb.HasDir && incoming.FromDiagDir == nb.Dir {
				g += cost.AntiStraightLinePenalty
			}
			out = append(out, astar.Successor[pfnode.RegionPatchKey, HopPayload]{
				Key:     nb.Key,
				G:       g,
				H:       h,
				Payload: HopPayload{FromDiagDir: nb.Dir, HasDir: nb.HasDir},
			})
		}
		return out
	}
	dest := func(e *HierarchicalEngine, idx int32) bool {
		k := e.Key(idx)
		return k.RegionX == destRegionX && k.RegionY == destRegionY && (destPatch == 0 || k.Patch == destPatch)
	}
	return astar.New(expand, dest)
}

// RegionHeuristic and DirectNeighbourCost are re-exported from cost's
// region heuristic definitions so this package doesn't need its own copy
// of the Manhattan-over-regions estimate (spec §4.9 shares it with §4.6).
func RegionHeuristic(fromX, fromY, toX, toY int) int64 {
	return cost.RegionHeuristic(fromX, fromY, toX, toY)
}

const DirectNeighbourCost = cost.DirectNeighbourCost

// SeedOrigin adds the region/patch containing originTile to e.
func (t *Table) SeedOrigin(e *HierarchicalEngine, originTile tile.Index, destRegionX, destRegionY int) bool {
	rx, ry := t.m.Size.X(originTile)/RegionEdge, t.m.Size.Y(originTile)/RegionEdge
	region := t.Get(rx, ry)
	patch := region.PatchAt(t.m, t.m.Size.X(originTile)%RegionEdge, t.m.Size.Y(originTile)%RegionEdge)
	if patch == 0 {
		return false
	}
	h := RegionHeuristic(rx, ry, destRegionX, destRegionY)
	e.AddOrigin(pfnode.RegionPatchKey{RegionX: rx, RegionY: ry, Patch: patch}, h, HopPayload{})
	return true
}
