// Package water implements the hierarchical ship pathfinding layer of spec
// §4.9: 16x16 water regions, each split into connected-component "patches"
// of mutually reachable water tiles, linked into a region graph searched
// by a second, coarser A* pass before (or instead of) the tile-level ship
// search. The connected-component flood fill is grounded on
// katalvlaran-lvlath/gridgraph/components.go's ConnectedComponents (BFS
// over a 2D grid, one component per contiguous same-class run of cells);
// everything above that - the edge bitmasks, aqueduct cross-edges, and
// dirty-flag rebuild - is spec-specific and grounded on spec §4.9's
// textual description plus original_source's yapf_water_region.cpp
// naming conventions (WaterRegionPatchDesc, DIAGDIR_END edge masks).
package water

import (
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// RegionEdge is the fixed side length of one water region in tiles.
const RegionEdge = 16

// Region is one 16x16 water region's patch decomposition.
type Region struct {
	RegionX, RegionY int

	// labels maps each local tile (y*RegionEdge+x) to its 1-based patch
	// id, or 0 if the tile isn't ship-navigable. Dropped (set to nil) once
	// NumPatches <= 1, since every navigable tile then trivially belongs
	// to the same patch (spec §4.9 "0/1-patch compaction").
	labels []uint8

	NumPatches int

	// EdgeMask[d] is a RegionEdge-bit mask: bit i is set when the tile at
	// position i along edge d is ship-navigable and therefore a candidate
	// crossing point into the neighbouring region (spec §4.9 "4 edge-
	// traversability 16-bit bitmasks").
	EdgeMask [4]uint16

	// PatchEdgeMask narrows EdgeMask down per patch: PatchEdgeMask[p][d]
	// has only the bits of EdgeMask[d] that belong to patch p, so the
	// region-graph search can AND-match two neighbouring patches' masks
	// to confirm they actually touch (two patches can share a region
	// border without touching, if the border itself isn't contiguous).
	PatchEdgeMask map[uint8][4]uint16

	HasCrossRegionAqueducts bool
}

// localIndex converts a region-local (lx, ly) to a labels-slice index.
func localIndex(lx, ly int) int { return ly*RegionEdge + lx }

// Build flood-fills region (regionX, regionY) of m into connected
// navigable patches (spec §4.9). A tile is navigable when it is a water
// tile or an aqueduct; track bits are not consulted, so any two navigable
// orthogonal neighbours are connected. Region building reads worldmap
// directly since it needs whole-region adjacency, not single-step
// successors.
func Build(m *worldmap.Map, regionX, regionY int) *Region {
	r := &Region{RegionX: regionX, RegionY: regionY}
	labels := make([]uint8, RegionEdge*RegionEdge)
	var next uint8

	navigable := func(lx, ly int) (tile.Index, bool) {
		if lx < 0 || lx >= RegionEdge || ly < 0 || ly >= RegionEdge {
			return 0, false
		}
		gx, gy := regionX*RegionEdge+lx, regionY*RegionEdge+ly
		if gx >= m.Size.Width() || gy >= m.Size.Height() {
			return 0, false
		}
		idx := m.Size.TileXY(gx, gy)
		data := m.TileAt(idx)
		if data == nil || (data.Type != worldmap.TileWater && !data.IsAqueduct) {
			return 0, false
		}
		return idx, true
	}

	for ly := 0; ly < RegionEdge; ly++ {
		for lx := 0; lx < RegionEdge; lx++ {
			if _, ok := navigable(lx, ly); !ok {
				continue
			}
			startIdx := localIndex(lx, ly)
			if labels[startIdx] != 0 {
				continue
			}
			next++
			queue := [][2]int{{lx, ly}}
			labels[startIdx] = next
			for qi := 0; qi < len(queue); qi++ {
				cx, cy := queue[qi][0], queue[qi][1]
				for _, d := range []tile.DiagDir{tile.DiagDirNE, tile.DiagDirSE, tile.DiagDirSW, tile.DiagDirNW} {
					dx, dy := d.Delta()
					nx, ny := cx+dx, cy+dy
					if _, ok := navigable(nx, ny); !ok {
						continue
					}
					ni := localIndex(nx, ny)
					if labels[ni] == 0 {
						labels[ni] = next
						queue = append(queue, [2]int{nx, ny})
					}
				}
			}
		}
	}

	r.NumPatches = int(next)
	if r.NumPatches > 1 {
		r.labels = labels
	}

	r.computeEdgeMasks(m, labels)
	r.computeAqueductFlag(m)
	return r
}

func (r *Region) computeEdgeMasks(m *worldmap.Map, labels []uint8) {
	edgeCoord := func(d tile.DiagDir, i int) (int, int) {
		switch d {
		case tile.DiagDirNE:
			return RegionEdge - 1, i
		case tile.DiagDirSW:
			return 0, i
		case tile.DiagDirSE:
			return i, RegionEdge - 1
		default: // DiagDirNW
			return i, 0
		}
	}
	r.PatchEdgeMask = make(map[uint8][4]uint16)
	for _, d := range []tile.DiagDir{tile.DiagDirNE, tile.DiagDirSE, tile.DiagDirSW, tile.DiagDirNW} {
		var mask uint16
		for i := 0; i < RegionEdge; i++ {
			lx, ly := edgeCoord(d, i)
			label := labels[localIndex(lx, ly)]
			if label == 0 {
				continue
			}
			mask |= 1 << uint(i)
			pm := r.PatchEdgeMask[label]
			pm[d] |= 1 << uint(i)
			r.PatchEdgeMask[label] = pm
		}
		r.EdgeMask[d] = mask
	}
}

func (r *Region) computeAqueductFlag(m *worldmap.Map) {
	for ly := 0; ly < RegionEdge; ly++ {
		for lx := 0; lx < RegionEdge; lx++ {
			gx, gy := r.RegionX*RegionEdge+lx, r.RegionY*RegionEdge+ly
			if gx >= m.Size.Width() || gy >= m.Size.Height() {
				continue
			}
			data := m.TileAt(m.Size.TileXY(gx, gy))
			if data != nil && data.IsAqueduct && data.IsBridge {
				r.HasCrossRegionAqueducts = true
				return
			}
		}
	}
}

// PatchAt returns the 1-based patch id local tile (lx, ly) belongs to, or 0
// if not navigable. With a compacted (single-patch) region every navigable
// tile reports patch 1 without consulting a stored label array.
func (r *Region) PatchAt(m *worldmap.Map, lx, ly int) uint8 {
	if r.labels == nil {
		gx, gy := r.RegionX*RegionEdge+lx, r.RegionY*RegionEdge+ly
		if gx >= m.Size.Width() || gy >= m.Size.Height() {
			return 0
		}
		data := m.TileAt(m.Size.TileXY(gx, gy))
		if data == nil || (data.Type != worldmap.TileWater && !data.IsAqueduct) {
			return 0
		}
		if r.NumPatches == 0 {
			return 0
		}
		return 1
	}
	return r.labels[localIndex(lx, ly)]
}

// Table owns a rebuild-on-demand cache of regions, keyed by region
// coordinate, consulting worldmap.Map's dirty-flag bookkeeping (spec §4.9
// Invalidation).
type Table struct {
	m       *worldmap.Map
	regions map[[2]int]*Region
}

func NewTable(m *worldmap.Map) *Table {
	return &Table{m: m, regions: make(map[[2]int]*Region)}
}

// Get returns the up-to-date region at (regionX, regionY), rebuilding it if
// missing or flagged dirty.
func (t *Table) Get(regionX, regionY int) *Region {
	rc := [2]int{regionX, regionY}
	if t.m.IsRegionDirty(rc) {
		delete(t.regions, rc)
	}
	if r, ok := t.regions[rc]; ok {
		return r
	}
	r := Build(t.m, regionX, regionY)
	t.regions[rc] = r
	t.m.MarkRegionClean(rc)
	return r
}
