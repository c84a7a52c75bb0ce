package water

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

func waterMap(t *testing.T) *worldmap.Map {
	t.Helper()
	sz := tile.NewSize(32, 32)
	m := worldmap.New(sz)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			m.SetTile(sz.TileXY(x, y), worldmap.TileData{Type: worldmap.TileWater})
		}
	}
	return m
}

func TestBuildSinglePatchCompacts(t *testing.T) {
	m := waterMap(t)
	r := Build(m, 0, 0)
	assert.Equal(t, 1, r.NumPatches)
	assert.Nil(t, r.labels, "a single-patch region drops its label array")
}

func TestBuildTwoDisjointPatches(t *testing.T) {
	m := waterMap(t)
	// Carve a dry column splitting the region into two halves.
	for y := 0; y < 16; y++ {
		m.SetTile(m.Size.TileXY(8, y), worldmap.TileData{Type: worldmap.TileClear})
	}
	r := Build(m, 0, 0)
	assert.Equal(t, 2, r.NumPatches)
	assert.NotNil(t, r.labels)
	left := r.PatchAt(m, 0, 0)
	right := r.PatchAt(m, 15, 0)
	assert.NotEqual(t, left, right)
	assert.NotZero(t, left)
	assert.NotZero(t, right)
}

func TestEdgeMaskReflectsBorderNavigability(t *testing.T) {
	m := waterMap(t)
	r := Build(m, 0, 0)
	assert.Equal(t, uint16(0xFFFF), r.EdgeMask[tile.DiagDirNE])
}

func TestTableRebuildsOnlyWhenDirty(t *testing.T) {
	m := waterMap(t)
	table := NewTable(m)
	first := table.Get(0, 0)
	second := table.Get(0, 0)
	assert.Same(t, first, second, "unchanged region must be served from cache")

	m.InvalidateWaterRegion(m.Size.TileXY(0, 0), RegionEdge)
	third := table.Get(0, 0)
	assert.NotSame(t, first, third, "dirty region must rebuild")
}
