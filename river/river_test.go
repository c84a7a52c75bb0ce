package river

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnforge/ttdpf/tile"
)

func TestEngineFindsDownhillPath(t *testing.T) {
	sz := tile.NewSize(16, 16)
	start := sz.TileXY(0, 0)
	end := sz.TileXY(3, 0)
	flows := func(from, to tile.Index) bool {
		return sz.X(to) == sz.X(from)+1 && sz.Y(to) == sz.Y(from)
	}
	noJitter := func(int) int { return 0 }
	e := NewEngine(sz, flows, noJitter, 0, end)
	Seed(e, sz, start, end)
	require.True(t, e.Run())
	assert.Equal(t, int64(3), e.G(e.BestNode()))
}

func TestEngineNoPathWhenFlowBlocked(t *testing.T) {
	sz := tile.NewSize(16, 16)
	start := sz.TileXY(0, 0)
	end := sz.TileXY(3, 0)
	flows := func(from, to tile.Index) bool { return false }
	e := NewEngine(sz, flows, func(int) int { return 0 }, 0, end)
	Seed(e, sz, start, end)
	assert.False(t, e.Run())
}

func TestWidenRadiusCapsAtThree(t *testing.T) {
	assert.Equal(t, 1, WidenRadius(0, 12))
	assert.LessOrEqual(t, WidenRadius(1000, 12), 3)
	assert.Equal(t, 3, WidenRadius(1000, 12))
}

func TestSpiralTilesClampsToMapBounds(t *testing.T) {
	sz := tile.NewSize(16, 16)
	corner := sz.TileXY(0, 0)
	tiles := SpiralTiles(sz, corner, 3)
	for _, idx := range tiles {
		assert.True(t, sz.IsValidTile(idx))
	}
}
