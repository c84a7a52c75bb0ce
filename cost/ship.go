package cost

import (
	"github.com/turnforge/ttdpf/astar"
	"github.com/turnforge/ttdpf/config"
	"github.com/turnforge/ttdpf/follower"
	"github.com/turnforge/ttdpf/pfnode"
	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// ShipPayload records the trackdir of the node's parent (spec §4.5 "curve
// penalty vs NextTrackdir"); the curve penalty of a successor is measured
// against the expanding node's own key trackdir.
type ShipPayload struct {
	PrevTrackdir tile.Trackdir
}

// ShipEngine keys on the fine-grained TrackdirKey: ship queries may run
// with the 90-degree-turn prohibition, which needs exact track geometry
// (spec §4.5).
type ShipEngine = astar.Engine[pfnode.TrackdirKey, ShipPayload]

type ShipContext struct {
	Map      *worldmap.Map
	Settings config.Settings
	Opts     follower.Options

	// OceanSpeedFactor / CanalSpeedFactor scale the base tile cost by
	// the vehicle's relative speed on open ocean vs a canal (spec §4.5
	// "ocean-vs-canal speed factor"); 1.0 means no scaling.
	OceanSpeedFactor float64
	CanalSpeedFactor float64
}

func NewShipContext(m *worldmap.Map, s config.Settings, opts follower.Options) *ShipContext {
	return &ShipContext{Map: m, Settings: s, Opts: opts, OceanSpeedFactor: 1, CanalSpeedFactor: 1}
}

func (c *ShipContext) speedFactor(t tile.Index) float64 {
	data := c.Map.TileAt(t)
	if data != nil && data.IsAqueduct {
		return c.CanalSpeedFactor
	}
	return c.OceanSpeedFactor
}

// oneTileShipCost computes spec §4.5's per-tile component: base
// diagonal/corner length scaled by the ocean/canal speed factor, one tile
// length per skipped aqueduct/bridge tile, a curve penalty relative to
// NextTrackdir, and a buoy penalty.
func (c *ShipContext) oneTileShipCost(prevTd, td tile.Trackdir, t tile.Index, tilesSkipped int) int64 {
	base := oneTileCost(c.Map, t, td)
	cost := int64(float64(base) * c.speedFactor(t))

	if prevTd != tile.InvalidTrackdir && td != tile.NextTrackdir(prevTd) && td != prevTd {
		cost += c.Settings.WaterCurvePenalty
	}

	if data := c.Map.TileAt(t); data != nil && data.Station != worldmap.NoStation {
		cost += c.Settings.WaterBuoyPenalty
	}

	if tilesSkipped > 0 {
		// Aqueduct/bridge skip: charge only the base length for the
		// skipped span, no curve/buoy penalties apply mid-span.
		cost += int64(tilesSkipped) * tileLength
	}
	return cost
}

// NewEngine wires a ship query. When forbid90 is requested the follower
// already prunes 90-degree successors (spec §4.1 step 9), so this engine
// needs no extra bookkeeping for that variant beyond what Opts.Forbid90
// configures.
func (c *ShipContext) NewEngine(h Heuristic, hit TargetHit) *ShipEngine {
	expand := func(e *ShipEngine, idx int32) []astar.Successor[pfnode.TrackdirKey, ShipPayload] {
		k := e.Key(idx)
		step, res := follower.Follow(c.Map, c.Opts, k.Tile, k.Trackdir)
		if res != follower.OK {
			return nil
		}
		isChoice := len(step.Trackdirs) > 1
		var out []astar.Successor[pfnode.TrackdirKey, ShipPayload]
		for _, ntd := range step.Trackdirs {
			cost := c.oneTileShipCost(k.Trackdir, ntd, step.NewTile, step.TilesSkipped)
			out = append(out, astar.Successor[pfnode.TrackdirKey, ShipPayload]{
				Key:      pfnode.TrackdirKey{Tile: step.NewTile, Trackdir: ntd},
				G:        e.G(idx) + cost,
				H:        h(step.NewTile, ntd),
				IsChoice: isChoice,
				Payload:  ShipPayload{PrevTrackdir: k.Trackdir},
			})
		}
		return out
	}
	dest := func(e *ShipEngine, idx int32) bool {
		k := e.Key(idx)
		return hit(k.Tile, k.Trackdir)
	}
	return astar.New(expand, dest)
}

func (c *ShipContext) Seed(e *ShipEngine, origin tile.Index, originTd tile.Trackdir, h Heuristic) {
	e.AddOrigin(pfnode.TrackdirKey{Tile: origin, Trackdir: originTd}, h(origin, originTd), ShipPayload{PrevTrackdir: tile.InvalidTrackdir})
}
