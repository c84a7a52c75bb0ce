package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/turnforge/ttdpf/tile"
	"github.com/turnforge/ttdpf/worldmap"
)

// loadMap reads a tiny textual map fixture: a "WIDTH HEIGHT" header line
// followed by HEIGHT rows of WIDTH characters each. All rail tiles (track,
// depot, waypoint, station) are owned by owner, which is enough to drive a
// single-operator demo query; water tiles carry no owner.
//
//	.  void
//	-  rail, TrackX (horizontal)
//	|  rail, TrackY (vertical)
//	D  rail depot
//	W  rail waypoint
//	S  rail station
//	~  water
func loadMap(path string, owner int32) (*worldmap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map fixture: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("map fixture %s is empty", path)
	}
	dims := strings.Fields(scanner.Text())
	if len(dims) != 2 {
		return nil, fmt.Errorf("map fixture %s: header must be \"WIDTH HEIGHT\"", path)
	}
	width, err := strconv.Atoi(dims[0])
	if err != nil {
		return nil, fmt.Errorf("map fixture %s: bad width: %w", path, err)
	}
	height, err := strconv.Atoi(dims[1])
	if err != nil {
		return nil, fmt.Errorf("map fixture %s: bad height: %w", path, err)
	}

	size := tile.NewSize(width, height)
	m := worldmap.New(size)

	for y := 0; y < height; y++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("map fixture %s: expected %d rows, got %d", path, height, y)
		}
		row := scanner.Text()
		for x := 0; x < width && x < len(row); x++ {
			idx := size.TileXY(x, y)
			switch row[x] {
			case '.':
				// leave as TileVoid
			case '-':
				m.SetTile(idx, worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackX, Owner: owner})
			case '|':
				m.SetTile(idx, worldmap.TileData{Type: worldmap.TileRail, RailTracks: tile.TrackY, Owner: owner})
			case 'D':
				m.SetTile(idx, worldmap.TileData{Type: worldmap.TileDepot, RailTracks: tile.TrackX, Owner: owner, DepotOf: worldmap.TransportRail})
			case 'W':
				m.SetTile(idx, worldmap.TileData{Type: worldmap.TileWaypoint, RailTracks: tile.TrackX, Owner: owner})
			case 'S':
				m.SetTile(idx, worldmap.TileData{Type: worldmap.TileStation, RailTracks: tile.TrackX, Owner: owner, Station: 1, PlatformLength: 1})
			case '~':
				m.SetTile(idx, worldmap.TileData{Type: worldmap.TileWater})
			default:
				return nil, fmt.Errorf("map fixture %s: unknown tile glyph %q at %d,%d", path, row[x], x, y)
			}
		}
	}
	return m, nil
}

// parseTileTrackdir parses "x,y,TD" (TD one of the tile.Trackdir names,
// e.g. "XNE") into a tile index plus trackdir.
func parseTileTrackdir(size tile.Size, s string) (tile.Index, tile.Trackdir, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, fmt.Errorf("expected \"x,y,TD\", got %q", s)
	}
	idx, err := parseTile(size, parts[0]+","+parts[1])
	if err != nil {
		return 0, 0, err
	}
	td, ok := trackdirNames[strings.ToUpper(parts[2])]
	if !ok {
		return 0, 0, fmt.Errorf("unknown trackdir %q", parts[2])
	}
	return idx, td, nil
}

// parseTile parses "x,y" into a tile index.
func parseTile(size tile.Size, s string) (tile.Index, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad y in %q: %w", s, err)
	}
	idx := size.TileXY(x, y)
	if !size.IsValidTile(idx) {
		return 0, fmt.Errorf("%q is outside the map", s)
	}
	return idx, nil
}

var trackdirNames = map[string]tile.Trackdir{
	"XNE":    tile.TrackdirXNE,
	"YSE":    tile.TrackdirYSE,
	"XSW":    tile.TrackdirXSW,
	"YNW":    tile.TrackdirYNW,
	"UPPERE": tile.TrackdirUpperE,
	"LOWERE": tile.TrackdirLowerE,
	"LEFTS":  tile.TrackdirLeftS,
	"RIGHTS": tile.TrackdirRightS,
	"UPPERW": tile.TrackdirUpperW,
	"LOWERW": tile.TrackdirLowerW,
	"LEFTN":  tile.TrackdirLeftN,
	"RIGHTN": tile.TrackdirRightN,
}
