// Package tile holds the addressing and directional primitives the rest of
// the pathfinder is built on: flat tile indices into a row-major grid,
// the four diagonal directions (DiagDir) and the twelve track directions
// (Trackdir) a vehicle can occupy a tile with.
package tile

import "fmt"

// Index addresses one cell of the map, a row-major index into a
// 2^LogX * 2^LogY grid (mirrors the bit-packed TileIndex of the source this
// spec was distilled from).
type Index uint32

// Size describes the map's dimensions in log2 tiles per axis, the same
// shape OpenTTD's MapLogX/MapLogY pair uses so wraparound masks are cheap
// power-of-two operations.
type Size struct {
	LogX uint
	LogY uint
}

// NewSize returns the Size whose axes are the smallest powers of two that
// fit width and height.
func NewSize(width, height int) Size {
	return Size{LogX: log2Ceil(width), LogY: log2Ceil(height)}
}

func log2Ceil(n int) uint {
	var l uint
	for (1 << l) < n {
		l++
	}
	return l
}

func (s Size) Width() int  { return 1 << s.LogX }
func (s Size) Height() int { return 1 << s.LogY }

// TileXY packs (x, y) into an Index.
func (s Size) TileXY(x, y int) Index {
	return Index(y<<s.LogX) + Index(x)
}

// X extracts the x coordinate of idx under this map size.
func (s Size) X(idx Index) int { return int(idx) & (s.Width() - 1) }

// Y extracts the y coordinate of idx under this map size.
func (s Size) Y(idx Index) int { return int(idx) >> s.LogX }

// IsValidTile reports whether idx addresses an in-bounds, enterable cell.
// Tiles on the southern/eastern edge are void per spec §3 and never valid.
func (s Size) IsValidTile(idx Index) bool {
	x, y := s.X(idx), s.Y(idx)
	return x >= 0 && x < s.Width()-1 && y >= 0 && y < s.Height()-1
}

// AddByDiagDir returns the tile one step away from idx in the given
// direction, and whether that tile is still within the map.
func (s Size) AddByDiagDir(idx Index, d DiagDir) (Index, bool) {
	x, y := s.X(idx), s.Y(idx)
	dx, dy := d.Delta()
	nx, ny := x+dx, y+dy
	if nx < 0 || ny < 0 || nx >= s.Width() || ny >= s.Height() {
		return 0, false
	}
	next := s.TileXY(nx, ny)
	return next, s.IsValidTile(next)
}

// DiagDir is one of the four cardinal tile-face directions.
type DiagDir uint8

const (
	DiagDirNE DiagDir = iota
	DiagDirSE
	DiagDirSW
	DiagDirNW
	NumDiagDirs
)

func (d DiagDir) String() string {
	switch d {
	case DiagDirNE:
		return "NE"
	case DiagDirSE:
		return "SE"
	case DiagDirSW:
		return "SW"
	case DiagDirNW:
		return "NW"
	default:
		return fmt.Sprintf("DiagDir(%d)", uint8(d))
	}
}

// Delta returns the (dx, dy) offset of moving one tile in direction d.
func (d DiagDir) Delta() (int, int) {
	switch d {
	case DiagDirNE:
		return 1, 0
	case DiagDirSE:
		return 0, 1
	case DiagDirSW:
		return -1, 0
	case DiagDirNW:
		return 0, -1
	}
	return 0, 0
}

// Reverse returns the opposite diagonal direction.
func (d DiagDir) Reverse() DiagDir { return (d + 2) % 4 }

// ReverseDiagDir is the free-function form used by cost tables that only
// hold a DiagDir value, not a receiver.
func ReverseDiagDir(d DiagDir) DiagDir { return d.Reverse() }

// IsAxisChange reports whether turning from a to b crosses axes (a 90-style
// corner at the diagdir level), used by the road/ship curve penalty.
func IsAxisChange(a, b DiagDir) bool { return (a & 1) != (b & 1) }

// Trackdir is a directed track piece: a track geometry combined with a
// direction of travel. NumTrackdirs (14) counts 12 legal values - 6 track
// pieces, each in two directions - plus 2 reserved slots (values 6 and 7)
// that no code produces.
type Trackdir uint8

const (
	TrackdirXNE Trackdir = iota // X-axis (NE-SW straight), travelling NE
	TrackdirYSE                // Y-axis (NW-SE straight), travelling SE
	TrackdirUpperE
	TrackdirLowerE
	TrackdirLeftS
	TrackdirRightS
	trackdirRsvd0
	trackdirRsvd1
	TrackdirXSW // X-axis, travelling SW
	TrackdirYNW // Y-axis, travelling NW
	TrackdirUpperW
	TrackdirLowerW
	TrackdirLeftN
	TrackdirRightN
	NumTrackdirs   = 14
	InvalidTrackdir Trackdir = 0xFF
)

var trackdirNames = [16]string{
	"XNE", "YSE", "UpperE", "LowerE", "LeftS", "RightS", "", "",
	"XSW", "YNW", "UpperW", "LowerW", "LeftN", "RightN", "", "",
}

// String renders td the way pfcli's map fixtures and test failure messages
// name it (e.g. "XNE"), or "Invalid" for InvalidTrackdir and the two
// reserved slots.
func (td Trackdir) String() string {
	if td == InvalidTrackdir {
		return "Invalid"
	}
	if name := trackdirNames[td&0xF]; name != "" {
		return name
	}
	return fmt.Sprintf("Trackdir(%d)", uint8(td))
}

// reverseTable mirrors OpenTTD's _reverse_trackdir lookup: XOR with 8 swaps
// the two travel directions of the same track geometry, except for the two
// reserved slots which are unused.
var reverseTable = [16]Trackdir{
	TrackdirXSW, TrackdirYNW, TrackdirUpperW, TrackdirLowerW,
	TrackdirLeftN, TrackdirRightN, InvalidTrackdir, InvalidTrackdir,
	TrackdirXNE, TrackdirYSE, TrackdirUpperE, TrackdirLowerE,
	TrackdirLeftS, TrackdirRightS, InvalidTrackdir, InvalidTrackdir,
}

// ReverseTrackdir returns the trackdir travelling the opposite way over the
// same physical track. ReverseTrackdir(ReverseTrackdir(td)) == td always.
func ReverseTrackdir(td Trackdir) Trackdir { return reverseTable[td&0xF] }

// exitDirTable maps each trackdir to the DiagDir you leave the tile by.
var exitDirTable = [16]DiagDir{
	DiagDirNE, DiagDirSE, DiagDirNE, DiagDirSE, DiagDirSW, DiagDirSE,
	0, 0,
	DiagDirSW, DiagDirNW, DiagDirSW, DiagDirNW, DiagDirNW, DiagDirNE,
}

// TrackdirToExitdir gives the diagdir you leave the current tile by when
// traversing td.
func TrackdirToExitdir(td Trackdir) DiagDir { return exitDirTable[td&0xF] }

// IsDiagonalTrackdir reports whether td is one of the two full-diagonal
// (length = TILE_LENGTH) trackdirs as opposed to a corner piece.
func IsDiagonalTrackdir(td Trackdir) bool {
	return td == TrackdirXNE || td == TrackdirXSW || td == TrackdirYSE || td == TrackdirYNW
}

// straightAhead holds, for each (entry trackdir), the trackdir that
// continues straight ahead with no curve - used to detect curve penalties.
var straightAhead = map[Trackdir]Trackdir{
	TrackdirXNE: TrackdirXNE, TrackdirXSW: TrackdirXSW,
	TrackdirYSE: TrackdirYSE, TrackdirYNW: TrackdirYNW,
	TrackdirUpperE: TrackdirUpperE, TrackdirUpperW: TrackdirUpperW,
	TrackdirLowerE: TrackdirLowerE, TrackdirLowerW: TrackdirLowerW,
	TrackdirLeftN: TrackdirLeftN, TrackdirLeftS: TrackdirLeftS,
	TrackdirRightN: TrackdirRightN, TrackdirRightS: TrackdirRightS,
}

// NextTrackdir returns the trackdir a vehicle continues with absent any
// junction choice: the one that keeps it going in the same geometric line.
func NextTrackdir(td Trackdir) Trackdir {
	if n, ok := straightAhead[td]; ok {
		return n
	}
	return td
}

// TrackdirCrossesTrackdirs reports whether td2 crosses td1 at 90 degrees (a
// diagonal crossing an orthogonal, or vice versa) - used by the
// forbid-90-degree-turn filter and the doubleslip-junction cost penalty.
func TrackdirCrossesTrackdirs(td1, td2 Trackdir) bool {
	if td1 == td2 || ReverseTrackdir(td1) == td2 {
		return false
	}
	return IsDiagonalTrackdir(td1) != IsDiagonalTrackdir(td2)
}

// TrackBits is a bitset over the 6 track pieces a tile can carry (one bit
// per undirected track, diagonals and both corner pairs).
type TrackBits uint8

const (
	TrackX TrackBits = 1 << iota
	TrackY
	TrackUpper
	TrackLower
	TrackLeft
	TrackRight
	NumTracks = 6
)

// trackdirToTrack maps a trackdir to its underlying undirected track piece.
var trackdirToTrack = [16]TrackBits{
	TrackX, TrackY, TrackUpper, TrackLower, TrackLeft, TrackRight,
	0, 0,
	TrackX, TrackY, TrackUpper, TrackLower, TrackLeft, TrackRight,
}

// TrackdirToTrack returns the undirected track piece underlying td.
func TrackdirToTrack(td Trackdir) TrackBits { return trackdirToTrack[td&0xF] }

// trackdirBitsByDiagDir lists, for each DiagDir of travel into a tile, the
// trackdirs reachable on that tile (TrackdirBits in OpenTTD parlance), in
// ascending value order.
var trackdirBitsByDiagDir = [4][]Trackdir{
	DiagDirNE: {TrackdirXNE, TrackdirUpperE, TrackdirLowerE, TrackdirLeftN, TrackdirRightN},
	DiagDirSE: {TrackdirYSE, TrackdirUpperE, TrackdirLowerE, TrackdirLeftS, TrackdirRightS},
	DiagDirSW: {TrackdirLeftS, TrackdirRightS, TrackdirXSW, TrackdirUpperW, TrackdirLowerW},
	DiagDirNW: {TrackdirYNW, TrackdirUpperW, TrackdirLowerW, TrackdirLeftN, TrackdirRightN},
}

// DiagdirReachesTrackdirs returns, in ascending bit-index order (spec §9
// determinism requirement), the trackdirs a vehicle can be travelling on
// immediately after moving into a tile in direction d.
func DiagdirReachesTrackdirs(d DiagDir) []Trackdir {
	out := make([]Trackdir, len(trackdirBitsByDiagDir[d]))
	copy(out, trackdirBitsByDiagDir[d])
	return out
}

// ForEachSetBit iterates bits of a TrackBits-shaped mask in ascending
// bit-index order, calling fn for each set bit. Iteration order must be
// deterministic wherever successors are enumerated (spec §9).
func ForEachSetBit(mask uint32, fn func(bit uint)) {
	for bit := uint(0); mask != 0; bit++ {
		if mask&1 != 0 {
			fn(bit)
		}
		mask >>= 1
	}
}

// FindFirstBit returns the index of the lowest set bit of mask, or -1 if
// mask is zero. Used as the final, deterministic tie-break (spec §5/§9).
func FindFirstBit(mask uint32) int {
	if mask == 0 {
		return -1
	}
	bit := 0
	for mask&1 == 0 {
		mask >>= 1
		bit++
	}
	return bit
}
