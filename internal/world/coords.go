package world

import "fmt"

// ChunkSide is a compile-time power-of-two constant: the side length of a
// Chunk in cells. ChunkArea is the resulting flat cell count.
const (
	ChunkSide = 64
	ChunkArea = ChunkSide * ChunkSide
)

// GlobalCoord addresses an individual cell in the unbounded world.
type GlobalCoord struct {
	X, Y int32
}

// ChunkCoord identifies a chunk.
type ChunkCoord struct {
	X, Y int32
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// LocalCoord is a position inside a chunk, 0 <= U,V < ChunkSide.
type LocalCoord struct {
	U, V int32
}

// Index is the flat offset into a chunk's cell array, [0, ChunkArea).
type Index int32

// ToChunk converts a GlobalCoord to the ChunkCoord that contains it, using
// Euclidean (floor) division on each axis independently so that negative
// coordinates decompose the same way positive ones do, tiling consistently
// across the origin instead of producing an off-by-one chunk at the
// boundary the way truncating division would.
func ToChunk(g GlobalCoord) ChunkCoord {
	return ChunkCoord{X: floorDiv(g.X, ChunkSide), Y: floorDiv(g.Y, ChunkSide)}
}

// ToLocal converts a GlobalCoord to its position within its containing
// chunk, via Euclidean remainder (always in [0, ChunkSide)).
func ToLocal(g GlobalCoord) LocalCoord {
	return LocalCoord{U: floorMod(g.X, ChunkSide), V: floorMod(g.Y, ChunkSide)}
}

// ToIndex converts a LocalCoord to the flat Index into a chunk's cell array.
func ToIndex(l LocalCoord) Index {
	return Index(l.V*ChunkSide + l.U)
}

// Decompose computes ChunkCoord and LocalCoord together, satisfying
// c.X*ChunkSide+l.U == g.X (and the Y analogue) with 0 <= l.U,l.V <
// ChunkSide for every int32 global coordinate. The only integer-overflow
// hazard in division arithmetic comes from dividing by -1, which never
// happens here since ChunkSide is a fixed positive power of two, so this
// implementation does not need a boundary special case.
func Decompose(g GlobalCoord) (ChunkCoord, LocalCoord) {
	return ToChunk(g), ToLocal(g)
}

// floorDiv is Euclidean (floor) division: unlike Go's native truncating
// division, it rounds toward negative infinity so the grid tiles
// consistently across the origin.
func floorDiv(value, size int32) int32 {
	if value >= 0 {
		return value / size
	}
	return -((-value-1)/size) - 1
}

// floorMod is the Euclidean remainder paired with floorDiv; always in
// [0, size).
func floorMod(value, size int32) int32 {
	m := value % size
	if m < 0 {
		m += size
	}
	return m
}
