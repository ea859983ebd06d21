package world

import (
	"bytes"
	"compress/zlib"
	"encoding/gob"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// Chunk is a fixed-size square tile of cells, the unit of persistence.
// Chunks do not store their own coordinates authoritatively; the Store
// indexes them by ChunkCoord.
type Chunk struct {
	cells   [ChunkArea]Cell
	dirty   bool
}

// FilledWith returns a Chunk whose cells are all freshly constructed from
// the given material via NewCell, using rng (so for non-fluid materials
// each cell is color-jittered independently).
func FilledWith(m Material, rng *rand.Rand) *Chunk {
	c := &Chunk{}
	for i := range c.cells {
		c.cells[i] = NewCell(m, rng)
	}
	return c
}

// DefaultChunk returns a Chunk filled with the default material (Air).
func DefaultChunk(rng *rand.Rand) *Chunk {
	return FilledWith(Air, rng)
}

// GetCell returns the cell at the given LocalCoord. Out-of-range input is a
// programming error, reported as ErrOutOfBounds rather than a panic or
// index-out-of-range crash.
func (c *Chunk) GetCell(l LocalCoord) (Cell, error) {
	if !localInBounds(l) {
		return Cell{}, ErrOutOfBounds
	}
	return c.cells[ToIndex(l)], nil
}

// SetCell replaces the cell at the given LocalCoord and marks the chunk
// dirty (invariant SD1).
func (c *Chunk) SetCell(l LocalCoord, cell Cell) error {
	if !localInBounds(l) {
		return ErrOutOfBounds
	}
	c.cells[ToIndex(l)] = cell
	c.dirty = true
	return nil
}

// Dirty reports whether the chunk has been touched since it was last
// persisted or loaded (invariant SD1).
func (c *Chunk) Dirty() bool {
	return c.dirty
}

func (c *Chunk) clearDirty() {
	c.dirty = false
}

// MarkDirty forces the dirty flag on, for callers that replace a chunk's
// contents wholesale (e.g. World.FillChunk) rather than through SetCell.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

func localInBounds(l LocalCoord) bool {
	return l.U >= 0 && l.U < ChunkSide && l.V >= 0 && l.V < ChunkSide
}

// Equal compares two chunks by their cell contents, for persistence
// round-trip tests (property P3).
func (c *Chunk) Equal(other *Chunk) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.cells == other.cells
}

func init() {
	gob.Register(chunkWire{})
}

// chunkWire is the on-the-wire payload for a Chunk. gob already encodes its
// own field schema alongside the data, so a decoder does not need an
// out-of-band description of what's in the stream to read it back.
type chunkWire struct {
	Cells [ChunkArea]Cell
}

// savePath returns "{dir}/{x}_{y}.ron" for the given ChunkCoord. The
// filename encodes the coordinate directly so a chunk file can be located
// without consulting an index.
func savePath(dir string, coord ChunkCoord) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%d.ron", coord.X, coord.Y))
}

// Save serializes the chunk's cell array to path, compressing the gob
// encoding with zlib since a chunk's cell array compresses well (large
// runs of identical Air cells). Clears the dirty flag on success.
func (c *Chunk) Save(dir string, coord ChunkCoord) error {
	path := savePath(dir, coord)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrIOFailure, dir, err)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if err := gob.NewEncoder(zw).Encode(chunkWire{Cells: c.cells}); err != nil {
		return fmt.Errorf("%w: encode chunk: %v", ErrIOFailure, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: flush chunk: %v", ErrIOFailure, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	c.clearDirty()
	return nil
}

// LoadChunk reads a Chunk previously written by Save. Returns ErrIOFailure
// (wrapped) on any decode/read failure, so callers can fall back to a
// default chunk rather than propagating a missing-file error up as fatal —
// a chunk that was never saved is indistinguishable from one that doesn't
// exist yet.
func LoadChunk(dir string, coord ChunkCoord) (*Chunk, error) {
	path := savePath(dir, coord)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIOFailure, path, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", ErrIOFailure, path, err)
	}
	defer zr.Close()

	var wire chunkWire
	if err := gob.NewDecoder(zr).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrIOFailure, path, err)
	}

	return &Chunk{cells: wire.Cells}, nil
}
