package world

import "math/rand"

// Mover implements the movement primitives and per-state dispatch that
// drive one cell's update for one tick. All operations are expressed in
// GlobalCoord, going through the Cache for every chunk access, so a move
// can cross a chunk boundary without the caller needing to special-case it.
type Mover struct {
	cache      *Cache
	rng        *rand.Rand
	generation uint32
}

// NewMover builds a Mover over cache, using rng as its randomness source for
// tie-breaks. rng is always injected, never a package-level generator, so a
// test can seed it and get a reproducible sequence of moves.
func NewMover(cache *Cache, rng *rand.Rand) *Mover {
	return &Mover{cache: cache, rng: rng}
}

// SetGeneration tells the Mover which generation stamp to write on the next
// successful swaps. The Tick driver calls this once per tick, before any
// cell dispatch.
func (m *Mover) SetGeneration(gen uint32) {
	m.generation = gen
}

// CellAt reads the cell at a GlobalCoord, materializing its chunk via the
// cache if necessary.
func (m *Mover) CellAt(g GlobalCoord) (Cell, error) {
	chunkCoord, local := Decompose(g)
	chunk := m.cache.Lookup(chunkCoord)
	return chunk.GetCell(local)
}

// SetCellAt writes the cell at a GlobalCoord, materializing its chunk via
// the cache if necessary.
func (m *Mover) SetCellAt(g GlobalCoord, cell Cell) error {
	chunkCoord, local := Decompose(g)
	chunk := m.cache.Lookup(chunkCoord)
	return chunk.SetCell(local, cell)
}

// swap is the primitive behind every move: it reads both cells, then writes
// both back in their swapped positions, stamping both with the current
// generation. Either both writes happen or neither does (property P4).
func (m *Mover) swap(g1, g2 GlobalCoord) error {
	c1, err := m.CellAt(g1)
	if err != nil {
		return err
	}
	c2, err := m.CellAt(g2)
	if err != nil {
		return err
	}

	c1.Generation = m.generation
	c2.Generation = m.generation

	if err := m.SetCellAt(g1, c2); err != nil {
		return err
	}
	if err := m.SetCellAt(g2, c1); err != nil {
		return err
	}
	return nil
}

// isBlocking reports whether the cell at g blocks incoming displacement:
// true for ImmovableSolid and Granular (invariant C1 — Granular cells never
// yield to something falling onto them).
func (m *Mover) isBlocking(g GlobalCoord) (bool, error) {
	cell, err := m.CellAt(g)
	if err != nil {
		return true, err
	}
	state := cell.Props().State
	return state == ImmovableSolid || state == Granular, nil
}

// isLessDenseTarget reports whether the cell at refG has strictly greater
// density than the cell at targetG.
func (m *Mover) isLessDenseTarget(refG, targetG GlobalCoord) (bool, error) {
	ref, err := m.CellAt(refG)
	if err != nil {
		return false, err
	}
	target, err := m.CellAt(targetG)
	if err != nil {
		return false, err
	}
	return ref.Props().Density > target.Props().Density, nil
}

// below returns the neighbor one step in the direction gravity pulls.
// Gravity's default convention in this implementation is -y (falling cells
// decrease their y coordinate, matching scenario S1); gravityUp inverts it
// for Gas cells.
func below(g GlobalCoord, gravityUp bool) GlobalCoord {
	if gravityUp {
		return GlobalCoord{X: g.X, Y: g.Y + 1}
	}
	return GlobalCoord{X: g.X, Y: g.Y - 1}
}

// tryVertical attempts the vertical move: swap with the cell directly below
// (or above, under inverted gravity) if it is non-blocking and, when
// densityBased, strictly less dense.
func (m *Mover) tryVertical(g GlobalCoord, gravityUp, densityBased bool) bool {
	target := below(g, gravityUp)

	blocked, err := m.isBlocking(target)
	if err != nil || blocked {
		return false
	}
	if densityBased {
		lessDense, err := m.isLessDenseTarget(g, target)
		if err != nil || !lessDense {
			return false
		}
	}
	return m.swap(g, target) == nil
}

// diagonalViable reports whether both the same-row side cell and the
// down-diagonal cell are traversable under the current density policy. Both
// must clear the same blocking/density checks, since a diagonal move that
// passed only one would leave the other cell overlapping the mover.
func (m *Mover) diagonalViable(g, sideG, diagG GlobalCoord, densityBased bool) bool {
	sideBlocked, err := m.isBlocking(sideG)
	if err != nil || sideBlocked {
		return false
	}
	diagBlocked, err := m.isBlocking(diagG)
	if err != nil || diagBlocked {
		return false
	}
	if densityBased {
		sideLess, err := m.isLessDenseTarget(g, sideG)
		if err != nil || !sideLess {
			return false
		}
		diagLess, err := m.isLessDenseTarget(g, diagG)
		if err != nil || !diagLess {
			return false
		}
	}
	return true
}

// tryDiagonal attempts a move to one of the two down-diagonal (or
// up-diagonal, for gases) neighbors, picking a side by a fair coin and
// falling back to the other side if the chosen one is not viable.
func (m *Mover) tryDiagonal(g GlobalCoord, gravityUp, densityBased bool) bool {
	belowG := below(g, gravityUp)
	dxs := [2]int32{-1, 1}
	first := m.rng.Intn(2)

	for i := 0; i < 2; i++ {
		dx := dxs[(first+i)%2]
		sideG := GlobalCoord{X: g.X + dx, Y: g.Y}
		diagG := GlobalCoord{X: g.X + dx, Y: belowG.Y}
		if m.diagonalViable(g, sideG, diagG, densityBased) {
			return m.swap(g, diagG) == nil
		}
	}
	return false
}

// tryHorizontal attempts a move to one of the two same-row neighbors, with
// the same random tie-break policy as tryDiagonal.
func (m *Mover) tryHorizontal(g GlobalCoord, densityBased bool) bool {
	dxs := [2]int32{-1, 1}
	first := m.rng.Intn(2)

	for i := 0; i < 2; i++ {
		dx := dxs[(first+i)%2]
		sideG := GlobalCoord{X: g.X + dx, Y: g.Y}

		blocked, err := m.isBlocking(sideG)
		if err != nil || blocked {
			continue
		}
		if densityBased {
			less, err := m.isLessDenseTarget(g, sideG)
			if err != nil || !less {
				continue
			}
		}
		return m.swap(g, sideG) == nil
	}
	return false
}

// Dispatch advances the cell at g by one step according to its material's
// state of aggregation, stamping it with the current generation regardless
// of whether it moved so the tick loop's already-touched check also covers
// cells that tried to move and failed. Returns whether it moved.
func (m *Mover) Dispatch(g GlobalCoord) (bool, error) {
	cell, err := m.CellAt(g)
	if err != nil {
		return false, err
	}

	moved := false
	switch cell.Props().State {
	case Granular:
		if m.tryVertical(g, false, false) {
			moved = true
		} else if m.tryDiagonal(g, false, false) {
			moved = true
		}
	case Liquid:
		if m.tryVertical(g, false, true) {
			moved = true
		} else if m.tryDiagonal(g, false, true) {
			moved = true
		} else if m.tryHorizontal(g, true) {
			moved = true
		}
	case Gas:
		if m.tryVertical(g, true, true) {
			moved = true
		} else if m.tryDiagonal(g, true, true) {
			moved = true
		} else if m.tryHorizontal(g, true) {
			moved = true
		}
	case ImmovableSolid, Replaceable:
		// no action
	}

	if !moved {
		cell, err := m.CellAt(g)
		if err != nil {
			return false, err
		}
		cell.Generation = m.generation
		if err := m.SetCellAt(g, cell); err != nil {
			return false, err
		}
	}
	return moved, nil
}

// steamToWaterChance is the per-tick probability a resident Steam cell
// converts to Water. Low enough that a cloud of steam condenses gradually
// over many ticks rather than all at once.
const steamToWaterChance = 1.0 / 1250.0

// React runs the post-movement reactions pass for a single cell: a
// probabilistic Steam -> Water conversion, applied in place without moving
// the cell. Must be called in a pass strictly separate from Dispatch; the
// Tick driver runs it after every Dispatch of the step, so a cell that
// converts does not also move under its new material in the same step.
func (m *Mover) React(g GlobalCoord) error {
	cell, err := m.CellAt(g)
	if err != nil {
		return err
	}
	if cell.Material != Steam {
		return nil
	}
	if m.rng.Float32() >= steamToWaterChance {
		return nil
	}
	converted := NewCell(Water, m.rng)
	converted.Generation = cell.Generation
	return m.SetCellAt(g, converted)
}
