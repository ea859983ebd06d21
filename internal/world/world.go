package world

import "math/rand"

// World is the public facade over the core: callers address cells purely
// in GlobalCoord and never see ChunkCoord/LocalCoord.
type World struct {
	store *Store
	cache *Cache
	mover *Mover
	tick  *Tick
}

// NewWorld builds a World persisting chunks beneath dir, driven by rng and
// advancing SIM_WINDOW-sized regions each Tick.
func NewWorld(dir string, window int32, rng *rand.Rand) *World {
	store := NewStore(dir, rng)
	cache := NewCache(store)
	mover := NewMover(cache, rng)
	return &World{
		store: store,
		cache: cache,
		mover: mover,
		tick:  NewTick(mover, cache, window),
	}
}

// GetCell is a read-only lookup; it returns ok=false if the containing
// chunk is not resident (it does not load from disk).
func (w *World) GetCell(g GlobalCoord) (cell Cell, ok bool) {
	chunkCoord, local := Decompose(g)
	chunk, resident := w.store.Get(chunkCoord)
	if !resident {
		return Cell{}, false
	}
	cell, err := chunk.GetCell(local)
	if err != nil {
		return Cell{}, false
	}
	return cell, true
}

// GetCellForceLoad materializes the containing chunk if necessary, then
// reads the cell.
func (w *World) GetCellForceLoad(g GlobalCoord) (Cell, error) {
	return w.mover.CellAt(g)
}

// SetCell force-loads the containing chunk and writes the cell.
func (w *World) SetCell(g GlobalCoord, cell Cell) error {
	return w.mover.SetCellAt(g, cell)
}

// FillChunk replaces the entire chunk containing g with a uniform fill of
// m, discarding whatever that chunk previously held.
func (w *World) FillChunk(g GlobalCoord, m Material, rng *rand.Rand) {
	chunkCoord, _ := Decompose(g)
	filled := FilledWith(m, rng)
	filled.MarkDirty()
	w.store.Insert(chunkCoord, filled)
	w.cache.Flush()
}

// Tick advances the simulation by one step, centered on center.
func (w *World) Tick(center GlobalCoord) {
	w.tick.Step(center)
}

// SaveChunk persists the chunk at coord without evicting it.
func (w *World) SaveChunk(coord ChunkCoord) error {
	return w.store.Save(coord)
}

// EvictChunk persists (if dirty) and removes the chunk at coord from
// memory.
func (w *World) EvictChunk(coord ChunkCoord) error {
	w.cache.Flush()
	return w.store.Evict(coord)
}

// PersistAll saves every resident chunk, best-effort.
func (w *World) PersistAll() error {
	return w.store.PersistAll()
}

// Generation returns the current world generation counter, mainly for
// diagnostics and tests.
func (w *World) Generation() uint32 {
	return w.tick.Generation()
}
