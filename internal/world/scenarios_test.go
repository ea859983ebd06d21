package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// scenarioRig bundles a Store/Cache/Mover/Tick quartet wired the way
// cmd/sandsim wires them, for the end-to-end scenarios below.
type scenarioRig struct {
	store *Store
	cache *Cache
	mover *Mover
	tick  *Tick
}

func newScenarioRig(t *testing.T, window int32, seed int64) *scenarioRig {
	t.Helper()
	store := NewStore(t.TempDir(), rand.New(rand.NewSource(seed)))
	cache := NewCache(store)
	mover := NewMover(cache, rand.New(rand.NewSource(seed)))
	return &scenarioRig{
		store: store,
		cache: cache,
		mover: mover,
		tick:  NewTick(mover, cache, window),
	}
}

// S1: sand falls through air, one row per tick along -y.
func TestScenarioSandFallsThroughAir(t *testing.T) {
	r := newScenarioRig(t, 32, 100)
	require := require.New(t)
	rng := rand.New(rand.NewSource(100))

	require.NoError(r.mover.SetCellAt(GlobalCoord{X: 0, Y: 10}, NewCell(Sand, rng)))

	r.tick.Step(GlobalCoord{X: 0, Y: 0})

	cell, err := r.mover.CellAt(GlobalCoord{X: 0, Y: 9})
	require.NoError(err)
	require.Equal(Sand, cell.Material, "sand should have fallen one row after one tick")

	for i := 0; i < 10; i++ {
		r.tick.Step(GlobalCoord{X: 0, Y: 0})
	}

	cell, err = r.mover.CellAt(GlobalCoord{X: 0, Y: -1})
	require.NoError(err)
	require.Equal(Sand, cell.Material, "sand should have fallen a total of 11 rows after 11 ticks")
}

// S2: sand piles contiguously above a rock floor, no holes.
func TestScenarioSandPiles(t *testing.T) {
	r := newScenarioRig(t, 32, 101)
	require := require.New(t)
	rng := rand.New(rand.NewSource(101))

	for y := int32(0); y <= 3; y++ {
		require.NoError(r.mover.SetCellAt(GlobalCoord{X: 0, Y: y}, NewCell(Rock, rng)))
	}
	// Wall both sides of the column so sand can only pack straight down;
	// without walls it would spill diagonally past the single-wide floor.
	for _, x := range []int32{-1, 1} {
		for y := int32(0); y <= 14; y++ {
			require.NoError(r.mover.SetCellAt(GlobalCoord{X: x, Y: y}, NewCell(Rock, rng)))
		}
	}
	for y := int32(10); y <= 14; y++ {
		require.NoError(r.mover.SetCellAt(GlobalCoord{X: 0, Y: y}, NewCell(Sand, rng)))
	}

	for i := 0; i < 40; i++ {
		r.tick.Step(GlobalCoord{X: 0, Y: 0})
	}

	for y := int32(4); y <= 8; y++ {
		cell, err := r.mover.CellAt(GlobalCoord{X: 0, Y: y})
		require.NoError(err)
		require.Equal(Sand, cell.Material, "expected sand resting at row %d with no holes", y)
	}
	for y := int32(9); y <= 14; y++ {
		cell, err := r.mover.CellAt(GlobalCoord{X: 0, Y: y})
		require.NoError(err)
		require.NotEqual(Sand, cell.Material, "no sand should remain above the settled pile at row %d", y)
	}
	for y := int32(0); y <= 3; y++ {
		cell, err := r.mover.CellAt(GlobalCoord{X: 0, Y: y})
		require.NoError(err)
		require.Equal(Rock, cell.Material, "rock floor must remain undisturbed")
	}
}

// S3: denser Water displaces less-dense Oil within one tick. Oil and Water
// are boxed in by Rock on the floor and both sides so that the only
// possible move for either cell is the vertical swap the scenario tests.
func TestScenarioWaterDisplacesOil(t *testing.T) {
	r := newScenarioRig(t, 16, 102)
	require := require.New(t)
	rng := rand.New(rand.NewSource(102))

	for _, x := range []int32{-1, 0, 1} {
		for y := int32(0); y <= 3; y++ {
			require.NoError(r.mover.SetCellAt(GlobalCoord{X: x, Y: y}, NewCell(Rock, rng)))
		}
	}
	for _, x := range []int32{-1, 1} {
		for _, y := range []int32{4, 5} {
			require.NoError(r.mover.SetCellAt(GlobalCoord{X: x, Y: y}, NewCell(Rock, rng)))
		}
	}
	require.NoError(r.mover.SetCellAt(GlobalCoord{X: 0, Y: 4}, NewCell(Oil, rng)))
	require.NoError(r.mover.SetCellAt(GlobalCoord{X: 0, Y: 5}, NewCell(Water, rng)))

	r.tick.Step(GlobalCoord{X: 0, Y: 0})

	lower, err := r.mover.CellAt(GlobalCoord{X: 0, Y: 4})
	require.NoError(err)
	upper, err := r.mover.CellAt(GlobalCoord{X: 0, Y: 5})
	require.NoError(err)
	require.Equal(Water, lower.Material, "water must sink below oil within one tick")
	require.Equal(Oil, upper.Material)
}

// S4: a cell surrounded by Rock on four sides never moves, regardless of
// its own material.
func TestScenarioImmovableBoundary(t *testing.T) {
	r := newScenarioRig(t, 16, 103)
	require := require.New(t)
	rng := rand.New(rand.NewSource(103))

	center := GlobalCoord{X: 0, Y: 0}
	require.NoError(r.mover.SetCellAt(center, NewCell(Water, rng)))
	for _, d := range []GlobalCoord{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
		require.NoError(r.mover.SetCellAt(d, NewCell(Rock, rng)))
	}

	for i := 0; i < 5; i++ {
		r.tick.Step(GlobalCoord{X: 0, Y: 0})
	}

	cell, err := r.mover.CellAt(center)
	require.NoError(err)
	require.Equal(Water, cell.Material, "cell enclosed by rock on all sides must never move")
}

// S5: a swap that straddles two chunks marks both dirty, and the state
// survives an evict-and-reload of both.
func TestScenarioCrossChunkSwap(t *testing.T) {
	r := newScenarioRig(t, 8, 104)
	require := require.New(t)
	rng := rand.New(rand.NewSource(104))

	// (5,0) sits in chunk (0,0); the cell directly below, (5,-1), sits in
	// chunk (0,-1) — a different chunk, crossing the chunk boundary on the
	// y axis.
	upper := GlobalCoord{X: 5, Y: 0}
	lower := GlobalCoord{X: 5, Y: -1}
	upperChunk, _ := Decompose(upper)
	lowerChunk, _ := Decompose(lower)
	require.NotEqual(upperChunk, lowerChunk, "scenario setup must straddle two chunks")

	require.NoError(r.mover.SetCellAt(upper, NewCell(Sand, rng)))
	require.NoError(r.mover.SetCellAt(lower, NewCell(Air, rng)))

	r.tick.Step(GlobalCoord{X: 5, Y: 0})

	upperChunkObj, ok := r.store.Get(upperChunk)
	require.True(ok)
	lowerChunkObj, ok := r.store.Get(lowerChunk)
	require.True(ok)
	require.True(upperChunkObj.Dirty(), "source chunk must be marked dirty after cross-chunk swap")
	require.True(lowerChunkObj.Dirty(), "destination chunk must be marked dirty after cross-chunk swap")

	require.NoError(r.store.Evict(upperChunk))
	require.NoError(r.store.Evict(lowerChunk))

	reloadedLower := r.store.LoadFromDiskOrDefault(lowerChunk)
	_, lowerLocal := Decompose(lower)
	cell, err := reloadedLower.GetCell(lowerLocal)
	require.NoError(err)
	require.Equal(Sand, cell.Material, "swapped sand must persist across evict and reload")
}

// S6: persistence round trip preserves material and color exactly.
func TestScenarioPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(105))
	require := require.New(t)
	coord := ChunkCoord{X: 2, Y: -2}

	original := FilledWith(Gunpowder, rng)
	require.NoError(original.Save(dir, coord))

	loaded, err := LoadChunk(dir, coord)
	require.NoError(err)

	for v := int32(0); v < ChunkSide; v++ {
		for u := int32(0); u < ChunkSide; u++ {
			want, err := original.GetCell(LocalCoord{U: u, V: v})
			require.NoError(err)
			got, err := loaded.GetCell(LocalCoord{U: u, V: v})
			require.NoError(err)
			require.Equal(want.Material, got.Material)
			require.Equal(want.Color, got.Color)
		}
	}
}
