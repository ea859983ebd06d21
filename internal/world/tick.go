package world

import "log"

// Tick drives the simulation: each Step advances every cell inside a
// bounded window once, using the generation stamp to guarantee no cell is
// dispatched twice within the same step.
//
// Iteration order convention: row-major, increasing y then increasing x.
// Gravity pulls in -y (see mover.go's below()); processing rows in
// increasing-y order walks opposite to the direction cells fall, so a
// falling cell lands in a row that has already been scanned this step
// rather than one still waiting to be visited. The generation stamp, not
// the iteration order, is what actually guarantees no cell is dispatched
// twice in one step — order only affects how many rows a falling column
// can appear to advance through before the observer next reads it.
type Tick struct {
	mover      *Mover
	cache      *Cache
	window     int32
	generation uint32
}

// NewTick builds a Tick driver with the given simulation window side
// length (SIM_WINDOW). The generation counter starts at 1, not 0: freshly
// constructed cells carry Generation 0 (see cell.go's NewCell), so the
// counter must start one step ahead of that zero value or the very first
// Step would see every cell as already touched and dispatch nothing.
func NewTick(mover *Mover, cache *Cache, window int32) *Tick {
	return &Tick{mover: mover, cache: cache, window: window, generation: 1}
}

// Generation returns the world generation counter as of the last completed
// Step (i.e. the value that will be stamped on cells touched by the next
// Step).
func (t *Tick) Generation() uint32 {
	return t.generation
}

// Step advances the simulation once, centered on center.
func (t *Tick) Step(center GlobalCoord) {
	half := t.window / 2
	t.mover.SetGeneration(t.generation)

	for y := center.Y - half; y <= center.Y+half; y++ {
		for x := center.X - half; x <= center.X+half; x++ {
			g := GlobalCoord{X: x, Y: y}
			cell, err := t.mover.CellAt(g)
			if err != nil {
				log.Printf("world: tick: skipping %v: %v", g, err)
				continue
			}
			if cell.Generation == t.generation {
				// Already touched this step, either as the primary cell of
				// an earlier dispatch or as the target of a swap.
				continue
			}
			if _, err := t.mover.Dispatch(g); err != nil {
				log.Printf("world: tick: dispatch failed at %v: %v", g, err)
			}
		}
	}

	// Reactions run as a strictly separate pass over the same window, after
	// all movement for this step has settled, so a cell that reacts is not
	// also moved under its new material within the same step.
	for y := center.Y - half; y <= center.Y+half; y++ {
		for x := center.X - half; x <= center.X+half; x++ {
			g := GlobalCoord{X: x, Y: y}
			if err := t.mover.React(g); err != nil {
				log.Printf("world: tick: reaction failed at %v: %v", g, err)
			}
		}
	}

	t.cache.Flush()
	t.generation++
}
