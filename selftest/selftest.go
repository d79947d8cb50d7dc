// Package selftest implements a parallel memory self test.
//
// A group of symmetric execution units fills a contiguous memory region
// with a deterministic pseudorandom pattern, then re-derives the pattern
// independently and counts the bits that differ from what the memory
// actually holds. Stuck bits, retention failures, and cross-talk all
// surface as a non-zero mismatch count.
//
// The region is partitioned with an interleaved stride: unit i touches
// words i, i+N, i+2N, and so on. Adjacent units therefore touch adjacent
// words each step, which stresses inter-cell coupling harder than
// contiguous chunks would. During verification the identities reverse,
// so every unit checks data that a different unit wrote.
package selftest

import (
	"log"
	"math/bits"
	"sync/atomic"

	"github.com/sarchlab/memscrub/cluster"
	"github.com/sarchlab/memscrub/lfsr"
	"github.com/sarchlab/memscrub/mem"
)

// A ProgressBar receives per-iteration progress. The monitoring package
// provides an implementation.
type ProgressBar interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// A Test is one configured memory self test. Create it with a Builder.
type Test struct {
	seed       uint32
	firstAddr  uint64
	lastAddr   uint64
	unitCount  int
	iterations int
	unbounded  bool
	memory     mem.Memory
	progress   ProgressBar

	stopRequested atomic.Bool
	stopDecision  bool

	completedIterations atomic.Uint64

	// Written once per unit inside the group's critical section, read by
	// the caller after all units have finished.
	errors uint64
}

// Run executes the complete test on a fresh group of unitCount
// goroutines and returns the accumulated mismatch count. Zero means the
// memory passed.
func Run(t *Test) uint64 {
	cluster.Fork(t.unitCount, t.RunUnit)

	return t.Errors()
}

// RunUnit is the body every execution unit runs. Callers that bring
// their own unit group must start exactly UnitCount units, each calling
// RunUnit once with its own context.
func (t *Test) RunUnit(ctx cluster.Context) {
	if ctx.UnitCount() != t.unitCount {
		log.Panicf("test configured for %d units, ran with %d",
			t.unitCount, ctx.UnitCount())
	}

	id := ctx.ID()
	localErrors := uint64(0)

	for iter := 0; ; iter++ {
		if id == 0 && t.progress != nil {
			t.progress.IncrementInProgress(1)
		}

		t.writePhase(id)

		// No unit may verify memory another unit is still writing.
		ctx.Barrier()

		localErrors += t.verifyPhase(t.unitCount - id - 1)

		// Fences this iteration's verification from the next
		// iteration's writes.
		ctx.Barrier()

		if t.iterationDone(ctx, iter) {
			break
		}
	}

	ctx.Barrier()
	ctx.Critical(func() {
		t.errors += localErrors
	})
}

// writePhase walks the strided address sequence of the given identity
// and fills it with the pseudorandom pattern seeded for that identity.
func (t *Test) writePhase(id int) {
	state := t.seed + uint32(id)
	stride := uint64(t.unitCount) * mem.WordSize

	for addr := t.firstAddr + uint64(id)*mem.WordSize; addr < t.lastAddr; addr += stride {
		state = lfsr.AdvanceWord(state)

		err := t.memory.WriteUint32(addr, state)
		if err != nil {
			log.Panicf("cannot write word at 0x%x: %v", addr, err)
		}
	}
}

// verifyPhase replays the exact address and generator sequence that the
// given identity used during the write phase, comparing each re-derived
// word against the memory. It returns the number of differing bits.
func (t *Test) verifyPhase(id int) uint64 {
	state := t.seed + uint32(id)
	stride := uint64(t.unitCount) * mem.WordSize
	mismatches := uint64(0)

	for addr := t.firstAddr + uint64(id)*mem.WordSize; addr < t.lastAddr; addr += stride {
		state = lfsr.AdvanceWord(state)

		word, err := t.memory.ReadUint32(addr)
		if err != nil {
			log.Panicf("cannot read word at 0x%x: %v", addr, err)
		}

		mismatches += uint64(bits.OnesCount32(state ^ word))
	}

	return mismatches
}

// iterationDone reports whether the unit should leave its iteration
// loop. All units always agree on the answer, otherwise the group would
// deadlock on mismatched barrier occurrences.
func (t *Test) iterationDone(ctx cluster.Context, iter int) bool {
	if ctx.ID() == 0 {
		t.completedIterations.Add(1)
		if t.progress != nil {
			t.progress.MoveInProgressToFinished(1)
		}
	}

	if !t.unbounded {
		return iter+1 >= t.iterations
	}

	// Unit 0 samples the stop flag alone and publishes the decision
	// across a barrier, so no two units can read different values.
	if ctx.ID() == 0 {
		t.stopDecision = t.stopRequested.Load()
	}
	ctx.Barrier()

	return t.stopDecision
}

// Stop asks an unbounded test to finish after the iteration currently
// in flight. It is safe to call from any goroutine and has no effect on
// a bounded test.
func (t *Test) Stop() {
	t.stopRequested.Store(true)
}

// Errors returns the accumulated mismatch count. It is only meaningful
// after all units have completed.
func (t *Test) Errors() uint64 {
	return t.errors
}

// Passed reports whether the test completed without a single bit
// mismatch.
func (t *Test) Passed() bool {
	return t.errors == 0
}

// CompletedIterations returns the number of fully verified iterations
// so far. It may be read while the test is running.
func (t *Test) CompletedIterations() uint64 {
	return t.completedIterations.Load()
}

// Seed returns the configured base seed.
func (t *Test) Seed() uint32 {
	return t.seed
}

// Region returns the configured address range [first, last).
func (t *Test) Region() (firstAddr, lastAddr uint64) {
	return t.firstAddr, t.lastAddr
}

// UnitCount returns the number of execution units the test requires.
func (t *Test) UnitCount() int {
	return t.unitCount
}
