package selftest

import (
	"fmt"

	"github.com/sarchlab/memscrub/lfsr"
	"github.com/sarchlab/memscrub/mem"
)

// A Builder configures and creates memory self tests.
type Builder struct {
	seed       uint32
	firstAddr  uint64
	lastAddr   uint64
	unitCount  int
	iterations int
	unbounded  bool
	memory     mem.Memory
	progress   ProgressBar
}

// MakeBuilder returns a Builder with the default seed, 8 execution
// units, and a single iteration.
func MakeBuilder() Builder {
	return Builder{
		seed:       lfsr.DefaultSeed,
		unitCount:  8,
		iterations: 1,
	}
}

// WithSeed sets the base seed. Unit i writes the sequence seeded with
// seed+i.
func (b Builder) WithSeed(seed uint32) Builder {
	b.seed = seed
	return b
}

// WithRegion sets the address range [firstAddr, lastAddr) under test.
// Both bounds must be word aligned.
func (b Builder) WithRegion(firstAddr, lastAddr uint64) Builder {
	b.firstAddr = firstAddr
	b.lastAddr = lastAddr
	return b
}

// WithUnitCount sets the number of execution units that share the test.
func (b Builder) WithUnitCount(n int) Builder {
	b.unitCount = n
	return b
}

// WithIterations sets the number of write/verify cycles. The mismatch
// count accumulates across iterations.
func (b Builder) WithIterations(n int) Builder {
	b.iterations = n
	b.unbounded = false
	return b
}

// WithUnboundedIterations makes the test cycle until Stop is called.
func (b Builder) WithUnboundedIterations() Builder {
	b.unbounded = true
	return b
}

// WithMemory sets the memory the test writes and verifies.
func (b Builder) WithMemory(m mem.Memory) Builder {
	b.memory = m
	return b
}

// WithProgressBar attaches a progress bar that is advanced once per
// completed iteration.
func (b Builder) WithProgressBar(pb ProgressBar) Builder {
	b.progress = pb
	return b
}

// Build validates the configuration and creates the test. A
// configuration error is returned before any unit starts and is
// distinct from a test failure.
func (b Builder) Build() (*Test, error) {
	if b.memory == nil {
		return nil, fmt.Errorf("no memory to test")
	}

	if b.unitCount <= 0 {
		return nil, fmt.Errorf("unit count must be positive, got %d",
			b.unitCount)
	}

	if b.firstAddr%mem.WordSize != 0 || b.lastAddr%mem.WordSize != 0 {
		return nil, fmt.Errorf(
			"region [0x%x, 0x%x) is not word aligned",
			b.firstAddr, b.lastAddr)
	}

	if b.firstAddr >= b.lastAddr {
		return nil, fmt.Errorf("region [0x%x, 0x%x) is empty",
			b.firstAddr, b.lastAddr)
	}

	words := (b.lastAddr - b.firstAddr) / mem.WordSize
	if words < uint64(b.unitCount) {
		return nil, fmt.Errorf(
			"region of %d words cannot be shared by %d units",
			words, b.unitCount)
	}

	if !b.unbounded && b.iterations <= 0 {
		return nil, fmt.Errorf("iteration count must be positive, got %d",
			b.iterations)
	}

	return &Test{
		seed:       b.seed,
		firstAddr:  b.firstAddr,
		lastAddr:   b.lastAddr,
		unitCount:  b.unitCount,
		iterations: b.iterations,
		unbounded:  b.unbounded,
		memory:     b.memory,
		progress:   b.progress,
	}, nil
}
