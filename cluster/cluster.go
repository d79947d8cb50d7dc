// Package cluster models a group of symmetric execution units, mirroring
// the team primitives a multi-core cluster runtime offers: fork, barrier,
// and a group-wide critical section.
package cluster

import (
	"fmt"
	"sync"
)

// A Context is handed to each execution unit and carries the unit's
// identity together with the synchronization primitives of its group.
type Context interface {
	// ID returns the unit's 0-based index within its group.
	ID() int

	// UnitCount returns the number of units in the group.
	UnitCount() int

	// Barrier blocks until every unit in the group has called Barrier
	// for this occurrence. Occurrences are matched in call order.
	//
	// There is no timeout. A unit that never arrives stalls the whole
	// group.
	Barrier()

	// Critical runs fn while holding the group's mutual-exclusion lock.
	// The lock is released even if fn panics.
	Critical(fn func())
}

// Fork starts n execution units, runs fn on each with its own Context,
// and returns once all units have completed.
func Fork(n int, fn func(Context)) {
	if n <= 0 {
		panic(fmt.Sprintf("cannot fork a group of %d units", n))
	}

	g := &group{size: n}
	g.barrier.cond = sync.NewCond(&g.barrier.lock)

	var wg sync.WaitGroup
	for id := 0; id < n; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			fn(&unitContext{id: id, group: g})
		}(id)
	}
	wg.Wait()
}

type group struct {
	size     int
	critical sync.Mutex

	barrier struct {
		lock       sync.Mutex
		cond       *sync.Cond
		arrived    int
		generation uint64
	}
}

func (g *group) await() {
	b := &g.barrier

	b.lock.Lock()
	defer b.lock.Unlock()

	generation := b.generation

	b.arrived++
	if b.arrived == g.size {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return
	}

	for generation == b.generation {
		b.cond.Wait()
	}
}

type unitContext struct {
	id    int
	group *group
}

func (c *unitContext) ID() int {
	return c.id
}

func (c *unitContext) UnitCount() int {
	return c.group.size
}

func (c *unitContext) Barrier() {
	c.group.await()
}

func (c *unitContext) Critical(fn func()) {
	c.group.critical.Lock()
	defer c.group.critical.Unlock()

	fn()
}
