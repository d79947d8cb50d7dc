// Package lfsr implements the 32-bit linear feedback shift register that
// generates the pseudorandom pattern for memory self tests.
//
// The register is a pure function of its state. Advancing it never
// allocates and never touches shared data, so any number of execution
// units can each walk their own sequence concurrently.
package lfsr

// Feedback is the feedback term of the characteristic polynomial. The
// polynomial is maximal length, so the register cycles through all
// 2^32-1 non-zero states before repeating.
const Feedback uint32 = 0x80000057

// DefaultSeed is the seed used when the caller does not provide one.
const DefaultSeed uint32 = 0xdeadbeef

// AdvanceBit shifts the register by a single bit, applying the feedback
// term when a one falls off the low end.
func AdvanceBit(state uint32) uint32 {
	if state&1 != 0 {
		return (state >> 1) ^ Feedback
	}

	return state >> 1
}

// AdvanceByte shifts the register by eight bits with a single table
// lookup. It returns the same value as eight consecutive AdvanceBit
// steps.
func AdvanceByte(state uint32) uint32 {
	return (state >> 8) ^ byteFeedback[state&0xff]
}

// AdvanceWord shifts the register by one 32-bit word, which is the
// granularity the self test writes and verifies at.
func AdvanceWord(state uint32) uint32 {
	state = AdvanceByte(state)
	state = AdvanceByte(state)
	state = AdvanceByte(state)

	return AdvanceByte(state)
}
