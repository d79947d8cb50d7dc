package selftest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memscrub/lfsr"
	"github.com/sarchlab/memscrub/selftest"
)

var _ = Describe("Protocol", func() {
	var (
		mockCtrl *gomock.Controller
		memory   *MockMemory
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		memory = NewMockMemory(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write then verify the generator sequence in address order",
		func() {
			const seed = uint32(0x12345678)
			const firstAddr = uint64(0x100)
			const numWords = 4

			state := seed
			calls := []any{}
			words := []uint32{}

			for i := 0; i < numWords; i++ {
				state = lfsr.AdvanceWord(state)
				words = append(words, state)

				addr := firstAddr + uint64(i)*4
				calls = append(calls,
					memory.EXPECT().
						WriteUint32(addr, state).
						Return(nil))
			}

			for i := 0; i < numWords; i++ {
				addr := firstAddr + uint64(i)*4
				calls = append(calls,
					memory.EXPECT().
						ReadUint32(addr).
						Return(words[i], nil))
			}

			gomock.InOrder(calls...)

			test, err := selftest.MakeBuilder().
				WithSeed(seed).
				WithRegion(firstAddr, firstAddr+numWords*4).
				WithUnitCount(1).
				WithIterations(1).
				WithMemory(memory).
				Build()
			Expect(err).ToNot(HaveOccurred())

			Expect(selftest.Run(test)).To(Equal(uint64(0)))
		})

	It("should re-derive the reversed identity's pattern during verify",
		func() {
			// Two units over four words. Unit 0 owns words 0 and 2,
			// unit 1 owns words 1 and 3. During verify, unit 0 replays
			// unit 1's sequence and vice versa.
			const seed = uint32(0xdeadbeef)
			const firstAddr = uint64(0)

			expected := map[uint64]uint32{}
			for id := uint32(0); id < 2; id++ {
				state := seed + id
				for w := uint64(0); w < 2; w++ {
					state = lfsr.AdvanceWord(state)
					expected[firstAddr+uint64(id)*4+w*8] = state
				}
			}

			for addr, word := range expected {
				memory.EXPECT().WriteUint32(addr, word).Return(nil)
				memory.EXPECT().ReadUint32(addr).Return(word, nil)
			}

			test, err := selftest.MakeBuilder().
				WithSeed(seed).
				WithRegion(firstAddr, firstAddr+16).
				WithUnitCount(2).
				WithIterations(1).
				WithMemory(memory).
				Build()
			Expect(err).ToNot(HaveOccurred())

			Expect(selftest.Run(test)).To(Equal(uint64(0)))
		})
})
