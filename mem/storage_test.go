package mem_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memscrub/mem"
)

var _ = Describe("Storage", func() {
	It("should read and write within a single unit", func() {
		storage := mem.NewStorage(4 * mem.KB)
		storage.Write(0, []byte{1, 2, 3, 4})

		data, err := storage.Read(0, 2)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2}))

		data, err = storage.Read(1, 2)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := mem.NewStorage(8 * mem.KB)
		storage.Write(4094, []byte{1, 2, 3, 4})

		data, err := storage.Read(4094, 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should reject accesses beyond the capacity", func() {
		storage := mem.NewStorage(4 * mem.KB)

		err := storage.Write(4096, []byte{1})
		Expect(err).To(HaveOccurred())

		_, err = storage.Read(4096, 1)
		Expect(err).To(HaveOccurred())
	})

	It("should return zero for untouched addresses", func() {
		storage := mem.NewStorage(1 * mem.MB)

		word, err := storage.ReadUint32(0x1000)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint32(0)))
	})

	It("should round-trip words in little-endian order", func() {
		storage := mem.NewStorage(4 * mem.KB)

		Expect(storage.WriteUint32(8, 0xdeadbeef)).To(Succeed())

		word, err := storage.ReadUint32(8)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint32(0xdeadbeef)))

		data, err := storage.Read(8, 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{0xef, 0xbe, 0xad, 0xde}))
	})

	It("should support concurrent writes to disjoint words", func() {
		storage := mem.NewStorage(1 * mem.MB)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				defer GinkgoRecover()
				for addr := uint64(id) * 4; addr < 0x10000; addr += 32 {
					Expect(storage.WriteUint32(addr, uint32(id))).
						To(Succeed())
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			word, err := storage.ReadUint32(uint64(i) * 4)
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(i)))
		}
	})
})
