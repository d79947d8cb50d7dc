// Package mem provides the word-addressable storage that a self test
// targets.
package mem

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Memory capacity units.
const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

// WordSize is the access granularity of the self test, in bytes.
const WordSize = 4

// A Memory is the word-level interface the self-test protocol reads and
// writes through. Words are little endian.
type Memory interface {
	ReadUint32(addr uint64) (uint32, error)
	WriteUint32(addr uint64, value uint32) error
}

// A Storage holds the data of the memory under test.
//
// Storage manages its backing buffer in fixed-size units and allocates a
// unit only when an address inside it is first touched, so a large sparse
// region does not cost its full capacity up front.
//
// Disjoint address ranges can be accessed concurrently. Only the lazy
// unit allocation is synchronized; the data bytes themselves are not,
// so concurrent accesses to overlapping ranges are the caller's problem.
type Storage struct {
	unitSize uint64
	capacity uint64

	unitsLock sync.Mutex
	units     map[uint64][]byte
}

// NewStorage creates a Storage with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		unitSize: 4096,
		capacity: capacity,
		units:    make(map[uint64][]byte),
	}
}

// Capacity returns the size of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) unitForAddr(addr uint64) ([]byte, error) {
	if addr >= s.capacity {
		return nil, fmt.Errorf(
			"address 0x%x is beyond the storage capacity 0x%x",
			addr, s.capacity)
	}

	base := addr - addr%s.unitSize

	s.unitsLock.Lock()
	unit, ok := s.units[base]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.units[base] = unit
	}
	s.unitsLock.Unlock()

	return unit, nil
}

// Read returns n bytes starting at addr.
func (s *Storage) Read(addr, n uint64) ([]byte, error) {
	data := make([]byte, n)
	offset := uint64(0)

	for offset < n {
		unit, err := s.unitForAddr(addr + offset)
		if err != nil {
			return nil, err
		}

		inUnit := (addr + offset) % s.unitSize
		count := min(n-offset, s.unitSize-inUnit)
		copy(data[offset:offset+count], unit[inUnit:inUnit+count])
		offset += count
	}

	return data, nil
}

// Write stores data starting at addr.
func (s *Storage) Write(addr uint64, data []byte) error {
	offset := uint64(0)

	for offset < uint64(len(data)) {
		unit, err := s.unitForAddr(addr + offset)
		if err != nil {
			return err
		}

		inUnit := (addr + offset) % s.unitSize
		count := min(uint64(len(data))-offset, s.unitSize-inUnit)
		copy(unit[inUnit:inUnit+count], data[offset:offset+count])
		offset += count
	}

	return nil
}

// ReadUint32 returns the little-endian word stored at addr.
func (s *Storage) ReadUint32(addr uint64) (uint32, error) {
	data, err := s.Read(addr, WordSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data), nil
}

// WriteUint32 stores value at addr as a little-endian word.
func (s *Storage) WriteUint32(addr uint64, value uint32) error {
	data := make([]byte, WordSize)
	binary.LittleEndian.PutUint32(data, value)

	return s.Write(addr, data)
}
