package wasm

import (
	"encoding/binary"

	"github.com/watconform/watconform/api"
)

// PageSize is the fixed 64 KiB page granularity of linear memory.
const PageSize = 65536

// Memory is a growable byte vector whose length is always a multiple of
// PageSize.
type Memory struct {
	Bytes []byte
}

// NewMemory returns an empty, zero-page memory.
func NewMemory() *Memory { return &Memory{} }

// PageCount returns the current number of 64 KiB pages.
func (m *Memory) PageCount() uint32 { return uint32(len(m.Bytes) / PageSize) }

// Grow appends n pages of zeroed bytes and returns the page count prior to
// growth. No maximum is enforced.
func (m *Memory) Grow(n uint32) uint32 {
	old := m.PageCount()
	m.Bytes = append(m.Bytes, make([]byte, uint64(n)*PageSize)...)
	return old
}

func sizeOf(t api.ValueType) int {
	switch t {
	case api.ValueTypeI32, api.ValueTypeF32:
		return 4
	case api.ValueTypeI64, api.ValueTypeF64:
		return 8
	default:
		return 0
	}
}

// ReadBits reads width little-endian bytes at addr+offset into the low
// bits of a uint64, zero-extended. ok is false when the read would run
// past the end of memory — the caller raises a trap.
func (m *Memory) ReadBits(addr, offset uint32, width int) (uint64, bool) {
	start := uint64(addr) + uint64(offset)
	if start+uint64(width) > uint64(len(m.Bytes)) {
		return 0, false
	}
	b := m.Bytes[start : start+uint64(width)]
	switch width {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), true
	default:
		return binary.LittleEndian.Uint64(b), true
	}
}

// WriteBits writes the low width bytes of bits, little-endian, at
// addr+offset.
func (m *Memory) WriteBits(addr, offset uint32, bits uint64, width int) bool {
	start := uint64(addr) + uint64(offset)
	if start+uint64(width) > uint64(len(m.Bytes)) {
		return false
	}
	b := m.Bytes[start : start+uint64(width)]
	switch width {
	case 1:
		b[0] = byte(bits)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(bits))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(bits))
	default:
		binary.LittleEndian.PutUint64(b, bits)
	}
	return true
}

// Load reads sizeof(t) little-endian bytes at addr+offset and reinterprets
// them as t.
func (m *Memory) Load(t api.ValueType, addr, offset uint32) (Value, bool) {
	bits, ok := m.ReadBits(addr, offset, sizeOf(t))
	if !ok {
		return Value{}, false
	}
	return Value{Type: t, Bits: bits}, true
}

// Store writes v's low sizeof(v.Type) bytes, little-endian, at addr+offset.
func (m *Memory) Store(addr, offset uint32, v Value) bool {
	return m.WriteBits(addr, offset, v.Bits, sizeOf(v.Type))
}
