package wasmsim

import (
	"bytes"
	"fmt"
	"math"

	"github.com/tetratelabs/wazero/api"
)

// memory adds bounds-checked accessors to guest linear memory.
type memory struct {
	mem api.Memory
}

func (m *memory) read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *memory) write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *memory) readU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *memory) readI32(offset uint32) (int32, error) {
	v, err := m.readU32(offset)
	return int32(v), err
}

func (m *memory) readF64(offset uint32) (float64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return math.Float64frombits(v), nil
}

func (m *memory) writeU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *memory) writeF64(offset uint32, value float64) error {
	if !m.mem.WriteUint64Le(offset, math.Float64bits(value)) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// cstring returns a view of the NUL-terminated string at ptr, without the
// terminator. A zero ptr yields nil.
func (m *memory) cstring(ptr uint32) ([]byte, error) {
	if ptr == 0 {
		return nil, nil
	}
	size := m.mem.Size()
	if ptr >= size {
		return nil, fmt.Errorf("string pointer out of bounds: ptr=%d", ptr)
	}
	rest, err := m.read(ptr, size-ptr)
	if err != nil {
		return nil, err
	}
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return nil, fmt.Errorf("unterminated string at ptr=%d", ptr)
	}
	return rest[:end:end], nil
}
