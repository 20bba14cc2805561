package model

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func validRegisters() []RegisterDef {
	return []RegisterDef{
		{
			Name:      "MODE",
			Offset:    0,
			SizeBytes: 4,
			Access:    ReadWrite,
			Fields: []FieldDef{
				{Name: "MODE0", BitOffset: 0, BitWidth: 2},
				{Name: "MODE1", BitOffset: 2, BitWidth: 2},
			},
		},
		{
			Name:      "IDR",
			Offset:    16,
			SizeBytes: 4,
			Access:    ReadOnly,
		},
	}
}

func TestNewPeripheralMap(t *testing.T) {
	t.Run("valid map", func(t *testing.T) {
		p, err := NewPeripheralMap("GPIO", "General Purpose I/O", 0x40020000, validRegisters())

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, 2, len(p.Registers))
	})

	t.Run("registers get sorted by offset", func(t *testing.T) {
		registers := validRegisters()
		registers[0], registers[1] = registers[1], registers[0]

		p, err := NewPeripheralMap("GPIO", "", 0x40020000, registers)

		assert.NoError(t, err)
		assert.Equal(t, "MODE", p.Registers[0].Name)
		assert.Equal(t, "IDR", p.Registers[1].Name)
	})

	t.Run("sorting handles offsets spanning the full 32 bit range", func(t *testing.T) {
		registers := []RegisterDef{
			{Name: "HIGH", Offset: 0xFFFFFFF0, SizeBytes: 4, Access: ReadWrite},
			{Name: "LOW", Offset: 0, SizeBytes: 4, Access: ReadWrite},
		}

		p, err := NewPeripheralMap("WIDE", "", 0x40000000, registers)

		assert.NoError(t, err)
		assert.Equal(t, "LOW", p.Registers[0].Name)
		assert.Equal(t, "HIGH", p.Registers[1].Name)
	})
}

// nolint:funlen
func TestNewPeripheralMapErrors(t *testing.T) {
	tests := []struct {
		name      string
		base      uint64
		registers []RegisterDef
		wantKind  ErrorKind
	}{
		{
			name:      "empty register list",
			base:      0x40020000,
			registers: nil,
			wantKind:  EmptyRegisterList,
		},
		{
			name: "unaligned base address",
			base: 0x40020002,
			registers: []RegisterDef{
				{Name: "MODE", Offset: 0, SizeBytes: 4, Access: ReadWrite},
			},
			wantKind: Misalignment,
		},
		{
			name: "register overlap",
			base: 0x40020000,
			registers: []RegisterDef{
				{Name: "MODE", Offset: 0, SizeBytes: 4, Access: ReadWrite},
				{Name: "IDR", Offset: 2, SizeBytes: 2, Access: ReadOnly},
			},
			wantKind: Overlap,
		},
		{
			name: "register not naturally aligned",
			base: 0x40020000,
			registers: []RegisterDef{
				{Name: "MODE", Offset: 2, SizeBytes: 4, Access: ReadWrite},
			},
			wantKind: Misalignment,
		},
		{
			name: "invalid register size",
			base: 0x40020000,
			registers: []RegisterDef{
				{Name: "MODE", Offset: 0, SizeBytes: 3, Access: ReadWrite},
			},
			wantKind: Misalignment,
		},
		{
			name: "duplicate register name",
			base: 0x40020000,
			registers: []RegisterDef{
				{Name: "MODE", Offset: 0, SizeBytes: 4, Access: ReadWrite},
				{Name: "MODE", Offset: 4, SizeBytes: 4, Access: ReadWrite},
			},
			wantKind: DuplicateName,
		},
		{
			name: "duplicate field name",
			base: 0x40020000,
			registers: []RegisterDef{
				{
					Name: "MODE", Offset: 0, SizeBytes: 4, Access: ReadWrite,
					Fields: []FieldDef{
						{Name: "MODE0", BitOffset: 0, BitWidth: 2},
						{Name: "MODE0", BitOffset: 2, BitWidth: 2},
					},
				},
			},
			wantKind: DuplicateName,
		},
		{
			name: "field out of bounds",
			base: 0x40020000,
			registers: []RegisterDef{
				{
					Name: "MODE", Offset: 0, SizeBytes: 4, Access: ReadWrite,
					Fields: []FieldDef{
						{Name: "MODE0", BitOffset: 31, BitWidth: 2},
					},
				},
			},
			wantKind: FieldOutOfBounds,
		},
		{
			name: "field with zero width",
			base: 0x40020000,
			registers: []RegisterDef{
				{
					Name: "MODE", Offset: 0, SizeBytes: 4, Access: ReadWrite,
					Fields: []FieldDef{
						{Name: "MODE0", BitOffset: 0, BitWidth: 0},
					},
				},
			},
			wantKind: FieldOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPeripheralMap("GPIO", "", tt.base, tt.registers)

			assert.Error(t, err)
			assert.Nil(t, p)

			var list ErrorList
			assert.True(t, errors.As(err, &list))
			assert.Equal(t, tt.wantKind, list[0].Kind)
		})
	}
}

func TestNewPeripheralMapCollectsMultipleErrors(t *testing.T) {
	// B overlaps A and is unaligned, D overlaps C and is unaligned
	registers := []RegisterDef{
		{Name: "A", Offset: 0, SizeBytes: 4, Access: ReadWrite},
		{Name: "B", Offset: 2, SizeBytes: 4, Access: ReadWrite},
		{Name: "C", Offset: 100, SizeBytes: 4, Access: ReadWrite},
		{Name: "D", Offset: 102, SizeBytes: 4, Access: ReadWrite},
	}

	_, err := NewPeripheralMap("GPIO", "", 0x40020000, registers)

	assert.Error(t, err)
	var list ErrorList
	assert.True(t, errors.As(err, &list))
	assert.Equal(t, 4, len(list))
}

func TestFieldBoundary(t *testing.T) {
	t.Run("field ending exactly at register width is accepted", func(t *testing.T) {
		registers := []RegisterDef{
			{
				Name: "DATA", Offset: 0, SizeBytes: 4, Access: ReadWrite,
				Fields: []FieldDef{
					{Name: "ALL", BitOffset: 0, BitWidth: 32},
				},
			},
		}

		_, err := NewPeripheralMap("GPIO", "", 0x40020000, registers)
		assert.NoError(t, err)
	})

	t.Run("one bit beyond the register width is rejected", func(t *testing.T) {
		registers := []RegisterDef{
			{
				Name: "DATA", Offset: 0, SizeBytes: 4, Access: ReadWrite,
				Fields: []FieldDef{
					{Name: "ALL", BitOffset: 1, BitWidth: 32},
				},
			},
		}

		_, err := NewPeripheralMap("GPIO", "", 0x40020000, registers)

		var list ErrorList
		assert.True(t, errors.As(err, &list))
		assert.Equal(t, FieldOutOfBounds, list[0].Kind)
		assert.Equal(t, "ALL", list[0].Field)
	})
}

func TestLookups(t *testing.T) {
	p, err := NewPeripheralMap("GPIO", "", 0x40020000, validRegisters())
	assert.NoError(t, err)

	reg, ok := p.Register("MODE")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), reg.Offset)

	_, ok = p.Register("MISSING")
	assert.False(t, ok)

	field, ok := p.Field("MODE", "MODE1")
	assert.True(t, ok)
	assert.Equal(t, uint8(2), field.BitOffset)

	_, ok = p.Field("MODE", "MISSING")
	assert.False(t, ok)

	_, ok = p.Field("MISSING", "MODE1")
	assert.False(t, ok)
}

func TestRegistersInRange(t *testing.T) {
	p, err := NewPeripheralMap("GPIO", "", 0x40020000, validRegisters())
	assert.NoError(t, err)

	registers := p.RegistersInRange(0, 4)
	assert.Equal(t, 1, len(registers))
	assert.Equal(t, "MODE", registers[0].Name)

	registers = p.RegistersInRange(0, 20)
	assert.Equal(t, 2, len(registers))

	registers = p.RegistersInRange(4, 16)
	assert.Equal(t, 0, len(registers))
}

func TestAccessSemantics(t *testing.T) {
	assert.True(t, ReadOnly.Readable())
	assert.False(t, ReadOnly.Writable())

	assert.False(t, WriteOnly.Readable())
	assert.True(t, WriteOnly.Writable())

	assert.True(t, WriteOneToClear.ClearOnWriteOne())
	assert.False(t, WriteOneToClear.Readable())

	assert.True(t, ReadWriteOneToClear.ClearOnWriteOne())
	assert.True(t, ReadWriteOneToClear.Readable())

	assert.False(t, ReadWrite.ClearOnWriteOne())
}

func TestAccessFromString(t *testing.T) {
	tests := []struct {
		name                string
		access              string
		modifiedWriteValues string
		want                Access
		wantOK              bool
	}{
		{name: "read-only", access: "read-only", want: ReadOnly, wantOK: true},
		{name: "write-only", access: "write-only", want: WriteOnly, wantOK: true},
		{name: "read-write", access: "read-write", want: ReadWrite, wantOK: true},
		{name: "default is read-write", access: "", want: ReadWrite, wantOK: true},
		{name: "one to clear", access: "read-write", modifiedWriteValues: "oneToClear", want: ReadWriteOneToClear, wantOK: true},
		{name: "write-only one to clear", access: "write-only", modifiedWriteValues: "oneToClear", want: WriteOneToClear, wantOK: true},
		{name: "unknown access", access: "execute", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, ok := AccessFromString(tt.access, tt.modifiedWriteValues)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, access)
			}
		})
	}
}
