// Package model contains the validated in-memory representation of a
// memory-mapped peripheral, its registers and their bit fields.
package model

import (
	"cmp"
	"slices"

	"github.com/retroenv/retrogolib/set"
)

// busWidth is the bus width in bytes that peripheral base addresses have to
// be aligned to.
const busWidth = 4

// FieldDef defines a named sub-range of bits within a register.
type FieldDef struct {
	Name        string
	BitOffset   uint8
	BitWidth    uint8
	Description string
}

// EndBit returns the first bit position after the field.
func (f FieldDef) EndBit() uint {
	return uint(f.BitOffset) + uint(f.BitWidth)
}

// RegisterDef defines a hardware register at a byte offset from the
// peripheral base address.
type RegisterDef struct {
	Name        string
	Offset      uint32 // byte offset from the peripheral base address
	SizeBytes   uint32 // one of 1, 2, 4, 8
	ResetValue  uint64
	Access      Access
	Description string
	Fields      []FieldDef
}

// BitWidth returns the register width in bits.
func (r RegisterDef) BitWidth() uint {
	return uint(r.SizeBytes) * 8
}

// EndOffset returns the first byte offset after the register.
func (r RegisterDef) EndOffset() uint32 {
	return r.Offset + r.SizeBytes
}

// PeripheralMap is the validated representation of one peripheral.
// It can only be built through NewPeripheralMap and is not mutated
// afterwards, later generation stages only annotate derived data.
type PeripheralMap struct {
	Name        string
	Description string
	BaseAddress uint64
	Registers   []RegisterDef // sorted by offset

	registerIndex map[string]int
	fieldIndexes  []map[string]int
}

// NewPeripheralMap creates a peripheral map from normalized input data and
// validates every model invariant. All detectable violations are collected
// and returned together as an ErrorList instead of stopping at the first.
func NewPeripheralMap(name, description string, baseAddress uint64,
	registers []RegisterDef) (*PeripheralMap, error) {

	p := &PeripheralMap{
		Name:          name,
		Description:   description,
		BaseAddress:   baseAddress,
		Registers:     slices.Clone(registers),
		registerIndex: make(map[string]int, len(registers)),
		fieldIndexes:  make([]map[string]int, len(registers)),
	}
	slices.SortStableFunc(p.Registers, func(a, b RegisterDef) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	var errs ErrorList
	if baseAddress%busWidth != 0 {
		errs = append(errs, Error{
			Kind:       Misalignment,
			Peripheral: name,
			Offset:     baseAddress,
			Detail:     "base address is not aligned to the bus width",
		})
	}
	if len(p.Registers) == 0 {
		errs = append(errs, Error{
			Kind:       EmptyRegisterList,
			Peripheral: name,
		})
	}

	errs = append(errs, p.validateRegisters()...)
	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

// validateRegisters checks register invariants and builds the name indexes.
func (p *PeripheralMap) validateRegisters() ErrorList {
	var errs ErrorList
	names := set.New[string]()
	var cursor uint32

	for i, reg := range p.Registers {
		if names.Contains(reg.Name) {
			errs = append(errs, Error{
				Kind:       DuplicateName,
				Peripheral: p.Name,
				Register:   reg.Name,
				Offset:     uint64(reg.Offset),
			})
		}
		names.Add(reg.Name)
		p.registerIndex[reg.Name] = i

		switch reg.SizeBytes {
		case 1, 2, 4, 8:
		default:
			errs = append(errs, Error{
				Kind:       Misalignment,
				Peripheral: p.Name,
				Register:   reg.Name,
				Offset:     uint64(reg.Offset),
				Detail:     "register size is not one of 1, 2, 4 or 8 bytes",
			})
			continue
		}

		if reg.Offset%reg.SizeBytes != 0 {
			errs = append(errs, Error{
				Kind:       Misalignment,
				Peripheral: p.Name,
				Register:   reg.Name,
				Offset:     uint64(reg.Offset),
				Detail:     "register offset is not naturally aligned",
			})
		}
		if i > 0 && reg.Offset < cursor {
			errs = append(errs, Error{
				Kind:       Overlap,
				Peripheral: p.Name,
				Register:   reg.Name,
				Offset:     uint64(reg.Offset),
				Detail:     "register overlaps its predecessor " + p.Registers[i-1].Name,
			})
		}
		cursor = reg.EndOffset()

		errs = append(errs, p.validateFields(i, reg)...)
	}
	return errs
}

// validateFields checks field invariants of a register and builds its field
// name index. Field disjointness is validated by the layout engine which
// owns the bit packing bookkeeping.
func (p *PeripheralMap) validateFields(index int, reg RegisterDef) ErrorList {
	var errs ErrorList
	names := set.New[string]()
	p.fieldIndexes[index] = make(map[string]int, len(reg.Fields))

	for i, field := range reg.Fields {
		if names.Contains(field.Name) {
			errs = append(errs, Error{
				Kind:       DuplicateName,
				Peripheral: p.Name,
				Register:   reg.Name,
				Field:      field.Name,
			})
		}
		names.Add(field.Name)
		p.fieldIndexes[index][field.Name] = i

		if field.BitWidth == 0 {
			errs = append(errs, Error{
				Kind:       FieldOutOfBounds,
				Peripheral: p.Name,
				Register:   reg.Name,
				Field:      field.Name,
				Detail:     "field has zero bit width",
			})
			continue
		}
		if field.EndBit() > reg.BitWidth() {
			errs = append(errs, Error{
				Kind:       FieldOutOfBounds,
				Peripheral: p.Name,
				Register:   reg.Name,
				Field:      field.Name,
				Detail:     "field exceeds the register bit width",
			})
		}
	}
	return errs
}

// Register returns the register with the given name.
func (p *PeripheralMap) Register(name string) (RegisterDef, bool) {
	index, ok := p.registerIndex[name]
	if !ok {
		return RegisterDef{}, false
	}
	return p.Registers[index], true
}

// Field returns the field of the given register.
func (p *PeripheralMap) Field(register, field string) (FieldDef, bool) {
	index, ok := p.registerIndex[register]
	if !ok {
		return FieldDef{}, false
	}
	fieldIndex, ok := p.fieldIndexes[index][field]
	if !ok {
		return FieldDef{}, false
	}
	return p.Registers[index].Fields[fieldIndex], true
}

// RegistersInRange returns all registers whose byte range intersects the
// half-open offset range [start, end).
func (p *PeripheralMap) RegistersInRange(start, end uint32) []RegisterDef {
	var registers []RegisterDef
	for _, reg := range p.Registers {
		if reg.Offset >= end {
			break
		}
		if reg.EndOffset() > start {
			registers = append(registers, reg)
		}
	}
	return registers
}
