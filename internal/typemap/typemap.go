// Package typemap chooses the storage width and accessor shape for each
// register and field of a laid out peripheral.
package typemap

import (
	"github.com/retroenv/regmapgen/internal/layout"
	"github.com/retroenv/regmapgen/internal/model"
)

// AccessorKind defines the accessor surface generated for a register or
// field.
type AccessorKind string

const (
	// AccessorRead is a read-only view without setter surface.
	AccessorRead AccessorKind = "read"
	// AccessorWrite is a write-only surface, reads are forbidden by
	// contract and flagged so emitters can reject or document them.
	AccessorWrite AccessorKind = "write"
	// AccessorReadWrite is a full read/write accessor.
	AccessorReadWrite AccessorKind = "read-write"
	// AccessorWriteClear writes 1 only to the targeted bits to clear them.
	// A generic read-modify-write accessor would unintentionally clear
	// other set status bits on write-back, so write-1-to-clear registers
	// get this dedicated non-RMW surface.
	AccessorWriteClear AccessorKind = "write-clear"
	// AccessorReadWriteClear combines a read view with the dedicated clear
	// operation.
	AccessorReadWriteClear AccessorKind = "read-write-clear"
)

// Field annotates a bit field with its accessor representation. Field access
// is specified purely as a mask/shift pair over a plain integer so that
// emitters generate masked single-word loads and stores.
type Field struct {
	Def      model.FieldDef
	Accessor AccessorKind
	// Mask is the field's bit mask at its absolute position in the register.
	Mask uint64
	// Shift is the number of bits the masked value is shifted right to
	// obtain the field value.
	Shift uint8
	// MaxValue is the largest value of the field's natural domain, e.g. 3
	// for a 2 bit field. Setters range-check against it when enabled.
	MaxValue     uint64
	RangeChecked bool
}

// Register annotates a register with its chosen storage width and accessors.
type Register struct {
	Def model.RegisterDef
	// StorageBits is the narrowest unsigned integer width that holds the
	// register, one of 8, 16, 32 or 64.
	StorageBits  uint
	Accessor     AccessorKind
	Fields       []Field
	ReservedBits uint
	Reserved     []layout.BitSpan
}

// Mapper annotates registers of a laid out peripheral.
type Mapper struct {
	rangeChecking bool
}

// New creates a new type mapper. rangeChecking enables bounds assertions on
// generated field setters.
func New(rangeChecking bool) *Mapper {
	return &Mapper{
		rangeChecking: rangeChecking,
	}
}

// Map annotates every register of the layout in ascending offset order.
func (m *Mapper) Map(p *model.PeripheralMap, lay layout.Layout) ([]Register, error) {
	var registers []Register
	var errs model.ErrorList

	for _, entry := range lay.Entries {
		if entry.IsGap() {
			continue
		}
		reg, err := m.mapRegister(p.Name, *entry.Register, lay.Packings[entry.Register.Name])
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		registers = append(registers, reg)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return registers, nil
}

func (m *Mapper) mapRegister(peripheral string, def model.RegisterDef,
	packing layout.Packing) (Register, *model.Error) {

	storageBits, ok := storageWidth(def.BitWidth())
	if !ok {
		return Register{}, &model.Error{
			Kind:       model.WidthConflict,
			Peripheral: peripheral,
			Register:   def.Name,
			Offset:     uint64(def.Offset),
			Detail:     "no unsigned integer type can hold the register",
		}
	}

	accessor, ok := accessorFor(def.Access)
	if !ok {
		return Register{}, &model.Error{
			Kind:       model.WidthConflict,
			Peripheral: peripheral,
			Register:   def.Name,
			Offset:     uint64(def.Offset),
			Detail:     "unsupported access kind " + string(def.Access),
		}
	}

	reg := Register{
		Def:          def,
		StorageBits:  storageBits,
		Accessor:     accessor,
		ReservedBits: packing.ReservedBits,
		Reserved:     packing.ReservedSpans,
		Fields:       make([]Field, 0, len(packing.Fields)),
	}

	for _, fieldDef := range packing.Fields {
		maxValue := maxFieldValue(uint(fieldDef.BitWidth))
		reg.Fields = append(reg.Fields, Field{
			Def:          fieldDef,
			Accessor:     accessor,
			Mask:         maxValue << fieldDef.BitOffset,
			Shift:        fieldDef.BitOffset,
			MaxValue:     maxValue,
			RangeChecked: m.rangeChecking && def.Access.Writable() && !def.Access.ClearOnWriteOne(),
		})
	}
	return reg, nil
}

// ClearValue returns the word that a clear operation writes to the register
// to clear exactly this field: the field mask and nothing else, so bits of
// other fields stay untouched by the hardware's write-1-to-clear semantic.
func (f Field) ClearValue() uint64 {
	return f.Mask
}

// Extract returns the field value contained in a raw register word.
func (f Field) Extract(raw uint64) uint64 {
	return (raw & f.Mask) >> f.Shift
}

// Insert returns the raw register word with the field set to value.
func (f Field) Insert(raw, value uint64) uint64 {
	return (raw &^ f.Mask) | ((value << f.Shift) & f.Mask)
}

// ApplyWriteOneToClear models the hardware effect of writing a word to a
// write-1-to-clear register: every written 1 bit clears, written 0 bits have
// no effect.
func ApplyWriteOneToClear(current, written uint64) uint64 {
	return current &^ written
}

// storageWidth returns the narrowest unsigned integer bit width that is at
// least the given register bit width.
func storageWidth(bitWidth uint) (uint, bool) {
	switch {
	case bitWidth <= 8:
		return 8, true
	case bitWidth <= 16:
		return 16, true
	case bitWidth <= 32:
		return 32, true
	case bitWidth <= 64:
		return 64, true
	default:
		return 0, false
	}
}

func accessorFor(access model.Access) (AccessorKind, bool) {
	switch access {
	case model.ReadOnly:
		return AccessorRead, true
	case model.WriteOnly:
		return AccessorWrite, true
	case model.ReadWrite:
		return AccessorReadWrite, true
	case model.WriteOneToClear:
		return AccessorWriteClear, true
	case model.ReadWriteOneToClear:
		return AccessorReadWriteClear, true
	default:
		return "", false
	}
}

func maxFieldValue(bitWidth uint) uint64 {
	if bitWidth >= 64 {
		return ^uint64(0)
	}
	return (1 << bitWidth) - 1
}
