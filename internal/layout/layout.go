// Package layout derives the concrete memory layout of a peripheral: the
// ordered sequence of registers and reserved gaps that exactly tiles the
// address range from the first register to the end of the last one.
package layout

import (
	"slices"

	"github.com/retroenv/regmapgen/internal/model"
	"github.com/retroenv/retrogolib/log"
)

// Gap is a reserved address region between two registers. It is derived by
// the engine, never authored, and has to be materialized in the output as
// explicit padding so that struct sizes match the hardware exactly.
type Gap struct {
	StartOffset uint32
	LengthBytes uint32
}

// Entry is one element of the laid out address space, either a register or
// a reserved gap.
type Entry struct {
	Register *model.RegisterDef
	Gap      *Gap
}

// IsGap returns whether the entry is a reserved gap.
func (e Entry) IsGap() bool {
	return e.Gap != nil
}

// BitSpan is a range of reserved bits inside a register that no field claims.
type BitSpan struct {
	BitOffset uint8
	BitWidth  uint8
}

// Packing describes the validated bit usage of one register.
type Packing struct {
	// Fields sorted by ascending bit offset.
	Fields []model.FieldDef
	// ReservedSpans are the unfielded bit ranges, in ascending order.
	ReservedSpans []BitSpan
	// ReservedBits is the total number of unfielded bits. Field widths plus
	// reserved bits always sum to the register's declared bit width.
	ReservedBits uint
}

// Layout is the laid out address space of a peripheral.
type Layout struct {
	Entries []Entry
	// Packings maps register names to their bit packing.
	Packings map[string]Packing
}

// Engine computes and validates peripheral memory layouts.
type Engine struct {
	logger *log.Logger
}

// New creates a new layout engine.
func New(logger *log.Logger) *Engine {
	return &Engine{
		logger: logger,
	}
}

// Run lays out the peripheral. Any violated invariant aborts the run, all
// independently detectable violations are collected and returned together.
// A peripheral without registers yields an empty layout.
func (e *Engine) Run(p *model.PeripheralMap) (Layout, error) {
	layout := Layout{
		Packings: make(map[string]Packing, len(p.Registers)),
	}
	var errs model.ErrorList

	var cursor uint32
	for i := range p.Registers {
		reg := &p.Registers[i]

		if i == 0 {
			cursor = reg.Offset
		}
		if reg.Offset < cursor {
			errs = append(errs, model.Error{
				Kind:       model.Overlap,
				Peripheral: p.Name,
				Register:   reg.Name,
				Offset:     uint64(reg.Offset),
				Detail:     "register starts before the end of its predecessor",
			})
			continue
		}
		if reg.Offset > cursor {
			layout.Entries = append(layout.Entries, Entry{
				Gap: &Gap{
					StartOffset: cursor,
					LengthBytes: reg.Offset - cursor,
				},
			})
		}
		layout.Entries = append(layout.Entries, Entry{Register: reg})
		cursor = reg.EndOffset()

		packing, packErrs := packRegister(p.Name, *reg)
		if len(packErrs) > 0 {
			errs = append(errs, packErrs...)
			continue
		}
		layout.Packings[reg.Name] = packing
	}

	if err := errs.ErrOrNil(); err != nil {
		return Layout{}, err
	}

	e.logger.Debug("Layout computed",
		log.String("peripheral", p.Name),
		log.Int("entries", len(layout.Entries)),
	)
	return layout, nil
}

// packRegister sorts the register's fields by bit offset, validates pairwise
// disjointness and accounts every unfielded bit as reserved.
func packRegister(peripheral string, reg model.RegisterDef) (Packing, model.ErrorList) {
	var errs model.ErrorList

	fields := slices.Clone(reg.Fields)
	slices.SortStableFunc(fields, func(a, b model.FieldDef) int {
		return int(a.BitOffset) - int(b.BitOffset)
	})

	packing := Packing{Fields: fields}
	var cursor uint

	for i, field := range fields {
		if i > 0 && uint(field.BitOffset) < cursor {
			errs = append(errs, model.Error{
				Kind:       model.Overlap,
				Peripheral: peripheral,
				Register:   reg.Name,
				Field:      field.Name,
				Detail:     "bit range overlaps field " + fields[i-1].Name,
			})
			continue
		}
		if gap := uint(field.BitOffset) - cursor; gap > 0 {
			packing.ReservedSpans = append(packing.ReservedSpans, BitSpan{
				BitOffset: uint8(cursor),
				BitWidth:  uint8(gap),
			})
			packing.ReservedBits += gap
		}
		cursor = field.EndBit()
	}

	if cursor < reg.BitWidth() {
		remaining := reg.BitWidth() - cursor
		packing.ReservedSpans = append(packing.ReservedSpans, BitSpan{
			BitOffset: uint8(cursor),
			BitWidth:  uint8(remaining),
		})
		packing.ReservedBits += remaining
	}

	if len(errs) > 0 {
		return Packing{}, errs
	}
	return packing, nil
}

// Flatten reconstructs the byte coverage of the layout. It returns the
// half-open covered range and whether every byte between the first and the
// last entry is claimed exactly once by consecutive entries.
func (l Layout) Flatten() (start, end uint32, contiguous bool) {
	if len(l.Entries) == 0 {
		return 0, 0, true
	}

	first := l.Entries[0]
	if first.IsGap() {
		start = first.Gap.StartOffset
	} else {
		start = first.Register.Offset
	}

	cursor := start
	for _, entry := range l.Entries {
		if entry.IsGap() {
			if entry.Gap.StartOffset != cursor {
				return start, cursor, false
			}
			cursor += entry.Gap.LengthBytes
			continue
		}
		if entry.Register.Offset != cursor {
			return start, cursor, false
		}
		cursor = entry.Register.EndOffset()
	}
	return start, cursor, true
}
