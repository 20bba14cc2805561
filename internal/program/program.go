// Package program represents the laid out, annotated register access model
// of a peripheral. It is the stable, serializable boundary handed to the
// emitters, which only render it and never compute layout on their own.
package program

// Field is an annotated bit field. Access is specified purely as a
// mask/shift pair over the register's plain integer storage so emitters can
// generate masked single-word operations.
type Field struct {
	Name        string `json:"name"`
	Ident       string `json:"ident"` // identifier after naming convention
	Description string `json:"description,omitempty"`

	BitOffset uint8 `json:"bitOffset"`
	BitWidth  uint8 `json:"bitWidth"`

	Accessor     string `json:"accessor"`
	Mask         uint64 `json:"mask"`
	Shift        uint8  `json:"shift"`
	MaxValue     uint64 `json:"maxValue"`
	RangeChecked bool   `json:"rangeChecked,omitempty"`
}

// ReservedBits is a range of unfielded bits inside a register.
type ReservedBits struct {
	BitOffset uint8 `json:"bitOffset"`
	BitWidth  uint8 `json:"bitWidth"`
}

// Register is an annotated register of the layout.
type Register struct {
	Name        string `json:"name"`
	Ident       string `json:"ident"`
	Description string `json:"description,omitempty"`

	Offset      uint32 `json:"offset"`
	SizeBytes   uint32 `json:"sizeBytes"`
	StorageBits uint   `json:"storageBits"`
	ResetValue  uint64 `json:"resetValue"`

	Access   string `json:"access"`
	Accessor string `json:"accessor"`

	Fields []Field `json:"fields,omitempty"`
	// Reserved lists the unfielded bit ranges. Field widths plus reserved
	// bits sum exactly to the register's declared bit width.
	Reserved     []ReservedBits `json:"reserved,omitempty"`
	ReservedBits uint           `json:"reservedBits"`
}

// Gap is a reserved address region between registers that emitters have to
// materialize as explicit padding.
type Gap struct {
	StartOffset uint32 `json:"startOffset"`
	LengthBytes uint32 `json:"lengthBytes"`
}

// Entry is one element of the layout, either a register or a reserved gap.
type Entry struct {
	Register *Register `json:"register,omitempty"`
	Gap      *Gap      `json:"gap,omitempty"`
}

// IsGap returns whether the entry is a reserved gap.
func (e Entry) IsGap() bool {
	return e.Gap != nil
}

// Program is the complete generated register access model of one peripheral.
type Program struct {
	Peripheral  string `json:"peripheral"`
	Ident       string `json:"ident"`
	Description string `json:"description,omitempty"`
	BaseAddress uint64 `json:"baseAddress"`

	// Entries in ascending offset order, exactly tiling the address range
	// from the first register to the end of the last one.
	Entries []Entry `json:"entries"`

	// InputFile names the hardware description the program was generated
	// from, used for the generated file header.
	InputFile string `json:"inputFile,omitempty"`
}

// New creates a new empty program for a peripheral.
func New(peripheral, ident, description string, baseAddress uint64) *Program {
	return &Program{
		Peripheral:  peripheral,
		Ident:       ident,
		Description: description,
		BaseAddress: baseAddress,
	}
}

// SizeBytes returns the total byte size of the layout including reserved
// gaps, from the first register's offset to the end of the last register.
func (p *Program) SizeBytes() uint32 {
	if len(p.Entries) == 0 {
		return 0
	}

	last := p.Entries[len(p.Entries)-1]
	first := p.Entries[0]

	var start, end uint32
	if first.IsGap() {
		start = first.Gap.StartOffset
	} else {
		start = first.Register.Offset
	}
	if last.IsGap() {
		end = last.Gap.StartOffset + last.Gap.LengthBytes
	} else {
		end = last.Register.Offset + last.Register.SizeBytes
	}
	return end - start
}

// Registers returns all register entries in layout order.
func (p *Program) Registers() []*Register {
	var registers []*Register
	for _, entry := range p.Entries {
		if !entry.IsGap() {
			registers = append(registers, entry.Register)
		}
	}
	return registers
}
