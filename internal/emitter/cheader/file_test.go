package cheader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/retrogolib/assert"
)

func testProgram() *program.Program {
	app := program.New("GPIOA", "GPIOA", "General purpose I/O", 0x40020000)
	app.InputFile = "test.svd"
	app.Entries = []program.Entry{
		{Register: &program.Register{
			Name:        "MODER",
			Ident:       "MODER",
			Description: "Mode register",
			Offset:      0,
			SizeBytes:   4,
			StorageBits: 32,
			ResetValue:  0xA8000000,
			Access:      "RW",
			Accessor:    "read-write",
			Fields: []program.Field{
				{
					Name: "MODER0", Ident: "MODER0",
					BitOffset: 0, BitWidth: 2,
					Accessor: "read-write",
					Mask:     0x3, Shift: 0, MaxValue: 3,
				},
			},
			Reserved: []program.ReservedBits{
				{BitOffset: 2, BitWidth: 30},
			},
			ReservedBits: 30,
		}},
		{Gap: &program.Gap{StartOffset: 4, LengthBytes: 12}},
		{Register: &program.Register{
			Name:        "IDR",
			Ident:       "IDR",
			Offset:      16,
			SizeBytes:   4,
			StorageBits: 32,
			Access:      "RO",
			Accessor:    "read",
			Fields: []program.Field{
				{
					Name: "ID0", Ident: "ID0",
					BitOffset: 0, BitWidth: 1,
					Accessor: "read",
					Mask:     0x1, Shift: 0, MaxValue: 1,
				},
			},
			ReservedBits: 31,
		}},
	}
	return app
}

func emit(t *testing.T, app *program.Program, opts options.Generator) string {
	t.Helper()
	var buffer bytes.Buffer
	assert.NoError(t, New(app, opts, &buffer).Write())
	return buffer.String()
}

func TestWriteHeaderStructure(t *testing.T) {
	output := emit(t, testProgram(), options.NewGenerator())

	assert.Contains(t, output, "#ifndef GPIOA_REGS_HPP")
	assert.Contains(t, output, "#define GPIOA_REGS_HPP")
	assert.Contains(t, output, "#endif // GPIOA_REGS_HPP")
	assert.Contains(t, output, "#include <cstdint>")
	assert.Contains(t, output, "namespace gpioa_regs {")
	assert.Contains(t, output, "Generated from test.svd - DO NOT EDIT MANUALLY")
	assert.Contains(t, output, "Base Address: 0x40020000")
}

func TestWriteRegisterConstants(t *testing.T) {
	output := emit(t, testProgram(), options.NewGenerator())

	assert.Contains(t, output, "using MODER_t = uint32_t;")
	assert.Contains(t, output, "constexpr MODER_t MODER_MODER0_Pos = 0;")
	assert.Contains(t, output, "constexpr MODER_t MODER_MODER0_Msk = MODER_t(0x00000003) << MODER_MODER0_Pos;")
	assert.Contains(t, output, "Reset value: 0xA8000000")
}

func TestWriteAccessors(t *testing.T) {
	output := emit(t, testProgram(), options.NewGenerator())

	// read-write field gets getter and setter
	assert.Contains(t, output, "MODER_MODER0_get(MODER_t reg)")
	assert.Contains(t, output, "MODER_MODER0_set(MODER_t reg, MODER_t value)")

	// read-only field gets a getter only
	assert.Contains(t, output, "IDR_ID0_get(IDR_t reg)")
	assert.False(t, strings.Contains(output, "IDR_ID0_set"))
}

func TestWriteBlockStructAndHandle(t *testing.T) {
	output := emit(t, testProgram(), options.NewGenerator())

	assert.Contains(t, output, "struct GPIOA_regs_t {")
	assert.Contains(t, output, "volatile MODER_t MODER;")
	assert.Contains(t, output, "uint8_t _reserved_0004[12];")
	assert.Contains(t, output, "volatile IDR_t IDR;")
	assert.Contains(t, output, `static_assert(sizeof(GPIOA_regs_t) >= 20, "Size mismatch for GPIOA_regs_t");`)
	assert.Contains(t, output, "#define GPIOA_REGS (reinterpret_cast<volatile GPIOA_regs_t*>(0x40020000U))")
}

func TestWriteReservedVisibility(t *testing.T) {
	opts := options.NewGenerator()
	hidden := emit(t, testProgram(), opts)
	assert.False(t, strings.Contains(hidden, "reserved bits"))

	opts.ReservedVisibility = options.ReservedDocumented
	documented := emit(t, testProgram(), opts)
	assert.Contains(t, documented, "/// reserved bits [31:2]")
}

func TestWriteRangeChecks(t *testing.T) {
	app := testProgram()
	app.Entries[0].Register.Fields[0].RangeChecked = true

	output := emit(t, app, options.NewGenerator())

	assert.Contains(t, output, "#include <cassert>")
	assert.Contains(t, output, "assert(value <= 0x00000003);")
}

func TestWriteWriteOneToClear(t *testing.T) {
	app := program.New("TIM", "TIM", "Timer", 0x40000000)
	app.Entries = []program.Entry{
		{Register: &program.Register{
			Name: "SR", Ident: "SR",
			Offset: 0, SizeBytes: 4, StorageBits: 32,
			Access: "RW1C", Accessor: "read-write-clear",
			Fields: []program.Field{
				{
					Name: "UIF", Ident: "UIF",
					BitOffset: 1, BitWidth: 1,
					Accessor: "read-write-clear",
					Mask:     0x2, Shift: 1, MaxValue: 1,
				},
			},
			ReservedBits: 31,
		}},
	}

	output := emit(t, app, options.NewGenerator())

	// clear returns only the field mask, no read-modify-write setter exists
	assert.Contains(t, output, "SR_UIF_clear()")
	assert.Contains(t, output, "return SR_UIF_Msk;")
	assert.Contains(t, output, "SR_UIF_get(SR_t reg)")
	assert.False(t, strings.Contains(output, "SR_UIF_set"))
}

func TestWriteWriteOnly(t *testing.T) {
	app := program.New("GPIO", "GPIO", "GPIO", 0x40020000)
	app.Entries = []program.Entry{
		{Register: &program.Register{
			Name: "BSRR", Ident: "BSRR",
			Offset: 0, SizeBytes: 4, StorageBits: 32,
			Access: "WO", Accessor: "write",
			Fields: []program.Field{
				{
					Name: "BS0", Ident: "BS0",
					BitOffset: 0, BitWidth: 1,
					Accessor: "write",
					Mask:     0x1, Shift: 0, MaxValue: 1,
				},
			},
			ReservedBits: 31,
		}},
	}

	output := emit(t, app, options.NewGenerator())

	assert.Contains(t, output, "// BSRR is write-only, reads of the register are undefined")
	assert.Contains(t, output, "BSRR_BS0_set(BSRR_t reg, BSRR_t value)")
	assert.False(t, strings.Contains(output, "BSRR_BS0_get"))
}

func TestWriteLeadingPad(t *testing.T) {
	// the struct pads from offset zero when the first register starts later
	app := program.New("SYS", "SYS", "System", 0x50000000)
	app.Entries = []program.Entry{
		{Register: &program.Register{
			Name: "CR", Ident: "CR",
			Offset: 8, SizeBytes: 4, StorageBits: 32,
			Access: "RW", Accessor: "read-write",
			ReservedBits: 32,
		}},
	}

	output := emit(t, app, options.NewGenerator())

	assert.Contains(t, output, "uint8_t _reserved_0000[8];")
	assert.Contains(t, output, `static_assert(sizeof(SYS_regs_t) >= 12, "Size mismatch for SYS_regs_t");`)
}

func TestWriteSizeAssertAllowsTailPadding(t *testing.T) {
	// a 4 byte register followed by a 1 byte register spans 5 bytes, but the
	// compiler pads the struct to 8, so the assert must hold as lower bound
	app := program.New("UART", "UART", "UART", 0x40010000)
	app.Entries = []program.Entry{
		{Register: &program.Register{
			Name: "CR", Ident: "CR",
			Offset: 0, SizeBytes: 4, StorageBits: 32,
			Access: "RW", Accessor: "read-write",
			ReservedBits: 32,
		}},
		{Register: &program.Register{
			Name: "DR", Ident: "DR",
			Offset: 4, SizeBytes: 1, StorageBits: 8,
			Access: "RW", Accessor: "read-write",
			ReservedBits: 8,
		}},
	}

	output := emit(t, app, options.NewGenerator())

	assert.Contains(t, output, `static_assert(sizeof(UART_regs_t) >= 5, "Size mismatch for UART_regs_t");`)
	assert.False(t, strings.Contains(output, "sizeof(UART_regs_t) =="))
}
