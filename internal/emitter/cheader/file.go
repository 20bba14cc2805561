// Package cheader emits a C++ register access header for a peripheral.
//
// Field access is emitted as mask/shift constants and helper functions over
// a plain integer word instead of native C bit fields, whose bit ordering is
// toolchain defined. Callers perform one volatile load or store of the whole
// register word and use the helpers on the loaded value.
package cheader

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/regmapgen/internal/typemap"
	"github.com/retroenv/regmapgen/internal/writer"
)

// FileWriter writes the C++ header file content.
type FileWriter struct {
	app     *program.Program
	options options.Generator
	writer  *writer.Writer
}

// New creates a new file writer.
// nolint: ireturn
func New(app *program.Program, options options.Generator, mainWriter io.Writer) writer.FileWriter {
	return FileWriter{
		app:     app,
		options: options,
		writer:  writer.New(mainWriter),
	}
}

// Write writes the header content including guard, register constants,
// accessor helpers, the register block struct and the peripheral handle.
func (f FileWriter) Write() error {
	lower := strings.ToLower(f.app.Ident)
	upper := strings.ToUpper(f.app.Ident)
	guard := upper + "_REGS_HPP"

	if err := f.writePreamble(lower, guard); err != nil {
		return err
	}

	for _, reg := range f.app.Registers() {
		if err := f.writeRegister(reg); err != nil {
			return fmt.Errorf("writing register %s: %w", reg.Name, err)
		}
	}

	if err := f.writeBlockStruct(upper); err != nil {
		return err
	}
	if err := f.writeHandle(upper); err != nil {
		return err
	}

	if err := f.writer.Printf("} // namespace %s_regs\n\n#endif // %s\n", lower, guard); err != nil {
		return err
	}
	return nil
}

func (f FileWriter) writePreamble(lower, guard string) error {
	source := f.app.InputFile
	if source == "" {
		source = "SVD file"
	}

	includes := "#include <cstdint>"
	if f.rangeChecksUsed() {
		includes += "\n#include <cassert>"
	}

	return f.writer.Printf(`#ifndef %s
#define %s

%s

/**
 * @brief %s
 * @details Generated from %s - DO NOT EDIT MANUALLY
 *
 * Base Address: 0x%08X
 */

namespace %s_regs {

`, guard, guard, includes, f.app.Description, source, f.app.BaseAddress, lower)
}

func (f FileWriter) rangeChecksUsed() bool {
	for _, reg := range f.app.Registers() {
		for _, field := range reg.Fields {
			if field.RangeChecked {
				return true
			}
		}
	}
	return false
}

// nolint:funlen
func (f FileWriter) writeRegister(reg *program.Register) error {
	storageType := cppType(reg.StorageBits)

	err := f.writer.Printf(`/**
 * @brief %s
 * @details Offset: 0x%04X, Size: %d bytes
 * @details Reset value: %s
 * @details Access: %s
 */
using %s_t = %s;

`, reg.Description, reg.Offset, reg.SizeBytes, writer.Hex(reg.ResetValue, reg.StorageBits),
		reg.Access, reg.Ident, storageType)
	if err != nil {
		return err
	}

	for _, field := range reg.Fields {
		if err := f.writeFieldConstants(reg, field); err != nil {
			return err
		}
	}
	if f.options.ReservedVisibility == options.ReservedDocumented {
		for _, span := range reg.Reserved {
			err := f.writer.Printf("/// reserved bits [%d:%d]\n",
				int(span.BitOffset)+int(span.BitWidth)-1, span.BitOffset)
			if err != nil {
				return err
			}
		}
		if len(reg.Reserved) > 0 {
			if err := f.writer.Println(); err != nil {
				return err
			}
		}
	}

	for _, field := range reg.Fields {
		if err := f.writeFieldAccessors(reg, field); err != nil {
			return err
		}
	}
	return nil
}

func (f FileWriter) writeFieldConstants(reg *program.Register, field program.Field) error {
	if field.Description != "" {
		if err := f.writer.Printf("/// %s\n", field.Description); err != nil {
			return err
		}
	}
	return f.writer.Printf(`constexpr %s_t %s_%s_Pos = %d;
constexpr %s_t %s_%s_Msk = %s_t(%s) << %s_%s_Pos;

`, reg.Ident, reg.Ident, field.Ident, field.Shift,
		reg.Ident, reg.Ident, field.Ident, reg.Ident,
		writer.Hex(field.MaxValue, reg.StorageBits), reg.Ident, field.Ident)
}

func (f FileWriter) writeFieldAccessors(reg *program.Register, field program.Field) error {
	name := fmt.Sprintf("%s_%s", reg.Ident, field.Ident)

	switch typemap.AccessorKind(field.Accessor) {
	case typemap.AccessorRead:
		return f.writeGetter(reg, name)

	case typemap.AccessorWrite:
		if err := f.writer.Printf("// %s is write-only, reads of the register are undefined\n", reg.Ident); err != nil {
			return err
		}
		return f.writeSetter(reg, name, field)

	case typemap.AccessorReadWrite:
		if err := f.writeGetter(reg, name); err != nil {
			return err
		}
		return f.writeSetter(reg, name, field)

	case typemap.AccessorWriteClear:
		return f.writeClear(reg, name)

	case typemap.AccessorReadWriteClear:
		if err := f.writeGetter(reg, name); err != nil {
			return err
		}
		return f.writeClear(reg, name)

	default:
		return fmt.Errorf("unsupported accessor kind %q", field.Accessor)
	}
}

func (f FileWriter) writeGetter(reg *program.Register, name string) error {
	return f.writer.Printf(`inline constexpr %s_t %s_get(%s_t reg) {
    return (reg & %s_Msk) >> %s_Pos;
}
`, reg.Ident, name, reg.Ident, name, name)
}

func (f FileWriter) writeSetter(reg *program.Register, name string, field program.Field) error {
	if field.RangeChecked {
		return f.writer.Printf(`inline %s_t %s_set(%s_t reg, %s_t value) {
    assert(value <= %s);
    return (reg & ~%s_Msk) | ((value << %s_Pos) & %s_Msk);
}

`, reg.Ident, name, reg.Ident, reg.Ident,
			writer.Hex(field.MaxValue, reg.StorageBits), name, name, name)
	}
	return f.writer.Printf(`inline constexpr %s_t %s_set(%s_t reg, %s_t value) {
    return (reg & ~%s_Msk) | ((value << %s_Pos) & %s_Msk);
}

`, reg.Ident, name, reg.Ident, reg.Ident, name, name, name)
}

// writeClear emits the write-1-to-clear surface: the returned word carries
// only the field mask, writing it clears the field without touching other
// status bits. Never read-modify-write such registers.
func (f FileWriter) writeClear(reg *program.Register, name string) error {
	return f.writer.Printf(`inline constexpr %s_t %s_clear() {
    return %s_Msk;
}

`, reg.Ident, name, name)
}

func (f FileWriter) writeBlockStruct(upper string) error {
	err := f.writer.Printf(`/**
 * @brief %s register block
 * @details Base address: 0x%08X
 */
struct %s_regs_t {
`, f.app.Description, f.app.BaseAddress, upper)
	if err != nil {
		return err
	}

	var cursor uint32
	for _, entry := range f.app.Entries {
		if entry.IsGap() {
			if err := f.writePadding(entry.Gap.StartOffset, entry.Gap.LengthBytes); err != nil {
				return err
			}
			cursor = entry.Gap.StartOffset + entry.Gap.LengthBytes
			continue
		}

		reg := entry.Register
		// pad the space before the first register so that struct offsets
		// match the hardware address map
		if reg.Offset > cursor {
			if err := f.writePadding(cursor, reg.Offset-cursor); err != nil {
				return err
			}
		}
		if err := f.writer.Printf("    volatile %s_t %s;\n", reg.Ident, reg.Ident); err != nil {
			return err
		}
		cursor = reg.Offset + reg.SizeBytes
	}

	// the compiler may pad the struct tail to its alignment, so the size
	// can only be checked as a lower bound
	return f.writer.Printf(`};
static_assert(sizeof(%s_regs_t) >= %d, "Size mismatch for %s_regs_t");

`, upper, cursor, upper)
}

func (f FileWriter) writePadding(offset, length uint32) error {
	return f.writer.Printf("    uint8_t _reserved_%04x[%d];\n", offset, length)
}

func (f FileWriter) writeHandle(upper string) error {
	return f.writer.Printf(`// Memory-mapped peripheral instance. The hardware owns the memory, software
// holds this non-owning typed view of the fixed address.
#define %s_REGS (reinterpret_cast<volatile %s_regs_t*>(0x%08XU))

`, upper, upper, f.app.BaseAddress)
}

func cppType(storageBits uint) string {
	return fmt.Sprintf("uint%d_t", storageBits)
}
