// Package gosrc emits a Go register access package for a peripheral.
//
// The emitted source follows the mask/shift constant style of generated
// device packages: one typed constant pair per field plus a register block
// struct whose in-memory layout matches the hardware address map.
package gosrc

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/regmapgen/internal/typemap"
	"github.com/retroenv/regmapgen/internal/writer"
)

// FileWriter writes the Go source file content.
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

// Write writes the Go package content.
func (f FileWriter) Write() error {
	pkg := strings.ToLower(f.app.Ident)

	source := f.app.InputFile
	if source == "" {
		source = "SVD file"
	}

	err := f.writer.Printf(`// Package %s provides access to the registers of the %s peripheral.
//
// Generated from %s - DO NOT EDIT MANUALLY
package %s

import "unsafe"

// Base is the peripheral base address.
const Base uintptr = 0x%08X

`, pkg, f.app.Peripheral, source, pkg, f.app.BaseAddress)
	if err != nil {
		return err
	}

	if err := f.writeBlockStruct(); err != nil {
		return err
	}

	for _, reg := range f.app.Registers() {
		if err := f.writeRegisterConstants(reg); err != nil {
			return fmt.Errorf("writing register %s: %w", reg.Name, err)
		}
	}
	return nil
}

func (f FileWriter) writeBlockStruct() error {
	if err := f.writer.Printf("// Periph is the %s register block.\ntype Periph struct {\n", f.app.Peripheral); err != nil {
		return err
	}

	var cursor uint32
	reserved := 0
	for _, entry := range f.app.Entries {
		if entry.IsGap() {
			err := f.writer.Printf("\t_ [%d]byte\n", entry.Gap.LengthBytes)
			if err != nil {
				return err
			}
			cursor = entry.Gap.StartOffset + entry.Gap.LengthBytes
			reserved++
			continue
		}

		reg := entry.Register
		if reg.Offset > cursor {
			if err := f.writer.Printf("\t_ [%d]byte\n", reg.Offset-cursor); err != nil {
				return err
			}
			reserved++
		}
		if err := f.writer.Printf("\t%s uint%d\n", reg.Ident, reg.StorageBits); err != nil {
			return err
		}
		cursor = reg.Offset + reg.SizeBytes
	}

	pascalIdent := f.app.Ident
	if pascalIdent != "" {
		pascalIdent = strings.ToUpper(pascalIdent[:1]) + pascalIdent[1:]
	}

	return f.writer.Printf(`}

// %s returns the memory-mapped register block of the peripheral. The
// hardware owns the memory, the returned pointer is a non-owning typed view
// of the fixed address.
func %s() *Periph {
	return (*Periph)(unsafe.Pointer(Base))
}

`, pascalIdent, pascalIdent)
}

// nolint:cyclop
func (f FileWriter) writeRegisterConstants(reg *program.Register) error {
	if len(reg.Fields) == 0 && f.options.ReservedVisibility != options.ReservedDocumented {
		return nil
	}

	if err := f.writer.Printf("// %s: %s\nconst (\n", reg.Ident, reg.Description); err != nil {
		return err
	}

	for _, field := range reg.Fields {
		comment := field.Description
		if comment == "" {
			comment = accessorComment(field.Accessor)
		} else {
			comment += " (" + accessorComment(field.Accessor) + ")"
		}
		err := f.writer.Printf("\t%s_%s uint%d = %s << %d // %s\n",
			reg.Ident, field.Ident, reg.StorageBits,
			writer.Hex(field.MaxValue, reg.StorageBits), field.Shift, comment)
		if err != nil {
			return err
		}
	}
	if f.options.ReservedVisibility == options.ReservedDocumented {
		for i, span := range reg.Reserved {
			err := f.writer.Printf("\t%s_RESERVED%d uint%d = %s << %d // reserved bits\n",
				reg.Ident, i, reg.StorageBits,
				writer.Hex((uint64(1)<<span.BitWidth)-1, reg.StorageBits), span.BitOffset)
			if err != nil {
				return err
			}
		}
	}
	if err := f.writer.Println(")"); err != nil {
		return err
	}

	if err := f.writer.Println("const ("); err != nil {
		return err
	}
	for _, field := range reg.Fields {
		err := f.writer.Printf("\t%s_%sn = %d\n", reg.Ident, field.Ident, field.Shift)
		if err != nil {
			return err
		}
	}
	if err := f.writer.Println(")"); err != nil {
		return err
	}
	return f.writer.Println()
}

func accessorComment(accessor string) string {
	switch typemap.AccessorKind(accessor) {
	case typemap.AccessorRead:
		return "read-only"
	case typemap.AccessorWrite:
		return "write-only"
	case typemap.AccessorWriteClear, typemap.AccessorReadWriteClear:
		return "write 1 to clear"
	default:
		return "read-write"
	}
}
