// Package verification verifies that the generated output matches the input
// register map exactly.
package verification

import (
	"bytes"
	"fmt"

	"github.com/retroenv/regmapgen/internal/model"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/retrogolib/log"
)

// Regenerate runs a second generation of the same peripheral into the given
// buffer.
type Regenerate func(buffer *bytes.Buffer) error

// VerifyOutput verifies the generated program against the source model:
// the layout has to tile the register address range exactly, every register's
// bit accounting has to match its declared width and regenerating has to
// produce byte-identical output.
func VerifyOutput(logger *log.Logger, m *model.PeripheralMap, app *program.Program,
	firstOutput []byte, regenerate Regenerate) error {

	if err := verifyTiling(m, app); err != nil {
		return err
	}
	if err := verifyBitAccounting(app); err != nil {
		return err
	}
	if err := verifyIdempotence(firstOutput, regenerate); err != nil {
		return err
	}

	logger.Debug("Output verified", log.String("peripheral", m.Name))
	return nil
}

// verifyTiling re-flattens the layout and checks that it reconstructs the
// original register offsets and sizes with gaps filling every byte not
// claimed by a register.
func verifyTiling(m *model.PeripheralMap, app *program.Program) error {
	registers := app.Registers()
	if len(registers) != len(m.Registers) {
		return fmt.Errorf("layout contains %d registers, model has %d",
			len(registers), len(m.Registers))
	}

	var cursor uint32
	first := true
	index := 0

	for _, entry := range app.Entries {
		if entry.IsGap() {
			if first {
				return fmt.Errorf("layout starts with a gap at offset 0x%04X",
					entry.Gap.StartOffset)
			}
			if entry.Gap.StartOffset != cursor {
				return fmt.Errorf("gap at offset 0x%04X does not continue at cursor 0x%04X",
					entry.Gap.StartOffset, cursor)
			}
			if entry.Gap.LengthBytes == 0 {
				return fmt.Errorf("empty gap at offset 0x%04X", entry.Gap.StartOffset)
			}
			cursor += entry.Gap.LengthBytes
			continue
		}

		reg := entry.Register
		def := m.Registers[index]
		index++

		if reg.Name != def.Name || reg.Offset != def.Offset || reg.SizeBytes != def.SizeBytes {
			return fmt.Errorf("register %s at offset 0x%04X does not match model register %s at offset 0x%04X",
				reg.Name, reg.Offset, def.Name, def.Offset)
		}
		if !first && reg.Offset != cursor {
			return fmt.Errorf("register %s at offset 0x%04X leaves unaccounted bytes from cursor 0x%04X",
				reg.Name, reg.Offset, cursor)
		}
		cursor = reg.Offset + reg.SizeBytes
		first = false
	}
	return nil
}

// verifyBitAccounting checks that for every register the field bit widths
// plus reserved bits sum exactly to the declared register width.
func verifyBitAccounting(app *program.Program) error {
	for _, reg := range app.Registers() {
		bits := reg.ReservedBits
		for _, field := range reg.Fields {
			bits += uint(field.BitWidth)
		}
		if declared := uint(reg.SizeBytes) * 8; bits != declared {
			return fmt.Errorf("register %s accounts %d bits, declared width is %d",
				reg.Name, bits, declared)
		}
	}
	return nil
}

// verifyIdempotence regenerates the output and compares it byte by byte.
func verifyIdempotence(firstOutput []byte, regenerate Regenerate) error {
	var buffer bytes.Buffer
	if err := regenerate(&buffer); err != nil {
		return fmt.Errorf("regenerating output: %w", err)
	}

	if !bytes.Equal(firstOutput, buffer.Bytes()) {
		return fmt.Errorf("regenerated output differs, %d bytes versus %d bytes",
			buffer.Len(), len(firstOutput))
	}
	return nil
}
