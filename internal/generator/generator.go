// Package generator implements the register access layer generation core:
// model validation, layout, type mapping and emission of one peripheral.
package generator

import (
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/regmapgen/internal/layout"
	"github.com/retroenv/regmapgen/internal/model"
	"github.com/retroenv/regmapgen/internal/naming"
	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/regmapgen/internal/typemap"
	"github.com/retroenv/regmapgen/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// FileWriterConstructor creates the file writer of the chosen output format.
type FileWriterConstructor func(app *program.Program, options options.Generator,
	mainWriter io.Writer) writer.FileWriter

// Generator generates the register access layer for one peripheral. A
// generation run is a pure, terminating batch computation, independent runs
// for different peripherals share no state.
type Generator struct {
	logger  *log.Logger
	options options.Generator

	model                 *model.PeripheralMap
	layoutEngine          *layout.Engine
	mapper                *typemap.Mapper
	fileWriterConstructor FileWriterConstructor
}

// New creates a new generator for the given validated peripheral map.
func New(logger *log.Logger, m *model.PeripheralMap, opts options.Generator,
	fileWriterConstructor FileWriterConstructor) (*Generator, error) {

	if m == nil {
		return nil, errors.New("missing peripheral map")
	}
	if fileWriterConstructor == nil {
		return nil, errors.New("missing file writer constructor")
	}

	return &Generator{
		logger:                logger,
		options:               opts,
		model:                 m,
		layoutEngine:          layout.New(logger),
		mapper:                typemap.New(opts.FieldRangeChecking),
		fileWriterConstructor: fileWriterConstructor,
	}, nil
}

// Process runs the generation pipeline and writes the output. Any violated
// invariant aborts the run before anything is written, partial output is
// never emitted.
func (g *Generator) Process(mainWriter io.Writer) (*program.Program, error) {
	lay, err := g.layoutEngine.Run(g.model)
	if err != nil {
		return nil, fmt.Errorf("computing layout: %w", err)
	}

	var registers []typemap.Register
	if len(lay.Entries) > 0 {
		registers, err = g.mapper.Map(g.model, lay)
		if err != nil {
			return nil, fmt.Errorf("mapping types: %w", err)
		}
	}

	app := g.convertToProgram(lay, registers)

	fileWriter := g.fileWriterConstructor(app, g.options, mainWriter)
	if err := fileWriter.Write(); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	g.logger.Debug("Peripheral generated",
		log.String("peripheral", g.model.Name),
		log.Int("registers", len(registers)),
	)
	return app, nil
}

// convertToProgram converts the laid out and annotated model into the
// serializable program handed to the emitter. Entities keep their order,
// identifiers get the configured naming convention applied.
func (g *Generator) convertToProgram(lay layout.Layout, registers []typemap.Register) *program.Program {
	app := program.New(g.model.Name, naming.Sanitize(g.model.Name),
		g.model.Description, g.model.BaseAddress)
	app.InputFile = g.options.InputFile

	index := 0
	for _, entry := range lay.Entries {
		if entry.IsGap() {
			app.Entries = append(app.Entries, program.Entry{
				Gap: &program.Gap{
					StartOffset: entry.Gap.StartOffset,
					LengthBytes: entry.Gap.LengthBytes,
				},
			})
			continue
		}

		reg := registers[index]
		index++
		app.Entries = append(app.Entries, program.Entry{
			Register: g.convertRegister(reg),
		})
	}
	return app
}

func (g *Generator) convertRegister(reg typemap.Register) *program.Register {
	converted := &program.Register{
		Name:         reg.Def.Name,
		Ident:        naming.Apply(g.options.NamingConvention, reg.Def.Name),
		Description:  reg.Def.Description,
		Offset:       reg.Def.Offset,
		SizeBytes:    reg.Def.SizeBytes,
		StorageBits:  reg.StorageBits,
		ResetValue:   reg.Def.ResetValue,
		Access:       string(reg.Def.Access),
		Accessor:     string(reg.Accessor),
		ReservedBits: reg.ReservedBits,
	}

	for _, field := range reg.Fields {
		converted.Fields = append(converted.Fields, program.Field{
			Name:         field.Def.Name,
			Ident:        naming.Apply(g.options.NamingConvention, field.Def.Name),
			Description:  field.Def.Description,
			BitOffset:    field.Def.BitOffset,
			BitWidth:     field.Def.BitWidth,
			Accessor:     string(field.Accessor),
			Mask:         field.Mask,
			Shift:        field.Shift,
			MaxValue:     field.MaxValue,
			RangeChecked: field.RangeChecked,
		})
	}
	for _, span := range reg.Reserved {
		converted.Reserved = append(converted.Reserved, program.ReservedBits{
			BitOffset: span.BitOffset,
			BitWidth:  span.BitWidth,
		})
	}
	return converted
}
