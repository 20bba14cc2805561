// Package pipeline orchestrates the generation workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/retroenv/regmapgen/internal/config"
	"github.com/retroenv/regmapgen/internal/emitter"
	"github.com/retroenv/regmapgen/internal/generator"
	"github.com/retroenv/regmapgen/internal/loader"
	"github.com/retroenv/regmapgen/internal/model"
	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/regmapgen/internal/svd"
	"github.com/retroenv/regmapgen/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete generation workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new generation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Execute runs the complete generation pipeline for one input file. The
// output of each peripheral is buffered and only written out after all
// validation and verification passed, a failed run writes nothing.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, genOpts options.Generator,
	newOutputWriter emitter.NewOutputWriter) ([]*program.Program, error) {

	device, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading description: %w", err)
	}

	peripherals, err := svd.Normalize(p.logger, device)
	if err != nil {
		return nil, fmt.Errorf("normalizing description: %w", err)
	}
	if len(peripherals) == 0 {
		p.logger.Warn("No peripherals with registers found",
			log.String("file", opts.Input))
		return nil, nil
	}

	return p.ExecuteWithPeripherals(ctx, peripherals, genOpts, newOutputWriter)
}

// ExecuteWithPeripherals runs the generation pipeline with already
// normalized peripheral maps. This is useful for testing and programmatic
// usage where the model is already in memory.
func (p *Pipeline) ExecuteWithPeripherals(ctx context.Context, peripherals []*model.PeripheralMap,
	genOpts options.Generator, newOutputWriter emitter.NewOutputWriter) ([]*program.Program, error) {

	fileWriterConstructor, err := config.CreateFileWriterConstructor(genOpts.Format)
	if err != nil {
		return nil, fmt.Errorf("initializing emitter: %w", err)
	}

	apps := make([]*program.Program, 0, len(peripherals))
	for _, peripheral := range peripherals {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}

		app, err := p.generatePeripheral(peripheral, genOpts, fileWriterConstructor, newOutputWriter)
		if err != nil {
			return nil, fmt.Errorf("generating peripheral %s: %w", peripheral.Name, err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (p *Pipeline) generatePeripheral(peripheral *model.PeripheralMap, genOpts options.Generator,
	fileWriterConstructor generator.FileWriterConstructor,
	newOutputWriter emitter.NewOutputWriter) (*program.Program, error) {

	gen, err := generator.New(p.logger, peripheral, genOpts, fileWriterConstructor)
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	var buffer bytes.Buffer
	app, err := gen.Process(&buffer)
	if err != nil {
		return nil, err
	}

	if genOpts.Verify {
		regenerate := func(out *bytes.Buffer) error {
			_, err := gen.Process(out)
			return err
		}
		if err := verification.VerifyOutput(p.logger, peripheral, app,
			buffer.Bytes(), verification.Regenerate(regenerate)); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful", log.String("peripheral", peripheral.Name))
	}

	output, err := newOutputWriter(peripheral.Name)
	if err != nil {
		return nil, fmt.Errorf("creating output writer: %w", err)
	}
	if _, err := output.Write(buffer.Bytes()); err != nil {
		_ = output.Close()
		return nil, fmt.Errorf("writing output: %w", err)
	}
	if err := output.Close(); err != nil {
		return nil, fmt.Errorf("closing output: %w", err)
	}
	return app, nil
}
