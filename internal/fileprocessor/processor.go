// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/regmapgen/internal/emitter"
	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	genOpts options.Generator) error {

	genOpts.InputFile = filepath.Base(opts.Input)

	if !opts.Quiet {
		logger.Info("Processing SVD file",
			log.String("file", opts.Input),
			log.String("format", genOpts.Format),
		)
	}

	apps, err := pipeline.New(logger).Execute(ctx, opts, genOpts, newOutputWriter(opts, genOpts))
	if err != nil {
		return err
	}

	if !opts.Quiet {
		logger.Info("Generation complete", log.Int("peripherals", len(apps)))
	}
	return nil
}

// newOutputWriter creates the per-peripheral output writer callback:
// console output when no output name is given, a single file for a single
// named output and derived file names per peripheral otherwise.
func newOutputWriter(opts options.Program, genOpts options.Generator) emitter.NewOutputWriter {
	used := false

	return func(peripheral string) (io.WriteCloser, error) {
		if opts.Output == "" {
			return &nopCloser{os.Stdout}, nil
		}

		name := opts.Output
		if used {
			// multiple peripherals in one device get their own files
			name = peripheralFilename(opts.Output, peripheral, genOpts.Format)
		}
		used = true

		file, err := os.Create(name)
		if err != nil {
			return nil, fmt.Errorf("creating output file %s: %w", name, err)
		}
		return file, nil
	}
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates the output filename for a given input file
func GenerateOutputFilename(inputFile, format string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + "_regs" + emitter.FileExtension(format)
}

// peripheralFilename derives a per-peripheral output filename.
func peripheralFilename(output, peripheral, format string) string {
	ext := filepath.Ext(output)
	base := output[:len(output)-len(ext)]
	if ext == "" {
		ext = emitter.FileExtension(format)
	}
	return base + "_" + strings.ToLower(peripheral) + ext
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("regmapgen", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
