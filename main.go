// Package main implements the main entry point for the register access
// layer generator
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/regmapgen/internal/cli"
	"github.com/retroenv/regmapgen/internal/config"
	"github.com/retroenv/regmapgen/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, genOpts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	for _, file := range files {
		opts.Input = file
		if len(files) > 1 || (opts.Output == "" && opts.Batch != "") {
			opts.Output = fileprocessor.GenerateOutputFilename(file, genOpts.Format)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, opts, genOpts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Error("Generation failed", log.Err(err))
			os.Exit(1)
		}
	}
}
