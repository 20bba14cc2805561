// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/regmapgen/internal/emitter"
	"github.com/retroenv/regmapgen/internal/emitter/cheader"
	"github.com/retroenv/regmapgen/internal/emitter/gosrc"
	"github.com/retroenv/regmapgen/internal/emitter/modeljson"
	"github.com/retroenv/regmapgen/internal/generator"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateFileWriterConstructor returns the file writer constructor of the
// chosen output format.
func CreateFileWriterConstructor(format string) (generator.FileWriterConstructor, error) {
	switch format {
	case emitter.CHeader:
		return cheader.New, nil

	case emitter.GoSrc:
		return gosrc.New, nil

	case emitter.ModelJSON:
		return modeljson.New, nil

	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}
