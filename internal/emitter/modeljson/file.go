// Package modeljson emits the laid out register access model as JSON, the
// machine-readable boundary for external template driven emitters.
package modeljson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/program"
	"github.com/retroenv/regmapgen/internal/writer"
)

// FileWriter writes the JSON model content.
type FileWriter struct {
	app        *program.Program
	mainWriter io.Writer
}

// New creates a new file writer.
// nolint: ireturn
func New(app *program.Program, _ options.Generator, mainWriter io.Writer) writer.FileWriter {
	return FileWriter{
		app:        app,
		mainWriter: mainWriter,
	}
}

// Write writes the indented JSON document.
func (f FileWriter) Write() error {
	encoder := json.NewEncoder(f.mainWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(f.app); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}
