// Package loader handles hardware description file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/regmapgen/internal/options"
	"github.com/retroenv/regmapgen/internal/svd"
)

// Loader handles loading SVD description files from disk.
type Loader struct{}

// New creates a new description loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses an SVD description file.
func (l *Loader) Load(opts options.Program) (*svd.Device, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	device, err := svd.Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading description: %w", err)
	}
	return device, nil
}
