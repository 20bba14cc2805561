// Package emitter defines the available output formats.
package emitter

import (
	"io"
)

const (
	CHeader   = "cheader"
	GoSrc     = "gosrc"
	ModelJSON = "modeljson"
)

// NewOutputWriter is a callback that creates the output file for a
// peripheral, used when a device declares multiple peripherals that each get
// their own output file.
type NewOutputWriter func(peripheral string) (io.WriteCloser, error)

// FileExtension returns the output file extension of a format.
func FileExtension(format string) string {
	switch format {
	case GoSrc:
		return ".go"
	case ModelJSON:
		return ".json"
	default:
		return ".hpp"
	}
}
