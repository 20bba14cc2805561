// Package writer implements common generated file writing functionality.
package writer

import (
	"fmt"
	"io"
)

// FileWriter defines a shared interface used by the different output format
// packages. Their constructors need to return this shared interface, having
// them return the actual type instead of the interface results in compiler
// errors for the constructor variable that they are assigned to.
type FileWriter interface {
	Write() error
}

// Writer implements common generated file writing functionality.
type Writer struct {
	writer io.Writer
}

// New creates a new writer.
func New(writer io.Writer) *Writer {
	return &Writer{
		writer: writer,
	}
}

// Printf writes a formatted line fragment to the output.
func (w *Writer) Printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(w.writer, format, args...); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// Println writes the arguments followed by a newline to the output.
func (w *Writer) Println(args ...any) error {
	if _, err := fmt.Fprintln(w.writer, args...); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// Hex formats a value as zero-padded hexadecimal matching the storage width.
func Hex(value uint64, storageBits uint) string {
	return fmt.Sprintf("0x%0*X", storageBits/4, value)
}
