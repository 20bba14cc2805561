// Package options contains the program options.
package options

import (
	"github.com/retroenv/regmapgen/internal/naming"
)

// ReservedVisibility controls whether implicit reserved bits appear as
// documented placeholders in the output.
type ReservedVisibility string

const (
	// ReservedHidden omits reserved bits from the emitted accessors.
	ReservedHidden ReservedVisibility = "hidden"
	// ReservedDocumented emits reserved bits as named placeholders.
	ReservedDocumented ReservedVisibility = "documented"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // input SVD file
	Output string // output file, printed on console if no name given
	Batch  string // batch process files matching pattern, e.g. *.svd
}

// Flags contains behavior options.
type Flags struct {
	Format     string // output format: cheader, gosrc, modeljson
	Naming     string // identifier convention: keep, pascal, snake, screaming
	Reserved   string // reserved bit visibility: hidden, documented
	RangeCheck bool   // emit bounds assertions on field setters
	Verify     bool   // run post-generation self checks
	Debug      bool   // enable debug logging
	Quiet      bool   // quiet mode
}

// Program options of the generator command.
type Program struct {
	Parameters
	Flags
}

// Generator defines options to control the generator core.
type Generator struct {
	Format             string
	NamingConvention   naming.Convention
	FieldRangeChecking bool
	ReservedVisibility ReservedVisibility
	Verify             bool

	// InputFile names the source description for generated file headers.
	InputFile string
}

// NewGenerator returns a new options instance with default options.
func NewGenerator() Generator {
	return Generator{
		Format:             "cheader",
		NamingConvention:   naming.KeepCase,
		ReservedVisibility: ReservedHidden,
	}
}
