// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/regmapgen/internal/emitter"
	"github.com/retroenv/regmapgen/internal/naming"
	"github.com/retroenv/regmapgen/internal/options"
)

// ParseFlags parses command line flags and returns program and generator options
func ParseFlags() (options.Program, options.Generator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Generator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Generator{}, err
	}
	if opts.Batch == "" && opts.Input == "" {
		opts.Input = args[0]
	}

	genOptions, err := createGeneratorOptions(&opts)
	if err != nil {
		return opts, options.Generator{}, err
	}

	return opts, genOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: regmapgen [options] <SVD file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the input file, please pass the SVD file as last argument", arg),
			}
		}
	}
	return nil
}

// createGeneratorOptions normalizes and validates generator option values
func createGeneratorOptions(opts *options.Program) (options.Generator, error) {
	genOptions := options.NewGenerator()
	genOptions.FieldRangeChecking = opts.RangeCheck
	genOptions.Verify = opts.Verify

	opts.Format = strings.ToLower(opts.Format)
	switch opts.Format {
	case emitter.CHeader, emitter.GoSrc, emitter.ModelJSON:
		genOptions.Format = opts.Format
	default:
		return options.Generator{}, fmt.Errorf("unsupported output format: %s. Valid options: %s",
			opts.Format, strings.Join([]string{emitter.CHeader, emitter.GoSrc, emitter.ModelJSON}, ", "))
	}

	convention, ok := naming.ConventionFromString(opts.Naming)
	if !ok {
		return options.Generator{}, fmt.Errorf("unsupported naming convention: %s. Valid options: keep, pascal, snake, screaming",
			opts.Naming)
	}
	genOptions.NamingConvention = convention

	switch options.ReservedVisibility(strings.ToLower(opts.Reserved)) {
	case "", options.ReservedHidden:
		genOptions.ReservedVisibility = options.ReservedHidden
	case options.ReservedDocumented:
		genOptions.ReservedVisibility = options.ReservedDocumented
	default:
		return options.Generator{}, fmt.Errorf("unsupported reserved bit visibility: %s. Valid options: hidden, documented",
			opts.Reserved)
	}

	return genOptions, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input SVD file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask with automatic output file naming, for example *.svd")
	flags.StringVar(&opts.Format, "f", "cheader", "output format of the generated code (cheader/gosrc/modeljson)")
	flags.StringVar(&opts.Naming, "naming", "keep", "identifier naming convention (keep/pascal/snake/screaming)")
	flags.StringVar(&opts.Reserved, "reserved", "hidden", "reserved bit visibility in the output (hidden/documented)")
	flags.BoolVar(&opts.RangeCheck, "rangecheck", false, "emit bounds assertions on generated field setters")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by re-flattening the layout and regenerating")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
