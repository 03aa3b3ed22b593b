// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/DoTankCenter/plkgodisasm/internal/options"
)

// ParseFlags parses command line flags and returns program and decoder options
func ParseFlags() (options.Program, options.Decoder, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (options.Program, options.Decoder, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	decoderOpts := options.NewDecoder()
	readOptionFlags(flags, &opts, &decoderOpts)

	err := flags.Parse(args)
	positional := flags.Args()
	if err != nil || (len(positional) == 0 && opts.Batch == "") {
		return opts, decoderOpts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, positional); err != nil {
		return opts, decoderOpts, err
	}

	if opts.Batch == "" {
		opts.Input = positional[0]
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return opts, decoderOpts, nil
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
	fmt.Printf("usage: plkgodisasm [options] <pattern file to decode>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after file to decode, please pass the pattern file as last argument", arg),
			}
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, decoderOpts *options.Decoder) {
	flags.StringVar(&opts.Output, "o", "", "name of the output .csv file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of files given as glob pattern or directory, with automatic .csv file naming")
	flags.StringVar(&opts.Config, "config", "", "TOML config file with decoder tuning and additional opcode descriptors")
	flags.BoolVar(&opts.GCode, "gcode", false, "additionally export a .gcode file per input")
	flags.Float64Var(&opts.GCodeScale, "scale", options.DefaultGCodeScale, "raw machine units per millimetre for G-code export (approximation)")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the decoded commands by re-encoding and comparing the command sequences")
	flags.IntVar(&opts.Workers, "workers", 4, "number of concurrent workers for batch processing")
	flags.IntVar(&decoderOpts.ResyncWindow, "resync-window", options.DefaultResyncWindow, "forward scan window in bytes for resynchronization after unknown data")
	flags.Int64Var(&decoderOpts.MaxCoordinate, "max-coordinate", options.DefaultMaxCoordinate, "sanity bound for coordinate magnitudes in raw machine units")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
