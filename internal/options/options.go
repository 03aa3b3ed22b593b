// Package options contains the program options.
package options

// Default decoder tuning values. All of them are configurable through flags
// or the config file; none of them is a verified property of the format.
const (
	DefaultResyncWindow        = 16
	DefaultMaxCoordinate       = 1_000_000
	DefaultCancelCheckInterval = 1024
	DefaultGCodeScale          = 100.0
)

// Program options of the pattern decoder tool.
type Program struct {
	Input  string // single pattern file to process
	Output string // output file, stdout if empty
	Batch  string // glob pattern or directory for batch processing
	Config string // optional TOML config file

	GCode      bool    // additionally export G-code
	GCodeScale float64 // raw machine units per millimetre, approximate
	Verify     bool    // verify encode/decode round-trip after decoding
	Workers    int     // concurrent workers for batch processing

	Debug bool
	Quiet bool
}

// Decoder defines options to control the command decoder.
type Decoder struct {
	// ResyncWindow bounds the forward scan for the next plausible opcode
	// after unrecognized or malformed data.
	ResyncWindow int

	// MaxCoordinate is the sanity bound for coordinate magnitudes. Values
	// outside the bound demote the command to speculative confidence.
	MaxCoordinate int64

	// CancelCheckInterval is the number of decoded commands between
	// cooperative cancellation checks.
	CancelCheckInterval int
}

// NewDecoder returns decoder options with default values.
func NewDecoder() Decoder {
	return Decoder{
		ResyncWindow:        DefaultResyncWindow,
		MaxCoordinate:       DefaultMaxCoordinate,
		CancelCheckInterval: DefaultCancelCheckInterval,
	}
}
