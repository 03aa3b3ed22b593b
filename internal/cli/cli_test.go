package cli

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/DoTankCenter/plkgodisasm/internal/options"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "single input file",
			args: []string{"pattern.100"},
			want: options.Program{Input: "pattern.100", GCodeScale: options.DefaultGCodeScale, Workers: 4},
		},
		{
			name: "output file",
			args: []string{"-o", "out.csv", "pattern.100"},
			want: options.Program{Input: "pattern.100", Output: "out.csv", GCodeScale: options.DefaultGCodeScale, Workers: 4},
		},
		{
			name: "batch mode",
			args: []string{"-batch", "patterns/"},
			want: options.Program{Batch: "patterns/", GCodeScale: options.DefaultGCodeScale, Workers: 4},
		},
		{
			name: "gcode with custom scale",
			args: []string{"-gcode", "-scale", "50", "pattern.100"},
			want: options.Program{Input: "pattern.100", GCode: true, GCodeScale: 50, Workers: 4},
		},
		{
			name: "verify and quiet",
			args: []string{"-verify", "-q", "pattern.100"},
			want: options.Program{Input: "pattern.100", Verify: true, Quiet: true, GCodeScale: options.DefaultGCodeScale, Workers: 4},
		},
		{
			name: "worker count is clamped to one",
			args: []string{"-workers", "0", "pattern.100"},
			want: options.Program{Input: "pattern.100", GCodeScale: options.DefaultGCodeScale, Workers: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _, err := parseFlags(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestParseFlagsDecoderOptions(t *testing.T) {
	_, decoderOpts, err := parseFlags([]string{"-resync-window", "32", "-max-coordinate", "4096", "pattern.100"})
	assert.NoError(t, err)
	assert.Equal(t, 32, decoderOpts.ResyncWindow)
	assert.Equal(t, int64(4096), decoderOpts.MaxCoordinate)
}

func TestParseFlagsUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"flag after input file", []string{"pattern.100", "-q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseFlags(tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
		})
	}
}
