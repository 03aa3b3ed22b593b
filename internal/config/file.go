package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
)

// File is the optional TOML configuration file. It tunes the decoder and can
// register additional opcode descriptors, so speculative opcodes under
// investigation can be tried out without recompiling.
type File struct {
	ResyncWindow  int     `toml:"resync_window"`
	MaxCoordinate int64   `toml:"max_coordinate"`
	GCodeScale    float64 `toml:"gcode_scale"`

	Opcodes []OpcodeEntry `toml:"opcodes"`
}

// OpcodeEntry declares one opcode descriptor in the config file.
type OpcodeEntry struct {
	Byte       int      `toml:"byte"`
	Kind       string   `toml:"kind"`
	Layout     []string `toml:"layout"`
	Confidence string   `toml:"confidence"`
}

// LoadFile parses a TOML configuration file.
func LoadFile(path string) (*File, error) {
	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &file, nil
}

// Apply merges the file settings into the program and decoder options and
// registers declared opcodes in the table. Zero values leave the defaults
// untouched.
func (f *File) Apply(opts *options.Program, decoderOpts *options.Decoder, table *opcode.Table) error {
	if f.ResyncWindow > 0 {
		decoderOpts.ResyncWindow = f.ResyncWindow
	}
	if f.MaxCoordinate > 0 {
		decoderOpts.MaxCoordinate = f.MaxCoordinate
	}
	if f.GCodeScale > 0 {
		opts.GCodeScale = f.GCodeScale
	}

	for _, entry := range f.Opcodes {
		descriptor, err := entry.descriptor()
		if err != nil {
			return err
		}
		table.Register(byte(entry.Byte), descriptor)
	}
	return nil
}

func (e OpcodeEntry) descriptor() (opcode.Descriptor, error) {
	if e.Byte < 0 || e.Byte > 0xFF {
		return opcode.Descriptor{}, fmt.Errorf("opcode byte %d out of range", e.Byte)
	}

	kind, ok := opcode.KindFromString(e.Kind)
	if !ok {
		return opcode.Descriptor{}, fmt.Errorf("unknown command kind %q for opcode 0x%02X", e.Kind, e.Byte)
	}

	tier, ok := opcode.TierFromString(e.Confidence)
	if !ok {
		return opcode.Descriptor{}, fmt.Errorf("unknown confidence tier %q for opcode 0x%02X", e.Confidence, e.Byte)
	}

	layout := make([]opcode.Width, 0, len(e.Layout))
	for _, name := range e.Layout {
		width, ok := opcode.WidthFromString(name)
		if !ok {
			return opcode.Descriptor{}, fmt.Errorf("unknown parameter width %q for opcode 0x%02X", name, e.Byte)
		}
		layout = append(layout, width)
	}

	return opcode.Descriptor{Kind: kind, Layout: layout, Tier: tier}, nil
}
