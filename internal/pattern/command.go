// Package pattern holds the decoded command sequence model of a pattern file.
package pattern

import (
	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
)

// Coordinate is an absolute needle position in raw machine units.
type Coordinate struct {
	X int32
	Y int32
}

// Param is one decoded command parameter with its wire width.
type Param struct {
	Width opcode.Width
	Value int64
}

// Command is one decoded unit of the pattern stream. Commands are immutable
// value records created by the decoder; edits replace whole commands.
type Command struct {
	Kind   opcode.Kind
	Opcode byte    // raw opcode byte that selected the descriptor
	Params []Param // decoded parameters in wire order, nil for unknown commands
	Raw    []byte  // verbatim byte span, set for unknown commands only
	Offset int     // byte offset in the source buffer
	Length int     // consumed bytes including the opcode
	Tier   opcode.Tier
}

// Coordinate returns the x,y parameter pair for coordinate-bearing commands.
func (c Command) Coordinate() (Coordinate, bool) {
	if !c.Kind.HasCoordinates() || len(c.Params) < 2 {
		return Coordinate{}, false
	}
	return Coordinate{X: int32(c.Params[0].Value), Y: int32(c.Params[1].Value)}, true
}

// FunctionCode returns the machine function code of a Function command.
func (c Command) FunctionCode() (opcode.FunctionCode, bool) {
	if c.Kind != opcode.KindFunction || len(c.Params) == 0 {
		return 0, false
	}
	return opcode.FunctionCode(c.Params[0].Value), true
}

// Equal reports whether two commands match in kind and parameter values.
// Unknown commands compare by their verbatim raw payload. Offsets and
// confidence tiers do not take part in the comparison, matching the
// round-trip law of the encoder.
func (c Command) Equal(other Command) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == opcode.KindUnknown {
		if len(c.Raw) != len(other.Raw) {
			return false
		}
		for i := range c.Raw {
			if c.Raw[i] != other.Raw[i] {
				return false
			}
		}
		return true
	}
	if c.Opcode != other.Opcode || len(c.Params) != len(other.Params) {
		return false
	}
	for i := range c.Params {
		if c.Params[i].Value != other.Params[i].Value {
			return false
		}
	}
	return true
}
