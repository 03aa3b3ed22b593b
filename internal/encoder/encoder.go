// Package encoder serializes a command sequence back into pattern file bytes.
package encoder

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/DoTankCenter/plkgodisasm/internal/decoder"
	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

// Encoder converts a pattern model back into bytes, the structural inverse of
// the decoder. Unknown commands are emitted as their verbatim raw payload,
// keeping unrecognized data lossless across a round trip.
type Encoder struct {
	table *opcode.Table
}

// New creates an encoder using the given opcode table.
func New(table *opcode.Table) *Encoder {
	return &Encoder{table: table}
}

// Encode serializes the model's command sequence.
func (e *Encoder) Encode(model *pattern.Model) ([]byte, error) {
	return e.EncodeCommands(model.Commands())
}

// EncodeCommands serializes an ordered command sequence.
func (e *Encoder) EncodeCommands(commands []pattern.Command) ([]byte, error) {
	var buf []byte
	for i, cmd := range commands {
		encoded, err := e.encodeCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("encoding command %d (%s): %w", i, cmd.Kind, err)
		}
		buf = append(buf, encoded...)
	}
	return buf, nil
}

func (e *Encoder) encodeCommand(cmd pattern.Command) ([]byte, error) {
	if cmd.Kind == opcode.KindUnknown {
		if len(cmd.Raw) == 0 {
			return nil, fmt.Errorf("unknown command at offset %d has no raw payload", cmd.Offset)
		}
		return cmd.Raw, nil
	}

	desc := e.table.Lookup(cmd.Opcode)
	if desc.Kind != cmd.Kind {
		return nil, fmt.Errorf("opcode 0x%02X maps to %s, command claims %s",
			cmd.Opcode, desc.Kind, cmd.Kind)
	}
	if len(cmd.Params) != len(desc.Layout) {
		return nil, fmt.Errorf("opcode 0x%02X expects %d parameters, command has %d",
			cmd.Opcode, len(desc.Layout), len(cmd.Params))
	}

	buf := make([]byte, 0, desc.Size())
	buf = append(buf, cmd.Opcode)
	for i, width := range desc.Layout {
		buf = appendValue(buf, width, cmd.Params[i].Value)
	}
	return buf, nil
}

func appendValue(buf []byte, width opcode.Width, value int64) []byte {
	switch width {
	case opcode.U8, opcode.S8:
		return append(buf, byte(value))
	case opcode.U16, opcode.S16:
		return binary.LittleEndian.AppendUint16(buf, uint16(value))
	default:
		return binary.LittleEndian.AppendUint32(buf, uint32(value))
	}
}

// MismatchError describes an encode/decode round trip that did not reproduce
// an equivalent command sequence. It signals that the format model itself may
// be incomplete and is surfaced as a warning, not a crash.
type MismatchError struct {
	Index    int // index of the first differing command, -1 for length mismatch
	Original int // command count of the original sequence
	Decoded  int // command count of the re-decoded sequence
}

func (e *MismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("round trip decoded %d commands, expected %d", e.Decoded, e.Original)
	}
	return fmt.Sprintf("round trip mismatch at command %d", e.Index)
}

// Verify encodes the model and decodes the result again, checking that the
// command sequences match in kind and parameter values. A nil error means the
// round trip law holds for this model.
func (e *Encoder) Verify(ctx context.Context, model *pattern.Model, opts options.Decoder) error {
	encoded, err := e.Encode(model)
	if err != nil {
		return fmt.Errorf("encoding for verification: %w", err)
	}

	commands := model.Commands()
	if len(encoded) == 0 && len(commands) == 0 {
		return nil
	}

	dec := decoder.New(e.table, opts)
	decoded, err := dec.Decode(ctx, encoded)
	if err != nil {
		return fmt.Errorf("decoding for verification: %w", err)
	}

	if len(decoded) != len(commands) {
		return &MismatchError{Index: -1, Original: len(commands), Decoded: len(decoded)}
	}
	for i := range commands {
		if !commands[i].Equal(decoded[i]) {
			return &MismatchError{Index: i, Original: len(commands), Decoded: len(decoded)}
		}
	}
	return nil
}
