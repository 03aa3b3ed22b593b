// Package decoder implements the table-driven pattern command decoder.
//
// The central rule is degrade, don't abort: a corrupt or unrecognized command
// becomes a low-confidence entry in the output instead of failing the decode
// of the remainder of the file. Opcode semantics of the format are only
// partially verified, so losing data on an unexpected byte would defeat the
// purpose of the tool.
package decoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/DoTankCenter/plkgodisasm/internal/cursor"
	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

// ErrEmptyInput is returned for a zero-length buffer, the only hard failure
// of a decode pass.
var ErrEmptyInput = errors.New("empty input buffer")

// Decoder decodes a pattern byte stream into an ordered command sequence.
// It carries no mutable state between calls; a single instance is safe to
// use concurrently over independent buffers.
type Decoder struct {
	table *opcode.Table
	opts  options.Decoder
}

// New creates a decoder using the given opcode table and options.
func New(table *opcode.Table, opts options.Decoder) *Decoder {
	if opts.ResyncWindow <= 0 {
		opts.ResyncWindow = options.DefaultResyncWindow
	}
	if opts.CancelCheckInterval <= 0 {
		opts.CancelCheckInterval = options.DefaultCancelCheckInterval
	}
	return &Decoder{
		table: table,
		opts:  opts,
	}
}

// Decode decodes the whole buffer into an ordered command sequence. Anomalies
// in the stream become unknown commands; the sum of all consumed lengths
// always equals the buffer length.
//
// When ctx is cancelled, the commands decoded so far are returned together
// with the context error. The partial sequence is well formed up to the
// cancellation point.
func (d *Decoder) Decode(ctx context.Context, buf []byte) ([]pattern.Command, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}

	cur := cursor.New(buf)
	var commands []pattern.Command

	for cur.Remaining() > 0 {
		if len(commands) > 0 && len(commands)%d.opts.CancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return commands, err
			}
		}

		start := cur.Offset()
		op, err := cur.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("reading opcode at offset %d: %w", start, err)
		}

		desc := d.table.Lookup(op)
		if desc.Kind == opcode.KindUnknown || cur.Remaining() < desc.Size()-1 {
			cmd, err := d.resynchronize(cur, buf, start)
			if err != nil {
				return nil, err
			}
			commands = append(commands, cmd)
			continue
		}

		cmd, err := d.readCommand(cur, op, desc, start)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}

	return commands, nil
}

// readCommand reads the parameters of a command with a declared layout. The
// caller has already verified that the buffer holds enough bytes.
func (d *Decoder) readCommand(cur *cursor.Cursor, op byte, desc opcode.Descriptor,
	start int) (pattern.Command, error) {

	params := make([]pattern.Param, 0, len(desc.Layout))
	for _, width := range desc.Layout {
		value, err := readValue(cur, width)
		if err != nil {
			return pattern.Command{}, fmt.Errorf("reading %s parameter at offset %d: %w",
				width, cur.Offset(), err)
		}
		params = append(params, pattern.Param{Width: width, Value: value})
	}

	cmd := pattern.Command{
		Kind:   desc.Kind,
		Opcode: op,
		Params: params,
		Offset: start,
		Length: cur.Offset() - start,
		Tier:   desc.Tier,
	}

	// A coordinate outside the sanity bound indicates the layout
	// interpretation may be wrong for this command, reduce confidence.
	if coord, ok := cmd.Coordinate(); ok {
		if abs64(int64(coord.X)) > d.opts.MaxCoordinate || abs64(int64(coord.Y)) > d.opts.MaxCoordinate {
			cmd.Tier = opcode.TierSpeculative
		}
	}

	return cmd, nil
}

// resynchronize recovers from an unknown opcode or a truncated layout at
// start. It scans forward within the resync window for the next byte that is
// a known opcode and whose declared layout fits the remaining buffer. Skipped
// bytes become the raw payload of an unknown command. If the scan reaches the
// buffer end, the whole tail is consumed; if the window is exhausted
// mid-buffer, exactly one byte is consumed so the decoder never stalls.
func (d *Decoder) resynchronize(cur *cursor.Cursor, buf []byte, start int) (pattern.Command, error) {
	// No command can fit in a tail shorter than the smallest table entry.
	if len(buf)-start-1 < d.table.MinSize() {
		return d.unknownCommand(cur, buf, start, len(buf))
	}

	limit := start + 1 + d.opts.ResyncWindow
	reachedEnd := true
	if limit > len(buf) {
		limit = len(buf)
	} else {
		reachedEnd = limit == len(buf)
	}

	end := -1
	for i := start + 1; i < limit; i++ {
		if !d.table.IsKnown(buf[i]) {
			continue
		}
		if len(buf)-i >= d.table.Lookup(buf[i]).Size() {
			end = i
			break
		}
	}

	switch {
	case end == -1 && reachedEnd:
		end = len(buf)
	case end == -1:
		end = start + 1
	}

	return d.unknownCommand(cur, buf, start, end)
}

func (d *Decoder) unknownCommand(cur *cursor.Cursor, buf []byte, start, end int) (pattern.Command, error) {
	if err := cur.Seek(end); err != nil {
		return pattern.Command{}, fmt.Errorf("resynchronizing at offset %d: %w", start, err)
	}

	raw := make([]byte, end-start)
	copy(raw, buf[start:end])

	return pattern.Command{
		Kind:   opcode.KindUnknown,
		Opcode: buf[start],
		Raw:    raw,
		Offset: start,
		Length: end - start,
		Tier:   opcode.TierSpeculative,
	}, nil
}

func readValue(cur *cursor.Cursor, width opcode.Width) (int64, error) {
	switch width {
	case opcode.U8:
		v, err := cur.ReadUint8()
		return int64(v), err
	case opcode.S8:
		v, err := cur.ReadInt8()
		return int64(v), err
	case opcode.U16:
		v, err := cur.ReadUint16()
		return int64(v), err
	case opcode.S16:
		v, err := cur.ReadInt16()
		return int64(v), err
	case opcode.U32:
		v, err := cur.ReadUint32()
		return int64(v), err
	case opcode.S32:
		v, err := cur.ReadInt32()
		return int64(v), err
	default:
		return 0, fmt.Errorf("unsupported parameter width %d", width)
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
