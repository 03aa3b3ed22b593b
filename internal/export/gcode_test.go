package export

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

func motion(kind opcode.Kind, op byte, x, y int32) pattern.Command {
	return pattern.Command{
		Kind:   kind,
		Opcode: op,
		Params: []pattern.Param{
			{Width: opcode.S32, Value: int64(x)},
			{Width: opcode.S32, Value: int64(y)},
		},
	}
}

func TestGCodeExport(t *testing.T) {
	commands := []pattern.Command{
		motion(opcode.KindLinearMove, 0x03, 500, -250),
		motion(opcode.KindPoint, 0x61, 1000, 2000),
		{
			Kind:   opcode.KindFunction,
			Opcode: 0x1F,
			Params: []pattern.Param{
				{Width: opcode.U16, Value: 0x0002},
				{Width: opcode.U8, Value: 0},
			},
		},
	}

	var sb strings.Builder
	assert.NoError(t, NewGCode(100).Export(&sb, commands))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Equal(t, 6, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "G21"))
	assert.True(t, strings.HasPrefix(lines[1], "G90"))
	assert.Equal(t, "G0 X5.000 Y-2.500", lines[2])
	assert.Equal(t, "G1 X10.000 Y20.000", lines[3])
	assert.Equal(t, "; function: Thread Trimming", lines[4])
	assert.Equal(t, "M30 ; end of program", lines[5])
}

func TestGCodeScaleIsConfigurable(t *testing.T) {
	commands := []pattern.Command{motion(opcode.KindPoint, 0x61, 100, 100)}

	var sb strings.Builder
	assert.NoError(t, NewGCode(10).Export(&sb, commands))
	assert.True(t, strings.Contains(sb.String(), "G1 X10.000 Y10.000"))

	sb.Reset()
	// non-positive scale falls back to the default divisor
	assert.NoError(t, NewGCode(0).Export(&sb, commands))
	assert.True(t, strings.Contains(sb.String(), "G1 X1.000 Y1.000"))
}

func TestGCodeSkipsNonMotionCommands(t *testing.T) {
	commands := []pattern.Command{
		{Kind: opcode.KindSpeed, Opcode: 0x02, Params: []pattern.Param{{Value: 1}, {Value: 2}, {Value: 3}}},
		{Kind: opcode.KindUnknown, Opcode: 0xAA, Raw: []byte{0xAA}},
	}

	var sb strings.Builder
	assert.NoError(t, NewGCode(100).Export(&sb, commands))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	// preamble and trailer only
	assert.Equal(t, 3, len(lines))
}
