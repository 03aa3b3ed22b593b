package validator

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/DoTankCenter/plkgodisasm/internal/decoder"
	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

func command(kind opcode.Kind, tier opcode.Tier) pattern.Command {
	return pattern.Command{Kind: kind, Tier: tier}
}

func point(x, y int32, tier opcode.Tier) pattern.Command {
	return pattern.Command{
		Kind:   opcode.KindPoint,
		Opcode: 0x61,
		Params: []pattern.Param{
			{Width: opcode.S32, Value: int64(x)},
			{Width: opcode.S32, Value: int64(y)},
		},
		Tier: tier,
	}
}

func TestAnalyzeWorkedExample(t *testing.T) {
	// separator followed by a point at (10, 20)
	buf := []byte{0x01, 0x00, 0x61}
	buf = binary.LittleEndian.AppendUint32(buf, 10)
	buf = binary.LittleEndian.AppendUint32(buf, 20)

	dec := decoder.New(opcode.NewTable(), options.NewDecoder())
	commands, err := dec.Decode(context.Background(), buf)
	assert.NoError(t, err)

	report := Analyze(pattern.NewModel(commands))

	assert.Equal(t, 2, report.CommandCount)
	assert.Equal(t, 1, report.StitchCount)
	assert.True(t, report.HasCoordinates)
	assert.Equal(t, int32(10), report.CoordinateRange.MinX)
	assert.Equal(t, int32(10), report.CoordinateRange.MaxX)
	assert.Equal(t, int32(20), report.CoordinateRange.MinY)
	assert.Equal(t, int32(20), report.CoordinateRange.MaxY)
	assert.Equal(t, 1, report.Histogram[opcode.KindSeparator])
	assert.Equal(t, 1, report.Histogram[opcode.KindPoint])
}

func TestAnalyzeIdempotent(t *testing.T) {
	model := pattern.NewModel([]pattern.Command{
		point(1, 2, opcode.TierVerified),
		point(3, 4, opcode.TierVerified),
	})

	first := Analyze(model)
	second := Analyze(model)

	assert.Equal(t, first.CommandCount, second.CommandCount)
	assert.Equal(t, first.StitchCount, second.StitchCount)
	assert.Equal(t, first.CoordinateRange, second.CoordinateRange)
	assert.Equal(t, first.PathLength, second.PathLength)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.False(t, model.Dirty())
}

func TestAggregateConfidence(t *testing.T) {
	tests := []struct {
		name     string
		commands []pattern.Command
		expected Confidence
	}{
		{
			name: "all verified reads high",
			commands: []pattern.Command{
				point(1, 1, opcode.TierVerified),
				point(2, 2, opcode.TierVerified),
			},
			expected: ConfidenceHigh,
		},
		{
			name: "probable caps at medium",
			commands: []pattern.Command{
				point(1, 1, opcode.TierVerified),
				command(opcode.KindSeparator, opcode.TierProbable),
			},
			expected: ConfidenceMedium,
		},
		{
			name: "single speculative command caps at low",
			commands: []pattern.Command{
				point(1, 1, opcode.TierVerified),
				point(2, 2, opcode.TierVerified),
				point(3, 3, opcode.TierVerified),
				command(opcode.KindUnknown, opcode.TierSpeculative),
				point(4, 4, opcode.TierVerified),
			},
			expected: ConfidenceLow,
		},
		{
			name: "speculative wins over probable",
			commands: []pattern.Command{
				command(opcode.KindSeparator, opcode.TierProbable),
				command(opcode.KindArc, opcode.TierSpeculative),
			},
			expected: ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Analyze(pattern.NewModel(tt.commands))
			assert.Equal(t, tt.expected, report.Confidence)
		})
	}
}

func TestConfidenceString(t *testing.T) {
	assert.Equal(t, "low", ConfidenceLow.String())
	assert.Equal(t, "medium", ConfidenceMedium.String())
	assert.Equal(t, "high", ConfidenceHigh.String())
}
