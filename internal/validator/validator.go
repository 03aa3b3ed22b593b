// Package validator computes confidence and statistics reports over a
// decoded pattern model.
package validator

import (
	"fmt"

	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

// Confidence is the aggregate trust level of a decoded pattern.
type Confidence uint8

const (
	// ConfidenceLow means at least one command in the sequence carries a
	// speculative interpretation. A single unverified opcode is enough to
	// distrust the interpretation of the whole file for safety-critical use.
	ConfidenceLow Confidence = iota
	// ConfidenceMedium means all interpretations are at least probable but
	// not all of them are verified.
	ConfidenceMedium
	// ConfidenceHigh means every command in the sequence carries a verified
	// interpretation.
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return fmt.Sprintf("confidence(%d)", c)
	}
}

// Report holds the read-only analysis results of a pattern model. Any caller
// presenting decoded output must present the report alongside it; no output
// of this tool claims machine-verified accuracy.
type Report struct {
	CommandCount    int
	StitchCount     int
	CoordinateRange pattern.Range
	HasCoordinates  bool
	Histogram       map[opcode.Kind]int
	PathLength      float64
	Confidence      Confidence
}

// Analyze computes the report for a model without mutating it. Two calls on
// an unmodified model return identical reports.
func Analyze(model *pattern.Model) Report {
	stats := model.Stats()

	return Report{
		CommandCount:    model.Len(),
		StitchCount:     stats.StitchCount,
		CoordinateRange: stats.Range,
		HasCoordinates:  stats.HasRange,
		Histogram:       stats.Histogram,
		PathLength:      stats.PathLength,
		Confidence:      aggregateConfidence(model.Commands()),
	}
}

// aggregateConfidence applies the precautionary rule: one speculative command
// caps the aggregate at low regardless of how many verified commands the
// sequence contains. Only an all-verified sequence reads high.
func aggregateConfidence(commands []pattern.Command) Confidence {
	confidence := ConfidenceHigh
	for _, cmd := range commands {
		switch cmd.Tier {
		case opcode.TierSpeculative:
			return ConfidenceLow
		case opcode.TierProbable:
			confidence = ConfidenceMedium
		}
	}
	return confidence
}
