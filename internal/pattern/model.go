package pattern

import (
	"fmt"
	"math"

	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
)

// Range is the coordinate extent of a pattern in raw machine units.
type Range struct {
	MinX, MaxX int32
	MinY, MaxY int32
}

// Stats are statistics derived from the command sequence. They are cached by
// the model and recomputed after mutations.
type Stats struct {
	StitchCount int
	Range       Range
	HasRange    bool // false when no command carries coordinates
	Histogram   map[opcode.Kind]int
	PathLength  float64 // accumulated distance over coordinate-bearing commands
}

// Model owns the ordered command sequence of one pattern file. The order is
// the stitch/motion sequence; the model never reorders it. A single logical
// writer at a time is assumed, any multi-writer arbitration is left to the
// caller.
type Model struct {
	commands []Command
	dirty    bool
	stats    *Stats
}

// NewModel creates a model owning the given command sequence.
func NewModel(commands []Command) *Model {
	return &Model{commands: commands}
}

// Commands returns the ordered command sequence. Callers must not modify it.
func (m *Model) Commands() []Command {
	return m.commands
}

// Len returns the number of commands.
func (m *Model) Len() int {
	return len(m.commands)
}

// At returns the command at index i.
func (m *Model) At(i int) (Command, error) {
	if i < 0 || i >= len(m.commands) {
		return Command{}, fmt.Errorf("command index %d out of range [0,%d)", i, len(m.commands))
	}
	return m.commands[i], nil
}

// Dirty reports whether the model was mutated since it was created or saved.
func (m *Model) Dirty() bool {
	return m.dirty
}

// MarkSaved clears the dirty flag after the model has been persisted.
func (m *Model) MarkSaved() {
	m.dirty = false
}

// Insert inserts a command at index i.
func (m *Model) Insert(i int, cmd Command) error {
	if i < 0 || i > len(m.commands) {
		return fmt.Errorf("insert index %d out of range [0,%d]", i, len(m.commands))
	}
	m.commands = append(m.commands[:i], append([]Command{cmd}, m.commands[i:]...)...)
	m.mutated()
	return nil
}

// Remove removes the command at index i.
func (m *Model) Remove(i int) error {
	if i < 0 || i >= len(m.commands) {
		return fmt.Errorf("remove index %d out of range [0,%d)", i, len(m.commands))
	}
	m.commands = append(m.commands[:i], m.commands[i+1:]...)
	m.mutated()
	return nil
}

// Replace replaces the command at index i.
func (m *Model) Replace(i int, cmd Command) error {
	if i < 0 || i >= len(m.commands) {
		return fmt.Errorf("replace index %d out of range [0,%d)", i, len(m.commands))
	}
	m.commands[i] = cmd
	m.mutated()
	return nil
}

// ReplaceCoordinate replaces the coordinate pair of the command at index i.
// The command must be coordinate-bearing.
func (m *Model) ReplaceCoordinate(i int, coord Coordinate) error {
	if i < 0 || i >= len(m.commands) {
		return fmt.Errorf("replace index %d out of range [0,%d)", i, len(m.commands))
	}
	cmd := m.commands[i]
	if !cmd.Kind.HasCoordinates() || len(cmd.Params) < 2 {
		return fmt.Errorf("command %d (%s) carries no coordinates", i, cmd.Kind)
	}
	params := make([]Param, len(cmd.Params))
	copy(params, cmd.Params)
	params[0].Value = int64(coord.X)
	params[1].Value = int64(coord.Y)
	cmd.Params = params
	m.commands[i] = cmd
	m.mutated()
	return nil
}

func (m *Model) mutated() {
	m.dirty = true
	m.stats = nil
}

// Stats returns the derived statistics, computing and caching them on first
// use. The cache is invalidated by any mutation.
func (m *Model) Stats() Stats {
	if m.stats != nil {
		return *m.stats
	}

	stats := Stats{Histogram: make(map[opcode.Kind]int)}
	var prev Coordinate
	hasPrev := false

	for _, cmd := range m.commands {
		stats.Histogram[cmd.Kind]++

		if cmd.Kind == opcode.KindPoint {
			stats.StitchCount++
		}

		coord, ok := cmd.Coordinate()
		if !ok {
			continue
		}
		if !stats.HasRange {
			stats.Range = Range{MinX: coord.X, MaxX: coord.X, MinY: coord.Y, MaxY: coord.Y}
			stats.HasRange = true
		} else {
			stats.Range.MinX = min(stats.Range.MinX, coord.X)
			stats.Range.MaxX = max(stats.Range.MaxX, coord.X)
			stats.Range.MinY = min(stats.Range.MinY, coord.Y)
			stats.Range.MaxY = max(stats.Range.MaxY, coord.Y)
		}
		if hasPrev {
			dx := float64(coord.X - prev.X)
			dy := float64(coord.Y - prev.Y)
			stats.PathLength += math.Sqrt(dx*dx + dy*dy)
		}
		prev = coord
		hasPrev = true
	}

	m.stats = &stats
	return stats
}
