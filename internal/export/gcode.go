package export

import (
	"fmt"
	"io"

	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

// GCode exports coordinate-bearing commands as G-code motion instructions,
// preserving command order. Stitch points become feed moves, other motion
// commands become rapid moves.
type GCode struct {
	scale float64 // raw machine units per millimetre, an approximation
}

// NewGCode creates a G-code exporter. The scale divisor converts raw machine
// units to millimetres; it is an unverified approximation of the format and
// therefore always caller-supplied.
func NewGCode(scale float64) *GCode {
	if scale <= 0 {
		scale = options.DefaultGCodeScale
	}
	return &GCode{scale: scale}
}

// Export writes the motion commands as G-code.
func (g *GCode) Export(w io.Writer, commands []pattern.Command) error {
	if _, err := fmt.Fprintf(w, "G21 ; units: mm (raw units / %.1f)\nG90 ; absolute positioning\n", g.scale); err != nil {
		return fmt.Errorf("writing G-code preamble: %w", err)
	}

	for _, cmd := range commands {
		if err := g.writeCommand(w, cmd); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "M30 ; end of program"); err != nil {
		return fmt.Errorf("writing G-code trailer: %w", err)
	}
	return nil
}

func (g *GCode) writeCommand(w io.Writer, cmd pattern.Command) error {
	coord, ok := cmd.Coordinate()
	if !ok {
		if code, isFunc := cmd.FunctionCode(); isFunc {
			if _, err := fmt.Fprintf(w, "; function: %s\n", code.Name()); err != nil {
				return fmt.Errorf("writing G-code comment: %w", err)
			}
		}
		return nil
	}

	word := "G0"
	if cmd.Kind == opcode.KindPoint {
		word = "G1"
	}

	x := float64(coord.X) / g.scale
	y := float64(coord.Y) / g.scale
	if _, err := fmt.Fprintf(w, "%s X%.3f Y%.3f\n", word, x, y); err != nil {
		return fmt.Errorf("writing G-code move: %w", err)
	}
	return nil
}
