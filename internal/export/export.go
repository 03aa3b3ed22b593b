// Package export implements output formats for decoded pattern command
// sequences. Exporters are pure transformations over the ordered command
// sequence; the decoder core has no dependency on them.
package export

import (
	"io"

	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

// Exporter writes an ordered command sequence to an output stream.
type Exporter interface {
	Export(w io.Writer, commands []pattern.Command) error
}
