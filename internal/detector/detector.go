// Package detector handles pattern file detection.
package detector

import (
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
)

// Detector identifies pattern files by their numbered file extension.
// All pattern extensions share the identical internal layout, the number
// carries no format information.
type Detector struct {
	logger *log.Logger
}

// New creates a new pattern file detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// IsPatternFile returns whether the file name carries a numbered pattern
// extension like .100 or .118.
func (d *Detector) IsPatternFile(filename string) bool {
	ext := filepath.Ext(filename)
	if len(ext) != 4 {
		return false
	}
	for _, r := range ext[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	d.logger.Debug("Detected pattern file",
		log.String("file", filename),
		log.String("extension", ext))
	return true
}
