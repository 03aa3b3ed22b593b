// Package loader handles pattern file loading operations.
package loader

import (
	"fmt"
	"os"
)

// Loader reads pattern files from disk.
type Loader struct{}

// New creates a new pattern file loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the raw bytes of a pattern file. An empty file is rejected here;
// it is the only input condition the decoder treats as a hard failure.
func (l *Loader) Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %s is empty", filename)
	}
	return data, nil
}
