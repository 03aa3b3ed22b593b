package export

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
)

// CSV exports one row per command with offset, kind, raw opcode, confidence
// and parameter values.
type CSV struct{}

// NewCSV creates a CSV exporter.
func NewCSV() *CSV {
	return &CSV{}
}

var csvHeader = []string{"index", "offset", "kind", "opcode", "confidence", "x", "y", "parameters", "function", "raw_hex"}

// Export writes the command sequence as CSV rows.
func (c *CSV) Export(w io.Writer, commands []pattern.Command) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, cmd := range commands {
		if err := writer.Write(csvRow(i, cmd)); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV output: %w", err)
	}
	return nil
}

func csvRow(index int, cmd pattern.Command) []string {
	var x, y string
	if coord, ok := cmd.Coordinate(); ok {
		x = strconv.FormatInt(int64(coord.X), 10)
		y = strconv.FormatInt(int64(coord.Y), 10)
	}

	params := make([]string, 0, len(cmd.Params))
	for _, p := range cmd.Params {
		params = append(params, strconv.FormatInt(p.Value, 10))
	}

	var function string
	if code, ok := cmd.FunctionCode(); ok {
		function = code.Name()
	}

	var rawHex string
	if len(cmd.Raw) > 0 {
		rawHex = hex.EncodeToString(cmd.Raw)
	}

	return []string{
		strconv.Itoa(index),
		strconv.Itoa(cmd.Offset),
		cmd.Kind.String(),
		fmt.Sprintf("0x%02x", cmd.Opcode),
		cmd.Tier.String(),
		x,
		y,
		strings.Join(params, " "),
		function,
		rawHex,
	}
}
