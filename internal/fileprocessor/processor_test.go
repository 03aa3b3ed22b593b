package fileprocessor

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
)

func patternBytes() []byte {
	buf := []byte{0x01, 0x00, 0x61}
	buf = binary.LittleEndian.AppendUint32(buf, 10)
	buf = binary.LittleEndian.AppendUint32(buf, 20)
	buf = append(buf, 0x1F, 0x31, 0x00, 0x00)
	return buf
}

func newTestProcessor(t *testing.T, opts options.Program) *Processor {
	t.Helper()
	logger := log.NewTestLogger(t)
	return New(logger, opcode.NewTable(), opts, options.NewDecoder())
}

func TestGenerateOutputFilename(t *testing.T) {
	assert.Equal(t, "pattern.csv", GenerateOutputFilename("pattern.100", ".csv"))
	assert.Equal(t, "dir/NEW.gcode", GenerateOutputFilename("dir/NEW.109", ".gcode"))
	assert.Equal(t, "noext.csv", GenerateOutputFilename("noext", ".csv"))
}

func TestGetFilesToProcessSingleInput(t *testing.T) {
	processor := newTestProcessor(t, options.Program{Input: "pattern.100"})

	files, err := processor.GetFilesToProcess()
	assert.NoError(t, err)
	assert.Equal(t, []string{"pattern.100"}, files)
}

func TestGetFilesToProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "a.100"), patternBytes(), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "b.118"), patternBytes(), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	processor := newTestProcessor(t, options.Program{Batch: dir, Workers: 1})

	files, err := processor.GetFilesToProcess()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(files))
	for _, file := range files {
		assert.True(t, strings.HasSuffix(file, ".100") || strings.HasSuffix(file, ".118"))
	}
}

func TestGetFilesToProcessGlob(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "a.100"), patternBytes(), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "b.101"), patternBytes(), 0o644))

	processor := newTestProcessor(t, options.Program{Batch: filepath.Join(dir, "*.100"), Workers: 1})

	files, err := processor.GetFilesToProcess()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(files))
}

func TestProcessFileWritesCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.100")
	assert.NoError(t, os.WriteFile(input, patternBytes(), 0o644))

	processor := newTestProcessor(t, options.Program{Batch: dir, Workers: 1, Verify: true})

	assert.NoError(t, processor.ProcessFile(context.Background(), input))

	data, err := os.ReadFile(filepath.Join(dir, "test.csv"))
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 4, len(lines)) // header, separator, point, function
	assert.True(t, strings.Contains(lines[2], "point"))
	assert.True(t, strings.Contains(lines[3], "End Data"))
}

func TestProcessFileWritesGCode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.100")
	assert.NoError(t, os.WriteFile(input, patternBytes(), 0o644))

	processor := newTestProcessor(t, options.Program{
		Batch:      dir,
		Workers:    1,
		GCode:      true,
		GCodeScale: options.DefaultGCodeScale,
	})

	assert.NoError(t, processor.ProcessFile(context.Background(), input))

	data, err := os.ReadFile(filepath.Join(dir, "test.gcode"))
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "G1 X0.100 Y0.200"))
}

func TestProcessAllContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.100")
	valid := filepath.Join(dir, "valid.101")
	assert.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.NoError(t, os.WriteFile(valid, patternBytes(), 0o644))

	processor := newTestProcessor(t, options.Program{Batch: dir, Workers: 2})

	// the empty file fails to load but must not abort the batch
	assert.NoError(t, processor.ProcessAll(context.Background(), []string{empty, valid}))

	_, err := os.Stat(filepath.Join(dir, "valid.csv"))
	assert.NoError(t, err)
}
