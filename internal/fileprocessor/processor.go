// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"

	"github.com/DoTankCenter/plkgodisasm/internal/decoder"
	"github.com/DoTankCenter/plkgodisasm/internal/detector"
	"github.com/DoTankCenter/plkgodisasm/internal/encoder"
	"github.com/DoTankCenter/plkgodisasm/internal/export"
	"github.com/DoTankCenter/plkgodisasm/internal/loader"
	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
	"github.com/DoTankCenter/plkgodisasm/internal/options"
	"github.com/DoTankCenter/plkgodisasm/internal/pattern"
	"github.com/DoTankCenter/plkgodisasm/internal/validator"
)

// Processor runs the decode, analyze and export workflow over pattern files.
type Processor struct {
	logger   *log.Logger
	opts     options.Program
	detector *detector.Detector
	loader   *loader.Loader
	decoder  *decoder.Decoder
	encoder  *encoder.Encoder

	decoderOpts options.Decoder
}

// New creates a new file processor.
func New(logger *log.Logger, table *opcode.Table, opts options.Program,
	decoderOpts options.Decoder) *Processor {

	return &Processor{
		logger:      logger,
		opts:        opts,
		detector:    detector.New(logger),
		loader:      loader.New(),
		decoder:     decoder.New(table, decoderOpts),
		encoder:     encoder.New(table),
		decoderOpts: decoderOpts,
	}
}

// GetFilesToProcess returns the list of files to process based on options.
// A batch argument can be a glob pattern or a directory; directory contents
// are filtered down to numbered pattern extensions.
func (p *Processor) GetFilesToProcess() ([]string, error) {
	if p.opts.Batch == "" {
		return []string{p.opts.Input}, nil
	}

	info, err := os.Stat(p.opts.Batch)
	if err == nil && info.IsDir() {
		return p.patternFilesInDirectory(p.opts.Batch)
	}

	matches, err := filepath.Glob(p.opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}
	return matches, nil
}

func (p *Processor) patternFilesInDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if p.detector.IsPatternFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// ProcessAll processes all files with bounded concurrency. A failure on one
// file is logged and does not abort processing of the remaining files; only
// context cancellation stops the batch.
func (p *Processor) ProcessAll(ctx context.Context, files []string) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.opts.Workers)

	for _, file := range files {
		group.Go(func() error {
			if err := p.ProcessFile(ctx, file); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				p.logger.Error("Decoding failed",
					log.String("file", file),
					log.Err(err))
			}
			return nil
		})
	}

	return group.Wait()
}

// ProcessFile decodes one pattern file, analyzes it and writes the exports.
func (p *Processor) ProcessFile(ctx context.Context, file string) error {
	data, err := p.loader.Load(file)
	if err != nil {
		return fmt.Errorf("loading pattern: %w", err)
	}

	commands, err := p.decoder.Decode(ctx, data)
	if err != nil {
		return fmt.Errorf("decoding pattern: %w", err)
	}

	model := pattern.NewModel(commands)
	report := validator.Analyze(model)
	p.logReport(file, len(data), report)

	if p.opts.Verify {
		p.verifyRoundTrip(ctx, file, model)
	}

	if err := p.writeExports(file, commands); err != nil {
		return err
	}
	return nil
}

// verifyRoundTrip re-encodes the model and compares the re-decoded command
// sequence. A mismatch indicates the format model itself may be incomplete;
// it is reported as a warning, not a failure.
func (p *Processor) verifyRoundTrip(ctx context.Context, file string, model *pattern.Model) {
	err := p.encoder.Verify(ctx, model, p.decoderOpts)
	var mismatch *encoder.MismatchError
	switch {
	case err == nil:
		p.logger.Debug("Round trip verified", log.String("file", file))
	case errors.As(err, &mismatch):
		p.logger.Warn("Encode round trip mismatch, format model may be incomplete",
			log.String("file", file),
			log.Err(mismatch))
	default:
		p.logger.Warn("Round trip verification failed",
			log.String("file", file),
			log.Err(err))
	}
}

func (p *Processor) logReport(file string, size int, report validator.Report) {
	if p.opts.Quiet {
		return
	}

	fields := []log.Field{
		log.String("file", file),
		log.String("size", datasize.ByteSize(size).HumanReadable()),
		log.Int("commands", report.CommandCount),
		log.Int("stitches", report.StitchCount),
		log.Stringer("confidence", report.Confidence),
	}
	if report.HasCoordinates {
		fields = append(fields,
			log.Int("min_x", int(report.CoordinateRange.MinX)),
			log.Int("max_x", int(report.CoordinateRange.MaxX)),
			log.Int("min_y", int(report.CoordinateRange.MinY)),
			log.Int("max_y", int(report.CoordinateRange.MaxY)),
			log.String("path_length", fmt.Sprintf("%.1f", report.PathLength)),
		)
	}
	p.logger.Info("Decoded pattern", fields...)

	if report.Histogram[opcode.KindUnknown] > 0 {
		p.logger.Warn("Pattern contains unrecognized data",
			log.String("file", file),
			log.Int("unknown_commands", report.Histogram[opcode.KindUnknown]))
	}
}

func (p *Processor) writeExports(file string, commands []pattern.Command) error {
	csvName := p.opts.Output
	if p.opts.Batch != "" || csvName == "" {
		csvName = GenerateOutputFilename(file, ".csv")
	}
	if p.opts.Output == "" && p.opts.Batch == "" {
		if err := export.NewCSV().Export(os.Stdout, commands); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
	} else {
		if err := p.exportToFile(csvName, export.NewCSV(), commands); err != nil {
			return err
		}
	}

	if p.opts.GCode {
		gcodeName := GenerateOutputFilename(file, ".gcode")
		if err := p.exportToFile(gcodeName, export.NewGCode(p.opts.GCodeScale), commands); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) exportToFile(filename string, exporter export.Exporter,
	commands []pattern.Command) error {

	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", filename, err)
	}
	if err := exporter.Export(out, commands); err != nil {
		_ = out.Close()
		return fmt.Errorf("exporting to %s: %w", filename, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output file %s: %w", filename, err)
	}

	p.logger.Debug("Wrote export", log.String("file", filename))
	return nil
}

// GenerateOutputFilename generates an output filename for a given input file.
func GenerateOutputFilename(inputFile, newExtension string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + newExtension
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("plkgodisasm", log.String("version", buildinfo.Version(version, commit, date)))
}
