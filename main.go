// Package main implements the main entry point for a pattern file decoder
// for Mitsubishi PLK series sewing machine controllers
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/DoTankCenter/plkgodisasm/internal/cli"
	"github.com/DoTankCenter/plkgodisasm/internal/config"
	"github.com/DoTankCenter/plkgodisasm/internal/fileprocessor"
	"github.com/DoTankCenter/plkgodisasm/internal/opcode"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, decoderOpts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	table := opcode.NewTable()
	if opts.Config != "" {
		file, err := config.LoadFile(opts.Config)
		if err != nil {
			logger.Fatal(err.Error())
		}
		if err := file.Apply(&opts, &decoderOpts, table); err != nil {
			logger.Fatal(err.Error())
		}
	}

	processor := fileprocessor.New(logger, table, opts, decoderOpts)

	files, err := processor.GetFilesToProcess()
	if err != nil {
		logger.Fatal(err.Error())
	}
	if len(files) == 0 {
		logger.Fatal("No pattern files to process")
	}

	if err := processor.ProcessAll(ctx, files); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Processing failed", log.Err(err))
		os.Exit(1)
	}
}
