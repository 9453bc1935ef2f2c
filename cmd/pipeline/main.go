// Command pipeline runs the grades data pipeline end to end:
//
//	pipeline                                     # prepare only, local files
//	pipeline -download-raw                       # fetch raw data first
//	pipeline -upload-processed                   # push results to the bucket
//	pipeline -download-raw -upload-processed     # full run
//	pipeline -prepare-only                       # alias for the default
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/ryanbbrown/ut-grades-dashboard/internal/config"
	"github.com/ryanbbrown/ut-grades-dashboard/internal/dataprocessing"
	"github.com/ryanbbrown/ut-grades-dashboard/internal/exporter"
	"github.com/ryanbbrown/ut-grades-dashboard/internal/infrastructure"
	"github.com/ryanbbrown/ut-grades-dashboard/internal/storage"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the YAML config file")
	downloadRaw := flag.Bool("download-raw", false, "download raw data from public URLs before processing")
	uploadProcessed := flag.Bool("upload-processed", false, "upload processed data to the bucket after processing")
	prepareOnly := flag.Bool("prepare-only", false, "only run data preparation, no transfer steps")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logCfg := cfg.Logging
	if logCfg.FilePath == "" {
		logCfg.FilePath = paths.GetLogPath("pipeline.log")
	}
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	logger.InfoContext(ctx, "starting pipeline run",
		slog.String("version", contracts.Version),
		slog.Bool("download_raw", *downloadRaw),
		slog.Bool("upload_processed", *uploadProcessed),
		slog.Bool("prepare_only", *prepareOnly),
		slog.String("data_dir", paths.DataDir))

	if *downloadRaw && !*prepareOnly {
		downloader := storage.NewDownloader(logger)
		if err := downloader.DownloadRawData(ctx, cfg.Pipeline.RawDataURLs, paths.RawDir); err != nil {
			logger.ErrorContext(ctx, "raw data download failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	sink := exporter.NewCSVSink(logger, paths)
	processor := dataprocessing.NewProcessor(logger, paths, cfg.Pipeline, sink)

	report, err := processor.Run(ctx)
	if report != nil {
		report.Log(ctx, logger)
	}
	if err != nil {
		logger.ErrorContext(ctx, "pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *uploadProcessed && !*prepareOnly {
		uploader, err := storage.NewUploader(ctx, logger, cfg.Storage)
		if err != nil {
			logger.ErrorContext(ctx, "failed to configure uploader", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := uploader.UploadProcessed(ctx, paths.ProcessedDir); err != nil {
			logger.ErrorContext(ctx, "processed data upload failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "pipeline finished")
}
