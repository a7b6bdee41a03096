package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/imgshield/internal/analysis"
	"github.com/nao1215/imgshield/internal/config"
	"github.com/nao1215/imgshield/internal/database"
	"github.com/nao1215/imgshield/internal/metadata"
	"github.com/nao1215/imgshield/internal/model"
	"github.com/nao1215/imgshield/internal/pipeline"
	"github.com/nao1215/imgshield/internal/report"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [image...]",
		Short: "Check images for private information",
		Long: `Analyze uploads each image to the privacy analysis endpoint and reports:
- The text found in the image and the sensitive data it contains
- The overall risk level, a privacy score and recommendations
- Scenarios describing how the data could be misused
- Metadata leaks such as GPS coordinates and camera serial numbers

Accepted formats are png, jpg, jpeg, gif, bmp and webp up to 16 MiB.
Privacy scores are recorded in a local history (see 'imgshield history').

Examples:
  # Analyze a screenshot
  imgshield analyze screenshot.png

  # Analyze several images, four at a time
  imgshield analyze -n 4 *.png

  # Use another endpoint and write a Markdown report
  imgshield analyze -e https://privacy.example.com/analyze -m -o report.md photo.jpg

  # Reuse the stored result when the same image was analyzed before
  imgshield analyze --reuse screenshot.png`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("endpoint", "e", config.DefaultEndpoint,
		"Analysis endpoint URL")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each analysis request")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of images analyzed in parallel")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .imgshield in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report with a data distribution chart (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("show-empty", false,
		"Show empty categories and sections in text reports")

	cmd.Flags().Bool("no-history", false,
		"Do not record privacy scores in the history")
	cmd.Flags().Bool("reuse", false,
		"Reuse the stored analysis of an identical image instead of uploading it")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// analyzeOptions are the analyze flags that are not part of Config.
type analyzeOptions struct {
	reuse     bool
	showEmpty bool
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, opts, err := buildAnalyzeConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.RequireImages(); err != nil {
		return err
	}

	logger, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	return runAnalyze(ctx, cmd, cfg, opts, logger)
}

// buildAnalyzeConfig creates a Config from the configuration file and flags.
// Flags given on the command line override the file.
func buildAnalyzeConfig(cmd *cobra.Command, args []string) (*config.Config, analyzeOptions, error) {
	cfg := config.NewConfig()
	var opts analyzeOptions
	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, opts, err
	}
	if err := applyConfigFile(cfg); err != nil {
		return nil, opts, err
	}

	if cmd.Flags().Changed("endpoint") {
		cfg.Endpoint, err = cmd.Flags().GetString("endpoint")
		if err != nil {
			return nil, opts, err
		}
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, opts, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, opts, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, opts, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, opts, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, opts, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, opts, err
	}
	cfg.SaveToDB = !noHistory

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, opts, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	opts.reuse, err = cmd.Flags().GetBool("reuse")
	if err != nil {
		return nil, opts, err
	}

	opts.showEmpty, err = cmd.Flags().GetBool("show-empty")
	if err != nil {
		return nil, opts, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Images = args

	return cfg, opts, nil
}

// runAnalyze reviews every image and writes the reports.
func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts analyzeOptions, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"images", len(cfg.Images),
		"endpoint", cfg.Endpoint,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.HistoryDB
	if cfg.SaveToDB || opts.reuse {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	client := analysis.NewClient(cfg, analysis.WithLogger(logger))
	inspector := metadata.NewInspector()

	factory := func() *pipeline.Pipeline {
		return newReviewPipeline(cfg, opts, client, inspector, db, logger)
	}

	output, closeOutput, err := reportOutput(cmd, cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	stderr := cmd.ErrOrStderr()
	startTime := time.Now()

	var reviews []*model.ImageReview
	if len(cfg.Images) > 1 && cfg.Concurrency > 1 {
		reviews, err = runBatchAnalyze(ctx, cfg, opts, factory, output, stderr, logger)
	} else {
		reviews, err = runSequentialAnalyze(ctx, cfg, opts, factory, output, stderr, logger)
	}

	if cfg.JSONReport {
		version := getVersion()
		var werr error
		if len(cfg.Images) == 1 && len(reviews) == 1 && reviews[0] != nil {
			_, werr = report.NewJSONWriter(output, report.WithPrettyPrint()).Write(reviews[0])
		} else {
			_, werr = report.NewJSONWriter(output, report.WithPrettyPrint()).WriteBatch(reviews, version)
		}
		if werr != nil {
			return fmt.Errorf("failed to write report: %w", werr)
		}
	}

	fmt.Fprintf(stderr, "Analysis completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err != nil {
		return err
	}
	return failedReviews(reviews)
}

// newReviewPipeline builds the digest, metadata, upload and history steps.
func newReviewPipeline(
	cfg *config.Config,
	opts analyzeOptions,
	client *analysis.Client,
	inspector *metadata.Inspector,
	db *database.HistoryDB,
	logger *slog.Logger,
) *pipeline.Pipeline {
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)

	uploadOpts := []pipeline.UploadStepOption{pipeline.WithUploadLogger(logger)}
	if opts.reuse && db != nil {
		uploadOpts = append(uploadOpts, pipeline.WithReviewCache(db))
	}

	p.AddSteps(
		pipeline.NewDigestStep(),
		pipeline.NewMetadataStep(inspector, logger),
		pipeline.NewUploadStep(client, uploadOpts...),
	)
	if cfg.SaveToDB && db != nil {
		p.AddStep(pipeline.NewHistoryStep(db, cfg.HistorySize))
	}
	return p
}

// runSequentialAnalyze reviews images one at a time.
func runSequentialAnalyze(
	ctx context.Context,
	cfg *config.Config,
	opts analyzeOptions,
	factory func() *pipeline.Pipeline,
	output, stderr io.Writer,
	logger *slog.Logger,
) ([]*model.ImageReview, error) {
	reviews := make([]*model.ImageReview, 0, len(cfg.Images))

	for _, image := range cfg.Images {
		select {
		case <-ctx.Done():
			return reviews, ctx.Err()
		default:
		}

		fmt.Fprintf(stderr, "Analyzing %s...\n", image)

		review := model.NewImageReview(image)
		if err := factory().Execute(ctx, review); err != nil {
			logger.Error("review failed", "image", image, "error", err)
		}
		reviews = append(reviews, review)

		if err := writeReview(cfg, opts, output, review); err != nil {
			logger.Error("report failed", "image", image, "error", err)
		}
	}

	return reviews, nil
}

// runBatchAnalyze reviews images concurrently using BatchProcessor.
// Reports are written as reviews complete.
func runBatchAnalyze(
	ctx context.Context,
	cfg *config.Config,
	opts analyzeOptions,
	factory func() *pipeline.Pipeline,
	output, stderr io.Writer,
	logger *slog.Logger,
) ([]*model.ImageReview, error) {
	fmt.Fprintf(stderr, "Analyzing %d images (concurrency: %d)...\n\n", len(cfg.Images), cfg.Concurrency)

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	reviews := make([]*model.ImageReview, len(cfg.Images))
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Images, func(review *model.ImageReview, index int) {
		mu.Lock()
		defer mu.Unlock()

		reviews[index] = review
		fmt.Fprintf(stderr, "[%d/%d] Analysis completed: %s\n", index+1, len(cfg.Images), review.Image)

		if err := writeReview(cfg, opts, output, review); err != nil {
			logger.Error("report failed", "image", review.Image, "error", err)
		}
	})

	return reviews, err
}

// writeReview writes a text or Markdown report. JSON reports are written
// once all reviews are done so that the output is a single document.
func writeReview(cfg *config.Config, opts analyzeOptions, output io.Writer, review *model.ImageReview) error {
	if cfg.JSONReport {
		return nil
	}

	var w report.Writer
	if cfg.MarkdownReport {
		w = report.NewMarkdownWriter(output)
	} else {
		w = report.NewSimpleWriter(output,
			report.WithShowEmpty(opts.showEmpty),
			report.WithVerbose(cfg.Verbose),
		)
	}
	_, err := w.Write(review)
	return err
}

// failedReviews returns an error naming how many reviews did not get an analysis.
func failedReviews(reviews []*model.ImageReview) error {
	failed := 0
	for _, r := range reviews {
		if r == nil || r.Response == nil || !r.Response.Success {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d images could not be analyzed", failed, len(reviews))
}
