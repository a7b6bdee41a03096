package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/imgshield/internal/model"
)

// DefaultConcurrency is the number of images reviewed at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// BatchProcessor handles concurrent review of multiple images.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each image.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent reviews.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reviews, in input order.
	results []*model.ImageReview
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent reviews.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor. pipelineFactory is called
// once per image so that no pipeline state is shared between reviews.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*model.ImageReview, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch reviews multiple images concurrently.
//
// Returns all reviews in input order, including failed ones. Images that
// were never started because ctx was cancelled have a nil entry, and the
// error is the cancellation cause.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, images []string) ([]*model.ImageReview, error) {
	bp.logger.Info("starting batch review",
		"total_images", len(images),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.ImageReview, len(images))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, image := range images {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("reviewing image",
				"image", image,
				"index", i+1,
				"total", len(images),
			)

			review := model.NewImageReview(image)
			err := bp.pipelineFactory().Execute(ctx, review)

			bp.mu.Lock()
			bp.results[i] = review
			bp.mu.Unlock()

			if err != nil {
				// Recorded in the review; other images continue.
				bp.logger.Warn("review failed",
					"image", image,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("review completed", "image", image)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch review complete",
		"total_images", len(images),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback reviews multiple images and calls callback for
// each completed review with the image's index in images. The callback runs
// on the worker goroutine and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	images []string,
	callback func(review *model.ImageReview, index int),
) error {
	bp.logger.Info("starting batch review with callback",
		"total_images", len(images),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, image := range images {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			review := model.NewImageReview(image)
			_ = bp.pipelineFactory().Execute(ctx, review) //nolint:errcheck // error is stored in review

			callback(review, i)
			return nil
		})
	}

	return g.Wait()
}
