package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/imgshield/internal/database"
	"github.com/nao1215/imgshield/internal/model"
)

// Step names.
const (
	StepDigest   = "digest"
	StepMetadata = "metadata"
	StepUpload   = "upload"
	StepHistory  = "history"
)

// ErrNoResponse is returned by HistoryStep when no analysis was received.
var ErrNoResponse = errors.New("no analysis response to record")

// MetadataInspector finds privacy leaks in an image file's metadata.
type MetadataInspector interface {
	InspectFile(ctx context.Context, path string) ([]model.Finding, error)
}

// Analyzer sends an image to the analysis endpoint.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*model.AnalysisResponse, error)
}

// ReviewStore persists scores and reviews.
type ReviewStore interface {
	SaveScore(ctx context.Context, entry *model.ScoreEntry, limit int) error
	SaveReview(ctx context.Context, review *model.ImageReview) error
}

// ReviewLookup finds a stored review by image digest.
type ReviewLookup interface {
	LatestReview(ctx context.Context, digest string) (*model.ImageReview, error)
}

// shortDigest keeps log lines readable.
func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

// DigestStep fingerprints the image contents.
type DigestStep struct{}

// NewDigestStep creates a new digest step.
func NewDigestStep() *DigestStep {
	return &DigestStep{}
}

// Name returns the step name.
func (s *DigestStep) Name() string {
	return StepDigest
}

// Do reads the image and stores its digest in the review.
func (s *DigestStep) Do(_ context.Context, review *model.ImageReview) error {
	data, err := os.ReadFile(review.Image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	review.Digest = database.Digest(data)
	return nil
}

// MetadataStep adds EXIF findings to the review.
type MetadataStep struct {
	inspector MetadataInspector
	logger    *slog.Logger
}

// NewMetadataStep creates a new metadata step.
func NewMetadataStep(inspector MetadataInspector, logger *slog.Logger) *MetadataStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataStep{inspector: inspector, logger: logger}
}

// Name returns the step name.
func (s *MetadataStep) Name() string {
	return StepMetadata
}

// Do inspects the image metadata.
func (s *MetadataStep) Do(ctx context.Context, review *model.ImageReview) error {
	findings, err := s.inspector.InspectFile(ctx, review.Image)
	if err != nil {
		return fmt.Errorf("metadata inspection: %w", err)
	}
	for _, f := range findings {
		review.AddFinding(f)
	}
	s.logger.Debug("metadata inspected", "image", review.Image, "findings", len(findings))
	return nil
}

// UploadStep sends the image to the analysis endpoint.
type UploadStep struct {
	analyzer Analyzer
	cache    ReviewLookup
	logger   *slog.Logger
}

// UploadStepOption configures an UploadStep.
type UploadStepOption func(*UploadStep)

// WithReviewCache reuses a stored successful response for an image with the
// same digest instead of uploading it again.
func WithReviewCache(cache ReviewLookup) UploadStepOption {
	return func(s *UploadStep) {
		s.cache = cache
	}
}

// WithUploadLogger sets a custom logger for the upload step.
func WithUploadLogger(logger *slog.Logger) UploadStepOption {
	return func(s *UploadStep) {
		s.logger = logger
	}
}

// NewUploadStep creates a new upload step.
func NewUploadStep(analyzer Analyzer, opts ...UploadStepOption) *UploadStep {
	s := &UploadStep{
		analyzer: analyzer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *UploadStep) Name() string {
	return StepUpload
}

// Do uploads the image and stores the response.
func (s *UploadStep) Do(ctx context.Context, review *model.ImageReview) error {
	if s.cache != nil && review.Digest != "" {
		cached, err := s.cache.LatestReview(ctx, review.Digest)
		if err != nil {
			s.logger.Warn("review cache lookup failed", "digest", shortDigest(review.Digest), "error", err)
		} else if cached != nil && cached.Response != nil && cached.Response.Success {
			s.logger.Info("reusing stored analysis", "image", review.Image, "digest", shortDigest(review.Digest))
			review.Response = cached.Response
			return nil
		}
	}

	resp, err := s.analyzer.Analyze(ctx, review.Image)
	if err != nil {
		return fmt.Errorf("analysis of %s: %w", filepath.Base(review.Image), err)
	}
	review.Response = resp
	return nil
}

// HistoryStep records the privacy score and the review.
type HistoryStep struct {
	store ReviewStore
	limit int
}

// NewHistoryStep creates a history step keeping at most limit scores.
func NewHistoryStep(store ReviewStore, limit int) *HistoryStep {
	return &HistoryStep{store: store, limit: limit}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return StepHistory
}

// Do saves the review and, when present, the privacy score.
// A response without a score is stored but adds nothing to the score history.
// When an earlier step already failed, a missing response is left to that
// error and nothing is saved.
func (s *HistoryStep) Do(ctx context.Context, review *model.ImageReview) error {
	if review.Response == nil {
		if review.Error != nil {
			return nil
		}
		return ErrNoResponse
	}

	if a := review.Analysis(); a.HasScore() {
		entry := &model.ScoreEntry{
			Score:  *a.PrivacyScore,
			Image:  filepath.Base(review.Image),
			Digest: review.Digest,
		}
		if err := s.store.SaveScore(ctx, entry, s.limit); err != nil {
			return err
		}
		review.ScoreSaved = true
	}

	if review.Digest != "" {
		if err := s.store.SaveReview(ctx, review); err != nil {
			return err
		}
	}
	return nil
}
