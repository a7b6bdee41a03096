package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/nao1215/imgshield/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, review *model.ImageReview) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, review *model.ImageReview) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, review)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})

	t.Run("applies WithLogger option", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		p := New(WithLogger(logger))

		if p.logger != logger {
			t.Error("expected custom logger")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "test-step"})

		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

		names := p.StepNames()
		expected := []string{"first", "second", "third"}
		if len(names) != len(expected) {
			t.Fatalf("expected %d names, got %d", len(expected), len(names))
		}
		for i, name := range expected {
			if names[i] != name {
				t.Errorf("step %d: expected %q, got %q", i, name, names[i])
			}
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)

		p := New()
		p.AddStep(&mockStep{
			name: "step-1",
			doFunc: func(_ context.Context, _ *model.ImageReview) error {
				executionOrder = append(executionOrder, "step-1")
				return nil
			},
		})
		p.AddStep(&mockStep{
			name: "step-2",
			doFunc: func(_ context.Context, _ *model.ImageReview) error {
				executionOrder = append(executionOrder, "step-2")
				return nil
			},
		})

		review := model.NewImageReview("shot.png")
		if err := p.Execute(t.Context(), review); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(executionOrder) != 2 || executionOrder[0] != "step-1" || executionOrder[1] != "step-2" {
			t.Errorf("wrong execution order: %v", executionOrder)
		}
	})

	t.Run("later steps see what earlier steps recorded", func(t *testing.T) {
		t.Parallel()

		var seen string
		p := New()
		p.AddStep(&mockStep{
			name: "writer",
			doFunc: func(_ context.Context, review *model.ImageReview) error {
				review.Digest = "abc"
				return nil
			},
		})
		p.AddStep(&mockStep{
			name: "reader",
			doFunc: func(_ context.Context, review *model.ImageReview) error {
				seen = review.Digest
				return nil
			},
		})

		if err := p.Execute(t.Context(), model.NewImageReview("shot.png")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != "abc" {
			t.Errorf("expected reader to see digest, got %q", seen)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ImageReview) error {
				return expectedErr
			},
		})
		p.AddStep(second)

		err := p.Execute(t.Context(), model.NewImageReview("shot.png"))

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true))
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ImageReview) error {
				return errors.New("step failed")
			},
		})
		p.AddStep(second)

		review := model.NewImageReview("shot.png")
		if err := p.Execute(t.Context(), review); err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if second.callCount != 1 {
			t.Error("second step should have been called")
		}
		if len(review.PerformedSteps) != 2 {
			t.Errorf("expected both steps recorded, got %v", review.PerformedSteps)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New()
		p.AddStep(step)

		review := model.NewImageReview("shot.png")
		err := p.Execute(ctx, review)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if !review.TimedOut {
			t.Error("review.TimedOut should be true")
		}
	})

	t.Run("records error in review", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("test error")

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ImageReview) error {
				return expectedErr
			},
		})

		review := model.NewImageReview("shot.png")
		_ = p.Execute(t.Context(), review) //nolint:errcheck // checked via review.Error

		if !errors.Is(review.Error, expectedErr) {
			t.Error("expected error to be recorded in review")
		}
		if review.ErrorMessage != expectedErr.Error() {
			t.Errorf("expected error message %q, got %q", expectedErr.Error(), review.ErrorMessage)
		}
	})
}

// TestPipelineStepNames tests the StepNames method.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	t.Run("returns empty slice for empty pipeline", func(t *testing.T) {
		t.Parallel()

		names := New().StepNames()
		if names == nil || len(names) != 0 {
			t.Errorf("expected empty slice, got %v", names)
		}
	})
}
