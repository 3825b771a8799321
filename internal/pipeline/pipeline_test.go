package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Kavibharathi169/webscrapping/internal/model"
)

// recordingStep records executions and optionally fails.
type recordingStep struct {
	name string
	err  error

	mu       sync.Mutex
	executed int
}

func (s *recordingStep) Do(_ context.Context, _ *model.ExtractionResult) error {
	s.mu.Lock()
	s.executed++
	s.mu.Unlock()
	return s.err
}

func (s *recordingStep) Name() string {
	return s.name
}

func (s *recordingStep) executions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executed
}

// orderStep appends its name to a shared log on execution.
type orderStep struct {
	name string
	log  *[]string
}

func (s *orderStep) Do(_ context.Context, _ *model.ExtractionResult) error {
	*s.log = append(*s.log, s.name)
	return nil
}

func (s *orderStep) Name() string {
	return s.name
}

// TestPipelineExecute tests step execution order and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var log []string
		p := New()
		p.AddSteps(
			&orderStep{name: "first", log: &log},
			&orderStep{name: "second", log: &log},
			&orderStep{name: "third", log: &log},
		)

		result := model.NewExtractionResult("https://example.co.jp/")
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(log) != len(want) {
			t.Fatalf("executed %d steps, want %d", len(log), len(want))
		}
		for i, name := range want {
			if log[i] != name {
				t.Errorf("step %d = %q, want %q", i, log[i], name)
			}
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		failing := &recordingStep{name: "failing", err: errors.New("step broke")}
		after := &recordingStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		result := model.NewExtractionResult("https://example.co.jp/")
		err := p.Execute(context.Background(), result)
		if err == nil {
			t.Fatal("expected error from failing step")
		}
		if after.executions() != 0 {
			t.Error("steps after the failing one should not execute")
		}
		if result.ErrorMessage != "step broke" {
			t.Errorf("ErrorMessage = %q, want %q", result.ErrorMessage, "step broke")
		}
	})

	t.Run("continue on error executes remaining steps", func(t *testing.T) {
		t.Parallel()

		failing := &recordingStep{name: "failing", err: errors.New("step broke")}
		after := &recordingStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		result := model.NewExtractionResult("https://example.co.jp/")
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatalf("unexpected error with continueOnError: %v", err)
		}
		if after.executions() != 1 {
			t.Error("steps after the failing one should still execute")
		}
		if result.Error == nil {
			t.Error("step error should be recorded in the result")
		}
	})

	t.Run("cancelled context stops execution", func(t *testing.T) {
		t.Parallel()

		step := &recordingStep{name: "never"}
		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := model.NewExtractionResult("https://example.co.jp/")
		err := p.Execute(ctx, result)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if step.executions() != 0 {
			t.Error("no steps should execute after cancellation")
		}
		if !errors.Is(result.Error, context.Canceled) {
			t.Error("cancellation should be recorded in the result")
		}
	})
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	if p.StepCount() != 0 {
		t.Errorf("new pipeline has %d steps, want 0", p.StepCount())
	}

	p.AddStep(&recordingStep{name: "crawl"})
	p.AddSteps(&recordingStep{name: "persist"}, &recordingStep{name: "report"})

	if p.StepCount() != 3 {
		t.Fatalf("StepCount = %d, want 3", p.StepCount())
	}

	names := p.StepNames()
	want := []string{"crawl", "persist", "report"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("StepNames()[%d] = %q, want %q", i, names[i], name)
		}
	}
}
