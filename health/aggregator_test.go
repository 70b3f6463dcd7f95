package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticChecker(status Status) Checker {
	return NewCheckerFunc("static", func(ctx context.Context) Result {
		return Result{Status: status}
	})
}

func TestAggregatorCheckAll(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("a", staticChecker(StatusHealthy))
	agg.Register("b", staticChecker(StatusDegraded))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results["a"].Status != StatusHealthy {
		t.Errorf("a = %v, want healthy", results["a"].Status)
	}
	if results["b"].Status != StatusDegraded {
		t.Errorf("b = %v, want degraded", results["b"].Status)
	}
}

func TestAggregatorOverallStatus(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})

	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", map[string]Result{}, StatusHealthy},
		{"all healthy", map[string]Result{
			"a": {Status: StatusHealthy},
			"b": {Status: StatusHealthy},
		}, StatusHealthy},
		{"one degraded", map[string]Result{
			"a": {Status: StatusHealthy},
			"b": {Status: StatusDegraded},
		}, StatusDegraded},
		{"unhealthy dominates", map[string]Result{
			"a": {Status: StatusDegraded},
			"b": {Status: StatusUnhealthy},
		}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregatorCheckNamed(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("ollama", staticChecker(StatusHealthy))

	result, err := agg.Check(context.Background(), "ollama")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}

	if _, err := agg.Check(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(missing) error = %v, want %v", err, ErrCheckerNotFound)
	}
}

func TestAggregatorUnregister(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("a", staticChecker(StatusHealthy))
	agg.Register("b", staticChecker(StatusHealthy))
	agg.Unregister("a")

	names := agg.CheckerNames()
	if len(names) != 1 || names[0] != "b" {
		t.Errorf("CheckerNames() = %v, want [b]", names)
	}
}

func TestAggregatorRegistrationOrder(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("z", staticChecker(StatusHealthy))
	agg.Register("a", staticChecker(StatusHealthy))
	agg.Register("z", staticChecker(StatusDegraded)) // replace keeps position

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "z" || names[1] != "a" {
		t.Errorf("CheckerNames() = %v, want [z a]", names)
	}
}

func TestAggregatorTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		<-ctx.Done()
		return Healthy("too late")
	}))

	results := agg.CheckAll(context.Background())
	if results["stuck"].Status != StatusUnhealthy {
		t.Errorf("stuck = %v, want unhealthy", results["stuck"].Status)
	}
	if !errors.Is(results["stuck"].Error, ErrCheckTimeout) {
		t.Errorf("Error = %v, want %v", results["stuck"].Error, ErrCheckTimeout)
	}
}

func TestAggregatorRecordsDuration(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("slowish", NewCheckerFunc("slowish", func(ctx context.Context) Result {
		time.Sleep(5 * time.Millisecond)
		return Healthy("ok")
	}))

	results := agg.CheckAll(context.Background())
	if results["slowish"].Duration < 5*time.Millisecond {
		t.Errorf("Duration = %v, want >= 5ms", results["slowish"].Duration)
	}
}
