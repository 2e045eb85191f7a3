package generator

import (
	"fmt"
	"time"
)

// Budget tracks elapsed wall-clock time for one pipeline run. It is owned by
// the orchestrator and checked at stage boundaries only; a running stage is
// never interrupted mid-call.
type Budget struct {
	start       time.Time
	total       time.Duration
	verifierMin time.Duration
	now         func() time.Time
}

func newBudget(total, verifierMin time.Duration, now func() time.Time) *Budget {
	if now == nil {
		now = time.Now
	}
	return &Budget{
		start:       now(),
		total:       total,
		verifierMin: verifierMin,
		now:         now,
	}
}

// Elapsed returns the time since the pipeline started.
func (b *Budget) Elapsed() time.Duration {
	return b.now().Sub(b.start)
}

// Remaining returns the time left before the hard deadline; never negative.
func (b *Budget) Remaining() time.Duration {
	r := b.total - b.Elapsed()
	if r < 0 {
		return 0
	}
	return r
}

// AllowsVerifier reports whether enough budget remains for the verifier stage.
func (b *Budget) AllowsVerifier() bool {
	return b.Remaining() >= b.verifierMin
}

// Check returns a BudgetExceededError naming the stage about to run if the
// hard deadline has been crossed.
func (b *Budget) Check(stage string) error {
	if b.Elapsed() >= b.total {
		return &BudgetExceededError{Stage: stage, Elapsed: b.Elapsed()}
	}
	return nil
}

// BudgetExceededError is the only failure the orchestrator propagates to the
// caller; everything else degrades to a reduced draft or a nil result.
type BudgetExceededError struct {
	Stage   string
	Elapsed time.Duration
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("generation budget exceeded before stage %s (elapsed %.1fs)", e.Stage, e.Elapsed.Seconds())
}
