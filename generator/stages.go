package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// runAnalyst analyzes the raw facts and determines document structure.
func (p *Pipeline) runAnalyst(ctx context.Context, req GenerationRequest) Outcome[AnalystPayload] {
	raw, err := p.llm.Complete(ctx, BuildAnalystPrompt(req))
	if err != nil {
		return failure[AnalystPayload]("", fmt.Errorf("analyst: %w", err))
	}
	var payload AnalystPayload
	attempt, err := decodePayload(raw, &payload)
	if err != nil {
		return failure[AnalystPayload](raw, fmt.Errorf("analyst: %w", err))
	}
	slog.Debug("analyst payload decoded", "strategy", attempt.Strategy.String())
	return success(payload, raw)
}

// runDrafter generates the full document sections, consuming the response
// stream completely before decoding. Progress callbacks are rate-bounded so a
// chatty stream cannot flood the caller.
func (p *Pipeline) runDrafter(ctx context.Context, req GenerationRequest, analysis AnalystPayload, progress ProgressFunc) Outcome[DrafterPayload] {
	var (
		chars    int
		lastEmit time.Time
	)
	raw, err := p.llm.CompleteStream(ctx, BuildDrafterPrompt(req, analysis), func(delta string) {
		chars += len([]rune(delta))
		if progress == nil {
			return
		}
		if now := p.now(); now.Sub(lastEmit) >= p.progressInterval {
			lastEmit = now
			progress(StageDrafter, fmt.Sprintf("נוסחו %d תווים", chars))
		}
	})
	if err != nil {
		return failure[DrafterPayload]("", fmt.Errorf("drafter: %w", err))
	}
	var payload DrafterPayload
	attempt, err := decodePayload(raw, &payload)
	if err != nil {
		return failure[DrafterPayload](raw, fmt.Errorf("drafter: %w", err))
	}
	slog.Debug("drafter payload decoded", "strategy", attempt.Strategy.String(), "sections", len(payload.Sections))
	return success(payload, raw)
}

// runVerifier validates amounts and section completeness. Failures are
// non-fatal; the orchestrator keeps the drafter's sections.
func (p *Pipeline) runVerifier(ctx context.Context, req GenerationRequest, draft DrafterPayload) Outcome[VerifierPayload] {
	raw, err := p.llm.Complete(ctx, BuildVerifierPrompt(req, draft))
	if err != nil {
		return failure[VerifierPayload]("", fmt.Errorf("verifier: %w", err))
	}
	var payload VerifierPayload
	attempt, err := decodePayload(raw, &payload)
	if err != nil {
		return failure[VerifierPayload](raw, fmt.Errorf("verifier: %w", err))
	}
	slog.Debug("verifier payload decoded", "strategy", attempt.Strategy.String())
	return success(payload, raw)
}
