package generator

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"
)

// Hebrew notes embedded in the returned draft.
const (
	noteVerifySkipped    = "שלב האימות דולג עקב מגבלת זמן"
	noteVerifyIncomplete = "אימות לא הושלם"
	noteDegraded         = "המסמך נוצר בתצורה מופחתת מטקסט גולמי"
	noteMissingClaim     = "רכיב תביעה שנבחר לא נוסח: "
)

// Options configures a Pipeline. Zero values fall back to the production
// defaults; Now exists for tests.
type Options struct {
	TotalBudget      time.Duration
	VerifierMin      time.Duration
	ProgressInterval time.Duration
	Now              func() time.Time
}

// Pipeline sequences the analyst, drafter and verifier stages under a shared
// wall-clock budget. It holds no per-run state: a Pipeline is safe to share
// across concurrent invocations as long as the LLM client is.
type Pipeline struct {
	llm              LLMClient
	totalBudget      time.Duration
	verifierMin      time.Duration
	progressInterval time.Duration
	now              func() time.Time
}

func New(llm LLMClient, opts Options) (*Pipeline, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	p := &Pipeline{
		llm:              llm,
		totalBudget:      opts.TotalBudget,
		verifierMin:      opts.VerifierMin,
		progressInterval: opts.ProgressInterval,
		now:              opts.Now,
	}
	if p.totalBudget <= 0 {
		p.totalBudget = 110 * time.Second
	}
	if p.verifierMin <= 0 {
		p.verifierMin = 20 * time.Second
	}
	if p.progressInterval <= 0 {
		p.progressInterval = 500 * time.Millisecond
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Run executes the pipeline. It returns (nil, nil) on total failure, in which
// case the caller should fall back to the deterministic template path. The
// only error ever returned is a *BudgetExceededError raised at a stage
// boundary; every other failure is absorbed into a reduced draft.
func (p *Pipeline) Run(ctx context.Context, req GenerationRequest, progress ProgressFunc) (*DocumentDraft, error) {
	budget := newBudget(p.totalBudget, p.verifierMin, p.now)
	stagesCompleted := 0
	var notes []string

	slog.Info("pipeline starting", "selected_claims", len(req.Selected))

	// Stage 1: Analyst. Non-fatal: an empty analysis still lets the drafter
	// produce the standard skeleton.
	var analysis AnalystPayload
	emit(progress, StageAnalyst, "מנתח את עובדות התיק")
	if out := p.runStage1(ctx, budget, req); out.OK() {
		analysis = out.Payload
		stagesCompleted++
		slog.Info("analyst completed", "elapsed_s", roundTenth(budget.Elapsed()), "sections_identified", len(analysis.SectionsRequired))
	} else {
		slog.Warn("analyst failed, continuing with empty analysis", "error", out.Err)
	}

	if err := budget.Check(StageDrafter); err != nil {
		return nil, err
	}

	// Stage 2: Drafter (streamed). On failure the fallback strategy gets one
	// attempt; if that also fails the caller uses the template path.
	emit(progress, StageDrafter, "מנסח את כתב התביעה")
	draft := p.runStage2(ctx, budget, req, analysis, progress)
	if draft.OK() {
		stagesCompleted++
		slog.Info("drafter completed", "elapsed_s", roundTenth(budget.Elapsed()), "sections", len(draft.Payload.Sections))
	} else {
		slog.Warn("drafter failed, invoking fallback", "error", draft.Err)
		if err := budget.Check(StageFallback); err != nil {
			return nil, err
		}
		emit(progress, StageFallback, "מפעיל מסלול ניסוח מקוצר")
		draft = p.runStageFallback(ctx, budget, req)
		if !draft.OK() {
			slog.Error("fallback failed, no draft produced", "error", draft.Err)
			return nil, nil
		}
		stagesCompleted++
		slog.Info("fallback completed", "elapsed_s", roundTenth(budget.Elapsed()), "degraded", draft.Payload.Degraded)
	}
	if draft.Payload.Degraded {
		notes = append(notes, noteDegraded)
	}

	// Stage 3: Verifier. Non-fatal, and skipped entirely when the remaining
	// budget is below its minimum threshold.
	finalSections := draft.Payload.Sections
	if budget.AllowsVerifier() {
		emit(progress, StageVerifier, "מאמת סכומים וסעיפים")
		if out := p.runStage3(ctx, budget, req, draft.Payload); out.OK() {
			stagesCompleted++
			if len(out.Payload.VerifiedSections) > 0 {
				finalSections = out.Payload.VerifiedSections
			}
			notes = append(notes, out.Payload.VerificationNotes...)
			slog.Info("verifier completed", "elapsed_s", roundTenth(budget.Elapsed()), "amounts_verified", out.Payload.AmountsVerified)
		} else {
			slog.Warn("verifier failed, keeping drafter output", "error", out.Err)
			notes = append(notes, noteVerifyIncomplete)
		}
	} else {
		slog.Info("skipping verifier", "remaining_s", roundTenth(budget.Remaining()))
		notes = append(notes, noteVerifySkipped)
	}

	doc := merge(req, analysis, draft.Payload, finalSections, notes)
	doc.Timing = StageTiming{
		TotalSeconds:    roundTenth(budget.Elapsed()),
		StagesCompleted: stagesCompleted,
	}
	normalizeDraft(doc, req.Gender)

	slog.Info("pipeline completed", "total_s", doc.Timing.TotalSeconds, "stages_completed", stagesCompleted)
	return doc, nil
}

// Stage wrappers bound each remote call's context by the remaining budget, so
// a hung call cannot outlive the hard deadline by more than the transport
// timeout. Budget accounting itself happens only at stage boundaries.

func (p *Pipeline) runStage1(ctx context.Context, b *Budget, req GenerationRequest) Outcome[AnalystPayload] {
	sctx, cancel := context.WithTimeout(ctx, b.Remaining())
	defer cancel()
	return p.runAnalyst(sctx, req)
}

func (p *Pipeline) runStage2(ctx context.Context, b *Budget, req GenerationRequest, analysis AnalystPayload, progress ProgressFunc) Outcome[DrafterPayload] {
	sctx, cancel := context.WithTimeout(ctx, b.Remaining())
	defer cancel()
	return p.runDrafter(sctx, req, analysis, progress)
}

func (p *Pipeline) runStageFallback(ctx context.Context, b *Budget, req GenerationRequest) Outcome[DrafterPayload] {
	sctx, cancel := context.WithTimeout(ctx, b.Remaining())
	defer cancel()
	return p.runFallback(sctx, req)
}

func (p *Pipeline) runStage3(ctx context.Context, b *Budget, req GenerationRequest, draft DrafterPayload) Outcome[VerifierPayload] {
	sctx, cancel := context.WithTimeout(ctx, b.Remaining())
	defer cancel()
	return p.runVerifier(sctx, req, draft)
}

// merge assembles the final draft: sections filtered to the closed claim set,
// authoritative amounts overwriting anything generated, and analyst-detected
// appendices appended when not already present.
func merge(req GenerationRequest, analysis AnalystPayload, draft DrafterPayload, sections []Section, notes []string) *DocumentDraft {
	kept, missing := filterClaimSections(sections, req)
	for _, name := range missing {
		notes = append(notes, noteMissingClaim+name)
	}

	return &DocumentDraft{
		GenderForm:        req.Gender,
		Sections:          kept,
		Appendices:        mergeAppendices(draft.Appendices, analysis.AppendicesDetected),
		Calculations:      authoritativeCalculations(req),
		LegalCitations:    dedupeStrings(draft.LegalCitations),
		SummaryTotal:      req.Total,
		VerificationNotes: notes,
	}
}

// filterClaimSections drops claim sections outside the request's selected set
// and reports selected claims that were never drafted. Skeleton sections
// (כללי, הצדדים, רקע, סיכום and friends) pass through untouched.
func filterClaimSections(sections []Section, req GenerationRequest) ([]Section, []string) {
	selected := make(map[string]bool, len(req.Selected))
	for _, id := range req.Selected {
		selected[id] = true
	}

	kept := make([]Section, 0, len(sections))
	covered := make(map[string]bool)
	for _, sec := range sections {
		id, isClaim := claimForHeader(sec.Header)
		if isClaim && !selected[id] {
			continue
		}
		if isClaim {
			covered[id] = true
		}
		kept = append(kept, sec)
	}

	var missing []string
	for _, id := range req.Selected {
		if !covered[id] {
			missing = append(missing, claimNames[id])
		}
	}
	sort.Strings(missing)
	return kept, missing
}

// claimForHeader matches a section header to a known claim. Headers and claim
// names are matched in both directions since drafted headings often carry
// extra qualifiers.
func claimForHeader(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	for id, name := range claimNames {
		if strings.Contains(header, name) || strings.Contains(name, header) {
			return id, true
		}
	}
	return "", false
}

// mergeAppendices deduplicates by appendix number with the drafter winning;
// analyst appendices colliding on number but not description are renumbered
// onto the next free slot.
func mergeAppendices(primary, detected []Appendix) []Appendix {
	out := append([]Appendix(nil), primary...)
	used := make(map[int]bool, len(primary))
	seenDesc := make(map[string]bool, len(primary))
	for _, a := range primary {
		used[a.Number] = true
		seenDesc[a.Description] = true
	}
	next := 1
	for used[next] {
		next++
	}
	for _, a := range detected {
		if seenDesc[a.Description] {
			continue
		}
		if used[a.Number] || a.Number <= 0 {
			a.Number = next
		}
		used[a.Number] = true
		seenDesc[a.Description] = true
		for used[next] {
			next++
		}
		out = append(out, a)
	}
	return out
}

// authoritativeCalculations rebuilds the calculation lines purely from the
// authoritative amounts map, in selection order. Generated arithmetic never
// survives the merge.
func authoritativeCalculations(req GenerationRequest) []Calculation {
	out := make([]Calculation, 0, len(req.Selected))
	for _, id := range req.Selected {
		a, ok := req.Amounts[id]
		if !ok {
			continue
		}
		out = append(out, Calculation{Component: a.Name, Formula: a.Formula, Amount: a.Amount})
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func emit(progress ProgressFunc, stage, message string) {
	if progress != nil {
		progress(stage, message)
	}
}

func roundTenth(d time.Duration) float64 {
	return math.Round(d.Seconds()*10) / 10
}
