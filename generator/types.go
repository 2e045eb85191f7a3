package generator

// Gender marks the plaintiff's grammatical gender. It is applied to the whole
// document in a single normalization pass after merging.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// CaseData holds the structured, read-only case fields collected at intake.
type CaseData struct {
	PlaintiffName     string  `json:"plaintiff_name"`
	PlaintiffID       string  `json:"plaintiff_id"`
	DefendantName     string  `json:"defendant_name"`
	DefendantID       string  `json:"defendant_id"`
	DefendantType     string  `json:"defendant_type"` // company, individual
	DefendantOwner    string  `json:"defendant_owner,omitempty"`
	DefendantBusiness string  `json:"defendant_business,omitempty"`
	JobTitle          string  `json:"job_title"`
	StartDate         string  `json:"start_date"` // YYYY-MM-DD
	EndDate           string  `json:"end_date"`
	TerminationType   string  `json:"termination_type"` // fired, resigned, resigned_justified
	WorkSchedule      string  `json:"work_schedule,omitempty"`
	BaseSalary        float64 `json:"base_salary"`
	Commissions       float64 `json:"commissions"`
	WorkDaysPerWeek   int     `json:"work_days_per_week"`
	TotalMonths       int     `json:"total_months"`
	DecimalYears      float64 `json:"decimal_years"`
	DeterminingSalary float64 `json:"determining_salary"`
	HourlyRate        float64 `json:"hourly_rate"`
	DailyRate         float64 `json:"daily_rate"`
}

// AuthoritativeAmount is a claim amount computed outside the pipeline and
// treated as ground truth. Generated arithmetic never overrides it.
type AuthoritativeAmount struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Formula string  `json:"formula,omitempty"`
}

// GenerationRequest is the full input to one pipeline run. Selected is a
// closed set: no claim outside it may appear in the output.
type GenerationRequest struct {
	RawFacts string
	Case     CaseData
	Selected []string
	Amounts  map[string]AuthoritativeAmount
	Total    float64
	Gender   Gender

	// Static reference corpora, cacheable across requests. Optional.
	FirmPatterns   string
	LegalCitations string
}

// Section is one ordered document section.
type Section struct {
	Header     string   `json:"header"`
	Paragraphs []string `json:"paragraphs"`
}

// Appendix references supporting material attached to the claim.
type Appendix struct {
	Number        int    `json:"number"`
	Description   string `json:"description"`
	ReferenceText string `json:"reference_text"`
}

// Calculation is a per-claim formula line rendered in the document body.
type Calculation struct {
	Component string  `json:"component"`
	Formula   string  `json:"formula"`
	Amount    float64 `json:"amount"`
}

// StageTiming is the observability record returned alongside the draft.
type StageTiming struct {
	TotalSeconds    float64 `json:"total_seconds"`
	StagesCompleted int     `json:"stages_completed"`
}

// DocumentDraft is the merged pipeline output consumed by the renderer.
type DocumentDraft struct {
	GenderForm        Gender        `json:"gender_form"`
	Sections          []Section     `json:"sections"`
	Appendices        []Appendix    `json:"appendices"`
	Calculations      []Calculation `json:"calculations"`
	LegalCitations    []string      `json:"legal_citations"`
	SummaryTotal      float64       `json:"summary_total"`
	VerificationNotes []string      `json:"verification_notes"`
	Timing            StageTiming   `json:"stage_timing"`
}

// AnalystPayload is the structure the analyst stage is expected to produce.
type AnalystPayload struct {
	SectionsRequired   []string        `json:"sections_required"`
	ApplicableLaws     []string        `json:"applicable_laws"`
	AppendicesDetected []Appendix      `json:"appendices_detected"`
	Flags              map[string]bool `json:"flags"`
}

// DrafterPayload is the structure the drafter (and fallback) stage produces.
// SummaryTotal is always overwritten with the authoritative total at merge.
type DrafterPayload struct {
	GenderForm     string        `json:"gender_form"`
	Sections       []Section     `json:"sections"`
	Appendices     []Appendix    `json:"appendices"`
	Calculations   []Calculation `json:"calculations"`
	LegalCitations []string      `json:"legal_citations"`
	SummaryTotal   float64       `json:"summary_total"`

	// Degraded marks a payload recovered by wrapping raw text rather than
	// decoding. Never serialized.
	Degraded bool `json:"-"`
}

// VerifierPayload carries corrected sections, or the originals unchanged.
type VerifierPayload struct {
	VerifiedSections  []Section `json:"verified_sections"`
	VerificationNotes []string  `json:"verification_notes"`
	AmountsVerified   bool      `json:"amounts_verified"`
}

// Outcome is the result of one stage. Stages never panic on malformed
// responses; a failure is data, carrying the raw response for diagnostics.
type Outcome[T any] struct {
	Payload T
	Raw     string
	Err     error
}

// OK reports whether the stage produced a usable payload.
func (o Outcome[T]) OK() bool { return o.Err == nil }

func success[T any](payload T, raw string) Outcome[T] {
	return Outcome[T]{Payload: payload, Raw: raw}
}

func failure[T any](raw string, err error) Outcome[T] {
	return Outcome[T]{Raw: raw, Err: err}
}

// ProgressFunc receives best-effort progress notifications during generation.
type ProgressFunc func(stage, message string)
