package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stage identifiers, also used as Prompt.Stage labels.
const (
	StageAnalyst  = "analyst"
	StageDrafter  = "drafter"
	StageVerifier = "verifier"
	StageFallback = "fallback"
)

// Per-stage response token ceilings. The fallback ceiling is deliberately
// smaller to maximize the odds of a parseable response under time pressure.
const (
	analystMaxTokens  = 1500
	drafterMaxTokens  = 6000
	verifierMaxTokens = 800
	fallbackMaxTokens = 3000
)

const analystSystem = `You are a legal analyst specializing in Israeli labor law.
Analyze the provided case facts and structured data. Identify:
1. Which document sections are needed (beyond the standard כללי/הצדדים/רקע/סיכום)
2. Which specific laws and regulations apply
3. Whether appendices are referenced or implied in the facts
4. Special flags: harassment, improper hearing, discriminatory termination, etc.

Return ONLY valid JSON with this structure:
{
  "sections_required": ["list of section headers in Hebrew, in order"],
  "applicable_laws": ["list of law names with sections that apply"],
  "appendices_detected": [
    {"number": 1, "description": "תלושי שכר", "reference_text": "תלושי שכר מצורפים כנספח 1"}
  ],
  "flags": {
    "harassment": false,
    "improper_hearing": false,
    "discriminatory_termination": false,
    "wage_theft": false,
    "corporate_veil": false
  }
}`

const drafterSystemBase = `You are an Israeli labor law attorney drafting a complete כתב תביעה for בית הדין לעבודה.

Write each section with formal legal Hebrew, third person, proper clause structure.
Reference specific law sections where applicable.
Use the firm's writing style patterns provided below.
Reference appendices with ◄ prefix where relevant.
Include calculation formulas using the provided amounts (use × and = symbols with ₪).

CRITICAL RULES:
- Do NOT invent facts not in the input
- Do NOT add claims not in the selected list
- Use EXACT calculated amounts from the structured data
- Use correct gender throughout (based on gender_form)
- For each claim component, show the formula: [salary] × [period] = [total]
- Return ONLY valid JSON, no markdown fences

Return JSON with this structure:
{
  "gender_form": "male" or "female",
  "sections": [
    {"header": "section header in Hebrew", "paragraphs": ["paragraph 1", "paragraph 2"]}
  ],
  "appendices": [
    {"number": 1, "description": "תלושי שכר", "reference_text": "מצורפים כנספח 1"}
  ],
  "calculations": [
    {"component": "פיצויי פיטורים", "formula": "10,000 ₪ × 2.5 שנים = 25,000 ₪", "amount": 25000}
  ],
  "legal_citations": ["חוק פיצויי פיטורים, תשכ\"ג-1963"],
  "summary_total": 123456
}`

const verifierSystem = `You are a quality reviewer for Israeli labor court claim documents.
Review the drafted sections against the authoritative calculations.

Check:
1. All selected claims have a corresponding section
2. Amounts in the text match the authoritative calculated amounts exactly
3. No claims were added that weren't selected
4. Gender consistency throughout

If corrections are needed, return the corrected sections.
If no corrections needed, return the sections unchanged.

Return ONLY valid JSON:
{
  "verified_sections": [{"header": "...", "paragraphs": ["..."]}],
  "verification_notes": ["list of changes made or 'אושר ללא שינויים'"],
  "amounts_verified": true
}`

const fallbackSystem = `You are an Israeli labor law attorney. Draft a כתב תביעה as JSON.
Keep it short: the standard sections (כללי, הצדדים, רקע עובדתי, סיכום) plus one
section per selected claim. Use the EXACT amounts provided. Return ONLY valid
JSON with keys: gender_form, sections, appendices, calculations,
legal_citations, summary_total. No markdown fences, no explanation.`

// BuildAnalystPrompt asks for document structure, applicable laws, appendices
// and special-circumstance flags.
func BuildAnalystPrompt(req GenerationRequest) Prompt {
	caseJSON, _ := json.MarshalIndent(req.Case, "", "  ")

	user := fmt.Sprintf(`נתוני התיק המובנים:
%s

רכיבי תביעה שנבחרו: %s

עובדות גולמיות:
%s

Analyze the above case and return the JSON analysis.`,
		caseJSON, strings.Join(selectedClaimNames(req), ", "), req.RawFacts)

	return Prompt{Stage: StageAnalyst, System: analystSystem, User: user, MaxTokens: analystMaxTokens}
}

// BuildDrafterPrompt builds the main generation prompt, appending the
// cacheable firm-style and citation corpora to the system text.
func BuildDrafterPrompt(req GenerationRequest, analysis AnalystPayload) Prompt {
	system := drafterSystemBase
	if req.FirmPatterns != "" {
		system += "\n\n## Firm Writing Patterns (FOLLOW THIS STYLE):\n" + req.FirmPatterns
	}
	if req.LegalCitations != "" {
		system += "\n\n## Legal Citations Reference:\n" + req.LegalCitations
	}

	analysisJSON, _ := json.MarshalIndent(analysis, "", "  ")

	var sb strings.Builder
	c := req.Case
	genderLabel := "זכר"
	if req.Gender == GenderFemale {
		genderLabel = "נקבה"
	}
	fmt.Fprintf(&sb, "נתוני התיק:\n")
	fmt.Fprintf(&sb, "- שם התובע/ת: %s\n", c.PlaintiffName)
	fmt.Fprintf(&sb, "- ת.ז.: %s\n", c.PlaintiffID)
	fmt.Fprintf(&sb, "- מין: %s\n", genderLabel)
	fmt.Fprintf(&sb, "- שם הנתבע/ת: %s\n", c.DefendantName)
	fmt.Fprintf(&sb, "- ח.פ./ע.מ.: %s\n", c.DefendantID)
	fmt.Fprintf(&sb, "- תפקיד: %s\n", c.JobTitle)
	fmt.Fprintf(&sb, "- תאריך תחילת עבודה: %s\n", c.StartDate)
	fmt.Fprintf(&sb, "- תאריך סיום עבודה: %s\n", c.EndDate)
	fmt.Fprintf(&sb, "- סוג סיום העסקה: %s\n", c.TerminationType)
	fmt.Fprintf(&sb, "- שכר בסיס: %.0f ₪\n", c.BaseSalary)
	fmt.Fprintf(&sb, "- עמלות/תוספות: %.0f ₪\n", c.Commissions)
	fmt.Fprintf(&sb, "- ימי עבודה בשבוע: %d\n", c.WorkDaysPerWeek)
	fmt.Fprintf(&sb, "- תקופת העסקה: %d חודשים (%.2f שנים)\n", c.TotalMonths, c.DecimalYears)
	fmt.Fprintf(&sb, "- שכר קובע: %.0f ₪\n", c.DeterminingSalary)
	sb.WriteString("\nתוצאות חישוב (סכומים מחייבים – השתמש בדיוק בסכומים אלה):\n")
	sb.WriteString(authoritativeSummary(req))
	fmt.Fprintf(&sb, "סה\"כ: %.0f ₪\n", req.Total)
	fmt.Fprintf(&sb, "\nניתוח שלב 1:\n%s\n", analysisJSON)
	fmt.Fprintf(&sb, "\nעובדות גולמיות ותיאור הנסיבות:\n%s\n", req.RawFacts)
	sb.WriteString("\nGenerate the full כתב תביעה sections. Use the EXACT amounts from the calculation results above.")

	return Prompt{Stage: StageDrafter, System: system, User: sb.String(), MaxTokens: drafterMaxTokens}
}

// BuildVerifierPrompt reviews drafted sections against the authoritative amounts.
func BuildVerifierPrompt(req GenerationRequest, draft DrafterPayload) Prompt {
	sectionsJSON, _ := json.MarshalIndent(draft.Sections, "", "  ")
	amounts := make(map[string]float64, len(req.Amounts))
	for _, a := range req.Amounts {
		amounts[a.Name] = a.Amount
	}
	amountsJSON, _ := json.MarshalIndent(amounts, "", "  ")

	user := fmt.Sprintf(`סעיפים שנוצרו (שלב 2):
%s

סכומים מחייבים:
%s

סה"כ מחייב: %.0f ₪

רכיבי תביעה שנבחרו: %s

Verify the sections and return corrections if needed.`,
		sectionsJSON, amountsJSON, req.Total, strings.Join(selectedClaimNames(req), ", "))

	return Prompt{Stage: StageVerifier, System: verifierSystem, User: user, MaxTokens: verifierMaxTokens}
}

// BuildFallbackPrompt is the reduced single-call prompt used after the primary
// drafter attempt fails.
func BuildFallbackPrompt(req GenerationRequest) Prompt {
	var sb strings.Builder
	c := req.Case
	fmt.Fprintf(&sb, "תובע/ת: %s, נתבע/ת: %s, תפקיד: %s, תקופה: %s עד %s.\n",
		c.PlaintiffName, c.DefendantName, c.JobTitle, c.StartDate, c.EndDate)
	fmt.Fprintf(&sb, "מין: %s.\n", req.Gender)
	sb.WriteString("סכומים מחייבים:\n")
	sb.WriteString(authoritativeSummary(req))
	fmt.Fprintf(&sb, "סה\"כ: %.0f ₪\n", req.Total)
	fmt.Fprintf(&sb, "\nעובדות:\n%s\n", req.RawFacts)

	return Prompt{Stage: StageFallback, System: fallbackSystem, User: sb.String(), MaxTokens: fallbackMaxTokens}
}

func selectedClaimNames(req GenerationRequest) []string {
	names := make([]string, 0, len(req.Selected))
	for _, id := range req.Selected {
		if name, ok := claimNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func authoritativeSummary(req GenerationRequest) string {
	var sb strings.Builder
	for _, id := range req.Selected {
		a, ok := req.Amounts[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %.0f ₪", a.Name, a.Amount)
		if a.Formula != "" {
			fmt.Fprintf(&sb, " (נוסחה: %s)", a.Formula)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
