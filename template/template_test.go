package template

import (
	"strings"
	"testing"

	"labor_claim_generator/generator"
)

func sampleRequest(gender generator.Gender) generator.GenerationRequest {
	return generator.GenerationRequest{
		Gender: gender,
		Case: generator.CaseData{
			PlaintiffName:     "דנה כהן",
			PlaintiffID:       "012345678",
			DefendantName:     "שירותים בע\"מ",
			DefendantID:       "512345678",
			DefendantType:     "company",
			JobTitle:          "מנהלת חשבונות",
			StartDate:         "2022-01-01",
			EndDate:           "2024-01-01",
			TerminationType:   "fired",
			BaseSalary:        10000,
			TotalMonths:       24,
			DecimalYears:      2.0,
			DeterminingSalary: 10000,
			HourlyRate:        45.28,
			DailyRate:         384.91,
		},
		Selected: []string{"severance", "recuperation"},
		Amounts: map[string]generator.AuthoritativeAmount{
			"severance":    {Name: "פיצויי פיטורים", Amount: 20000, Formula: "10,000 ₪ × 2.00 = 20,000 ₪"},
			"recuperation": {Name: "דמי הבראה", Amount: 4598},
		},
		Total: 24598,
	}
}

func TestDraftSkeletonSections(t *testing.T) {
	draft := Draft(sampleRequest(generator.GenderFemale))

	var headers []string
	for _, sec := range draft.Sections {
		headers = append(headers, sec.Header)
	}
	for _, want := range []string{"כללי", "הצדדים", "רקע עובדתי", "היקף משרה ושכר קובע", "פיצויי פיטורים", "דמי הבראה"} {
		found := false
		for _, h := range headers {
			if h == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing section %q in %v", want, headers)
		}
	}
}

func TestDraftOnlySelectedClaims(t *testing.T) {
	draft := Draft(sampleRequest(generator.GenderMale))
	for _, sec := range draft.Sections {
		if sec.Header == "פיצוי בגין עוגמת נפש" || sec.Header == "דמי חגים והפרשי דמי חג" {
			t.Errorf("unselected claim section present: %q", sec.Header)
		}
	}
	if len(draft.Calculations) != 2 {
		t.Fatalf("calculations = %d, want 2", len(draft.Calculations))
	}
	if draft.Calculations[0].Component != "פיצויי פיטורים" {
		t.Errorf("calculation order should follow selection, got %q first", draft.Calculations[0].Component)
	}
	if draft.SummaryTotal != 24598 {
		t.Errorf("SummaryTotal = %v, want 24598", draft.SummaryTotal)
	}
}

func TestDraftGenderNormalized(t *testing.T) {
	for _, gender := range []generator.Gender{generator.GenderMale, generator.GenderFemale} {
		draft := Draft(sampleRequest(gender))
		for _, sec := range draft.Sections {
			for _, p := range sec.Paragraphs {
				if strings.Contains(p, "התובע/ת") || strings.Contains(p, "יטען/תטען") {
					t.Errorf("gender %s: unresolved slash form in %q", gender, p)
				}
			}
		}
	}

	female := Draft(sampleRequest(generator.GenderFemale))
	joined := ""
	for _, sec := range female.Sections {
		joined += strings.Join(sec.Paragraphs, "\n")
	}
	if !strings.Contains(joined, "התובעת") {
		t.Error("female draft should use התובעת")
	}
}

func TestDraftDateFormatting(t *testing.T) {
	draft := Draft(sampleRequest(generator.GenderMale))
	found := false
	for _, sec := range draft.Sections {
		for _, p := range sec.Paragraphs {
			if strings.Contains(p, "01.01.2022") {
				found = true
			}
			if strings.Contains(p, "2022-01-01") {
				t.Errorf("ISO date leaked into text: %q", p)
			}
		}
	}
	if !found {
		t.Error("expected Hebrew-format start date 01.01.2022")
	}
}

func TestDraftFormulaIncluded(t *testing.T) {
	draft := Draft(sampleRequest(generator.GenderMale))
	found := false
	for _, sec := range draft.Sections {
		if sec.Header != "פיצויי פיטורים" {
			continue
		}
		for _, p := range sec.Paragraphs {
			if strings.Contains(p, "×") && strings.Contains(p, "₪") {
				found = true
			}
		}
	}
	if !found {
		t.Error("severance section should carry the calculation formula")
	}
}
