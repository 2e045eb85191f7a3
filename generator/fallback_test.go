package generator

import (
	"reflect"
	"testing"
)

func TestSplitDelimitedSections(t *testing.T) {
	raw := `=== כללי ===
פסקה ראשונה.
פסקה שנייה.

=== פיצויי פיטורים ===
התובע זכאי לפיצויים.
`
	got := splitDelimitedSections(raw)
	want := []Section{
		{Header: "כללי", Paragraphs: []string{"פסקה ראשונה.", "פסקה שנייה."}},
		{Header: "פיצויי פיטורים", Paragraphs: []string{"התובע זכאי לפיצויים."}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sections = %+v, want %+v", got, want)
	}
}

func TestSplitDelimitedSectionsNoDelimiter(t *testing.T) {
	if got := splitDelimitedSections("סתם טקסט\nבלי מפרידים"); got != nil {
		t.Errorf("expected nil without delimiters, got %+v", got)
	}
}

func TestSplitDelimitedSectionsLeadingText(t *testing.T) {
	raw := "שורת פתיחה לפני הכותרת\n=== רקע ===\nתוכן."
	got := splitDelimitedSections(raw)
	if len(got) != 2 {
		t.Fatalf("sections = %d, want 2", len(got))
	}
	if got[0].Header != rawSectionHeader {
		t.Errorf("leading text header = %q, want %q", got[0].Header, rawSectionHeader)
	}
	if got[1].Header != "רקע" {
		t.Errorf("second header = %q", got[1].Header)
	}
}

func TestWrapRawPayload(t *testing.T) {
	p := wrapRawPayload("טקסט חופשי\nעוד שורה", GenderFemale)
	if !p.Degraded {
		t.Error("wrapped payload should be marked degraded")
	}
	if p.GenderForm != string(GenderFemale) {
		t.Errorf("GenderForm = %q", p.GenderForm)
	}
	if len(p.Sections) != 1 || p.Sections[0].Header != rawSectionHeader {
		t.Fatalf("sections = %+v", p.Sections)
	}
	if len(p.Sections[0].Paragraphs) != 2 {
		t.Errorf("paragraphs = %v", p.Sections[0].Paragraphs)
	}
}

func TestWrapRawPayloadDelimited(t *testing.T) {
	p := wrapRawPayload("=== כללי ===\nתוכן.", GenderMale)
	if !p.Degraded {
		t.Error("wrapped payload should be marked degraded")
	}
	if len(p.Sections) != 1 || p.Sections[0].Header != "כללי" {
		t.Fatalf("sections = %+v", p.Sections)
	}
}
