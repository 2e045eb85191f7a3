// Package render turns a merged document draft into Markdown and HTML. The
// Markdown layout mirrors the firm's כתב תביעה template: cover header, parties
// block, claim summary table, numbered body sections and a signature block.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"labor_claim_generator/generator"
)

const defaultCourtName = "בית הדין האזורי לעבודה בתל אביב"

// Meta carries the firm and filing details that never come from the model.
type Meta struct {
	CourtName        string `json:"court_name,omitempty"`
	PlaintiffAddress string `json:"plaintiff_address,omitempty"`
	DefendantAddress string `json:"defendant_address,omitempty"`
	AttorneyName     string `json:"attorney_name,omitempty"`
	AttorneyID       string `json:"attorney_id,omitempty"`
	FirmName         string `json:"firm_name,omitempty"`
	FirmAddress      string `json:"firm_address,omitempty"`
	FirmPhone        string `json:"firm_phone,omitempty"`
	FirmFax          string `json:"firm_fax,omitempty"`
	FirmEmail        string `json:"firm_email,omitempty"`
}

// Markdown renders the full document. The draft is expected to already be
// gender-normalized; this function only selects between fixed gendered forms
// for the boilerplate it adds itself.
func Markdown(draft *generator.DocumentDraft, c generator.CaseData, meta Meta) string {
	var b strings.Builder
	male := draft.GenderForm != generator.GenderFemale
	pronoun := "התובע"
	if !male {
		pronoun = "התובעת"
	}

	writeCover(&b, c, meta, draft, pronoun)

	b.WriteString("# כ ת ב    ת ב י ע ה\n\n")

	// Body sections. The model's own summary section is dropped since the
	// summary table below is built from the authoritative calculations.
	num := 1
	for _, sec := range draft.Sections {
		if strings.Contains(sec.Header, "סיכום") {
			continue
		}
		if hasHebrew(sec.Header) {
			fmt.Fprintf(&b, "## %s\n\n", strings.TrimSpace(sec.Header))
		}
		for _, para := range sec.Paragraphs {
			line := cleanLine(para)
			if line == "" || !hasHebrew(line) {
				continue
			}
			switch {
			case strings.HasPrefix(line, "◄"):
				fmt.Fprintf(&b, "**%s**\n\n", line)
			case isCalculationLine(line):
				fmt.Fprintf(&b, "> %s\n\n", line)
			default:
				fmt.Fprintf(&b, "%d. %s\n\n", num, line)
				num++
			}
		}
	}

	b.WriteString("## סיכום רכיבי התביעה\n\n")
	writeSummaryTable(&b, draft)
	fmt.Fprintf(&b, "**סה\"כ סכום התביעה: %s ₪ קרן (לא כולל הצמדה וריבית, שכ\"ט עו\"ד והוצאות)**\n\n", formatAmount(draft.SummaryTotal))

	// Closing paragraphs.
	obligate, rights := "לחייבו", "זכויותיו"
	if !male {
		obligate, rights = "לחייבה", "זכויותיה"
	}
	fmt.Fprintf(&b, "%d. לאור ההפרות החמורות של %s של %s המתוארות בהרחבה בכתב תביעה זה, מתבקש בית הדין הנכבד להזמין את הנתבעת לדין, ו%s במלוא סכום התביעה בצירוף הפרשי הצמדה וריבית לפי העניין מקום העילה ועד מועד התשלום בפועל כמו גם בסעדים ההצהרתיים המבוקשים.\n\n", num, rights, pronoun, obligate)
	num++
	fmt.Fprintf(&b, "%d. בנוסף, מתבקש בית הדין הנכבד לחייב את הנתבעת בתשלום הוצאות, שכ\"ט עו\"ד ומע\"מ בגינו.\n\n", num)
	num++
	fmt.Fprintf(&b, "%d. בית הדין הנכבד מוסמך לדון בתביעה זו לאור מהותה, סכומה, מקום ביצוע העבודה ומענה של הנתבעת.\n\n", num)
	b.WriteString("**◄ ייפוי כוח מצורף לכתב התביעה**\n\n")

	writeSignature(&b, meta, pronoun)
	return b.String()
}

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts rendered Markdown to HTML. GFM tables carry the claim summary.
func HTML(markdown string) (string, error) {
	var buf strings.Builder
	if err := htmlConverter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func writeCover(b *strings.Builder, c generator.CaseData, meta Meta, draft *generator.DocumentDraft, pronoun string) {
	court := meta.CourtName
	if court == "" {
		court = defaultCourtName
	}
	fmt.Fprintf(b, "**%s**\n\n", court)
	b.WriteString("סע\"ש ________ | בפני _________\n\n")

	b.WriteString("**בעניין:**\n\n")
	name := c.PlaintiffName
	if c.PlaintiffID != "" {
		name += ", ת.ז. " + c.PlaintiffID
	}
	fmt.Fprintf(b, "**%s** (%s)\n\n", name, pronoun)
	if meta.PlaintiffAddress != "" {
		fmt.Fprintf(b, "%s\n\n", meta.PlaintiffAddress)
	}
	if meta.AttorneyName != "" {
		fmt.Fprintf(b, "באמצעות ב\"כ עוה\"ד %s\n\n", meta.AttorneyName)
	}
	if meta.FirmName != "" {
		firm := meta.FirmName
		if !strings.HasPrefix(firm, "ממשרד") {
			firm = "ממשרד " + firm
		}
		fmt.Fprintf(b, "%s\n\n", firm)
	}
	if contact := firmContactLine(meta); contact != "" {
		fmt.Fprintf(b, "%s\n\n", contact)
	}

	b.WriteString("**- נגד -**\n\n")

	defendantLabel := "הנתבעת"
	if c.DefendantType == "individual" {
		defendantLabel = "הנתבע"
	}
	fmt.Fprintf(b, "**%s** (%s)\n\n", c.DefendantName, defendantLabel)
	if c.DefendantID != "" {
		fmt.Fprintf(b, "ח.פ %s\n\n", c.DefendantID)
	}
	if meta.DefendantAddress != "" {
		fmt.Fprintf(b, "%s\n\n", meta.DefendantAddress)
	}

	b.WriteString("**מהות התביעה: הצהרתית וכספית**\n\n")
	fmt.Fprintf(b, "**סכום התביעה: %s ₪**\n\n", formatAmount(draft.SummaryTotal))

	writeSummaryTable(b, draft)
}

func writeSummaryTable(b *strings.Builder, draft *generator.DocumentDraft) {
	b.WriteString("| רכיב תביעה | סכום (₪) |\n")
	b.WriteString("| --- | --- |\n")
	for _, calc := range draft.Calculations {
		fmt.Fprintf(b, "| **%s** | %s ₪ |\n", calc.Component, formatAmount(calc.Amount))
	}
	fmt.Fprintf(b, "| **סה\"כ** | **%s ₪** |\n\n", formatAmount(draft.SummaryTotal))
}

func writeSignature(b *strings.Builder, meta Meta, pronoun string) {
	b.WriteString("---\n\n")
	if meta.AttorneyName != "" && meta.AttorneyID != "" {
		fmt.Fprintf(b, "**%s, עו\"ד**  \nמ.ר. %s  \nב\"כ %s\n", meta.AttorneyName, meta.AttorneyID, pronoun)
		return
	}
	fmt.Fprintf(b, "\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_  \nב\"כ %s\n", pronoun)
}

func firmContactLine(meta Meta) string {
	var parts []string
	if meta.FirmAddress != "" {
		parts = append(parts, meta.FirmAddress)
	}
	if meta.FirmPhone != "" {
		parts = append(parts, "טל': "+meta.FirmPhone)
	}
	if meta.FirmFax != "" {
		parts = append(parts, "פקס': "+meta.FirmFax)
	}
	if meta.FirmEmail != "" {
		parts = append(parts, meta.FirmEmail)
	}
	return strings.Join(parts, " | ")
}

var (
	numberPrefixRe = regexp.MustCompile(`^\d+\.\s+`)
	multiSpaceRe   = regexp.MustCompile(`  +`)
	hebrewRe       = regexp.MustCompile(`[\x{0590}-\x{05FF}]`)
)

// cleanLine strips model-added numbering prefixes and collapses runs of
// spaces. The renderer numbers paragraphs itself.
func cleanLine(text string) string {
	text = numberPrefixRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func hasHebrew(text string) bool {
	return hebrewRe.MatchString(text)
}

// isCalculationLine detects formula lines, which render as quoted blocks
// instead of numbered paragraphs.
func isCalculationLine(line string) bool {
	if !strings.Contains(line, "₪") {
		return false
	}
	return strings.Contains(line, "=") || strings.Contains(line, "×")
}

func formatAmount(v float64) string {
	n := int64(v + 0.5)
	if v < 0 {
		n = int64(v - 0.5)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
