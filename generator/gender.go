package generator

import "strings"

// genderRule maps a gender-ambiguous slash token to its gendered forms.
// Longer tokens are listed before their substrings so a single ordered pass
// resolves each occurrence exactly once.
type genderRule struct {
	token  string
	male   string
	female string
}

var genderRules = []genderRule{
	{"יטען/תטען", "יטען", "תטען"},
	{"יבקש/תבקש", "יבקש", "תבקש"},
	{"מעסיק/תו/ה", "מעסיקו", "מעסיקה"},
	{"עבודתו/ה", "עבודתו", "עבודתה"},
	{"העסקתו/ה", "העסקתו", "העסקתה"},
	{"פיטוריו/ה", "פיטוריו", "פיטוריה"},
	{"זכויותיו/ה", "זכויותיו", "זכויותיה"},
	{"שכרו/ה", "שכרו", "שכרה"},
	{"התפטר/ה", "התפטר", "התפטרה"},
	{"שפוטר/ה", "שפוטר", "שפוטרה"},
	{"פוטר/ה", "פוטר", "פוטרה"},
	{"הועסק/ה", "הועסק", "הועסקה"},
	{"נאלץ/ה", "נאלץ", "נאלצה"},
	{"החל/ה", "החל", "החלה"},
	{"היה/תה", "היה", "הייתה"},
	{"הינו/ה", "הינו", "הינה"},
	{"ביצע/ה", "ביצע", "ביצעה"},
	{"התובע/ת", "התובע", "התובעת"},
	{"מיוצג/ת", "מיוצג", "מיוצגת"},
	{"מגיש/ה", "מגיש", "מגישה"},
	{"זכאי/ת", "זכאי", "זכאית"},
	{"מצוין/ת", "מצוין", "מצוינת"},
	{"מקצועי/ת", "מקצועי", "מקצועית"},
	{"שעתי/ת", "שעתי", "שעתית"},
	{"כעובד/ת", "כעובד", "כעובדת"},
	{"עובד/ת", "עובד", "עובדת"},
	{"עבד/ה", "עבד", "עבדה"},
	{"ממנו/ה", "ממנו", "ממנה"},
	{"לו/ה", "לו", "לה"},
	{"עצמו/ה", "עצמו", "עצמה"},
	{"הוא/היא", "הוא", "היא"},
	{"מר/גב'", "מר", "הגב'"},
	{"לחייבו/ה", "לחייבו", "לחייבה"},
}

// Normalize rewrites gender-ambiguous slash tokens into the form matching the
// given gender marker. It is idempotent and leaves text without ambiguous
// tokens untouched.
func Normalize(text string, gender Gender) string {
	if !strings.ContainsRune(text, '/') {
		return text
	}
	for _, rule := range genderRules {
		if !strings.Contains(text, rule.token) {
			continue
		}
		repl := rule.male
		if gender == GenderFemale {
			repl = rule.female
		}
		text = strings.ReplaceAll(text, rule.token, repl)
	}
	return text
}

// normalizeDraft applies Normalize to every paragraph and table-like text
// field of a merged draft in one pass.
func normalizeDraft(d *DocumentDraft, gender Gender) {
	for i := range d.Sections {
		d.Sections[i].Header = Normalize(d.Sections[i].Header, gender)
		for j := range d.Sections[i].Paragraphs {
			d.Sections[i].Paragraphs[j] = Normalize(d.Sections[i].Paragraphs[j], gender)
		}
	}
	for i := range d.Appendices {
		d.Appendices[i].Description = Normalize(d.Appendices[i].Description, gender)
		d.Appendices[i].ReferenceText = Normalize(d.Appendices[i].ReferenceText, gender)
	}
	for i := range d.VerificationNotes {
		d.VerificationNotes[i] = Normalize(d.VerificationNotes[i], gender)
	}
}
