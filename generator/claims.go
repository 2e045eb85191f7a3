package generator

// claimNames maps claim identifiers to their Hebrew document headings. The
// selected set in a request is drawn from these keys and is closed: sections
// for any other claim are dropped at merge.
var claimNames = map[string]string{
	"severance":     "פיצויי פיטורים",
	"prior_notice":  "חלף הודעה מוקדמת",
	"unpaid_salary": "שכר עבודה שלא שולם",
	"overtime":      "הפרשי שכר – שעות נוספות",
	"pension":       "הפרשי הפרשות לפנסיה",
	"vacation":      "הפרשי דמי חופשה ופדיון חופשה",
	"holidays":      "דמי חגים והפרשי דמי חג",
	"recuperation":  "דמי הבראה",
	"salary_delay":  "פיצויי הלנת שכר",
	"emotional":     "פיצוי בגין עוגמת נפש",
	"deductions":    "ניכויים שלא כדין",
	"documents":     "מסירת מסמכי גמר חשבון",
}

// ClaimName returns the Hebrew heading for a claim identifier.
func ClaimName(id string) (string, bool) {
	name, ok := claimNames[id]
	return name, ok
}

// KnownClaims returns all claim identifiers the system understands.
func KnownClaims() []string {
	ids := make([]string, 0, len(claimNames))
	for id := range claimNames {
		ids = append(ids, id)
	}
	return ids
}
