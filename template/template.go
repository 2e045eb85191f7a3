// Package template builds a כתב תביעה draft deterministically from the firm's
// fixed wording, without any model call. It is the guaranteed path when the
// generation pipeline produces nothing.
package template

import (
	"fmt"
	"time"

	"labor_claim_generator/generator"
)

const templateNote = "המסמך נוצר מתבנית המשרד ללא ניסוח אוטומטי"

// Draft assembles the full document from the request's structured data and
// authoritative amounts. The output is already gender-normalized.
func Draft(req generator.GenerationRequest) *generator.DocumentDraft {
	c := req.Case
	startFmt := formatDate(c.StartDate)
	endFmt := formatDate(c.EndDate)

	defendantLabel := "הנתבעת"
	defendantPaid, defendantGave := "שילמה", "מסרה"
	if c.DefendantType == "individual" {
		defendantLabel = "הנתבע"
		defendantPaid, defendantGave = "שילם", "מסר"
	}

	var sections []generator.Section

	sections = append(sections, generator.Section{
		Header: "כללי",
		Paragraphs: []string{
			"התובע/ת מיוצג/ת ע\"י ב\"כ, אשר מענה להמצאת כתבי בית דין הוא, כמצוין בכותרת.",
			fmt.Sprintf("התובע/ת מגיש/ה תביעה זו כנגד %s בגין הפרת זכויותיו/ה כעובד/ת וכאדם, הכול כפי שיפורט להלן.", defendantLabel),
			"הטענות שלהלן הינן חלופיות, מצטברות או משלימות - הכול לפי העניין, הקשר הדברים והדבקם.",
		},
	})

	terminationText := fmt.Sprintf("עד שפוטר/ה ביום %s", endFmt)
	switch c.TerminationType {
	case "resigned":
		terminationText = fmt.Sprintf("עד שהתפטר/ה ביום %s", endFmt)
	case "resigned_justified":
		terminationText = fmt.Sprintf("עד שנאלץ/ה לסיים את העסקתו/ה בדין מפוטר/ת ביום %s", endFmt)
	}

	defendantDesc := fmt.Sprintf("חברת %s, ח.פ./ע.מ. %s", c.DefendantName, c.DefendantID)
	if c.DefendantType == "individual" {
		defendantDesc = fmt.Sprintf("%s, ת.ז./ע.מ. %s", c.DefendantName, c.DefendantID)
	}
	if c.DefendantOwner != "" {
		defendantDesc += fmt.Sprintf(", הינה חברה בבעלותו ותחת ניהולו של %s", c.DefendantOwner)
	}
	if c.DefendantBusiness != "" {
		defendantDesc += fmt.Sprintf(" העוסקת ב%s", c.DefendantBusiness)
	}

	sections = append(sections, generator.Section{
		Header: "הצדדים",
		Paragraphs: []string{
			fmt.Sprintf("התובע/ת, מר/גב' %s, ת.ז. %s, עבד/ה אצל %s החל מיום %s %s, סה\"כ %d חודשים שהם %.2f שנים (להלן: \"התובע/ת\").",
				c.PlaintiffName, c.PlaintiffID, defendantLabel, startFmt, terminationText, c.TotalMonths, c.DecimalYears),
			"תלושי שכר הנמצאים בידי התובע/ת מצ\"ב ומסומנים כנספח 1.",
			fmt.Sprintf("%s, %s, ומי שהעסיקה את התובע/ת בתקופה הרלוונטית לכתב התביעה (להלן: \"%s\").",
				defendantLabel, defendantDesc, defendantLabel),
		},
	})

	background := []string{
		fmt.Sprintf("התובע/ת החל/ה את עבודתו/ה אצל %s כ%s החל מיום %s.", defendantLabel, c.JobTitle, startFmt),
	}
	if c.WorkSchedule != "" {
		background = append(background, fmt.Sprintf("עבודתו/ה של התובע/ת התנהלה %s.", c.WorkSchedule))
	}
	background = append(background,
		"לכל אורך תקופת העסקתו/ה, התובע/ת היה/תה עובד/ת מצוין/ת ומקצועי/ת אשר ביצע/ה את עבודתו/ה נאמנה.")
	if req.RawFacts != "" {
		background = append(background, req.RawFacts)
	}
	sections = append(sections, generator.Section{Header: "רקע עובדתי", Paragraphs: background})

	salaryDesc := fmt.Sprintf("שכרו/ה של התובע/ת עמד על סך של %.0f ₪ ברוטו", c.BaseSalary)
	if c.Commissions > 0 {
		salaryDesc += fmt.Sprintf(" בגין שכר בסיס ובנוסף %.0f ₪ בגין עמלות/תוספות חודשיות", c.Commissions)
	}
	salaryDesc += "."
	sections = append(sections, generator.Section{
		Header: "היקף משרה ושכר קובע",
		Paragraphs: []string{
			salaryDesc,
			fmt.Sprintf("סה\"כ שכרו/ה החודשי הקובע של התובע/ת עמד על %.0f ₪ ברוטו, כך ששכרו/ה השעתי הקובע עמד על סך של %.1f ₪ ושכרו/ה היומי הקובע עמד על סך של %.0f ₪.",
				c.DeterminingSalary, c.HourlyRate, c.DailyRate),
		},
	})

	for _, id := range req.Selected {
		amount, ok := req.Amounts[id]
		if !ok {
			continue
		}
		if sec := claimSection(id, amount, c, defendantLabel, defendantPaid, defendantGave, endFmt); sec != nil {
			sections = append(sections, *sec)
		}
	}

	draft := &generator.DocumentDraft{
		GenderForm: req.Gender,
		Sections:   sections,
		Appendices: []generator.Appendix{
			{Number: 1, Description: "תלושי שכר", ReferenceText: "תלושי שכר מצ\"ב ומסומנים כנספח 1"},
		},
		Calculations:      calculations(req),
		SummaryTotal:      req.Total,
		VerificationNotes: []string{templateNote},
	}
	normalize(draft, req.Gender)
	return draft
}

// claimSection produces the firm's fixed wording for one claim component.
func claimSection(id string, a generator.AuthoritativeAmount, c generator.CaseData, defendant, paid, gave, endFmt string) *generator.Section {
	name, ok := generator.ClaimName(id)
	if !ok {
		return nil
	}
	relief := func(what string) string {
		return fmt.Sprintf("לאור האמור לעיל, התובע/ת יבקש/תבקש כי בית הדין הנכבד יחייב את %s לשלם לתובע/ת %s בסך של %.0f ₪ בצירוף פיצוי הלנת שכר או הפרשי הצמדה וריבית לפי העניין עד מועד התשלום בפועל.",
			defendant, what, a.Amount)
	}

	var paras []string
	switch id {
	case "severance":
		if c.TerminationType == "resigned_justified" {
			paras = append(paras,
				fmt.Sprintf("התובע/ת יטען/תטען, כי לאור ההפרות החמורות והמתמשכות של %s והפגיעה בזכויותיו/ה הקוגנטיות נאלץ/ה, בלית ברירה, להודיע על סיום העסקתו/ה.", defendant),
				"משכך, ובהתאם להוראות חוק פיצויי פיטורים, תשכ\"ג-1963 ולפסיקת בתי הדין לעבודה התובע/ת הינו/ה זכאי/ת להתפטר בדין מפוטר/ת ולמלוא פיצויי פיטוריו/ה.")
		}
		if a.Formula != "" {
			paras = append(paras, a.Formula)
		}
		paras = append(paras, relief("פיצויי פיטורים"))
	case "prior_notice":
		paras = append(paras,
			"בהתאם להוראות חוק הודעה מוקדמת לפיטורים ולהתפטרות, תשס\"א-2001, התובע/ת זכאי/ת לתמורת הודעה מוקדמת בגובה שכר חודשי קובע.",
			relief("חלף הודעה מוקדמת"))
	case "unpaid_salary":
		paras = append(paras,
			fmt.Sprintf("כאמור, התובע/ת יטען/תטען כי %s לא %s לו/ה את שכרו/ה כנדרש על פי דין.", defendant, paid),
			relief("שכר עבודה שלא שולם"))
	case "overtime":
		paras = append(paras,
			fmt.Sprintf("כאמור, התובע/ת יטען/תטען כי %s כלל לא %s לו/ה בגין השעות הנוספות הרבות אותן עבד/ה.", defendant, paid),
			fmt.Sprintf("שכרו/ה השעתי של התובע/ת הינו %.2f ₪ ומשכך תעריף תוספת 25%% הינו %.1f ₪ ותעריף 50%% הינו %.1f ₪.",
				c.HourlyRate, c.HourlyRate*0.25, c.HourlyRate*0.5))
		if a.Formula != "" {
			paras = append(paras, a.Formula)
		}
		paras = append(paras, relief("הפרשי שכר שעות נוספות"))
	case "pension":
		paras = append(paras,
			fmt.Sprintf("בהתאם להוראות צו ההרחבה לפנסיה חובה ולצו ההרחבה בדבר הגדלת ההפרשות לביטוח פנסיוני במשק, היה על %s להפריש לתובע/ת בגין רכיב תגמולי המעסיק 6.5%% משכרו/ה המלא בכל חודש.", defendant))
		if a.Formula != "" {
			paras = append(paras, a.Formula)
		}
		paras = append(paras, relief("הפרשי הפרשות לפנסיה"))
	case "vacation":
		paras = append(paras,
			"בהתאם להוראות חוק חופשה שנתית, תשי\"א-1951 התובע/ת היה/תה זכאי/ת לצבירת ימי חופשה בהתאם לוותקו/ה לכל אורך התקופה.")
		if a.Formula != "" {
			paras = append(paras, a.Formula)
		}
		paras = append(paras, relief("הפרשי שכר דמי חופשה ופדיון חופשה"))
	case "holidays":
		paras = append(paras,
			fmt.Sprintf("בהתאם להוראות צו ההרחבה הסכם מסגרת 2000 ולאור העובדה כי התובע/ת הועסק/ה כעובד/ת שעתי/ת, לאחר 3 חודשי עבודה אצל %s, התובע/ת היה/תה זכאי/ת לתשלום בגין 9 ימי חג בכל שנת עבודה.", defendant))
		if a.Formula != "" {
			paras = append(paras, a.Formula)
		}
		paras = append(paras, relief("דמי חגים והפרשי דמי חג"))
	case "recuperation":
		paras = append(paras,
			"בהתאם להוראות צו ההרחבה בדבר השתתפות המעסיק בהוצאות הבראה ונופש, במהלך תקופת העסקתו/ה התובע/ת היה/תה זכאי/ת לימי הבראה בהתאם לוותקו/ה.")
		if a.Formula != "" {
			paras = append(paras, a.Formula)
		}
		paras = append(paras, relief("דמי הבראה"))
	case "salary_delay":
		paras = append(paras,
			fmt.Sprintf("במרבית תקופת העסקתו/ה %s איחרה באופן שיטתי ועקבי בתשלום משכורתו/ה החודשית תוך הלנת שכרו/ה שלא כדין.", defendant),
			fmt.Sprintf("לאור האמור לעיל ובהתאם להוראות חוק הגנת השכר, תשי\"ח-1958 הרי שהתובע/ת זכאי/ת לפיצוי בגין הלנת שכרו/ה בסך של %.0f ₪.", a.Amount))
	case "emotional":
		paras = append(paras,
			fmt.Sprintf("לפיכך, התובע/ת יבקש/תבקש כי בית הדין הנכבד יורה ל%s לשלם לתובע/ת פיצוי בגין עוגמת נפש בסך של %.0f ₪ בצירוף הפרשי הצמדה וריבית ממועד קום העילה ועד לתשלום בפועל.", defendant, a.Amount))
	case "deductions":
		paras = append(paras,
			fmt.Sprintf("התובע/ת יטען/תטען כי %s ניכתה משכרו/ה סכומים שלא כדין ובחוסר תום לב.", defendant),
			relief("ניכויים שלא כדין"))
	case "documents":
		paras = append(paras,
			fmt.Sprintf("התובע/ת יטען/תטען כי חרף העובדה שיחסי העבודה נותקו כבר ביום %s %s לא %s לתובע/ת טופס 161 ומסמכי שחרור והעברת בעלות על הקופה שבבעלותו/ה ובכך הלכה למעשה מונעת ממנו/ה את הגישה לכספי הפנסיה המגיעים לו/ה על פי דין.", endFmt, defendant, gave),
			fmt.Sprintf("לאור האמור לעיל התובע/ת יבקש/תבקש כי בית הדין הנכבד יחייב את %s למסור לו/ה את מסמכי גמר החשבון ובהם טופס 161 ערוך על פי דין ומסמכי העברת בעלות.", defendant))
	default:
		return nil
	}
	return &generator.Section{Header: name, Paragraphs: paras}
}

func calculations(req generator.GenerationRequest) []generator.Calculation {
	out := make([]generator.Calculation, 0, len(req.Selected))
	for _, id := range req.Selected {
		a, ok := req.Amounts[id]
		if !ok {
			continue
		}
		out = append(out, generator.Calculation{Component: a.Name, Formula: a.Formula, Amount: a.Amount})
	}
	return out
}

func normalize(d *generator.DocumentDraft, gender generator.Gender) {
	for i := range d.Sections {
		d.Sections[i].Header = generator.Normalize(d.Sections[i].Header, gender)
		for j := range d.Sections[i].Paragraphs {
			d.Sections[i].Paragraphs[j] = generator.Normalize(d.Sections[i].Paragraphs[j], gender)
		}
	}
	for i := range d.VerificationNotes {
		d.VerificationNotes[i] = generator.Normalize(d.VerificationNotes[i], gender)
	}
}

func formatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}
