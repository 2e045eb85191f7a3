// Package calc computes the authoritative claim amounts for Israeli labor law
// claims. Its results are ground truth for the generation pipeline: generated
// text never overrides them.
package calc

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Israeli labor law constants (2024).
const (
	MinimumWage2024       = 5880.02
	MinimumWageHourly2024 = 32.30
	PensionEmployerRate   = 0.065
	PensionEmployeeRate   = 0.06
	SeveranceRate         = 0.0833
	RecuperationDayValue  = 418
	HolidayDaysPerYear    = 9
	Overtime125Surcharge  = 0.25
	Overtime150Surcharge  = 0.50
)

// vacationDays6Day and vacationDays5Day map seniority year to annual vacation
// entitlement; years beyond the last key keep the last value.
var vacationDays6Day = []yearDays{
	{1, 14}, {5, 16}, {6, 18}, {7, 21}, {8, 22}, {9, 23},
	{10, 24}, {11, 25}, {12, 26}, {13, 27}, {14, 28},
}

var vacationDays5Day = []yearDays{
	{1, 12}, {5, 13}, {6, 15}, {7, 18}, {8, 19}, {9, 20},
	{10, 21}, {11, 22}, {12, 23}, {13, 24},
}

type yearDays struct {
	fromYear int
	days     float64
}

// Input is the intake form data relevant to the calculations. Claim flags
// select which components are computed.
type Input struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`

	BaseSalary      float64 `json:"base_salary"`
	Commissions     float64 `json:"commissions"`
	WorkDaysPerWeek int     `json:"work_days_per_week"`
	HoursPerDay     float64 `json:"hours_per_day"`
	TerminationType string  `json:"termination_type"`

	ClaimSeverance     bool    `json:"claim_severance"`
	SeveranceDeposited float64 `json:"severance_deposited"`

	ClaimPriorNotice bool `json:"claim_prior_notice"`

	ClaimUnpaidSalary  bool    `json:"claim_unpaid_salary"`
	UnpaidSalaryAmount float64 `json:"unpaid_salary_amount"`

	ClaimOvertime     bool    `json:"claim_overtime"`
	WeeklyOvertime125 float64 `json:"weekly_overtime_125"`
	WeeklyOvertime150 float64 `json:"weekly_overtime_150"`

	ClaimPension     bool    `json:"claim_pension"`
	PensionDeposited float64 `json:"pension_deposited"`

	ClaimVacation    bool    `json:"claim_vacation"`
	VacationDaysPaid float64 `json:"vacation_days_paid"`
	VacationRatePaid float64 `json:"vacation_rate_paid"`

	ClaimHolidays   bool    `json:"claim_holidays"`
	HolidayDaysPaid float64 `json:"holiday_days_paid"`
	HolidayRatePaid float64 `json:"holiday_rate_paid"`

	ClaimRecuperation    bool    `json:"claim_recuperation"`
	RecuperationDaysPaid float64 `json:"recuperation_days_paid"`

	ClaimSalaryDelay  bool    `json:"claim_salary_delay"`
	SalaryDelayAmount float64 `json:"salary_delay_amount"`

	ClaimEmotional  bool    `json:"claim_emotional"`
	EmotionalAmount float64 `json:"emotional_amount"`

	ClaimDeductions bool    `json:"claim_deductions"`
	DeductionAmount float64 `json:"deduction_amount"`

	ClaimDocuments bool `json:"claim_documents"`
}

// Claim is one computed claim component. Formula is the human-readable
// derivation included in the document body.
type Claim struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Formula string  `json:"formula,omitempty"`
}

// Duration describes the employment period.
type Duration struct {
	Years        int     `json:"years"`
	Months       int     `json:"months"`
	TotalMonths  int     `json:"total_months"`
	DecimalYears float64 `json:"decimal_years"`
}

// Result aggregates all computed components and the authoritative total.
type Result struct {
	Duration          Duration         `json:"duration"`
	DeterminingSalary float64          `json:"determining_salary"`
	HourlyRate        float64          `json:"hourly_rate"`
	DailyRate         float64          `json:"daily_rate"`
	Claims            map[string]Claim `json:"claims"`
	Order             []string         `json:"order"`
	Total             float64          `json:"total"`
}

var (
	ErrMissingDates = errors.New("יש להזין תאריך תחילת עבודה ותאריך סיום עבודה")
	ErrDateOrder    = errors.New("תאריך סיום העבודה חייב להיות מאוחר מתאריך ההתחלה")
)

// Compute runs every selected claim calculation. It is pure: same input, same
// output, no clock or I/O involved.
func Compute(in Input) (*Result, error) {
	if in.StartDate == "" || in.EndDate == "" {
		return nil, ErrMissingDates
	}
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("תאריך תחילת עבודה אינו תקין: %s", in.StartDate)
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("תאריך סיום עבודה אינו תקין: %s", in.EndDate)
	}
	if !end.After(start) {
		return nil, ErrDateOrder
	}

	dur := employmentDuration(start, end)
	determining := in.BaseSalary + in.Commissions

	workDays := in.WorkDaysPerWeek
	if workDays <= 0 {
		workDays = 6
	}
	hoursPerDay := in.HoursPerDay
	if hoursPerDay <= 0 {
		if workDays == 6 {
			hoursPerDay = 8.5
		} else {
			hoursPerDay = 9
		}
	}
	monthlyHours := float64(workDays) * hoursPerDay * 4.33
	var hourlyRate, dailyRate float64
	if monthlyHours > 0 {
		hourlyRate = round2(determining / monthlyHours)
	}
	if workDays > 0 {
		dailyRate = round2(determining / (float64(workDays) * 4.33))
	}

	res := &Result{
		Duration:          dur,
		DeterminingSalary: determining,
		HourlyRate:        hourlyRate,
		DailyRate:         dailyRate,
		Claims:            make(map[string]Claim),
	}
	add := func(id string, c Claim) {
		res.Claims[id] = c
		res.Order = append(res.Order, id)
	}

	if in.ClaimSeverance {
		full := round2(determining * dur.DecimalYears)
		amount := round2(full - in.SeveranceDeposited)
		formula := fmt.Sprintf("%s ₪ (שכר חודשי קובע) × %.2f (תקופת העסקה) = %s ₪",
			formatAmount(determining), dur.DecimalYears, formatAmount(full))
		if in.SeveranceDeposited > 0 {
			formula += fmt.Sprintf(" בניכוי צבירה בקופה בסך %s ₪", formatAmount(in.SeveranceDeposited))
		}
		add("severance", Claim{Name: "פיצויי פיטורים", Amount: amount, Formula: formula})
	}

	if in.ClaimPriorNotice {
		// One determining salary per חוק הודעה מוקדמת.
		add("prior_notice", Claim{
			Name:    "חלף הודעה מוקדמת",
			Amount:  round2(determining),
			Formula: fmt.Sprintf("%s ₪ × חודש אחד = %s ₪", formatAmount(determining), formatAmount(determining)),
		})
	}

	if in.ClaimUnpaidSalary {
		add("unpaid_salary", Claim{Name: "שכר עבודה שלא שולם", Amount: round2(in.UnpaidSalaryAmount)})
	}

	if in.ClaimOvertime {
		ot := overtimePay(in.WeeklyOvertime125, in.WeeklyOvertime150, hourlyRate, dur.TotalMonths)
		add("overtime", Claim{
			Name:   "הפרשי שכר – שעות נוספות",
			Amount: ot,
			Formula: fmt.Sprintf("(%0.1f ש\"נ 125%% + %0.1f ש\"נ 150%%) × 4 שבועות × %d חודשים = %s ₪",
				in.WeeklyOvertime125, in.WeeklyOvertime150, dur.TotalMonths, formatAmount(ot)),
		})
	}

	if in.ClaimPension {
		owed := round2(determining * float64(dur.TotalMonths) * PensionEmployerRate)
		gap := math.Max(0, round2(owed-in.PensionDeposited))
		add("pension", Claim{
			Name:   "הפרשי הפרשות לפנסיה",
			Amount: gap,
			Formula: fmt.Sprintf("%s ₪ × %d חודשים × 6.5%% = %s ₪",
				formatAmount(determining), dur.TotalMonths, formatAmount(owed)),
		})
	}

	if in.ClaimVacation {
		days := vacationEntitlement(dur.DecimalYears, workDays)
		value := round2(days * dailyRate)
		paid := in.VacationDaysPaid * in.VacationRatePaid
		gap := math.Max(0, round2(value-paid))
		add("vacation", Claim{
			Name:   "הפרשי דמי חופשה ופדיון חופשה",
			Amount: gap,
			Formula: fmt.Sprintf("%.2f ימי חופשה × %s ₪ = %s ₪",
				days, formatAmount(dailyRate), formatAmount(value)),
		})
	}

	if in.ClaimHolidays {
		totalDays := math.Round(HolidayDaysPerYear * dur.DecimalYears)
		entitled := round2(totalDays * dailyRate)
		paid := round2(in.HolidayDaysPaid * in.HolidayRatePaid)
		diff := math.Max(0, round2(entitled-paid))
		add("holidays", Claim{
			Name:   "דמי חגים והפרשי דמי חג",
			Amount: diff,
			Formula: fmt.Sprintf("%.0f ימי חג × %s ₪ = %s ₪",
				totalDays, formatAmount(dailyRate), formatAmount(entitled)),
		})
	}

	if in.ClaimRecuperation {
		days := recuperationEntitlement(dur.DecimalYears)
		value := round2(days * RecuperationDayValue)
		paid := in.RecuperationDaysPaid * RecuperationDayValue
		gap := math.Max(0, round2(value-paid))
		add("recuperation", Claim{
			Name:   "דמי הבראה",
			Amount: gap,
			Formula: fmt.Sprintf("%.2f ימי הבראה × %d ₪ = %s ₪",
				days, RecuperationDayValue, formatAmount(value)),
		})
	}

	if in.ClaimSalaryDelay {
		add("salary_delay", Claim{Name: "פיצויי הלנת שכר", Amount: round2(in.SalaryDelayAmount)})
	}

	if in.ClaimEmotional {
		amount := in.EmotionalAmount
		if amount <= 0 {
			amount = 25000
		}
		add("emotional", Claim{Name: "פיצוי בגין עוגמת נפש", Amount: round2(amount)})
	}

	if in.ClaimDeductions {
		add("deductions", Claim{Name: "ניכויים שלא כדין", Amount: round2(in.DeductionAmount)})
	}

	if in.ClaimDocuments {
		// Declaratory relief: no monetary amount.
		add("documents", Claim{Name: "מסירת מסמכי גמר חשבון"})
	}

	total := 0.0
	for _, c := range res.Claims {
		total += c.Amount
	}
	res.Total = round2(total)
	return res, nil
}

// employmentDuration counts full calendar months between the dates.
func employmentDuration(start, end time.Time) Duration {
	totalMonths := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		totalMonths--
	}
	if totalMonths < 0 {
		totalMonths = 0
	}
	return Duration{
		Years:        totalMonths / 12,
		Months:       totalMonths % 12,
		TotalMonths:  totalMonths,
		DecimalYears: math.Round(float64(totalMonths)/12*100) / 100,
	}
}

// vacationEntitlement sums annual vacation days over the employment period,
// prorating the final partial year.
func vacationEntitlement(decimalYears float64, workDaysPerWeek int) float64 {
	table := vacationDays6Day
	if workDaysPerWeek != 6 {
		table = vacationDays5Day
	}
	fullYears := int(decimalYears)
	fraction := decimalYears - float64(fullYears)

	var total float64
	for y := 1; y <= fullYears; y++ {
		total += daysForYear(table, y)
	}
	if fraction > 0 {
		total += math.Round(daysForYear(table, fullYears+1)*fraction*100) / 100
	}
	return math.Round(total*100) / 100
}

func daysForYear(table []yearDays, year int) float64 {
	days := table[0].days
	for _, e := range table {
		if year >= e.fromYear {
			days = e.days
		}
	}
	return days
}

// recuperationEntitlement sums annual recuperation days per the extension
// order brackets, prorating the final partial year.
func recuperationEntitlement(decimalYears float64) float64 {
	fullYears := int(decimalYears)
	fraction := decimalYears - float64(fullYears)

	var total float64
	for y := 1; y <= fullYears; y++ {
		total += recuperationDaysForYear(y)
	}
	if fraction > 0 {
		total += math.Round(recuperationDaysForYear(fullYears+1)*fraction*100) / 100
	}
	return math.Round(total*100) / 100
}

func recuperationDaysForYear(year int) float64 {
	switch {
	case year <= 1:
		return 5
	case year <= 3:
		return 6
	case year <= 10:
		return 7
	case year <= 15:
		return 8
	case year <= 19:
		return 9
	default:
		return 10
	}
}

// overtimePay values only the overtime surcharge: the base hour was already
// paid as part of the monthly salary.
func overtimePay(weekly125, weekly150, hourlyRate float64, months int) float64 {
	surcharge125 := hourlyRate * Overtime125Surcharge
	surcharge150 := hourlyRate * Overtime150Surcharge
	monthly := weekly125*4*surcharge125 + weekly150*4*surcharge150
	return round2(monthly * float64(months))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatAmount renders an amount with thousands separators and no decimals,
// matching the firm's document style.
func formatAmount(v float64) string {
	n := int64(math.Round(v))
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
