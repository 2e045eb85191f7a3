package calc

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func baseInput() Input {
	return Input{
		StartDate:       "2022-01-01",
		EndDate:         "2024-01-01",
		BaseSalary:      10000,
		WorkDaysPerWeek: 6,
		HoursPerDay:     8.5,
	}
}

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name         string
		start, end   string
		wantMonths   int
		wantYears    int
		wantDecimals float64
	}{
		{"exact two years", "2022-01-01", "2024-01-01", 24, 2, 2.0},
		{"partial month not counted", "2022-01-15", "2023-01-10", 11, 0, 0.92},
		{"one month", "2023-03-01", "2023-04-01", 1, 0, 0.08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.StartDate, in.EndDate = tt.start, tt.end
			res, err := Compute(in)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if res.Duration.TotalMonths != tt.wantMonths {
				t.Errorf("TotalMonths = %d, want %d", res.Duration.TotalMonths, tt.wantMonths)
			}
			if res.Duration.Years != tt.wantYears {
				t.Errorf("Years = %d, want %d", res.Duration.Years, tt.wantYears)
			}
			if res.Duration.DecimalYears != tt.wantDecimals {
				t.Errorf("DecimalYears = %v, want %v", res.Duration.DecimalYears, tt.wantDecimals)
			}
		})
	}
}

func TestComputeDateErrors(t *testing.T) {
	in := baseInput()
	in.StartDate = ""
	if _, err := Compute(in); !errors.Is(err, ErrMissingDates) {
		t.Errorf("missing start date: got %v, want ErrMissingDates", err)
	}

	in = baseInput()
	in.StartDate, in.EndDate = "2024-01-01", "2022-01-01"
	if _, err := Compute(in); !errors.Is(err, ErrDateOrder) {
		t.Errorf("reversed dates: got %v, want ErrDateOrder", err)
	}

	in = baseInput()
	in.StartDate = "01/02/2022"
	if _, err := Compute(in); err == nil {
		t.Error("malformed date: expected error")
	}
}

func TestSeverance(t *testing.T) {
	in := baseInput()
	in.ClaimSeverance = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	c, ok := res.Claims["severance"]
	if !ok {
		t.Fatal("severance claim missing")
	}
	if c.Amount != 20000 {
		t.Errorf("severance = %v, want 20000", c.Amount)
	}
	if !strings.Contains(c.Formula, "×") || !strings.Contains(c.Formula, "₪") {
		t.Errorf("formula missing calculation symbols: %q", c.Formula)
	}

	in.SeveranceDeposited = 5000
	res, err = Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := res.Claims["severance"].Amount; got != 15000 {
		t.Errorf("severance after deposit = %v, want 15000", got)
	}
	if !strings.Contains(res.Claims["severance"].Formula, "בניכוי") {
		t.Errorf("formula should mention the deposit: %q", res.Claims["severance"].Formula)
	}
}

func TestPriorNotice(t *testing.T) {
	in := baseInput()
	in.Commissions = 2000
	in.ClaimPriorNotice = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := res.Claims["prior_notice"].Amount; got != 12000 {
		t.Errorf("prior notice = %v, want determining salary 12000", got)
	}
}

func TestPensionGap(t *testing.T) {
	in := baseInput()
	in.ClaimPension = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// 10000 × 24 months × 6.5%
	if got := res.Claims["pension"].Amount; got != 15600 {
		t.Errorf("pension gap = %v, want 15600", got)
	}

	in.PensionDeposited = 20000
	res, err = Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := res.Claims["pension"].Amount; got != 0 {
		t.Errorf("overfunded pension gap = %v, want 0", got)
	}
}

func TestRecuperation(t *testing.T) {
	in := baseInput()
	in.ClaimRecuperation = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// Year 1: 5 days, year 2: 6 days.
	if got := res.Claims["recuperation"].Amount; got != 11*RecuperationDayValue {
		t.Errorf("recuperation = %v, want %v", got, 11*RecuperationDayValue)
	}
}

func TestVacationSixDayWeek(t *testing.T) {
	in := baseInput()
	in.ClaimVacation = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// 14 days per year for the first two years, at the daily rate.
	want := round2(28 * res.DailyRate)
	if got := res.Claims["vacation"].Amount; got != want {
		t.Errorf("vacation = %v, want %v", got, want)
	}
}

func TestEmotionalDefault(t *testing.T) {
	in := baseInput()
	in.ClaimEmotional = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := res.Claims["emotional"].Amount; got != 25000 {
		t.Errorf("default emotional = %v, want 25000", got)
	}

	in.EmotionalAmount = 40000
	res, err = Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := res.Claims["emotional"].Amount; got != 40000 {
		t.Errorf("explicit emotional = %v, want 40000", got)
	}
}

func TestDocumentsHasNoAmount(t *testing.T) {
	in := baseInput()
	in.ClaimDocuments = true
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	c := res.Claims["documents"]
	if c.Amount != 0 {
		t.Errorf("documents amount = %v, want 0", c.Amount)
	}
	if c.Name == "" {
		t.Error("documents claim missing name")
	}
}

func TestTotalSumsClaims(t *testing.T) {
	in := baseInput()
	in.ClaimSeverance = true
	in.ClaimPriorNotice = true
	in.ClaimPension = true
	in.ClaimRecuperation = true
	in.ClaimUnpaidSalary = true
	in.UnpaidSalaryAmount = 3500
	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	var sum float64
	for _, c := range res.Claims {
		sum += c.Amount
	}
	if math.Abs(res.Total-round2(sum)) > 0.001 {
		t.Errorf("Total = %v, sum of claims = %v", res.Total, sum)
	}
	if len(res.Order) != len(res.Claims) {
		t.Errorf("Order has %d entries, Claims has %d", len(res.Order), len(res.Claims))
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{25432.6, "25,433"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
