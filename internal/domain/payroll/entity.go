package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payroll status codes stored in payroll_summaries.payroll_status_id.
const (
	StatusDraft     = 1
	StatusProcessed = 2
	StatusPosted    = 3
)

// StatusName returns the label of a payroll status code.
func StatusName(id int) string {
	switch id {
	case StatusDraft:
		return "draft"
	case StatusProcessed:
		return "processed"
	case StatusPosted:
		return "posted"
	default:
		return "unknown"
	}
}

// Totals are the column-wise sums of every PayrollDetail in a period.
type Totals struct {
	TotalSalary           decimal.Decimal
	TotalPreviousAdvance  decimal.Decimal
	TotalCurrentAdvance   decimal.Decimal
	TotalDeduction        decimal.Decimal
	TotalNetLoan          decimal.Decimal
	TotalNetSalaryPayable decimal.Decimal
	TotalCardSalary       decimal.Decimal
	TotalCashSalary       decimal.Decimal
}

// Equal reports whether every total matches numerically.
func (t Totals) Equal(o Totals) bool {
	return t.TotalSalary.Equal(o.TotalSalary) &&
		t.TotalPreviousAdvance.Equal(o.TotalPreviousAdvance) &&
		t.TotalCurrentAdvance.Equal(o.TotalCurrentAdvance) &&
		t.TotalDeduction.Equal(o.TotalDeduction) &&
		t.TotalNetLoan.Equal(o.TotalNetLoan) &&
		t.TotalNetSalaryPayable.Equal(o.TotalNetSalaryPayable) &&
		t.TotalCardSalary.Equal(o.TotalCardSalary) &&
		t.TotalCashSalary.Equal(o.TotalCashSalary)
}

// Summary is the per-period payroll header. Its totals are derived from the
// period's details and only change when recomputed.
type Summary struct {
	ID              int
	PayrollMonth    int
	PayrollYear     int
	BranchID        *int
	PayrollStatusID int
	Totals
	Remarks   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPosted reports whether the summary reached the terminal posted state.
func (s Summary) IsPosted() bool {
	return s.PayrollStatusID == StatusPosted
}

// Detail is one employee's payroll line for a month.
type Detail struct {
	ID                 int
	PayrollID          int
	EmployeeID         int
	PayrollMonth       int
	PayrollYear        int
	BranchID           *int
	WorkDays           int
	WorkHours          decimal.Decimal
	HourlyRate         decimal.Decimal
	Salary             decimal.Decimal
	OvertimeHours      decimal.Decimal
	OvertimeAmount     decimal.Decimal
	BreakfastAllowance decimal.Decimal
	OtherAllowances    decimal.Decimal
	TotalAllowances    decimal.Decimal
	PreviousLoan       decimal.Decimal
	CurrentLoan        decimal.Decimal
	DeductionLoan      decimal.Decimal
	NetLoan            decimal.Decimal
	PreviousChallan    decimal.Decimal
	CurrentChallan     decimal.Decimal
	DeductionChallan   decimal.Decimal
	NetChallan         decimal.Decimal
	NetSalaryPayable   decimal.Decimal
	CardSalary         decimal.Decimal
	CashSalary         decimal.Decimal
	PaymentMethodID    int
	Remarks            *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SumDetails adds up the eight summary columns across details. Zero is the
// identity, so an empty slice yields all-zero totals.
func SumDetails(details []Detail) Totals {
	t := Totals{
		TotalSalary:           decimal.Zero,
		TotalPreviousAdvance:  decimal.Zero,
		TotalCurrentAdvance:   decimal.Zero,
		TotalDeduction:        decimal.Zero,
		TotalNetLoan:          decimal.Zero,
		TotalNetSalaryPayable: decimal.Zero,
		TotalCardSalary:       decimal.Zero,
		TotalCashSalary:       decimal.Zero,
	}
	for _, d := range details {
		t.TotalSalary = t.TotalSalary.Add(d.Salary)
		t.TotalPreviousAdvance = t.TotalPreviousAdvance.Add(d.PreviousLoan)
		t.TotalCurrentAdvance = t.TotalCurrentAdvance.Add(d.CurrentLoan)
		t.TotalDeduction = t.TotalDeduction.Add(d.DeductionLoan)
		t.TotalNetLoan = t.TotalNetLoan.Add(d.NetLoan)
		t.TotalNetSalaryPayable = t.TotalNetSalaryPayable.Add(d.NetSalaryPayable)
		t.TotalCardSalary = t.TotalCardSalary.Add(d.CardSalary)
		t.TotalCashSalary = t.TotalCashSalary.Add(d.CashSalary)
	}
	return t
}

// Period identifies a payroll month, optionally scoped to one branch.
type Period struct {
	Month    int
	Year     int
	BranchID *int
}

// Key returns a comparable form of p for grouping.
func (p Period) Key() PeriodKey {
	k := PeriodKey{Month: p.Month, Year: p.Year}
	if p.BranchID != nil {
		k.BranchID = *p.BranchID
		k.Scoped = true
	}
	return k
}

// Matches reports whether d belongs to p: same month and year and, when p
// is scoped, the same branch.
func (p Period) Matches(d Detail) bool {
	if d.PayrollMonth != p.Month || d.PayrollYear != p.Year {
		return false
	}
	if p.BranchID == nil {
		return true
	}
	return d.BranchID != nil && *d.BranchID == *p.BranchID
}

// SelectSummary picks the summary of p from candidates ordered by id. A branch
// matches only that branch's summary. Without one the unscoped summary of the
// month wins, and a branch summary is taken only when it is the month's sole
// summary.
func SelectSummary(candidates []Summary, p Period) (Summary, error) {
	var scoped []Summary
	for _, s := range candidates {
		if s.PayrollMonth != p.Month || s.PayrollYear != p.Year {
			continue
		}
		if p.BranchID != nil {
			if s.BranchID != nil && *s.BranchID == *p.BranchID {
				return s, nil
			}
			continue
		}
		if s.BranchID == nil {
			return s, nil
		}
		scoped = append(scoped, s)
	}

	switch len(scoped) {
	case 0:
		return Summary{}, ErrPayrollSummaryNotFound
	case 1:
		return scoped[0], nil
	default:
		return Summary{}, ErrAmbiguousPeriod
	}
}

type PeriodKey struct {
	Month    int
	Year     int
	BranchID int
	Scoped   bool
}
