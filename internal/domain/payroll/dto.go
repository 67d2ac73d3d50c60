package payroll

import (
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdateMonthlyValuesRequest struct {
	PayrollYear  int  `json:"payroll_year"`
	PayrollMonth int  `json:"payroll_month"`
	BranchID     *int `json:"branch_id,omitempty"`
	IsPosted     bool `json:"is_posted"`
}

func (r *UpdateMonthlyValuesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PayrollMonth < 1 || r.PayrollMonth > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "payroll_month",
			Message: "payroll_month must be between 1 and 12",
		})
	}
	if !validator.IsValidPayrollPeriod(1, r.PayrollYear) {
		errs = append(errs, validator.ValidationError{
			Field:   "payroll_year",
			Message: "payroll_year must be between 2000 and 2100",
		})
	}
	if r.BranchID != nil && *r.BranchID < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r UpdateMonthlyValuesRequest) Period() Period {
	return Period{Month: r.PayrollMonth, Year: r.PayrollYear, BranchID: r.BranchID}
}

type SummaryFilter struct {
	PayrollYear     *int
	PayrollMonth    *int
	BranchID        *int
	PayrollStatusID *int
	Page            int
	Limit           int
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}
	if f.PayrollMonth != nil && (*f.PayrollMonth < 1 || *f.PayrollMonth > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "payroll_month",
			Message: "payroll_month must be between 1 and 12",
		})
	}
	if f.PayrollStatusID != nil && StatusName(*f.PayrollStatusID) == "unknown" {
		errs = append(errs, validator.ValidationError{
			Field:   "payroll_status_id",
			Message: "payroll_status_id must be one of: 1, 2, 3",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TotalsResponse struct {
	TotalSalary           decimal.Decimal `json:"total_salary"`
	TotalPreviousAdvance  decimal.Decimal `json:"total_previous_advance"`
	TotalCurrentAdvance   decimal.Decimal `json:"total_current_advance"`
	TotalDeduction        decimal.Decimal `json:"total_deduction"`
	TotalNetLoan          decimal.Decimal `json:"total_net_loan"`
	TotalNetSalaryPayable decimal.Decimal `json:"total_net_salary_payable"`
	TotalCardSalary       decimal.Decimal `json:"total_card_salary"`
	TotalCashSalary       decimal.Decimal `json:"total_cash_salary"`
}

type SummaryResponse struct {
	ID              int     `json:"id"`
	PayrollMonth    int     `json:"payroll_month"`
	PayrollYear     int     `json:"payroll_year"`
	BranchID        *int    `json:"branch_id"`
	PayrollStatusID int     `json:"payroll_status_id"`
	PayrollStatus   string  `json:"payroll_status"`
	Remarks         *string `json:"remarks"`
	TotalsResponse
}

type ListSummaryResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Summaries  []SummaryResponse `json:"summaries"`
}

type DetailResponse struct {
	ID                 int             `json:"id"`
	PayrollID          int             `json:"payroll_id"`
	EmployeeID         int             `json:"employee_id"`
	PayrollMonth       int             `json:"payroll_month"`
	PayrollYear        int             `json:"payroll_year"`
	BranchID           *int            `json:"branch_id"`
	WorkDays           int             `json:"work_days"`
	WorkHours          decimal.Decimal `json:"work_hours"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	Salary             decimal.Decimal `json:"salary"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	OvertimeAmount     decimal.Decimal `json:"overtime_amount"`
	BreakfastAllowance decimal.Decimal `json:"breakfast_allowance"`
	OtherAllowances    decimal.Decimal `json:"other_allowances"`
	TotalAllowances    decimal.Decimal `json:"total_allowances"`
	PreviousLoan       decimal.Decimal `json:"previous_loan"`
	CurrentLoan        decimal.Decimal `json:"current_loan"`
	DeductionLoan      decimal.Decimal `json:"deduction_loan"`
	NetLoan            decimal.Decimal `json:"net_loan"`
	PreviousChallan    decimal.Decimal `json:"previous_challan"`
	CurrentChallan     decimal.Decimal `json:"current_challan"`
	DeductionChallan   decimal.Decimal `json:"deduction_challan"`
	NetChallan         decimal.Decimal `json:"net_challan"`
	NetSalaryPayable   decimal.Decimal `json:"net_salary_payable"`
	CardSalary         decimal.Decimal `json:"card_salary"`
	CashSalary         decimal.Decimal `json:"cash_salary"`
	PaymentMethodID    int             `json:"payment_method_id"`
	Remarks            *string         `json:"remarks"`
}
