package importer

import (
	"strconv"
	"time"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/normalize"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// daysPerMonth is the fixed month length used to derive a fixed salary.
var daysPerMonth = decimal.NewFromInt(30)

// Transformer maps source rows onto domain records. A non-nil error is one of
// the record-level rejection sentinels; malformed scalar fields never fail.
type Transformer struct {
	lookups *Lookups
}

func NewTransformer(lookups *Lookups) *Transformer {
	if lookups == nil {
		lookups = DefaultLookups()
	}
	return &Transformer{lookups: lookups}
}

// Employee maps an HR export row.
func (t *Transformer) Employee(row source.Row) (employee.Employee, error) {
	id := positiveID(row.Get("Id"))
	if id == 0 {
		return employee.Employee{}, ErrInvalidID
	}

	designationID := normalize.Integer(row.Get("DesignationId"))
	payrollSectionID := normalize.Integer(row.Get("PayrollSectionId"))

	e := employee.Employee{
		ID:                 id,
		NameEn:             normalize.String(row.Get("NameEn")),
		NameAr:             normalize.String(row.Get("NameAr")),
		Gender:             gender(row.Get("Gender")),
		DOB:                normalize.Date(row.Get("DOB")),
		Phone:              normalize.String(row.Get("Phone")),
		IqamaNumber:        normalize.String(row.Get("IqamaNumber")),
		DesignationID:      designationID,
		PayrollSectionID:   payrollSectionID,
		CountryID:          normalize.Integer(row.Get("CountryId")),
		CityID:             normalize.Integer(row.Get("CityId")),
		IsFixed:            normalize.Boolean(row.Get("IsFixed")),
		HoursPerDay:        t.lookups.HoursPerDay(designationID),
		BreakfastAllowance: t.lookups.BreakfastEligible(designationID),
		HasTruckHouse:      t.lookups.HasTruckHouse(payrollSectionID),
		OtherAllowance:     normalize.Decimal(row.Get("Allowance")),
		BankName:           t.lookups.BankName(normalize.String(row.Get("BankCode"))),
		IBAN:               normalize.String(row.Get("IBAN")),
		JoiningDate:        normalize.Date(row.Get("JoiningDate")),
		IsActive:           normalize.IsSentinel(row.Get("IsActive")) || normalize.Boolean(row.Get("IsActive")),
	}

	if code := normalize.String(row.Get("EmployeeCode")); code != nil {
		e.EmployeeCode = *code
	} else {
		e.EmployeeCode = strconv.Itoa(id)
	}

	if e.HasTruckHouse {
		e.BranchID, e.GosiCityID = truckHouseBranchID, truckHouseGosiCityID
	} else {
		e.BranchID, e.GosiCityID = defaultBranchID, defaultGosiCityID
	}

	e.HourlyRate, e.Salary = salarySplit(e.IsFixed, normalize.Decimal(row.Get("HourlyRate")), e.HoursPerDay)

	return e, nil
}

// salarySplit returns (hourlyRate, salary). At most one of them is non-zero.
func salarySplit(isFixed bool, hourlyRate decimal.Decimal, hoursPerDay int) (decimal.Decimal, decimal.Decimal) {
	if !isFixed {
		return hourlyRate, decimal.Zero
	}
	if hourlyRate.IsPositive() {
		return decimal.Zero, hourlyRate.Mul(decimal.NewFromInt(int64(hoursPerDay))).Mul(daysPerMonth)
	}
	return decimal.Zero, decimal.Zero
}

func gender(raw string) *employee.Gender {
	code := normalize.String(raw)
	if code == nil {
		return nil
	}
	g := employee.Female
	if *code == "M" {
		g = employee.Male
	}
	return &g
}

// ledgerEntry is the shared shape of loan and traffic challan rows.
type ledgerEntry struct {
	ID         int
	EmployeeID int
	Date       time.Time
	Forward    bool
	Amount     decimal.Decimal
	Remarks    *string
}

// deriveEntry decides the entry type from the primary and deduction amounts:
// a positive primary amount is a forward entry, otherwise a positive deduction
// or a negative primary amount is a return. Both zero is rejected.
func deriveEntry(primary, deduction decimal.Decimal) (bool, decimal.Decimal, error) {
	switch {
	case primary.IsPositive():
		return true, primary, nil
	case deduction.IsPositive():
		return false, deduction, nil
	case primary.IsNegative():
		return false, primary.Abs(), nil
	default:
		return false, decimal.Zero, ErrZeroAmounts
	}
}

func (t *Transformer) ledger(row source.Row, primaryCol string) (ledgerEntry, error) {
	id := positiveID(row.Get("Id"))
	if id == 0 {
		return ledgerEntry{}, ErrInvalidID
	}
	employeeID := positiveID(row.Get("EmployeeId"))
	if employeeID == 0 {
		return ledgerEntry{}, ErrInvalidEmployeeID
	}

	forward, amount, err := deriveEntry(normalize.Decimal(row.Get(primaryCol)), normalize.Decimal(row.Get("DeductionAmount")))
	if err != nil {
		return ledgerEntry{}, err
	}

	date := normalize.Date(row.Get("TransactionDate"))
	if date == nil {
		return ledgerEntry{}, ErrMissingDate
	}

	return ledgerEntry{
		ID:         id,
		EmployeeID: employeeID,
		Date:       *date,
		Forward:    forward,
		Amount:     amount,
		Remarks:    normalize.String(row.Get("Remarks")),
	}, nil
}

// Loan maps a loan ledger row (LoanAmount, DeductionAmount).
func (t *Transformer) Loan(row source.Row) (loan.Loan, error) {
	e, err := t.ledger(row, "LoanAmount")
	if err != nil {
		return loan.Loan{}, err
	}
	typ := loan.TypeReturn
	if e.Forward {
		typ = loan.TypeLoan
	}
	return loan.Loan{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Date:       e.Date,
		Type:       typ,
		Amount:     e.Amount,
		Remarks:    e.Remarks,
	}, nil
}

// TrafficChallan maps a traffic challan ledger row (ChallanAmount, DeductionAmount).
func (t *Transformer) TrafficChallan(row source.Row) (challan.TrafficChallan, error) {
	e, err := t.ledger(row, "ChallanAmount")
	if err != nil {
		return challan.TrafficChallan{}, err
	}
	typ := challan.TypeReturn
	if e.Forward {
		typ = challan.TypeChallan
	}
	return challan.TrafficChallan{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Date:       e.Date,
		Type:       typ,
		Amount:     e.Amount,
		Remarks:    e.Remarks,
	}, nil
}

// Timesheet maps a timesheet export row. Only the first two project slots
// are kept.
func (t *Transformer) Timesheet(row source.Row) (timesheet.Timesheet, error) {
	id := positiveID(row.Get("Id"))
	if id == 0 {
		return timesheet.Timesheet{}, ErrInvalidID
	}
	employeeID := positiveID(row.Get("EmployeeId"))
	if employeeID == 0 {
		return timesheet.Timesheet{}, ErrInvalidEmployeeID
	}

	ts, err := TimesheetFields(row)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	ts.ID = id
	ts.EmployeeID = employeeID
	return ts, nil
}

// TimesheetFields maps the date, project slots, totals and description of a
// timesheet row, leaving the identifying fields to the caller.
func TimesheetFields(row source.Row) (timesheet.Timesheet, error) {
	date := normalize.Date(row.Get("Date"))
	if date == nil {
		return timesheet.Timesheet{}, ErrMissingDate
	}
	if !timesheet.IsRealisticDate(*date) {
		return timesheet.Timesheet{}, ErrUnrealisticDate
	}

	ts := timesheet.Timesheet{
		Date:             *date,
		Project1ID:       optionalID(row.Get("Project1Id")),
		Project1Hours:    normalize.RoundedHours(row.Get("Project1Hours")),
		Project1Overtime: normalize.RoundedHours(row.Get("Project1Overtime")),
		Project2ID:       optionalID(row.Get("Project2Id")),
		Project2Hours:    normalize.RoundedHours(row.Get("Project2Hours")),
		Project2Overtime: normalize.RoundedHours(row.Get("Project2Overtime")),
		TotalHours:       normalize.RoundedHours(row.Get("TotalHours")),
		Description:      normalize.String(row.Get("Description")),
	}
	if ts.TotalHours == nil {
		ts.TotalHours = ts.BookedHours()
	}
	return ts, nil
}

// PayrollDetail maps a payroll detail row. Every line must name its payroll
// header; rows without an Id are later matched by (PayrollId, EmployeeId).
func (t *Transformer) PayrollDetail(row source.Row) (payroll.Detail, error) {
	employeeID := positiveID(row.Get("EmployeeId"))
	if employeeID == 0 {
		return payroll.Detail{}, ErrInvalidEmployeeID
	}

	d := payroll.Detail{
		ID:               positiveID(row.Get("Id")),
		PayrollID:        positiveID(row.Get("PayrollId")),
		EmployeeID:       employeeID,
		PayrollMonth:     normalize.IntOrZero(row.Get("PayrollMonth")),
		PayrollYear:      normalize.IntOrZero(row.Get("PayrollYear")),
		BranchID:         optionalID(row.Get("BranchId")),
		WorkDays:         normalize.IntOrZero(row.Get("WorkDays")),
		WorkHours:        normalize.Decimal(row.Get("WorkHours")),
		HourlyRate:       normalize.Decimal(row.Get("HourlyRate")),
		Salary:           normalize.Decimal(row.Get("Salary")),
		OvertimeHours:    normalize.Decimal(row.Get("OvertimeHours")),
		OvertimeAmount:   normalize.Decimal(row.Get("OvertimeAmount")),
		PreviousLoan:     normalize.Decimal(row.Get("PreviousLoan")),
		CurrentLoan:      normalize.Decimal(row.Get("CurrentLoan")),
		DeductionLoan:    normalize.Decimal(row.Get("DeductionLoan")),
		NetLoan:          normalize.Decimal(row.Get("NetLoan")),
		PreviousChallan:  normalize.Decimal(row.Get("PreviousChallan")),
		CurrentChallan:   normalize.Decimal(row.Get("CurrentChallan")),
		DeductionChallan: normalize.Decimal(row.Get("DeductionChallan")),
		NetChallan:       normalize.Decimal(row.Get("NetChallan")),
		NetSalaryPayable: normalize.Decimal(row.Get("NetSalaryPayable")),
		CardSalary:       normalize.Decimal(row.Get("CardSalary")),
		CashSalary:       normalize.Decimal(row.Get("CashSalary")),
		PaymentMethodID:  t.lookups.PaymentMethod(normalize.Integer(row.Get("PaymentMethodId"))),
		Remarks:          normalize.String(row.Get("Remarks")),
	}

	if d.PayrollID == 0 {
		return payroll.Detail{}, ErrMissingPayrollReference
	}
	if !validator.IsValidPayrollPeriod(d.PayrollMonth, d.PayrollYear) {
		return payroll.Detail{}, ErrInvalidPeriod
	}

	// Breakfast is not priced into historical payroll lines.
	d.BreakfastAllowance = decimal.Zero
	d.OtherAllowances = normalize.Decimal(row.Get("Allowance"))
	d.TotalAllowances = d.BreakfastAllowance.Add(d.OtherAllowances)

	return d, nil
}

// PayrollSummary maps a payroll header row. Totals are filled in later from
// the period's details.
func (t *Transformer) PayrollSummary(row source.Row) (payroll.Summary, error) {
	id := positiveID(row.Get("Id"))
	if id == 0 {
		return payroll.Summary{}, ErrInvalidID
	}

	s := payroll.Summary{
		ID:              id,
		PayrollMonth:    normalize.IntOrZero(row.Get("PayrollMonth")),
		PayrollYear:     normalize.IntOrZero(row.Get("PayrollYear")),
		BranchID:        optionalID(row.Get("BranchId")),
		PayrollStatusID: normalize.IntOrZero(row.Get("PayrollStatusId")),
		Remarks:         normalize.String(row.Get("Remarks")),
	}
	if !validator.IsValidPayrollPeriod(s.PayrollMonth, s.PayrollYear) {
		return payroll.Summary{}, ErrInvalidPeriod
	}
	if payroll.StatusName(s.PayrollStatusID) == "unknown" {
		s.PayrollStatusID = payroll.StatusDraft
	}
	return s, nil
}

// positiveID parses a primary or foreign key; anything but a positive
// integer is reported as 0.
func positiveID(raw string) int {
	n := normalize.Integer(raw)
	if n == nil || *n <= 0 {
		return 0
	}
	return *n
}

// optionalID is positiveID for nullable references.
func optionalID(raw string) *int {
	id := positiveID(raw)
	if id == 0 {
		return nil
	}
	return &id
}
