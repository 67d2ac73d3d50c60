package importer

import (
	"testing"
	"time"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(fields map[string]string) source.Row {
	return source.Row{Line: 2, Fields: fields}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTransformer_Employee_SalarySplit(t *testing.T) {
	tr := NewTransformer(nil)

	cases := []struct {
		name        string
		isFixed     string
		hourlyRate  string
		designation string
		wantRate    string
		wantSalary  string
	}{
		{"fixed 8 hour designation", "1", "12.5", "1", "0", "3000"},
		{"fixed 10 hour designation", "true", "10", "40", "0", "3000"},
		{"fixed without rate", "1", "0", "40", "0", "0"},
		{"fixed with missing rate", "1", "NULL", "40", "0", "0"},
		{"hourly", "0", "15", "40", "15", "0"},
		{"hourly with blank flag", "", "9.75", "1", "9.75", "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := tr.Employee(row(map[string]string{
				"Id": "7", "IsFixed": c.isFixed, "HourlyRate": c.hourlyRate, "DesignationId": c.designation,
			}))
			require.NoError(t, err)

			assert.True(t, e.HourlyRate.Equal(dec(c.wantRate)), "hourly rate %s", e.HourlyRate)
			assert.True(t, e.Salary.Equal(dec(c.wantSalary)), "salary %s", e.Salary)
			assert.False(t, !e.HourlyRate.IsZero() && !e.Salary.IsZero(), "salary and hourly rate both set")
		})
	}
}

func TestTransformer_Employee_Lookups(t *testing.T) {
	tr := NewTransformer(nil)

	e, err := tr.Employee(row(map[string]string{
		"Id": "12", "EmployeeCode": " 1012 ", "NameEn": "Omar", "Gender": "M",
		"DesignationId": "7", "PayrollSectionId": "15", "BankCode": "RJHI",
	}))
	require.NoError(t, err)

	assert.Equal(t, "1012", e.EmployeeCode)
	require.NotNil(t, e.Gender)
	assert.Equal(t, employee.Male, *e.Gender)
	assert.Equal(t, 10, e.HoursPerDay)
	assert.True(t, e.BreakfastAllowance)
	assert.True(t, e.HasTruckHouse)
	assert.Equal(t, 2, e.BranchID)
	assert.Equal(t, 3, e.GosiCityID)
	require.NotNil(t, e.BankName)
	assert.Equal(t, "Al Rajhi Bank", *e.BankName)
	assert.True(t, e.IsActive)

	e, err = tr.Employee(row(map[string]string{
		"Id": "13", "Gender": "F", "DesignationId": "2", "PayrollSectionId": "3", "BankCode": "XBNK", "IsActive": "0",
	}))
	require.NoError(t, err)

	assert.Equal(t, "13", e.EmployeeCode)
	require.NotNil(t, e.Gender)
	assert.Equal(t, employee.Female, *e.Gender)
	assert.Equal(t, 8, e.HoursPerDay)
	assert.False(t, e.BreakfastAllowance)
	assert.False(t, e.HasTruckHouse)
	assert.Equal(t, 1, e.BranchID)
	assert.Equal(t, 1, e.GosiCityID)
	require.NotNil(t, e.BankName)
	assert.Equal(t, "XBNK", *e.BankName)
	assert.False(t, e.IsActive)

	e, err = tr.Employee(row(map[string]string{"Id": "14", "Gender": "NULL"}))
	require.NoError(t, err)
	assert.Nil(t, e.Gender)
	assert.Nil(t, e.BankName)
}

func TestTransformer_Employee_InvalidID(t *testing.T) {
	tr := NewTransformer(nil)
	for _, id := range []string{"", "NULL", "0", "-3", "abc"} {
		_, err := tr.Employee(row(map[string]string{"Id": id}))
		assert.ErrorIs(t, err, ErrInvalidID, "Id %q", id)
	}
}

func TestDeriveEntry(t *testing.T) {
	cases := []struct {
		primary, deduction string
		wantForward        bool
		wantAmount         string
		wantErr            error
	}{
		{"1000", "0", true, "1000", nil},
		{"1000", "200", true, "1000", nil},
		{"0", "250", false, "250", nil},
		{"-300", "0", false, "300", nil},
		{"-300", "100", false, "100", nil},
		{"0", "0", false, "0", ErrZeroAmounts},
		{"NULL", "", false, "0", ErrZeroAmounts},
		{"0", "-50", false, "0", ErrZeroAmounts},
	}
	for _, c := range cases {
		forward, amount, err := deriveEntry(normalizeDec(c.primary), normalizeDec(c.deduction))
		if c.wantErr != nil {
			assert.ErrorIs(t, err, c.wantErr, "(%s, %s)", c.primary, c.deduction)
			continue
		}
		require.NoError(t, err, "(%s, %s)", c.primary, c.deduction)
		assert.Equal(t, c.wantForward, forward, "(%s, %s)", c.primary, c.deduction)
		assert.True(t, amount.Equal(dec(c.wantAmount)), "(%s, %s) amount %s", c.primary, c.deduction, amount)
	}
}

func normalizeDec(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func TestTransformer_Loan(t *testing.T) {
	tr := NewTransformer(nil)

	l, err := tr.Loan(row(map[string]string{
		"Id": "5", "EmployeeId": "12", "LoanAmount": "1000", "DeductionAmount": "0", "TransactionDate": "2024-01-15",
	}))
	require.NoError(t, err)

	assert.Equal(t, 5, l.ID)
	assert.Equal(t, 12, l.EmployeeID)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), l.Date)
	assert.Equal(t, loan.TypeLoan, l.Type)
	assert.True(t, l.Amount.Equal(dec("1000")))

	l, err = tr.Loan(row(map[string]string{
		"Id": "6", "EmployeeId": "12", "LoanAmount": "-400", "TransactionDate": "2024-02-01",
	}))
	require.NoError(t, err)
	assert.Equal(t, loan.TypeReturn, l.Type)
	assert.True(t, l.Amount.Equal(dec("400")))
}

func TestTransformer_Loan_Rejections(t *testing.T) {
	tr := NewTransformer(nil)

	cases := []struct {
		name   string
		fields map[string]string
		want   error
	}{
		{"missing id", map[string]string{"EmployeeId": "1", "LoanAmount": "10", "TransactionDate": "2024-01-01"}, ErrInvalidID},
		{"missing employee", map[string]string{"Id": "1", "LoanAmount": "10", "TransactionDate": "2024-01-01"}, ErrInvalidEmployeeID},
		{"zero amounts", map[string]string{"Id": "1", "EmployeeId": "1", "LoanAmount": "0", "DeductionAmount": "0", "TransactionDate": "2024-01-01"}, ErrZeroAmounts},
		{"missing date", map[string]string{"Id": "1", "EmployeeId": "1", "LoanAmount": "10"}, ErrMissingDate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := tr.Loan(row(c.fields))
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestTransformer_TrafficChallan(t *testing.T) {
	tr := NewTransformer(nil)

	c, err := tr.TrafficChallan(row(map[string]string{
		"Id": "9", "EmployeeId": "3", "ChallanAmount": "0", "DeductionAmount": "150", "TransactionDate": "2023-11-30",
	}))
	require.NoError(t, err)
	assert.Equal(t, challan.TypeReturn, c.Type)
	assert.True(t, c.Amount.Equal(dec("150")))

	c, err = tr.TrafficChallan(row(map[string]string{
		"Id": "10", "EmployeeId": "3", "ChallanAmount": "500", "TransactionDate": "2023-11-30",
	}))
	require.NoError(t, err)
	assert.Equal(t, challan.TypeChallan, c.Type)

	// a loan column does not count for challans
	_, err = tr.TrafficChallan(row(map[string]string{
		"Id": "11", "EmployeeId": "3", "LoanAmount": "500", "TransactionDate": "2023-11-30",
	}))
	assert.ErrorIs(t, err, ErrZeroAmounts)
}

func TestTransformer_Timesheet_RealisticDate(t *testing.T) {
	tr := NewTransformer(nil)

	cases := []struct {
		date string
		want error
	}{
		{"1999-12-31", ErrUnrealisticDate},
		{"2000-01-01", nil},
		{"2030-12-31", nil},
		{"2031-01-01", ErrUnrealisticDate},
		{"", ErrMissingDate},
		{"not a date", ErrMissingDate},
	}
	for _, c := range cases {
		_, err := tr.Timesheet(row(map[string]string{"Id": "1", "EmployeeId": "2", "Date": c.date}))
		if c.want == nil {
			assert.NoError(t, err, "date %q", c.date)
		} else {
			assert.ErrorIs(t, err, c.want, "date %q", c.date)
		}
	}
}

func TestTransformer_Timesheet_Fields(t *testing.T) {
	tr := NewTransformer(nil)

	ts, err := tr.Timesheet(row(map[string]string{
		"Id": "100", "EmployeeId": "12", "Date": "2024-03-05",
		"Project1Id": "4", "Project1Hours": "7.6", "Project1Overtime": "0.2",
		"Project2Id": "NULL", "Project2Hours": "2.5", "Project2Overtime": "",
		"Project3Id": "9", "Project3Hours": "5",
		"Description": "  site visit ",
	}))
	require.NoError(t, err)

	assert.Equal(t, 100, ts.ID)
	assert.Equal(t, 12, ts.EmployeeID)
	require.NotNil(t, ts.Project1ID)
	assert.Equal(t, 4, *ts.Project1ID)
	require.NotNil(t, ts.Project1Hours)
	assert.Equal(t, 8, *ts.Project1Hours)
	assert.Nil(t, ts.Project1Overtime, "overtime rounding to zero is absence")
	assert.Nil(t, ts.Project2ID)
	require.NotNil(t, ts.Project2Hours)
	assert.Equal(t, 3, *ts.Project2Hours)
	assert.Nil(t, ts.Project2Overtime)
	require.NotNil(t, ts.TotalHours)
	assert.Equal(t, 11, *ts.TotalHours, "third project is dropped from the computed total")
	require.NotNil(t, ts.Description)
	assert.Equal(t, "site visit", *ts.Description)

	_, err = tr.Timesheet(row(map[string]string{"EmployeeId": "12", "Date": "2024-03-05"}))
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = tr.Timesheet(row(map[string]string{"Id": "1", "Date": "2024-03-05"}))
	assert.ErrorIs(t, err, ErrInvalidEmployeeID)
}

func TestTransformer_PayrollDetail(t *testing.T) {
	tr := NewTransformer(nil)

	d, err := tr.PayrollDetail(row(map[string]string{
		"Id": "31", "PayrollId": "3", "EmployeeId": "12", "PayrollMonth": "1", "PayrollYear": "2024",
		"Salary": "3000", "Allowance": "150", "PaymentMethodId": "52", "NetSalaryPayable": "3150",
	}))
	require.NoError(t, err)

	assert.Equal(t, 31, d.ID)
	assert.Equal(t, 4, d.PaymentMethodID)
	assert.True(t, d.BreakfastAllowance.IsZero())
	assert.True(t, d.OtherAllowances.Equal(dec("150")))
	assert.True(t, d.TotalAllowances.Equal(d.BreakfastAllowance.Add(d.OtherAllowances)))
	assert.True(t, d.Salary.Equal(dec("3000")))

	remap := map[string]int{"52": 4, "53": 5, "51": 1, "50": 1, "": 1, "NULL": 1}
	for raw, want := range remap {
		d, err := tr.PayrollDetail(row(map[string]string{
			"PayrollId": "3", "EmployeeId": "12", "PayrollMonth": "1", "PayrollYear": "2024", "PaymentMethodId": raw,
		}))
		require.NoError(t, err)
		assert.Equal(t, want, d.PaymentMethodID, "payment method %q", raw)
	}
}

func TestTransformer_PayrollDetail_Rejections(t *testing.T) {
	tr := NewTransformer(nil)

	_, err := tr.PayrollDetail(row(map[string]string{"Id": "1", "PayrollMonth": "1", "PayrollYear": "2024"}))
	assert.ErrorIs(t, err, ErrInvalidEmployeeID)

	_, err = tr.PayrollDetail(row(map[string]string{"EmployeeId": "2", "PayrollMonth": "1", "PayrollYear": "2024"}))
	assert.ErrorIs(t, err, ErrMissingPayrollReference)

	_, err = tr.PayrollDetail(row(map[string]string{"Id": "1", "EmployeeId": "2", "PayrollMonth": "1", "PayrollYear": "2024"}))
	assert.ErrorIs(t, err, ErrMissingPayrollReference, "an Id does not replace the payroll header")

	_, err = tr.PayrollDetail(row(map[string]string{"Id": "1", "PayrollId": "3", "EmployeeId": "2", "PayrollMonth": "13", "PayrollYear": "2024"}))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestTransformer_PayrollSummary(t *testing.T) {
	tr := NewTransformer(nil)

	s, err := tr.PayrollSummary(row(map[string]string{
		"Id": "3", "PayrollMonth": "2", "PayrollYear": "2024", "BranchId": "NULL", "PayrollStatusId": "3",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, s.ID)
	assert.Nil(t, s.BranchID)
	assert.Equal(t, payroll.StatusPosted, s.PayrollStatusID)

	s, err = tr.PayrollSummary(row(map[string]string{"Id": "4", "PayrollMonth": "2", "PayrollYear": "2024", "BranchId": "2"}))
	require.NoError(t, err)
	require.NotNil(t, s.BranchID)
	assert.Equal(t, 2, *s.BranchID)
	assert.Equal(t, payroll.StatusDraft, s.PayrollStatusID)

	_, err = tr.PayrollSummary(row(map[string]string{"PayrollMonth": "2", "PayrollYear": "2024"}))
	assert.ErrorIs(t, err, ErrInvalidID)
}
