package importer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestFilterKnownEmployees(t *testing.T) {
	known := NewEmployeeSet([]int{1, 12})
	records := []loan.Loan{
		{ID: 1, EmployeeID: 12},
		{ID: 2, EmployeeID: 999},
		{ID: 3, EmployeeID: 1},
		{ID: 4, EmployeeID: 999},
	}

	accepted, missing := FilterKnownEmployees(records, known, func(l loan.Loan) int { return l.EmployeeID })

	assert.Equal(t, []loan.Loan{{ID: 1, EmployeeID: 12}, {ID: 3, EmployeeID: 1}}, accepted)
	assert.Len(t, missing, 2)
}

func TestGroupTimesheets(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }

	records := []timesheet.Timesheet{
		{ID: 1, EmployeeID: 7, Date: day(3)},
		{ID: 2, EmployeeID: 2, Date: day(5)},
		{ID: 3, EmployeeID: 7, Date: day(1)},
		{ID: 4, EmployeeID: 7, Date: day(3)},
		{ID: 5, EmployeeID: 2, Date: day(4)},
	}

	groups := GroupTimesheets(records)
	require.Len(t, groups, 2)

	assert.Equal(t, 2, groups[0].EmployeeID)
	assert.Equal(t, []int{5, 2}, ids(groups[0].Timesheets))

	assert.Equal(t, 7, groups[1].EmployeeID)
	assert.Equal(t, []int{3, 1, 4}, ids(groups[1].Timesheets), "same-date rows keep input order")
}

func ids(ts []timesheet.Timesheet) []int {
	out := make([]int, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestAttachTotals(t *testing.T) {
	one, two := 1, 2
	details := []payroll.Detail{
		{PayrollMonth: 1, PayrollYear: 2024, BranchID: &one, Salary: dec("1000"), CashSalary: dec("1000")},
		{PayrollMonth: 1, PayrollYear: 2024, BranchID: &two, Salary: dec("2000"), CardSalary: dec("2000")},
		{PayrollMonth: 2, PayrollYear: 2024, BranchID: &one, Salary: dec("9999")},
	}
	summaries := []payroll.Summary{
		{ID: 1, PayrollMonth: 1, PayrollYear: 2024},
		{ID: 2, PayrollMonth: 1, PayrollYear: 2024, BranchID: &two},
		{ID: 3, PayrollMonth: 3, PayrollYear: 2024},
	}

	got := AttachTotals(summaries, details)

	assert.True(t, got[0].TotalSalary.Equal(dec("3000")))
	assert.True(t, got[0].TotalCashSalary.Equal(dec("1000")))
	assert.True(t, got[0].TotalCardSalary.Equal(dec("2000")))
	assert.True(t, got[1].TotalSalary.Equal(dec("2000")))
	assert.True(t, got[2].TotalSalary.IsZero())
}

func TestWriter_BatchesAndFailures(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	items := make([]int, 7)
	for i := range items {
		items[i] = i + 1
	}

	w := &Writer[int]{
		BatchSize: 3,
		Logger:    quietLogger(),
		Write: func(ctx context.Context, n int) (Outcome, error) {
			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				prev := maxInFlight.Load()
				if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
					break
				}
			}
			if n == 5 {
				return Outcome{}, errors.New("boom")
			}
			if n%2 == 0 {
				return Outcome{Updated: 1}, nil
			}
			return Outcome{Inserted: 1}, nil
		},
		Key: func(n int) string { return "item " + strconv.Itoa(n) },
	}

	report := NewReport("items")
	require.NoError(t, w.Run(context.Background(), items, report))

	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []Failure{{Key: "item 5", Message: "boom"}}, report.Failures)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(3))
}

func TestWriter_GroupFailureCountsEveryRecord(t *testing.T) {
	w := &Writer[[]int]{
		Logger: quietLogger(),
		Write: func(ctx context.Context, g []int) (Outcome, error) {
			return Outcome{}, errors.New("tx aborted")
		},
		Key:  func(g []int) string { return "group" },
		Size: func(g []int) int { return len(g) },
	}

	report := NewReport("groups")
	require.NoError(t, w.Run(context.Background(), [][]int{{1, 2, 3}}, report))

	assert.Equal(t, 3, report.Failed)
	assert.Len(t, report.Failures, 1)
}

func TestWriter_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &Writer[int]{
		Logger: quietLogger(),
		Write:  func(ctx context.Context, n int) (Outcome, error) { return Outcome{Inserted: 1}, nil },
		Key:    func(n int) string { return "" },
	}
	report := NewReport("items")

	assert.ErrorIs(t, w.Run(ctx, []int{1}, report), context.Canceled)
	assert.Zero(t, report.Inserted)
}

func loanRows() []source.Row {
	return []source.Row{
		{Line: 2, Fields: map[string]string{"Id": "5", "EmployeeId": "12", "LoanAmount": "1000", "DeductionAmount": "0", "TransactionDate": "2024-01-15"}},
		{Line: 3, Fields: map[string]string{"Id": "6", "EmployeeId": "999", "LoanAmount": "1000", "DeductionAmount": "0", "TransactionDate": "2024-01-15"}},
		{Line: 4, Fields: map[string]string{"Id": "7", "EmployeeId": "12", "LoanAmount": "0", "DeductionAmount": "0", "TransactionDate": "2024-01-16"}},
		{Line: 5, Fields: map[string]string{"Id": "8", "EmployeeId": "12", "LoanAmount": "0", "DeductionAmount": "250", "TransactionDate": "2024-02-15"}},
		{Line: 6, Fields: map[string]string{"Id": "NULL", "EmployeeId": "12", "LoanAmount": "10", "TransactionDate": "2024-02-15"}},
	}
}

func TestImportLoans(t *testing.T) {
	stores := newFakeStores(12)
	im := New(stores.Stores(), nil, Options{Logger: quietLogger()})

	report, err := im.ImportLoans(context.Background(), loanRows())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Processed)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, map[string]int{"missing employee": 1, "zero amounts": 1, "invalid id": 1}, report.SkipReasons)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, stores.loans.syncs)

	got, ok := stores.loans.get(5)
	require.True(t, ok)
	assert.Equal(t, 12, got.EmployeeID)
	assert.Equal(t, loan.TypeLoan, got.Type)
	assert.True(t, got.Amount.Equal(dec("1000")))
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got.Date)

	_, ok = stores.loans.get(6)
	assert.False(t, ok, "unknown employee never reaches the writer")

	got, ok = stores.loans.get(8)
	require.True(t, ok)
	assert.Equal(t, loan.TypeReturn, got.Type)
}

func TestImportLoans_Idempotent(t *testing.T) {
	stores := newFakeStores(12)
	im := New(stores.Stores(), nil, Options{Logger: quietLogger()})

	first, err := im.ImportLoans(context.Background(), loanRows())
	require.NoError(t, err)
	snapshot := map[int]loan.Loan{}
	for _, id := range []int{5, 8} {
		l, _ := stores.loans.get(id)
		snapshot[id] = l
	}

	second, err := im.ImportLoans(context.Background(), loanRows())
	require.NoError(t, err)

	assert.Equal(t, 2, stores.loans.len())
	assert.Equal(t, first.Inserted, second.Updated)
	assert.Zero(t, second.Inserted)
	for id, want := range snapshot {
		got, _ := stores.loans.get(id)
		assert.Equal(t, want, got)
	}
}

func TestImportLoans_WriteFailuresDoNotAbort(t *testing.T) {
	stores := newFakeStores(12)
	stores.loans.fail[5] = true
	im := New(stores.Stores(), nil, Options{Logger: quietLogger()})

	report, err := im.ImportLoans(context.Background(), loanRows())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "loan 5", report.Failures[0].Key)
}

func TestImportTimesheets(t *testing.T) {
	stores := newFakeStores(1, 2)
	dir := t.TempDir()
	out, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	im := New(stores.Stores(), nil, Options{Logger: quietLogger(), Output: out, BatchSize: 1})

	rows := []source.Row{
		{Line: 2, Fields: map[string]string{"Id": "10", "EmployeeId": "2", "Date": "2024-01-02", "Project1Hours": "8"}},
		{Line: 3, Fields: map[string]string{"Id": "11", "EmployeeId": "1", "Date": "2024-01-01", "Project1Hours": "10"}},
		{Line: 4, Fields: map[string]string{"Id": "12", "EmployeeId": "2", "Date": "2024-01-01", "Project1Hours": "9"}},
		{Line: 5, Fields: map[string]string{"Id": "13", "EmployeeId": "3", "Date": "2024-01-01", "Project1Hours": "9"}},
		{Line: 6, Fields: map[string]string{"Id": "14", "EmployeeId": "1", "Date": "1999-01-01", "Project1Hours": "9"}},
	}

	report, err := im.ImportTimesheets(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Accepted)
	assert.Equal(t, map[string]int{"missing employee": 1, "unrealistic date": 1}, report.SkipReasons)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 2, stores.tx.txs, "one transaction per employee")
	assert.Equal(t, []string{"timesheets/employee-1.json", "timesheets/employee-2.json"}, report.Outputs)

	assert.FileExists(t, filepath.Join(dir, "timesheets", "employee-2.json"))
}

func TestImportPayrollDetails_CompositeKeyFallback(t *testing.T) {
	stores := newFakeStores(12, 13)
	im := New(stores.Stores(), nil, Options{Logger: quietLogger()})

	rows := []source.Row{
		{Line: 2, Fields: map[string]string{"Id": "1", "PayrollId": "3", "EmployeeId": "12", "PayrollMonth": "1", "PayrollYear": "2024"}},
		{Line: 3, Fields: map[string]string{"PayrollId": "3", "EmployeeId": "13", "PayrollMonth": "1", "PayrollYear": "2024"}},
		{Line: 4, Fields: map[string]string{"EmployeeId": "13", "PayrollMonth": "1", "PayrollYear": "2024"}},
	}

	for run := 0; run < 2; run++ {
		report, err := im.ImportPayrollDetails(context.Background(), rows)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"missing payroll reference": 1}, report.SkipReasons)
		assert.Equal(t, 2, report.Written())
	}

	assert.Equal(t, 1, stores.payroll.details.len())
	assert.Equal(t, 1, stores.payroll.byPair.len())
}

func TestImportPayrollDetails_ExplicitIDsBeforeSequenceRows(t *testing.T) {
	stores := newFakeStores(12, 13, 14)
	im := New(stores.Stores(), nil, Options{Logger: quietLogger(), BatchSize: 1})

	rows := []source.Row{
		{Line: 2, Fields: map[string]string{"PayrollId": "7", "EmployeeId": "13", "PayrollMonth": "1", "PayrollYear": "2024"}},
		{Line: 3, Fields: map[string]string{"Id": "1", "PayrollId": "7", "EmployeeId": "12", "PayrollMonth": "1", "PayrollYear": "2024"}},
		{Line: 4, Fields: map[string]string{"PayrollId": "7", "EmployeeId": "14", "PayrollMonth": "1", "PayrollYear": "2024"}},
		{Line: 5, Fields: map[string]string{"Id": "2", "PayrollId": "7", "EmployeeId": "14", "PayrollMonth": "1", "PayrollYear": "2024"}},
	}

	report, err := im.ImportPayrollDetails(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Inserted)
	assert.Equal(t, []string{"id", "id", "sync", "pair", "pair"}, stores.payroll.calls)
}

func TestImportPayrollSummaries(t *testing.T) {
	stores := newFakeStores()
	im := New(stores.Stores(), nil, Options{Logger: quietLogger()})

	summaryRows := []source.Row{
		{Line: 2, Fields: map[string]string{"Id": "3", "PayrollMonth": "1", "PayrollYear": "2024", "PayrollStatusId": "1"}},
		{Line: 3, Fields: map[string]string{"Id": "NULL", "PayrollMonth": "1", "PayrollYear": "2024"}},
	}
	detailRows := []source.Row{
		{Line: 2, Fields: map[string]string{"Id": "1", "PayrollId": "3", "EmployeeId": "12", "PayrollMonth": "1", "PayrollYear": "2024", "Salary": "1000", "NetSalaryPayable": "900"}},
		{Line: 3, Fields: map[string]string{"Id": "2", "PayrollId": "3", "EmployeeId": "13", "PayrollMonth": "1", "PayrollYear": "2024", "Salary": "500.25", "NetSalaryPayable": "500.25"}},
		{Line: 4, Fields: map[string]string{"Id": "3", "PayrollId": "4", "EmployeeId": "13", "PayrollMonth": "2", "PayrollYear": "2024", "Salary": "7000"}},
	}

	report, err := im.ImportPayrollSummaries(context.Background(), summaryRows, detailRows)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, map[string]int{"invalid id": 1}, report.SkipReasons)

	s, ok := stores.payroll.summaries.get(3)
	require.True(t, ok)
	assert.True(t, s.TotalSalary.Equal(dec("1500.25")))
	assert.True(t, s.TotalNetSalaryPayable.Equal(dec("1400.25")))
}

func TestReport_Print(t *testing.T) {
	r := NewReport(EntityLoans)
	r.Processed = 3
	r.Skip(ErrZeroAmounts)
	r.Skip(ErrMissingEmployee)
	r.Skip(ErrMissingEmployee)
	r.Inserted = 1
	r.Fail("loan 9", errors.New("duplicate key"))
	r.Finish()

	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "loans import")
	assert.Contains(t, out, "missing employee:")
	assert.Contains(t, out, "skipped:   3")
	assert.Contains(t, out, "loan 9: duplicate key")
}
