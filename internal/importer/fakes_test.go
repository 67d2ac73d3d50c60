package importer

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
)

var errNotUsed = errors.New("not used in importer tests")

// table is an in-memory keyed store with upsert semantics.
type table[K comparable, V any] struct {
	mu    sync.Mutex
	rows  map[K]V
	fail  map[K]bool // keys whose upsert returns an error
	syncs int
}

func newTable[K comparable, V any]() *table[K, V] {
	return &table[K, V]{rows: make(map[K]V), fail: make(map[K]bool)}
}

func (t *table[K, V]) upsert(k K, v V) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail[k] {
		return false, errors.New("constraint violation")
	}
	_, exists := t.rows[k]
	t.rows[k] = v
	return !exists, nil
}

func (t *table[K, V]) get(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[k]
	return v, ok
}

func (t *table[K, V]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *table[K, V]) sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncs++
	return nil
}

type fakeEmployees struct {
	*table[int, employee.Employee]
	ids []int
}

func (f *fakeEmployees) Upsert(ctx context.Context, e employee.Employee) (bool, error) {
	return f.upsert(e.ID, e)
}
func (f *fakeEmployees) GetByID(ctx context.Context, id int) (employee.Employee, error) {
	if e, ok := f.get(id); ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
func (f *fakeEmployees) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return employee.Employee{}, errNotUsed
}
func (f *fakeEmployees) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, errNotUsed
}
func (f *fakeEmployees) ListIDs(ctx context.Context) ([]int, error) {
	return f.ids, nil
}
func (f *fakeEmployees) ListCodes(ctx context.Context) (map[string]int, error) {
	return nil, errNotUsed
}
func (f *fakeEmployees) SyncIDSequence(ctx context.Context) error { return f.sync() }

type fakeLoans struct{ *table[int, loan.Loan] }

func (f *fakeLoans) Upsert(ctx context.Context, l loan.Loan) (bool, error) { return f.upsert(l.ID, l) }
func (f *fakeLoans) ListByEmployee(ctx context.Context, employeeID int) ([]loan.Loan, error) {
	return nil, errNotUsed
}
func (f *fakeLoans) SyncIDSequence(ctx context.Context) error { return f.sync() }

type fakeChallans struct{ *table[int, challan.TrafficChallan] }

func (f *fakeChallans) Upsert(ctx context.Context, c challan.TrafficChallan) (bool, error) {
	return f.upsert(c.ID, c)
}
func (f *fakeChallans) ListByEmployee(ctx context.Context, employeeID int) ([]challan.TrafficChallan, error) {
	return nil, errNotUsed
}
func (f *fakeChallans) SyncIDSequence(ctx context.Context) error { return f.sync() }

type fakeTimesheets struct{ *table[int, timesheet.Timesheet] }

func (f *fakeTimesheets) Upsert(ctx context.Context, t timesheet.Timesheet) (bool, error) {
	return f.upsert(t.ID, t)
}
func (f *fakeTimesheets) UpsertByEmployeeDate(ctx context.Context, t timesheet.Timesheet) (bool, error) {
	return false, errNotUsed
}
func (f *fakeTimesheets) List(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.Timesheet, int64, error) {
	return nil, 0, errNotUsed
}
func (f *fakeTimesheets) SyncIDSequence(ctx context.Context) error { return f.sync() }

type detailKeyPair struct{ payrollID, employeeID int }

type fakePayroll struct {
	summaries *table[int, payroll.Summary]
	details   *table[int, payroll.Detail]
	byPair    *table[detailKeyPair, payroll.Detail]

	mu    sync.Mutex
	calls []string // detail write order: "id", "sync" or "pair"
}

func (f *fakePayroll) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePayroll) UpsertSummary(ctx context.Context, s payroll.Summary) (bool, error) {
	return f.summaries.upsert(s.ID, s)
}
func (f *fakePayroll) GetSummaryByID(ctx context.Context, id int) (payroll.Summary, error) {
	if s, ok := f.summaries.get(id); ok {
		return s, nil
	}
	return payroll.Summary{}, payroll.ErrPayrollSummaryNotFound
}
func (f *fakePayroll) GetSummaryForUpdate(ctx context.Context, p payroll.Period) (payroll.Summary, error) {
	return payroll.Summary{}, errNotUsed
}
func (f *fakePayroll) ListSummaries(ctx context.Context, filter payroll.SummaryFilter) ([]payroll.Summary, int64, error) {
	return nil, 0, errNotUsed
}
func (f *fakePayroll) UpdateSummaryTotals(ctx context.Context, id int, totals payroll.Totals, statusID int) error {
	return errNotUsed
}
func (f *fakePayroll) SyncSummaryIDSequence(ctx context.Context) error { return f.summaries.sync() }
func (f *fakePayroll) UpsertDetail(ctx context.Context, d payroll.Detail) (bool, error) {
	f.record("id")
	return f.details.upsert(d.ID, d)
}
func (f *fakePayroll) UpsertDetailByPayrollEmployee(ctx context.Context, d payroll.Detail) (bool, error) {
	f.record("pair")
	return f.byPair.upsert(detailKeyPair{d.PayrollID, d.EmployeeID}, d)
}
func (f *fakePayroll) ListDetailsByPeriod(ctx context.Context, p payroll.Period) ([]payroll.Detail, error) {
	return nil, errNotUsed
}
func (f *fakePayroll) ListDetailsBySummary(ctx context.Context, summaryID int) ([]payroll.Detail, error) {
	return nil, errNotUsed
}
func (f *fakePayroll) SyncDetailIDSequence(ctx context.Context) error {
	f.record("sync")
	return f.details.sync()
}

// fakeTx runs fn directly and counts transactions.
type fakeTx struct {
	mu  sync.Mutex
	txs int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.txs++
	f.mu.Unlock()
	return fn(ctx)
}

type fakeStores struct {
	employees  *fakeEmployees
	loans      *fakeLoans
	challans   *fakeChallans
	timesheets *fakeTimesheets
	payroll    *fakePayroll
	tx         *fakeTx
}

func newFakeStores(knownEmployees ...int) *fakeStores {
	sort.Ints(knownEmployees)
	return &fakeStores{
		employees:  &fakeEmployees{table: newTable[int, employee.Employee](), ids: knownEmployees},
		loans:      &fakeLoans{newTable[int, loan.Loan]()},
		challans:   &fakeChallans{newTable[int, challan.TrafficChallan]()},
		timesheets: &fakeTimesheets{newTable[int, timesheet.Timesheet]()},
		payroll: &fakePayroll{
			summaries: newTable[int, payroll.Summary](),
			details:   newTable[int, payroll.Detail](),
			byPair:    newTable[detailKeyPair, payroll.Detail](),
		},
		tx: &fakeTx{},
	}
}

func (f *fakeStores) Stores() Stores {
	return Stores{
		Employees:  f.employees,
		Loans:      f.loans,
		Challans:   f.challans,
		Timesheets: f.timesheets,
		Payroll:    f.payroll,
		Tx:         f.tx,
	}
}
