// Package importer loads historical HR and payroll exports into the store.
// Each run reads rows, transforms them, drops records that reference unknown
// employees, optionally groups them and upserts them in batches.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/storage"
)

// Entity names used in reports, dump file names and CLI subcommands.
const (
	EntityEmployees        = "employees"
	EntityLoans            = "loans"
	EntityTrafficChallans  = "traffic-challans"
	EntityTimesheets       = "timesheets"
	EntityPayrollDetails   = "payroll-details"
	EntityPayrollSummaries = "payroll-summaries"
)

type Stores struct {
	Employees  employee.EmployeeRepository
	Loans      loan.LoanRepository
	Challans   challan.ChallanRepository
	Timesheets timesheet.TimesheetRepository
	Payroll    payroll.PayrollRepository
	Tx         database.Transactor
}

type Options struct {
	BatchSize int
	// Output receives JSON dumps of accepted records. Nil disables dumps.
	Output storage.FileStorage
	Logger *slog.Logger
}

type Importer struct {
	stores      Stores
	transformer *Transformer
	opts        Options
	logger      *slog.Logger
}

func New(stores Stores, lookups *Lookups, opts Options) *Importer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Importer{
		stores:      stores,
		transformer: NewTransformer(lookups),
		opts:        opts,
		logger:      logger,
	}
}

// transformAll applies fn to every row, counting rejections on report.
func transformAll[T any](logger *slog.Logger, report *Report, rows []source.Row, fn func(source.Row) (T, error)) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		report.Processed++
		rec, err := fn(row)
		if err != nil {
			logger.Debug("row skipped",
				slog.String("entity", report.Entity),
				slog.Int("line", row.Line),
				slog.String("reason", err.Error()),
			)
			report.Skip(err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (im *Importer) knownEmployees(ctx context.Context) (EmployeeSet, error) {
	ids, err := im.stores.Employees.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee ids: %w", err)
	}
	return NewEmployeeSet(ids), nil
}

func (im *Importer) dump(ctx context.Context, report *Report, name string, v any) error {
	if im.opts.Output == nil {
		return nil
	}
	key, err := storage.WriteJSON(ctx, im.opts.Output, name, v)
	if err != nil {
		return fmt.Errorf("failed to dump %s: %w", report.Entity, err)
	}
	report.Outputs = append(report.Outputs, key)
	return nil
}

func (im *Importer) finish(report *Report) *Report {
	report.Finish()
	im.logger.Info("import finished", slog.Any("report", report))
	return report
}

// ImportEmployees upserts employees by their explicit ID.
func (im *Importer) ImportEmployees(ctx context.Context, rows []source.Row) (*Report, error) {
	report := NewReport(EntityEmployees)

	records := transformAll(im.logger, report, rows, im.transformer.Employee)
	report.Accepted = len(records)

	if err := im.dump(ctx, report, EntityEmployees+".json", records); err != nil {
		return report, err
	}

	w := &Writer[employee.Employee]{
		BatchSize: im.opts.BatchSize,
		Logger:    im.logger,
		Write:     Upsert(im.stores.Employees.Upsert),
		Key:       func(e employee.Employee) string { return "employee " + strconv.Itoa(e.ID) },
	}
	if err := w.Run(ctx, records, report); err != nil {
		return report, err
	}
	if err := im.stores.Employees.SyncIDSequence(ctx); err != nil {
		return report, err
	}
	return im.finish(report), nil
}

// ImportLoans upserts loan ledger entries of known employees.
func (im *Importer) ImportLoans(ctx context.Context, rows []source.Row) (*Report, error) {
	report := NewReport(EntityLoans)

	known, err := im.knownEmployees(ctx)
	if err != nil {
		return report, err
	}

	records := transformAll(im.logger, report, rows, im.transformer.Loan)
	records, missing := FilterKnownEmployees(records, known, func(l loan.Loan) int { return l.EmployeeID })
	report.SkipN(ErrMissingEmployee, len(missing))
	report.Accepted = len(records)

	if err := im.dump(ctx, report, EntityLoans+".json", records); err != nil {
		return report, err
	}

	w := &Writer[loan.Loan]{
		BatchSize: im.opts.BatchSize,
		Logger:    im.logger,
		Write:     Upsert(im.stores.Loans.Upsert),
		Key:       func(l loan.Loan) string { return "loan " + strconv.Itoa(l.ID) },
	}
	if err := w.Run(ctx, records, report); err != nil {
		return report, err
	}
	if err := im.stores.Loans.SyncIDSequence(ctx); err != nil {
		return report, err
	}
	return im.finish(report), nil
}

// ImportTrafficChallans upserts traffic challan ledger entries of known employees.
func (im *Importer) ImportTrafficChallans(ctx context.Context, rows []source.Row) (*Report, error) {
	report := NewReport(EntityTrafficChallans)

	known, err := im.knownEmployees(ctx)
	if err != nil {
		return report, err
	}

	records := transformAll(im.logger, report, rows, im.transformer.TrafficChallan)
	records, missing := FilterKnownEmployees(records, known, func(c challan.TrafficChallan) int { return c.EmployeeID })
	report.SkipN(ErrMissingEmployee, len(missing))
	report.Accepted = len(records)

	if err := im.dump(ctx, report, EntityTrafficChallans+".json", records); err != nil {
		return report, err
	}

	w := &Writer[challan.TrafficChallan]{
		BatchSize: im.opts.BatchSize,
		Logger:    im.logger,
		Write:     Upsert(im.stores.Challans.Upsert),
		Key:       func(c challan.TrafficChallan) string { return "traffic challan " + strconv.Itoa(c.ID) },
	}
	if err := w.Run(ctx, records, report); err != nil {
		return report, err
	}
	if err := im.stores.Challans.SyncIDSequence(ctx); err != nil {
		return report, err
	}
	return im.finish(report), nil
}

// ImportTimesheets groups timesheets per employee and writes each group in
// its own transaction. Dumps are one JSON file per employee.
func (im *Importer) ImportTimesheets(ctx context.Context, rows []source.Row) (*Report, error) {
	report := NewReport(EntityTimesheets)

	known, err := im.knownEmployees(ctx)
	if err != nil {
		return report, err
	}

	records := transformAll(im.logger, report, rows, im.transformer.Timesheet)
	records, missing := FilterKnownEmployees(records, known, func(t timesheet.Timesheet) int { return t.EmployeeID })
	report.SkipN(ErrMissingEmployee, len(missing))
	report.Accepted = len(records)

	groups := GroupTimesheets(records)
	for _, g := range groups {
		name := path.Join(EntityTimesheets, "employee-"+strconv.Itoa(g.EmployeeID)+".json")
		if err := im.dump(ctx, report, name, g.Timesheets); err != nil {
			return report, err
		}
	}

	w := &Writer[EmployeeTimesheets]{
		BatchSize: im.opts.BatchSize,
		Logger:    im.logger,
		Write:     im.writeTimesheetGroup,
		Key:       func(g EmployeeTimesheets) string { return "timesheets of employee " + strconv.Itoa(g.EmployeeID) },
		Size:      func(g EmployeeTimesheets) int { return len(g.Timesheets) },
	}
	if err := w.Run(ctx, groups, report); err != nil {
		return report, err
	}
	if err := im.stores.Timesheets.SyncIDSequence(ctx); err != nil {
		return report, err
	}
	return im.finish(report), nil
}

func (im *Importer) writeTimesheetGroup(ctx context.Context, g EmployeeTimesheets) (Outcome, error) {
	var outcome Outcome
	err := im.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		outcome = Outcome{}
		for _, ts := range g.Timesheets {
			inserted, err := im.stores.Timesheets.Upsert(ctx, ts)
			if err != nil {
				return fmt.Errorf("timesheet %d: %w", ts.ID, err)
			}
			if inserted {
				outcome.Inserted++
			} else {
				outcome.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// ImportPayrollDetails upserts payroll lines by ID, or by (payroll, employee)
// when the source carries no ID.
func (im *Importer) ImportPayrollDetails(ctx context.Context, rows []source.Row) (*Report, error) {
	report := NewReport(EntityPayrollDetails)

	known, err := im.knownEmployees(ctx)
	if err != nil {
		return report, err
	}

	records := transformAll(im.logger, report, rows, im.transformer.PayrollDetail)
	records, missing := FilterKnownEmployees(records, known, func(d payroll.Detail) int { return d.EmployeeID })
	report.SkipN(ErrMissingEmployee, len(missing))
	report.Accepted = len(records)

	if err := im.dump(ctx, report, EntityPayrollDetails+".json", records); err != nil {
		return report, err
	}

	// Composite-key rows draw their id from the sequence, so it has to be past
	// every explicit id before they are inserted.
	var byID, byPair []payroll.Detail
	for _, d := range records {
		if d.ID == 0 {
			byPair = append(byPair, d)
		} else {
			byID = append(byID, d)
		}
	}

	w := &Writer[payroll.Detail]{
		BatchSize: im.opts.BatchSize,
		Logger:    im.logger,
		Write:     Upsert(im.stores.Payroll.UpsertDetail),
		Key:       detailKey,
	}
	if err := w.Run(ctx, byID, report); err != nil {
		return report, err
	}
	if err := im.stores.Payroll.SyncDetailIDSequence(ctx); err != nil {
		return report, err
	}

	w.Write = Upsert(im.stores.Payroll.UpsertDetailByPayrollEmployee)
	if err := w.Run(ctx, byPair, report); err != nil {
		return report, err
	}
	return im.finish(report), nil
}

func detailKey(d payroll.Detail) string {
	if d.ID != 0 {
		return "payroll detail " + strconv.Itoa(d.ID)
	}
	return fmt.Sprintf("payroll detail (payroll %d, employee %d)", d.PayrollID, d.EmployeeID)
}

// ImportPayrollSummaries upserts payroll headers whose totals are summed
// from the detail rows of the same period.
func (im *Importer) ImportPayrollSummaries(ctx context.Context, summaryRows, detailRows []source.Row) (*Report, error) {
	report := NewReport(EntityPayrollSummaries)

	summaries := transformAll(im.logger, report, summaryRows, im.transformer.PayrollSummary)
	report.Accepted = len(summaries)

	details := make([]payroll.Detail, 0, len(detailRows))
	for _, row := range detailRows {
		if d, err := im.transformer.PayrollDetail(row); err == nil {
			details = append(details, d)
		}
	}
	summaries = AttachTotals(summaries, details)

	if err := im.dump(ctx, report, EntityPayrollSummaries+".json", summaries); err != nil {
		return report, err
	}

	w := &Writer[payroll.Summary]{
		BatchSize: im.opts.BatchSize,
		Logger:    im.logger,
		Write:     Upsert(im.stores.Payroll.UpsertSummary),
		Key:       func(s payroll.Summary) string { return "payroll summary " + strconv.Itoa(s.ID) },
	}
	if err := w.Run(ctx, summaries, report); err != nil {
		return report, err
	}
	if err := im.stores.Payroll.SyncSummaryIDSequence(ctx); err != nil {
		return report, err
	}
	return im.finish(report), nil
}
